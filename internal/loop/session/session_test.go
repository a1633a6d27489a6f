package session

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/tomz197/popcatch/internal/loop/config"
	"github.com/tomz197/popcatch/internal/object"
)

func newRunning(t *testing.T, seed int64) *GameSession {
	t.Helper()
	s := New(config.DefaultTuning(), rand.New(rand.NewSource(seed)))
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return s
}

// refTick advances exactly one reference frame so velocities apply unscaled.
func refTick(s *GameSession) TickResult {
	return s.Tick(s.tuning.ReferenceFrame)
}

func TestStartTransitions(t *testing.T) {
	s := New(config.DefaultTuning(), nil)
	if s.Phase() != PhaseIdle {
		t.Fatalf("new session phase = %v, want idle", s.Phase())
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !s.Running() {
		t.Fatalf("phase = %v, want running", s.Phase())
	}
	if err := s.Start(); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("second Start = %v, want ErrAlreadyRunning", err)
	}
}

func TestTickIsNoOpWhenNotRunning(t *testing.T) {
	s := New(config.DefaultTuning(), rand.New(rand.NewSource(1)))
	res := s.Tick(time.Second)
	if res != (TickResult{}) || s.Elapsed() != 0 || len(s.Popcorns()) != 0 {
		t.Fatalf("idle tick changed state: %+v elapsed=%v", res, s.Elapsed())
	}
}

func TestFirstSpawnAfterDelay(t *testing.T) {
	s := newRunning(t, 1)
	for i := 0; i < 29; i++ {
		s.Tick(10 * time.Millisecond)
	}
	if n := len(s.Popcorns()); n != 0 {
		t.Fatalf("spawned %d objects before first spawn delay", n)
	}
	res := s.Tick(10 * time.Millisecond)
	if res.Spawned != 1 || len(s.Popcorns()) != 1 {
		t.Fatalf("expected one spawn at 300ms, got %+v (%d live)", res, len(s.Popcorns()))
	}
	p := s.Popcorns()[0]
	if p.Y <= s.tuning.SpawnY-1 || p.VY <= 0 {
		t.Fatalf("unexpected launch state: %+v", *p)
	}
}

func TestCatchScoresOnce(t *testing.T) {
	s := newRunning(t, 1)
	s.nextSpawn = time.Hour

	// Catcher spans [260, 380], mouth band [388, 406]
	c := s.Catcher()
	if c.X != 260 || c.MouthY(s.tuning) != 388 {
		t.Fatalf("catcher at x=%v mouth=%v", c.X, c.MouthY(s.tuning))
	}

	p := &object.Popcorn{X: c.CenterX(), Y: 371, VY: 4, Radius: 14}
	s.Spawn(p)
	s.FlushSpawned()

	res := refTick(s)
	if res.Caught != 1 || s.Score() != 1 {
		t.Fatalf("expected one catch, got %+v score=%d", res, s.Score())
	}
	if !p.Caught || !p.Dead {
		t.Fatalf("caught popcorn not retired: %+v", *p)
	}
	if len(s.Popcorns()) != 0 {
		t.Fatalf("caught popcorn not purged: %d live", len(s.Popcorns()))
	}
	if len(s.Particles()) == 0 {
		t.Fatal("expected catch burst particles")
	}

	for i := 0; i < 10; i++ {
		refTick(s)
	}
	if s.Score() != 1 {
		t.Fatalf("score changed after purge: %d", s.Score())
	}
}

func TestFastDropsAreCaughtAtGravityCeiling(t *testing.T) {
	for y := 20.0; y < 40; y++ {
		s := newRunning(t, 1)
		s.nextSpawn = 2 * time.Hour
		s.elapsed = time.Hour
		if g := s.scheduler.Gravity(s.elapsed); g != s.tuning.GravityCeiling {
			t.Fatalf("gravity = %v, want ceiling %v", g, s.tuning.GravityCeiling)
		}

		c := s.Catcher()
		p := &object.Popcorn{X: c.CenterX(), Y: y, VY: s.tuning.LaunchVY, Radius: s.tuning.ObjectRadius}
		s.Spawn(p)
		s.FlushSpawned()

		caught := 0
		for i := 0; i < 200 && s.Running() && caught == 0; i++ {
			caught += refTick(s).Caught
		}
		if caught != 1 || !s.Running() {
			t.Fatalf("drop from y=%v: caught=%d phase=%v", y, caught, s.Phase())
		}
	}
}

func TestNoCatchAfterPassingBand(t *testing.T) {
	s := newRunning(t, 1)
	s.nextSpawn = time.Hour
	c := s.Catcher()

	// Lower edge moves from 410 to 414, below the band [388, 406]
	p := &object.Popcorn{X: c.CenterX(), Y: 396, VY: 4, Radius: 14}
	s.Spawn(p)
	s.FlushSpawned()

	if res := refTick(s); res.Caught != 0 {
		t.Fatalf("object below the mouth was caught: %+v", res)
	}
}

func TestNoCatchWhileRising(t *testing.T) {
	s := newRunning(t, 1)
	s.nextSpawn = time.Hour
	c := s.Catcher()

	p := &object.Popcorn{X: c.CenterX(), Y: 385, VY: -10, Radius: 14}
	s.Spawn(p)
	s.FlushSpawned()

	res := refTick(s)
	if res.Caught != 0 || s.Score() != 0 {
		t.Fatalf("rising object was caught: %+v", res)
	}
}

func TestNoCatchOutsideCatcherSpan(t *testing.T) {
	s := newRunning(t, 1)
	s.nextSpawn = time.Hour
	c := s.Catcher()

	p := &object.Popcorn{X: c.X + c.W + 20, Y: 371, VY: 4, Radius: 14}
	s.Spawn(p)
	s.FlushSpawned()

	refTick(s)
	if s.Score() != 0 || p.Caught {
		t.Fatalf("object beside catcher was caught")
	}
}

func TestFloorEndsSessionOnce(t *testing.T) {
	s := newRunning(t, 1)
	s.nextSpawn = time.Hour

	// Floor line is 472; bottom reaches 474 after one frame
	p := &object.Popcorn{X: 50, Y: 455, VY: 5, Radius: 14}
	s.Spawn(p)
	s.FlushSpawned()

	res := refTick(s)
	if !res.GameOver || !s.Done() {
		t.Fatalf("expected game over, got %+v phase=%v", res, s.Phase())
	}

	elapsed := s.Elapsed()
	for i := 0; i < 5; i++ {
		if res := refTick(s); res.GameOver {
			t.Fatal("game over reported twice")
		}
	}
	if s.Elapsed() != elapsed {
		t.Fatalf("clock advanced after game over: %v -> %v", elapsed, s.Elapsed())
	}
}

func TestRestartResetsState(t *testing.T) {
	s := newRunning(t, 1)
	s.nextSpawn = time.Hour
	s.Spawn(&object.Popcorn{X: 50, Y: 455, VY: 5, Radius: 14})
	s.FlushSpawned()
	s.SetPointer(600)
	refTick(s)
	if !s.Done() {
		t.Fatal("expected game over")
	}

	if err := s.Start(); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if s.Score() != 0 || s.Elapsed() != 0 || len(s.Popcorns()) != 0 || len(s.Particles()) != 0 {
		t.Fatalf("restart kept state: score=%d elapsed=%v", s.Score(), s.Elapsed())
	}
	if s.Catcher().Target != nil || s.Catcher().X != 260 {
		t.Fatalf("catcher not recentered: %+v", *s.Catcher())
	}
}

func TestCatcherFollowsPointer(t *testing.T) {
	s := newRunning(t, 1)
	s.nextSpawn = time.Hour
	s.SetPointer(1000)
	for i := 0; i < 200; i++ {
		refTick(s)
	}
	c := s.Catcher()
	want := s.tuning.Width - c.W - s.tuning.CatcherEdge
	if c.X > want || want-c.X > 0.01 {
		t.Fatalf("catcher x = %v, want near %v", c.X, want)
	}
}

// play runs a session with the pointer chasing the lowest falling object.
func play(s *GameSession, maxTicks int) (caught int, overs int) {
	for i := 0; i < maxTicks && s.Running(); i++ {
		var lowest *object.Popcorn
		for _, p := range s.Popcorns() {
			if lowest == nil || p.Y > lowest.Y {
				lowest = p
			}
		}
		if lowest != nil {
			s.SetPointer(lowest.X)
		}
		res := s.Tick(16 * time.Millisecond)
		caught += res.Caught
		if res.GameOver {
			overs++
		}
	}
	return caught, overs
}

func TestScoreMatchesCatches(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		s := newRunning(t, seed)
		caught, overs := play(s, 20000)
		if caught != s.Score() {
			t.Fatalf("seed %d: score %d, catches reported %d", seed, s.Score(), caught)
		}
		if overs > 1 {
			t.Fatalf("seed %d: game over reported %d times", seed, overs)
		}
		if s.Done() != (overs == 1) {
			t.Fatalf("seed %d: phase %v with %d game overs", seed, s.Phase(), overs)
		}
	}
}

func TestSameSeedSameGame(t *testing.T) {
	a := newRunning(t, 42)
	b := newRunning(t, 42)
	play(a, 5000)
	play(b, 5000)
	if a.Score() != b.Score() || a.Elapsed() != b.Elapsed() || a.Phase() != b.Phase() {
		t.Fatalf("runs diverged: %d/%v/%v vs %d/%v/%v",
			a.Score(), a.Elapsed(), a.Phase(), b.Score(), b.Elapsed(), b.Phase())
	}
}
