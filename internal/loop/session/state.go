// Package session owns a single player's game: the falling objects, the
// catcher, the score and the Idle -> Running -> GameOver state machine.
package session

import (
	"errors"
	"math/rand"
	"time"

	"github.com/tomz197/popcatch/internal/difficulty"
	"github.com/tomz197/popcatch/internal/loop/config"
	"github.com/tomz197/popcatch/internal/object"
	"github.com/tomz197/popcatch/internal/skin"
)

// ErrAlreadyRunning is returned by Start while a session is in progress.
var ErrAlreadyRunning = errors.New("session already running")

// Phase is the session lifecycle state.
type Phase int

const (
	PhaseIdle     Phase = iota // Created, not started
	PhaseRunning               // Objects falling
	PhaseGameOver              // An object hit the floor
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhaseGameOver:
		return "game over"
	default:
		return "unknown"
	}
}

// GameSession is the complete simulation state of one play-through.
// It is not safe for concurrent use; the frame loop that owns it is the
// only caller.
type GameSession struct {
	tuning    config.Tuning
	scheduler *difficulty.Scheduler
	rng       *rand.Rand

	phase     Phase
	score     int
	elapsed   time.Duration // Session clock, advanced by Tick
	nextSpawn time.Duration // Session time of the next spawn

	catcher   *object.Catcher
	popcorns  []*object.Popcorn
	particles []object.Object
	toSpawn   []object.Object // Objects to add after current update cycle
}

// New creates an idle session. A nil rng seeds one from the clock.
func New(tuning config.Tuning, rng *rand.Rand) *GameSession {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &GameSession{
		tuning:    tuning,
		scheduler: difficulty.NewScheduler(tuning),
		rng:       rng,
		catcher:   object.NewCatcher(tuning),
	}
}

// Start begins a new play-through from Idle or GameOver, resetting score,
// clock, objects and catcher.
func (s *GameSession) Start() error {
	if s.phase == PhaseRunning {
		return ErrAlreadyRunning
	}

	s.score = 0
	s.elapsed = 0
	s.nextSpawn = s.scheduler.FirstSpawn()
	s.popcorns = s.popcorns[:0]
	for _, p := range s.particles {
		object.ReleaseObject(p)
	}
	s.particles = s.particles[:0]
	s.toSpawn = s.toSpawn[:0]
	s.catcher.Place(s.tuning)

	s.phase = PhaseRunning
	return nil
}

// Spawn queues an object to be added after the current update cycle.
// Implements object.Spawner interface.
func (s *GameSession) Spawn(obj object.Object) {
	s.toSpawn = append(s.toSpawn, obj)
}

// FlushSpawned adds all queued objects to the session and clears the queue.
func (s *GameSession) FlushSpawned() {
	for _, obj := range s.toSpawn {
		if p, ok := obj.(*object.Popcorn); ok {
			s.popcorns = append(s.popcorns, p)
			continue
		}
		s.particles = append(s.particles, obj)
	}
	s.toSpawn = s.toSpawn[:0]
}

// SetPointer aims the catcher at pointer x (field coordinates).
func (s *GameSession) SetPointer(x float64) {
	s.catcher.SetPointer(x)
}

// SetSkin sets the catcher skin; nil selects the procedural bucket.
func (s *GameSession) SetSkin(sprite *skin.Sprite) {
	s.catcher.Sprite = sprite
}

// Phase returns the lifecycle state.
func (s *GameSession) Phase() Phase { return s.phase }

// Running reports whether the session is in progress.
func (s *GameSession) Running() bool { return s.phase == PhaseRunning }

// Done reports whether the session has ended.
func (s *GameSession) Done() bool { return s.phase == PhaseGameOver }

// Score returns the number of caught objects.
func (s *GameSession) Score() int { return s.score }

// Elapsed returns the session clock.
func (s *GameSession) Elapsed() time.Duration { return s.elapsed }

// Tuning returns the parameters the session runs with.
func (s *GameSession) Tuning() config.Tuning { return s.tuning }

// Catcher returns the player's catcher.
func (s *GameSession) Catcher() *object.Catcher { return s.catcher }

// Popcorns returns the live falling objects. The slice is only valid until
// the next Tick.
func (s *GameSession) Popcorns() []*object.Popcorn { return s.popcorns }

// Particles returns the live effects. The slice is only valid until the
// next Tick.
func (s *GameSession) Particles() []object.Object { return s.particles }

// Objects returns everything to draw, back to front.
func (s *GameSession) Objects() []object.Object {
	objs := make([]object.Object, 0, len(s.popcorns)+len(s.particles)+1)
	for _, p := range s.popcorns {
		objs = append(objs, p)
	}
	objs = append(objs, s.particles...)
	return append(objs, s.catcher) // catcher on top
}
