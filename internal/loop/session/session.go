package session

import (
	"time"

	"github.com/tomz197/popcatch/internal/object"
	"github.com/tomz197/popcatch/internal/physics"
)

// TickResult reports what happened during one Tick.
type TickResult struct {
	Spawned  int  // Objects spawned this tick
	Caught   int  // Objects caught this tick
	GameOver bool // The session ended during this tick
}

// Tick advances the session by dt. It does nothing unless the session is
// running.
func (s *GameSession) Tick(dt time.Duration) TickResult {
	var res TickResult
	if s.phase != PhaseRunning || dt < 0 {
		return res
	}

	s.elapsed += dt
	ctx := object.UpdateContext{
		Delta:   dt,
		Scale:   physics.FrameScale(dt, s.tuning.ReferenceFrame, s.tuning.MaxFrameDelta),
		Gravity: s.scheduler.Gravity(s.elapsed),
		Tuning:  s.tuning,
		Spawner: s,
	}

	if s.elapsed >= s.nextSpawn {
		launch := s.scheduler.Launch(s.rng, s.elapsed)
		s.popcorns = append(s.popcorns, object.NewPopcorn(launch, s.tuning.ObjectRadius))
		s.nextSpawn = s.scheduler.NextSpawn(s.elapsed)
		res.Spawned++
	}

	s.catcher.Update(ctx)

	for _, p := range s.popcorns {
		if remove, _ := p.Update(ctx); remove {
			continue
		}
		if s.tryCatch(p) {
			res.Caught++
			continue
		}
		if s.hitsFloor(p) {
			s.gameOver()
			res.GameOver = true
			return res
		}
	}

	s.purgeDead()
	s.updateParticles(ctx)
	s.FlushSpawned()
	return res
}

// gameOver ends the session. Only a running session can end, so a session
// ends exactly once.
func (s *GameSession) gameOver() {
	if s.phase != PhaseRunning {
		return
	}
	s.phase = PhaseGameOver
}

// purgeDead removes caught objects so they never re-trigger a catch or
// take part in floor checks.
func (s *GameSession) purgeDead() {
	kept := s.popcorns[:0] // reuse backing array
	for _, p := range s.popcorns {
		if !object.Destroyed(p) {
			kept = append(kept, p)
		}
	}
	clear(s.popcorns[len(kept):])
	s.popcorns = kept
}

// updateParticles advances effects and releases finished ones.
func (s *GameSession) updateParticles(ctx object.UpdateContext) {
	kept := s.particles[:0]
	for _, obj := range s.particles {
		remove, _ := obj.Update(ctx)
		if !remove {
			kept = append(kept, obj)
		} else {
			object.ReleaseObject(obj)
		}
	}
	clear(s.particles[len(kept):])
	s.particles = kept
}
