// Package difficulty turns elapsed session time into spawn timing, gravity
// and launch velocities.
//
// The policy is continuous: the delay between spawns decays exponentially
// toward a hard floor and gravity grows linearly up to a ceiling, so several
// objects can be falling at once late in a session.
package difficulty

import (
	"math"
	"math/rand"
	"time"

	"github.com/tomz197/popcatch/internal/loop/config"
)

// Launch is the initial state of a newly spawned falling object.
type Launch struct {
	X, Y   float64
	VX, VY float64
}

// Scheduler computes difficulty parameters from elapsed time.
type Scheduler struct {
	tuning config.Tuning
}

// NewScheduler creates a scheduler for the given tuning.
func NewScheduler(tuning config.Tuning) *Scheduler {
	return &Scheduler{tuning: tuning}
}

// SpawnDelay returns the delay before the next spawn after elapsed session
// time. It never increases with time and never drops below the floor.
func (s *Scheduler) SpawnDelay(elapsed time.Duration) time.Duration {
	t := seconds(elapsed)
	delay := time.Duration(float64(s.tuning.SpawnDelayBase) * math.Exp(-s.tuning.SpawnAccel*t))
	if delay < s.tuning.SpawnDelayFloor {
		return s.tuning.SpawnDelayFloor
	}
	return delay
}

// NextSpawn returns the session time of the spawn following one at now.
func (s *Scheduler) NextSpawn(now time.Duration) time.Duration {
	return now + s.SpawnDelay(now)
}

// FirstSpawn returns the session time of the first spawn.
func (s *Scheduler) FirstSpawn() time.Duration {
	return s.tuning.FirstSpawnDelay
}

// Gravity returns the downward acceleration (per reference frame squared)
// after elapsed session time. It never decreases and is capped by the ceiling.
func (s *Scheduler) Gravity(elapsed time.Duration) float64 {
	g := s.tuning.GravityBase + s.tuning.GravityGrowth*seconds(elapsed)
	return math.Min(g, s.tuning.GravityCeiling)
}

// Launch draws the starting position and velocity of a new object.
// Horizontal speed gets a logarithmic boost over time, capped at
// LaunchBoostCap; direction is a coin flip.
func (s *Scheduler) Launch(rng *rand.Rand, elapsed time.Duration) Launch {
	t := s.tuning
	x := (rng.Float64()*0.7 + 0.15) * t.Width

	base := t.LaunchVXMin + rng.Float64()*t.LaunchVXSpread
	boost := 1 + math.Min(t.LaunchBoostCap, t.LaunchBoostLog*math.Log1p(seconds(elapsed)))
	dir := 1.0
	if rng.Float64() < 0.5 {
		dir = -1
	}

	return Launch{
		X:  x,
		Y:  t.SpawnY,
		VX: dir * base * boost,
		VY: t.LaunchVY,
	}
}

func seconds(d time.Duration) float64 {
	if d < 0 {
		return 0
	}
	return d.Seconds()
}
