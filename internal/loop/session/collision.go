package session

import (
	"github.com/tomz197/popcatch/internal/object"
	"github.com/tomz197/popcatch/internal/physics"
)

// hitsFloor reports whether a live object's lower edge reached the floor line.
func (s *GameSession) hitsFloor(p *object.Popcorn) bool {
	return !p.IsDestroyed() && p.Bottom() >= s.tuning.FloorY()
}

// inMouth reports whether p's leading edge entered or crossed the catcher's
// mouth band during the last tick, horizontally within the catcher, while
// moving down. Testing the swept span keeps fast objects from skipping the
// band between two ticks.
func (s *GameSession) inMouth(p *object.Popcorn) bool {
	c := s.catcher
	mouth := c.MouthY(s.tuning)
	return physics.InSpan(p.X, c.X, c.W) &&
		p.VY > 0 &&
		physics.SpansBand(p.PrevBottom(), p.Bottom(), mouth, mouth+s.tuning.MouthBand)
}

// tryCatch scores p once if it is in the catcher's mouth.
func (s *GameSession) tryCatch(p *object.Popcorn) bool {
	if p.Caught || p.IsDestroyed() || !s.inMouth(p) {
		return false
	}
	p.Caught = true
	p.MarkDestroyed()
	s.score++
	object.SpawnCatchBurst(p.X, s.catcher.Y, s)
	return true
}
