package object

import (
	"github.com/tomz197/popcatch/internal/difficulty"
	"github.com/tomz197/popcatch/internal/physics"
)

// Popcorn is a falling object the player has to catch.
type Popcorn struct {
	X, Y   float64 // Position (center)
	VX, VY float64 // Velocity per reference frame
	Radius float64
	PrevY  float64 // Y before the last Update
	Caught bool // Landed in the catcher; scored once
	Dead   bool // No longer simulated; purged at the end of the tick
}

// NewPopcorn creates a popcorn from a scheduler launch.
func NewPopcorn(l difficulty.Launch, radius float64) *Popcorn {
	return &Popcorn{
		X:      l.X,
		Y:      l.Y,
		PrevY:  l.Y,
		VX:     l.VX,
		VY:     l.VY,
		Radius: radius,
	}
}

// Update advances the popcorn and bounces it off the side walls.
// Dead popcorn is removed.
func (p *Popcorn) Update(ctx UpdateContext) (bool, error) {
	if p.Dead {
		return true, nil
	}

	f := ctx.Scale
	p.PrevY = p.Y
	p.X += p.VX * f
	p.Y += p.VY * f
	p.VY += ctx.Gravity * f

	t := ctx.Tuning
	left := t.WallInset + p.Radius
	right := t.Width - t.WallInset - p.Radius
	physics.ReflectInBounds(&p.X, &p.VX, left, right, t.WallDamping)

	return false, nil
}

// Bottom returns the y coordinate of the popcorn's leading (lower) edge.
func (p *Popcorn) Bottom() float64 {
	return p.Y + p.Radius
}

// PrevBottom returns the lower edge before the last Update. Together with
// Bottom it spans the distance swept during the tick.
func (p *Popcorn) PrevBottom() float64 {
	return p.PrevY + p.Radius
}

// Draw renders the popcorn as a filled disc.
func (p *Popcorn) Draw(ctx DrawContext) error {
	if p.Dead {
		return nil
	}
	ctx.Canvas.FillCircle(p.X, p.Y, p.Radius)
	return nil
}

// MarkDestroyed marks the popcorn for removal (implements Destructible).
func (p *Popcorn) MarkDestroyed() {
	p.Dead = true
}

// IsDestroyed returns true if the popcorn is marked for removal (implements Destructible).
func (p *Popcorn) IsDestroyed() bool {
	return p.Dead
}
