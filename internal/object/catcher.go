package object

import (
	"github.com/tomz197/popcatch/internal/draw"
	"github.com/tomz197/popcatch/internal/loop/config"
	"github.com/tomz197/popcatch/internal/physics"
	"github.com/tomz197/popcatch/internal/skin"
)

// Catcher is the player-controlled bucket. It only moves horizontally.
type Catcher struct {
	X, Y float64 // Top-left corner
	W, H float64

	// Pointer target in field coordinates; nil until the player moves.
	Target *float64

	Sprite *skin.Sprite // Skin mask; nil draws the procedural bucket
}

// NewCatcher places a catcher centered at the bottom of the field.
func NewCatcher(t config.Tuning) *Catcher {
	c := &Catcher{W: t.CatcherWidth, H: t.CatcherHeight}
	c.Place(t)
	return c
}

// Place recenters the catcher and forgets the pointer target.
func (c *Catcher) Place(t config.Tuning) {
	c.W = t.CatcherWidth
	c.H = t.CatcherHeight
	c.X = (t.Width - c.W) / 2
	c.Y = t.Height - c.H - t.CatcherBottom
	c.Target = nil
}

// SetPointer aims the catcher's center at pointer x.
func (c *Catcher) SetPointer(x float64) {
	c.Target = &x
}

// CenterX returns the horizontal center of the catcher.
func (c *Catcher) CenterX() float64 {
	return c.X + c.W/2
}

// MouthY returns the top of the catch band.
func (c *Catcher) MouthY(t config.Tuning) float64 {
	return c.Y + t.MouthOffset
}

// Update eases the catcher toward the pointer target.
func (c *Catcher) Update(ctx UpdateContext) (bool, error) {
	if c.Target == nil {
		return false, nil
	}
	t := ctx.Tuning
	target := physics.Clamp(*c.Target-c.W/2, t.CatcherEdge, t.Width-c.W-t.CatcherEdge)
	c.X = physics.Smooth(c.X, target, t.CatcherSmoothing, ctx.Scale)
	return false, nil
}

// Draw renders the skin mask, or a solid bucket with a rim outline when no
// skin is loaded.
func (c *Catcher) Draw(ctx DrawContext) error {
	if c.Sprite != nil {
		ctx.Canvas.FillMask(c.X, c.Y, c.W, c.H, c.Sprite.At)
		return nil
	}

	// Procedural bucket: tapered body with a rim
	inset := c.W * 0.1
	body := []draw.Point{
		{X: c.X, Y: c.Y},
		{X: c.X + c.W, Y: c.Y},
		{X: c.X + c.W - inset, Y: c.Y + c.H},
		{X: c.X + inset, Y: c.Y + c.H},
	}
	ctx.Canvas.DrawPolygon(body, true)
	ctx.Canvas.DrawRect(c.X+3, c.Y-2, c.W-6, c.H*0.15)
	return nil
}
