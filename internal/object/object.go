// Package object defines the game entities and their per-frame behavior.
package object

import (
	"time"

	"github.com/tomz197/popcatch/internal/draw"
	"github.com/tomz197/popcatch/internal/loop/config"
)

// Spawner allows objects to spawn new objects during update.
type Spawner interface {
	Spawn(obj Object)
}

// UpdateContext provides all the information an object needs during update.
type UpdateContext struct {
	Delta   time.Duration // Real frame delta
	Scale   float64       // Delta in reference frames, capped
	Gravity float64       // Current gravity per reference frame squared
	Tuning  config.Tuning // Field bounds and physics constants
	Spawner Spawner
}

// DrawContext provides drawing resources for objects.
type DrawContext struct {
	Canvas *draw.Canvas // High-resolution canvas (2x vertical)
}

// Object is a drawable and updatable game entity.
type Object interface {
	// Update updates the object state. Returns true if the object should be removed.
	Update(ctx UpdateContext) (remove bool, err error)

	// Draw draws the object onto ctx.Canvas.
	Draw(ctx DrawContext) error
}

// Destructible is implemented by objects that can be destroyed/marked for removal.
type Destructible interface {
	// MarkDestroyed marks the object for removal on next update cycle.
	MarkDestroyed()
	// IsDestroyed returns true if the object is marked for destruction.
	IsDestroyed() bool
}

// Releasable is implemented by pooled objects that can be returned to a pool.
type Releasable interface {
	// Release returns the object to its pool for reuse.
	Release()
}

// ReleaseObject releases an object back to its pool if it implements Releasable.
func ReleaseObject(obj Object) {
	if r, ok := obj.(Releasable); ok {
		r.Release()
	}
}

// Destroyed reports whether obj is marked for removal. Objects that are not
// Destructible never are.
func Destroyed(obj Object) bool {
	d, ok := obj.(Destructible)
	return ok && d.IsDestroyed()
}
