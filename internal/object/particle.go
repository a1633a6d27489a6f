package object

import (
	"math"
	"math/rand"
	"sync"
)

// particlePool is a sync.Pool for reusing Particle objects to reduce allocations.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// Particle is a short-lived visual effect driven by frame delta.
type Particle struct {
	X, Y        float64 // Position
	VX, VY      float64 // Velocity (units per second)
	Radius      float64 // Current radius; 0 draws a single pixel
	Growth      float64 // Radius change per second
	Lifetime    float64 // Seconds remaining
	MaxLifetime float64 // Initial lifetime (for fade calculation)
	Drag        float64 // Velocity decay (1.0 = no drag)
	Ring        bool    // Draw as an outline instead of a dot
}

// NewParticle creates a single particle from the pool.
func NewParticle(x, y, vx, vy, lifetime float64) *Particle {
	p := particlePool.Get().(*Particle)
	*p = Particle{
		X:           x,
		Y:           y,
		VX:          vx,
		VY:          vy,
		Lifetime:    lifetime,
		MaxLifetime: lifetime,
		Drag:        0.95,
	}
	return p
}

// Release returns the particle to the pool for reuse.
// Should be called when the particle is removed from the game.
func (p *Particle) Release() {
	particlePool.Put(p)
}

// Alpha returns the remaining opacity in [0, 1].
func (p *Particle) Alpha() float64 {
	if p.MaxLifetime <= 0 {
		return 0
	}
	return math.Max(0, p.Lifetime/p.MaxLifetime)
}

// Catch burst shape: an expanding ring that fades out in ~200ms plus sparks.
const (
	burstLifetime = 0.2
	burstRadius   = 2.0
	burstGrowth   = 60.0 // per second, one unit per 60Hz frame
	burstSparks   = 6
	sparkSpeed    = 90.0
	sparkLifetime = 0.35
)

// SpawnCatchBurst spawns the catch effect at (x, y).
func SpawnCatchBurst(x, y float64, spawner Spawner) {
	if spawner == nil {
		return
	}

	ring := NewParticle(x, y, 0, 0, burstLifetime)
	ring.Radius = burstRadius
	ring.Growth = burstGrowth
	ring.Ring = true
	ring.Drag = 1
	spawner.Spawn(ring)

	for i := 0; i < burstSparks; i++ {
		// Upward fan
		angle := -math.Pi/2 + (rand.Float64()-0.5)*math.Pi*0.9
		spd := sparkSpeed * (0.5 + rand.Float64())
		life := sparkLifetime * (0.5 + rand.Float64()*0.5)
		spawner.Spawn(NewParticle(x, y, math.Cos(angle)*spd, math.Sin(angle)*spd, life))
	}
}

// Update moves the particle and checks lifetime.
func (p *Particle) Update(ctx UpdateContext) (bool, error) {
	dt := ctx.Delta.Seconds()

	p.Lifetime -= dt
	if p.Lifetime <= 0 {
		return true, nil
	}

	dragFactor := math.Pow(p.Drag, dt*60) // Normalize drag to ~60fps
	p.VX *= dragFactor
	p.VY *= dragFactor

	p.X += p.VX * dt
	p.Y += p.VY * dt
	p.Radius += p.Growth * dt

	return false, nil
}

// Draw renders the particle. Faded particles (< 25% lifetime) are skipped.
func (p *Particle) Draw(ctx DrawContext) error {
	if p.Alpha() < 0.25 {
		return nil
	}
	if p.Ring {
		ctx.Canvas.DrawCircle(p.X, p.Y, p.Radius)
		return nil
	}
	ctx.Canvas.SetFloat(p.X, p.Y)
	return nil
}
