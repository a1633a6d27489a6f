// Package physics provides frame-normalized kinematics and collision helpers.
package physics

import (
	"math"
	"time"
)

// FrameScale converts a frame delta into multiples of the reference frame.
// Deltas longer than maxDelta are capped so a stalled frame does not
// teleport objects across the field.
func FrameScale(delta, reference, maxDelta time.Duration) float64 {
	if delta <= 0 || reference <= 0 {
		return 0
	}
	if maxDelta > 0 && delta > maxDelta {
		delta = maxDelta
	}
	return float64(delta) / float64(reference)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Smooth moves current toward target by factor per reference frame,
// compounded over scale frames (exponential smoothing).
func Smooth(current, target, factor, scale float64) float64 {
	if scale <= 0 {
		return current
	}
	alpha := 1 - math.Pow(1-factor, scale)
	return current + (target-current)*alpha
}

// ReflectInBounds keeps pos inside [lo, hi]. When pos crosses a bound it is
// clamped to it and vel is reversed and scaled by damping.
// Returns true if a reflection happened.
func ReflectInBounds(pos, vel *float64, lo, hi, damping float64) bool {
	if *pos < lo {
		*pos = lo
		*vel = -*vel * damping
		return true
	}
	if *pos > hi {
		*pos = hi
		*vel = -*vel * damping
		return true
	}
	return false
}

// InSpan reports whether x lies within [start, start+width].
func InSpan(x, start, width float64) bool {
	return x >= start && x <= start+width
}

// SpansBand reports whether a point moving from `from` to `to` during one
// step touched the band [lo, hi]. Either endpoint may lie outside the band.
func SpansBand(from, to, lo, hi float64) bool {
	return math.Min(from, to) <= hi && math.Max(from, to) >= lo
}
