package physics

import (
	"math"
	"testing"
	"time"
)

func TestFrameScale(t *testing.T) {
	ref := 16 * time.Millisecond
	tests := []struct {
		name  string
		delta time.Duration
		want  float64
	}{
		{"one frame", 16 * time.Millisecond, 1},
		{"half frame", 8 * time.Millisecond, 0.5},
		{"capped", 500 * time.Millisecond, 2.5},
		{"zero", 0, 0},
		{"negative", -time.Millisecond, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FrameScale(tt.delta, ref, 40*time.Millisecond)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("FrameScale(%v) = %v, want %v", tt.delta, got, tt.want)
			}
		})
	}
}

func TestReflectInBounds(t *testing.T) {
	x, vx := 195.0, 5.0
	if !ReflectInBounds(&x, &vx, 10, 190, 0.98) {
		t.Fatal("expected reflection at right bound")
	}
	if x != 190 {
		t.Fatalf("x = %v, want 190", x)
	}
	if math.Abs(vx-(-4.9)) > 1e-9 {
		t.Fatalf("vx = %v, want -4.9", vx)
	}

	x, vx = 5, -3
	ReflectInBounds(&x, &vx, 10, 190, 0.98)
	if x != 10 || vx <= 0 {
		t.Fatalf("left reflection: x=%v vx=%v", x, vx)
	}

	x, vx = 100, 5
	if ReflectInBounds(&x, &vx, 10, 190, 0.98) {
		t.Fatal("unexpected reflection inside bounds")
	}
}

func TestSmooth(t *testing.T) {
	if got := Smooth(0, 100, 0.25, 1); math.Abs(got-25) > 1e-9 {
		t.Fatalf("one frame = %v, want 25", got)
	}
	// Two half frames compound to one full frame.
	half := Smooth(Smooth(0, 100, 0.25, 0.5), 100, 0.25, 0.5)
	if math.Abs(half-25) > 1e-9 {
		t.Fatalf("two half frames = %v, want 25", half)
	}
	if got := Smooth(10, 100, 0.25, 0); got != 10 {
		t.Fatalf("zero scale moved to %v", got)
	}
}

func TestClampAndSpan(t *testing.T) {
	if Clamp(-1, 0, 10) != 0 || Clamp(11, 0, 10) != 10 || Clamp(5, 0, 10) != 5 {
		t.Fatal("Clamp out of range")
	}
	if !InSpan(0, 0, 120) || !InSpan(120, 0, 120) || InSpan(121, 0, 120) {
		t.Fatal("InSpan edges wrong")
	}
}

func TestSpansBand(t *testing.T) {
	cases := []struct {
		name     string
		from, to float64
		want     bool
	}{
		{"inside", 390, 400, true},
		{"enters", 380, 390, true},
		{"jumps over", 380, 420, true},
		{"touches top", 370, 388, true},
		{"leaves", 400, 420, true},
		{"above", 350, 387, false},
		{"below", 407, 450, false},
	}
	for _, tc := range cases {
		if got := SpansBand(tc.from, tc.to, 388, 406); got != tc.want {
			t.Errorf("%s: SpansBand(%v, %v) = %v, want %v", tc.name, tc.from, tc.to, got, tc.want)
		}
	}
}
