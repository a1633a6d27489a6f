package draw

import (
	"bytes"
	"math"
	"strings"
	"testing"
)

func countPixels(c *Canvas) int {
	n := 0
	for y := 0; y < c.subPixelHeight; y++ {
		for x := 0; x < c.termWidth; x++ {
			if c.Pixel(x, y) {
				n++
			}
		}
	}
	return n
}

func TestScaledCanvasSetFloat(t *testing.T) {
	c := NewScaledCanvas(64, 24, 640, 480)
	c.SetFloat(320, 240)
	if !c.Pixel(32, 24) {
		t.Fatal("expected center pixel set")
	}
	c.Clear()
	if countPixels(c) != 0 {
		t.Fatal("Clear left pixels set")
	}
}

func TestFillCircleCoversCenterOnly(t *testing.T) {
	c := NewScaledCanvas(100, 50, 100, 100)
	c.FillCircle(50, 50, 10)
	if !c.Pixel(50, 50) {
		t.Fatal("center not filled")
	}
	if c.Pixel(50+12, 50) || c.Pixel(50, 50+12) {
		t.Fatal("pixels outside radius filled")
	}
	area := float64(countPixels(c))
	want := math.Pi * 100
	if area < want*0.8 || area > want*1.2 {
		t.Fatalf("filled area %v, want about %v", area, want)
	}
}

func TestFillMask(t *testing.T) {
	c := NewScaledCanvas(10, 5, 10, 10)
	c.FillMask(0, 0, 10, 10, func(u, v float64) bool { return u < 0.5 })
	if !c.Pixel(0, 0) || !c.Pixel(4, 9) {
		t.Fatal("left half not filled")
	}
	if c.Pixel(5, 0) || c.Pixel(9, 9) {
		t.Fatal("right half filled")
	}
}

func TestTerminalToLogicalRoundTrip(t *testing.T) {
	c := NewScaledCanvas(64, 24, 640, 480)
	c.SetOffset(3, 2)
	col, _ := c.LogicalToTerminal(320, 240)
	x, _ := c.TerminalToLogical(col+3, 1+2)
	if math.Abs(x-320) > 10 {
		t.Fatalf("round trip x = %v, want about 320", x)
	}
}

func TestRenderSkipsEmptyCells(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)
	var buf bytes.Buffer
	c.Render(&buf)
	if buf.Len() != 0 {
		t.Fatalf("empty canvas rendered %q", buf.String())
	}
	c.SetFloat(0, 0)
	c.Render(&buf)
	if !strings.ContainsRune(buf.String(), BlockUpperHalf) {
		t.Fatalf("expected upper half block, got %q", buf.String())
	}
}
