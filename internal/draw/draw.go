// Package draw renders to ANSI terminals using a half-block canvas.
package draw

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// ColorReset ends any color set before drawing the canvas.
const ColorReset = "\033[0m"

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
