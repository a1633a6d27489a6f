// Package skin lists the catcher skins and loads their terminal masks.
package skin

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ErrUnknownSkin is returned for ids not in the catalog.
var ErrUnknownSkin = errors.New("unknown skin")

// IDs is the catalog of selectable catcher skins.
var IDs = []string{
	"GBFilms",
	"BANIVFX",
	"Elcondenado",
	"Rendering",
	"Eldientenegro",
	"Cucaracha",
}

// Valid reports whether id names a catalog skin.
func Valid(id string) bool {
	return slices.Contains(IDs, id)
}

// Index returns the catalog position of id, or -1.
func Index(id string) int {
	return slices.Index(IDs, id)
}

// Sprite is a monochrome mask drawn stretched over the catcher rectangle.
// Rows[y][x] is true where the pixel is set.
type Sprite struct {
	ID   string
	Rows [][]bool
}

// Width returns the mask width in cells.
func (s *Sprite) Width() int {
	w := 0
	for _, row := range s.Rows {
		w = max(w, len(row))
	}
	return w
}

// Height returns the mask height in cells.
func (s *Sprite) Height() int {
	return len(s.Rows)
}

// At reports whether the mask is set at normalized coordinates u, v in [0, 1).
func (s *Sprite) At(u, v float64) bool {
	h := s.Height()
	w := s.Width()
	if h == 0 || w == 0 || u < 0 || v < 0 || u >= 1 || v >= 1 {
		return false
	}
	row := s.Rows[int(v*float64(h))]
	col := int(u * float64(w))
	return col < len(row) && row[col]
}

// ParseSprite reads a text mask: every non-space character is a set pixel.
func ParseSprite(id string, data []byte) (*Sprite, error) {
	sprite := &Sprite{ID: id}
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), " \t\r")
		row := make([]bool, 0, len(line))
		for _, r := range line {
			row = append(row, r != ' ' && r != '\t')
		}
		sprite.Rows = append(sprite.Rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read skin %s: %w", id, err)
	}
	// Drop trailing blank lines
	for len(sprite.Rows) > 0 && !slices.Contains(sprite.Rows[len(sprite.Rows)-1], true) {
		sprite.Rows = sprite.Rows[:len(sprite.Rows)-1]
	}
	if sprite.Height() == 0 || sprite.Width() == 0 {
		return nil, fmt.Errorf("skin %s is empty", id)
	}
	return sprite, nil
}

// LoadSprite loads <dir>/<id>.txt. Callers fall back to the procedural
// bucket when it fails.
func LoadSprite(dir, id string) (*Sprite, error) {
	if !Valid(id) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSkin, id)
	}
	data, err := os.ReadFile(filepath.Join(dir, id+".txt"))
	if err != nil {
		return nil, fmt.Errorf("failed to load skin %s: %w", id, err)
	}
	return ParseSprite(id, data)
}

// ImagePath returns the path of the desktop image for id.
func ImagePath(dir, id string) string {
	return filepath.Join(dir, id+".png")
}
