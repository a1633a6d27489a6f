package skin

import (
	"embed"
	"path"
	"sync"

	"github.com/charmbracelet/log"
)

//go:embed skins/*.txt
var builtin embed.FS

// Library loads sprites once and shares them between sessions. Files in
// dir take precedence over the built-in masks.
type Library struct {
	dir    string
	logger *log.Logger

	mu    sync.Mutex
	cache map[string]*Sprite
}

// NewLibrary creates a library reading from dir, which may be empty.
func NewLibrary(dir string, logger *log.Logger) *Library {
	if logger == nil {
		logger = log.Default()
	}
	return &Library{
		dir:    dir,
		logger: logger.WithPrefix("skins"),
		cache:  make(map[string]*Sprite),
	}
}

// Sprite returns the sprite for id, or nil when none can be loaded.
func (l *Library) Sprite(id string) *Sprite {
	l.mu.Lock()
	defer l.mu.Unlock()

	if s, ok := l.cache[id]; ok {
		return s
	}
	s := l.load(id)
	l.cache[id] = s
	return s
}

func (l *Library) load(id string) *Sprite {
	if !Valid(id) {
		return nil
	}
	if l.dir != "" {
		s, err := LoadSprite(l.dir, id)
		if err == nil {
			return s
		}
		l.logger.Debug("using built-in skin", "id", id, "err", err)
	}
	data, err := builtin.ReadFile(path.Join("skins", id+".txt"))
	if err != nil {
		l.logger.Warn("no sprite for skin", "id", id, "err", err)
		return nil
	}
	s, err := ParseSprite(id, data)
	if err != nil {
		l.logger.Warn("bad built-in skin", "id", id, "err", err)
		return nil
	}
	return s
}
