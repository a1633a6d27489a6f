// Package prefs remembers each player's name and catcher skin between
// sessions.
package prefs

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/tomz197/popcatch/internal/leaderboard"
	"github.com/tomz197/popcatch/internal/skin"
)

const prefsObject = "prefs"

// LocalUser is the key used by single-player front ends.
const LocalUser = "local"

// Prefs is what a player last chose on the start screen.
type Prefs struct {
	Name string `yaml:"name"`
	Skin string `yaml:"skin"`
}

// Defaults returns the preferences of a new player: no name and no skin
// chosen yet.
func Defaults() Prefs {
	return Prefs{}
}

// Manager loads and saves preferences. A nil gdata manager runs in memory
// only: Load returns defaults and Save does nothing.
type Manager struct {
	data   *gdata.Manager
	logger *log.Logger
}

// NewManager wraps a gdata manager, which may be nil.
func NewManager(data *gdata.Manager, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{data: data, logger: logger.WithPrefix("prefs")}
}

// Open opens the data directory of appName. On failure it logs and returns
// a memory-only manager.
func Open(appName string, logger *log.Logger) *Manager {
	data, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		m := NewManager(nil, logger)
		m.logger.Warn("preferences will not persist", "err", err)
		return m
	}
	return NewManager(data, logger)
}

// Persistent reports whether preferences survive a restart.
func (m *Manager) Persistent() bool {
	return m != nil && m.data != nil
}

// Load returns the stored preferences of user, or defaults.
func (m *Manager) Load(user string) Prefs {
	if !m.Persistent() {
		return Defaults()
	}
	key := propKey(user)
	if !m.data.ObjectPropExists(prefsObject, key) {
		return Defaults()
	}
	raw, err := m.data.LoadObjectProp(prefsObject, key)
	if err != nil {
		m.logger.Warn("load failed", "user", user, "err", err)
		return Defaults()
	}

	p := Defaults()
	if err := yaml.Unmarshal(raw, &p); err != nil {
		m.logger.Warn("corrupt preferences", "user", user, "err", err)
		return Defaults()
	}
	return normalize(p)
}

// Save stores the preferences of user.
func (m *Manager) Save(user string, p Prefs) error {
	if !m.Persistent() {
		return nil
	}
	raw, err := yaml.Marshal(normalize(p))
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}
	if err := m.data.SaveObjectProp(prefsObject, propKey(user), raw); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	m.logger.Debug("saved", "user", user, "skin", p.Skin)
	return nil
}

func normalize(p Prefs) Prefs {
	p.Name = leaderboard.SanitizeName(p.Name)
	if !skin.Valid(p.Skin) {
		p.Skin = ""
	}
	return p
}

// propKey maps a user name onto a file-safe property key. Distinct names
// map to distinct keys: every rune outside [a-z0-9-] is written as its hex
// code point between underscores, so '_' only ever delimits an escape.
func propKey(user string) string {
	var b strings.Builder
	b.WriteString("user_")
	for _, r := range user {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		default:
			fmt.Fprintf(&b, "_%x_", r)
		}
	}
	if b.Len() == len("user_") {
		b.WriteString(LocalUser)
	}
	return b.String()
}
