// Package leaderboard stores finished-game scores and serves the ranked
// board.
package leaderboard

import (
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/tomz197/popcatch/internal/loop/config"
)

// Entry is one recorded score.
type Entry struct {
	Name      string `json:"name"`
	Score     int    `json:"score"`
	Timestamp int64  `json:"ts"` // Unix milliseconds
}

// DisplayName returns the name shown on the board.
func (e Entry) DisplayName() string {
	if strings.TrimSpace(e.Name) == "" {
		return config.DefaultPlayerName
	}
	return e.Name
}

// Time returns the entry timestamp.
func (e Entry) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// Document is the persisted leaderboard, entries in insertion order.
type Document struct {
	Scores []Entry `json:"scores"`
}

// Less orders entries by score descending, then earlier timestamp first.
func Less(a, b Entry) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Timestamp < b.Timestamp
}

// Rank returns a sorted copy of entries.
func Rank(entries []Entry) []Entry {
	ranked := make([]Entry, len(entries))
	copy(ranked, entries)
	sort.SliceStable(ranked, func(i, j int) bool {
		return Less(ranked[i], ranked[j])
	})
	return ranked
}

// Top returns at most n best entries.
func Top(entries []Entry, n int) []Entry {
	ranked := Rank(entries)
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Append adds e and evicts the oldest entries until at most capacity remain.
func Append(entries []Entry, e Entry, capacity int) []Entry {
	entries = append(entries, e)
	if capacity > 0 && len(entries) > capacity {
		entries = append([]Entry(nil), entries[len(entries)-capacity:]...)
	}
	return entries
}

// SanitizeName trims a player name, drops control characters and limits it
// to MaxUsernameLength runes.
func SanitizeName(name string) string {
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > config.MaxUsernameLength {
		name = string([]rune(name)[:config.MaxUsernameLength])
		name = strings.TrimSpace(name)
	}
	return name
}
