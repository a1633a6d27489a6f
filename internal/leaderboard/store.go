package leaderboard

import (
	"context"
	"errors"
	"sync"
)

// ErrStore wraps failures of the backing store.
var ErrStore = errors.New("leaderboard store")

// ErrInvalidScore is returned for scores no game can produce.
var ErrInvalidScore = errors.New("invalid score")

// Store persists the whole leaderboard document.
type Store interface {
	Load(ctx context.Context) (Document, error)
	Save(ctx context.Context, doc Document) error
}

// MemoryStore keeps the document in process memory.
type MemoryStore struct {
	mu  sync.Mutex
	doc Document
}

// NewMemoryStore creates a store holding the given entries.
func NewMemoryStore(entries ...Entry) *MemoryStore {
	return &MemoryStore{doc: Document{Scores: append([]Entry(nil), entries...)}}
}

// Load returns a copy of the stored document.
func (m *MemoryStore) Load(ctx context.Context) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return Document{Scores: append([]Entry(nil), m.doc.Scores...)}, nil
}

// Save replaces the stored document.
func (m *MemoryStore) Save(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc = Document{Scores: append([]Entry(nil), doc.Scores...)}
	return nil
}
