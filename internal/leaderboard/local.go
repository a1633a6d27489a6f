package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/quasilyte/gdata/v2"
)

const (
	localObject   = "leaderboard"
	localProperty = "scores"
)

// LocalStore keeps the document in the per-user data directory.
type LocalStore struct {
	manager *gdata.Manager
}

// NewLocalStore wraps an open gdata manager.
func NewLocalStore(manager *gdata.Manager) *LocalStore {
	return &LocalStore{manager: manager}
}

// OpenLocalStore opens the data directory of appName.
func OpenLocalStore(appName string) (*LocalStore, error) {
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("%w: open local data: %v", ErrStore, err)
	}
	return NewLocalStore(manager), nil
}

// Load reads the stored document; a missing one is empty.
func (s *LocalStore) Load(ctx context.Context) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	if !s.manager.ObjectPropExists(localObject, localProperty) {
		return Document{}, nil
	}
	data, err := s.manager.LoadObjectProp(localObject, localProperty)
	if err != nil {
		return Document{}, fmt.Errorf("%w: load: %v", ErrStore, err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: decode: %v", ErrStore, err)
	}
	return doc, nil
}

// Save writes the document.
func (s *LocalStore) Save(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrStore, err)
	}
	if err := s.manager.SaveObjectProp(localObject, localProperty, data); err != nil {
		return fmt.Errorf("%w: save: %v", ErrStore, err)
	}
	return nil
}
