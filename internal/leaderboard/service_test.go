package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

type failingStore struct {
	loadErr, saveErr error
}

func (f failingStore) Load(context.Context) (Document, error) { return Document{}, f.loadErr }
func (f failingStore) Save(context.Context, Document) error   { return f.saveErr }

func fixedClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	now := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Millisecond)
		return now
	}
}

func TestServiceSaveAndTop(t *testing.T) {
	store := NewMemoryStore()
	svc := NewService(store, quietLogger(), WithClock(fixedClock(time.UnixMilli(1000))))
	ctx := context.Background()

	for i, score := range []int{4, 10, 4} {
		if _, err := svc.Save(ctx, fmt.Sprintf("p%d", i), score); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	top, err := svc.Top(ctx)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	got := [3]string{top[0].Name, top[1].Name, top[2].Name}
	if got != [3]string{"p1", "p0", "p2"} {
		t.Fatalf("order = %v, want [p1 p0 p2]", got)
	}
	if svc.Version() != 3 {
		t.Fatalf("Version = %d, want 3", svc.Version())
	}
}

func TestServiceSanitizesName(t *testing.T) {
	svc := NewService(NewMemoryStore(), quietLogger())
	entry, err := svc.Save(context.Background(), "   ", 1)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if entry.Name != "" || entry.DisplayName() != "Player" {
		t.Fatalf("unexpected entry %+v", entry)
	}
}

func TestServiceCapsStoredEntries(t *testing.T) {
	store := NewMemoryStore()
	svc := NewService(store, quietLogger(), WithLimits(5, 3))
	ctx := context.Background()
	for i := 0; i < 8; i++ {
		svc.Save(ctx, "p", i)
	}
	doc, _ := store.Load(ctx)
	if len(doc.Scores) != 5 || doc.Scores[0].Score != 3 {
		t.Fatalf("stored = %+v, want the 5 newest", doc.Scores)
	}
	top, _ := svc.Top(ctx)
	if len(top) != 3 || top[0].Score != 7 {
		t.Fatalf("top = %+v", top)
	}
}

func TestServiceConcurrentSavesAreKept(t *testing.T) {
	store := NewMemoryStore()
	svc := NewService(store, quietLogger())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := svc.Save(ctx, fmt.Sprintf("p%d", i), i); err != nil {
				t.Errorf("Save: %v", err)
			}
		}(i)
	}
	wg.Wait()

	doc, _ := store.Load(ctx)
	if len(doc.Scores) != 20 {
		t.Fatalf("stored %d entries, want 20", len(doc.Scores))
	}
}

func TestServiceStoreFailures(t *testing.T) {
	ctx := context.Background()
	boom := fmt.Errorf("%w: boom", ErrStore)

	svc := NewService(failingStore{loadErr: boom}, quietLogger())
	if _, err := svc.Save(ctx, "a", 1); !errors.Is(err, ErrStore) {
		t.Fatalf("Save with failing load = %v", err)
	}
	if _, err := svc.Top(ctx); !errors.Is(err, ErrStore) {
		t.Fatalf("Top with failing load = %v", err)
	}

	svc = NewService(failingStore{saveErr: boom}, quietLogger())
	if _, err := svc.Save(ctx, "a", 1); !errors.Is(err, ErrStore) {
		t.Fatalf("Save with failing save = %v", err)
	}
	if svc.Version() != 0 {
		t.Fatal("version bumped on failed save")
	}
}

func TestServiceRejectsNegativeScore(t *testing.T) {
	svc := NewService(NewMemoryStore(), quietLogger())
	_, err := svc.Save(context.Background(), "a", -1)
	if !errors.Is(err, ErrInvalidScore) {
		t.Fatalf("expected ErrInvalidScore, got %v", err)
	}
	if errors.Is(err, ErrStore) {
		t.Fatal("a rejected score is not a store failure")
	}
	if svc.Version() != 0 {
		t.Fatalf("version bumped to %d by a rejected save", svc.Version())
	}
}
