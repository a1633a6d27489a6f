package leaderboard

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func openTestLocalStore(t *testing.T) *LocalStore {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", home)

	store, err := OpenLocalStore(fmt.Sprintf("popcatch_test_%d", time.Now().UnixNano()))
	if err != nil {
		t.Skipf("cannot open local data dir: %v", err)
	}
	return store
}

func TestLocalStoreMissingIsEmpty(t *testing.T) {
	store := openTestLocalStore(t)
	doc, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(doc.Scores) != 0 {
		t.Fatalf("expected empty document, got %+v", doc)
	}
}

func TestLocalStorePersists(t *testing.T) {
	store := openTestLocalStore(t)
	ctx := context.Background()

	want := Document{Scores: []Entry{{Name: "ann", Score: 12, Timestamp: 99}}}
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Scores) != 1 || got.Scores[0] != want.Scores[0] {
		t.Fatalf("Load = %+v, want %+v", got, want)
	}
}

func TestOpenStoreSelectsBackend(t *testing.T) {
	quiet := quietLogger()
	if _, ok := OpenStore(StoreConfig{BinID: "b", Key: "k"}, quiet).(*JSONBinStore); !ok {
		t.Fatal("bin id should select JSONBin")
	}

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", home)
	switch OpenStore(StoreConfig{AppName: fmt.Sprintf("popcatch_open_%d", time.Now().UnixNano())}, quiet).(type) {
	case *LocalStore, *MemoryStore:
	default:
		t.Fatal("expected a local or memory store")
	}
}
