package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

type fakeBin struct {
	mu     sync.Mutex
	doc    Document
	key    string
	puts   int
	status int // Forced response status; 0 means normal
}

func (f *fakeBin) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.Header.Get("X-Master-Key") != f.key {
		http.Error(w, `{"message":"bad key"}`, http.StatusUnauthorized)
		return
	}
	if f.status != 0 {
		http.Error(w, "unavailable", f.status)
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/b/bin123/latest":
		if r.Header.Get("X-Bin-Meta") != "false" {
			http.Error(w, "meta expected off", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(f.doc)
	case r.Method == http.MethodPut && r.URL.Path == "/b/bin123":
		body, _ := io.ReadAll(r.Body)
		var doc Document
		if err := json.Unmarshal(body, &doc); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.doc = doc
		f.puts++
		w.Write([]byte(`{"record":{}}`))
	default:
		http.NotFound(w, r)
	}
}

func newFakeBin(t *testing.T, bin *fakeBin) *JSONBinStore {
	t.Helper()
	srv := httptest.NewServer(bin)
	t.Cleanup(srv.Close)
	return NewJSONBinStore(srv.URL, "bin123", bin.key, srv.Client())
}

func TestJSONBinRoundTrip(t *testing.T) {
	bin := &fakeBin{key: "secret", doc: Document{Scores: []Entry{{Name: "x", Score: 3, Timestamp: 1}}}}
	store := newFakeBin(t, bin)
	ctx := context.Background()

	doc, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(doc.Scores) != 1 || doc.Scores[0].Name != "x" {
		t.Fatalf("unexpected doc: %+v", doc)
	}

	doc.Scores = append(doc.Scores, Entry{Name: "y", Score: 7, Timestamp: 2})
	if err := store.Save(ctx, doc); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if bin.puts != 1 || len(bin.doc.Scores) != 2 {
		t.Fatalf("bin not updated: puts=%d doc=%+v", bin.puts, bin.doc)
	}
}

func TestJSONBinEmptyDocumentSavesArray(t *testing.T) {
	bin := &fakeBin{key: "k"}
	store := newFakeBin(t, bin)
	if err := store.Save(context.Background(), Document{}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if bin.doc.Scores == nil {
		t.Fatal("expected an empty scores array, got null")
	}
}

func TestJSONBinErrors(t *testing.T) {
	bin := &fakeBin{key: "right"}
	srv := httptest.NewServer(bin)
	defer srv.Close()

	wrongKey := NewJSONBinStore(srv.URL, "bin123", "wrong", srv.Client())
	if _, err := wrongKey.Load(context.Background()); !errors.Is(err, ErrStore) {
		t.Fatalf("wrong key: err = %v, want ErrStore", err)
	}

	bin.status = http.StatusServiceUnavailable
	ok := NewJSONBinStore(srv.URL, "bin123", "right", srv.Client())
	if err := ok.Save(context.Background(), Document{}); !errors.Is(err, ErrStore) {
		t.Fatalf("unavailable: err = %v, want ErrStore", err)
	}
}

func TestJSONBinHonorsContext(t *testing.T) {
	bin := &fakeBin{key: "k"}
	store := newFakeBin(t, bin)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.Load(ctx); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
