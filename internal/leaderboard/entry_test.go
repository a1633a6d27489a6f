package leaderboard

import (
	"strings"
	"testing"
)

func TestRankOrdersByScoreThenTimestamp(t *testing.T) {
	entries := []Entry{
		{Name: "a", Score: 5, Timestamp: 30},
		{Name: "b", Score: 9, Timestamp: 20},
		{Name: "c", Score: 5, Timestamp: 10},
		{Name: "d", Score: 1, Timestamp: 5},
	}
	got := Rank(entries)
	want := []string{"b", "c", "a", "d"}
	for i, name := range want {
		if got[i].Name != name {
			t.Fatalf("rank[%d] = %s, want %s (%+v)", i, got[i].Name, name, got)
		}
	}
	if entries[0].Name != "a" {
		t.Fatal("Rank modified its input")
	}
}

func TestTopLimitsEntries(t *testing.T) {
	var entries []Entry
	for i := 0; i < 80; i++ {
		entries = append(entries, Entry{Score: i, Timestamp: int64(i)})
	}
	top := Top(entries, 50)
	if len(top) != 50 {
		t.Fatalf("len = %d, want 50", len(top))
	}
	if top[0].Score != 79 || top[49].Score != 30 {
		t.Fatalf("unexpected bounds: first=%d last=%d", top[0].Score, top[49].Score)
	}
	if len(Top(entries[:3], 50)) != 3 {
		t.Fatal("short board should be returned whole")
	}
}

func TestAppendEvictsOldest(t *testing.T) {
	var entries []Entry
	for i := 0; i < 200; i++ {
		entries = Append(entries, Entry{Score: 1000, Timestamp: int64(i)}, 200)
	}
	entries = Append(entries, Entry{Score: 0, Timestamp: 200}, 200)

	if len(entries) != 200 {
		t.Fatalf("len = %d, want 200", len(entries))
	}
	if entries[0].Timestamp != 1 {
		t.Fatalf("oldest kept = %d, want 1", entries[0].Timestamp)
	}
	if last := entries[len(entries)-1]; last.Timestamp != 200 || last.Score != 0 {
		t.Fatalf("newest entry missing: %+v", last)
	}
}

func TestSanitizeName(t *testing.T) {
	cases := []struct{ in, want string }{
		{"  alice  ", "alice"},
		{"bo\x1b[31mb", "bo[31mb"},
		{"", ""},
		{strings.Repeat("x", 30), strings.Repeat("x", 16)},
		{"žluťoučký kůň úpěl ódy", "žluťoučký kůň úp"},
		{"fifteen chars  z", "fifteen chars  z"},
	}
	for _, c := range cases {
		if got := SanitizeName(c.in); got != c.want {
			t.Errorf("SanitizeName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestDisplayNameFallback(t *testing.T) {
	if got := (Entry{Name: "  "}).DisplayName(); got != "Player" {
		t.Fatalf("DisplayName = %q, want Player", got)
	}
	if got := (Entry{Name: "neo"}).DisplayName(); got != "neo" {
		t.Fatalf("DisplayName = %q, want neo", got)
	}
}
