package client

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/popcatch/internal/input"
	"github.com/tomz197/popcatch/internal/leaderboard"
	"github.com/tomz197/popcatch/internal/loop/app"
	"github.com/tomz197/popcatch/internal/loop/config"
	"github.com/tomz197/popcatch/internal/loop/server"
)

type fakeServer struct {
	handle   *server.ClientHandle
	reports  []server.PlayerStatus
	gone     bool
	snapshot server.LobbySnapshot
}

func (f *fakeServer) RegisterClient(username string) *server.ClientHandle {
	f.handle = &server.ClientHandle{ID: 1, Username: username, EventsCh: make(chan server.ClientEvent, 4)}
	return f.handle
}

func (f *fakeServer) UnregisterClient(int) { f.gone = true }

func (f *fakeServer) Report(_ int, status server.PlayerStatus) {
	f.reports = append(f.reports, status)
}

func (f *fakeServer) GetSnapshot() *server.LobbySnapshot { return &f.snapshot }

func newTestClient(t *testing.T, gs server.GameServer) (*Client, *input.Stream, *bytes.Buffer) {
	t.Helper()
	stream := input.NewStream()
	out := &bytes.Buffer{}
	quiet := log.New(io.Discard)
	c := newClient(gs, stream, out, ClientOptions{
		TermSizeFunc: func() (int, int, error) { return 160, 60, nil },
		Username:     "tester",
		App: app.Options{
			Board:  leaderboard.NewService(leaderboard.NewMemoryStore(), quiet),
			Logger: quiet,
		},
	})
	return c, stream, out
}

func step(t *testing.T, c *Client) {
	t.Helper()
	c.state.delta = 16 * time.Millisecond
	if err := c.frame(); err != nil {
		t.Fatalf("frame: %v", err)
	}
}

func TestStartScreenRenders(t *testing.T) {
	c, _, out := newTestClient(t, nil)
	step(t, c)
	if !strings.Contains(out.String(), "P O P C A T C H") {
		t.Fatal("title missing from start screen")
	}
}

func TestTypingAndEnterStartsGame(t *testing.T) {
	c, stream, _ := newTestClient(t, nil)
	stream.Feed([]byte("Ana\x1b[C\r"))
	step(t, c)

	if c.app.Name() != "Ana" || c.app.Screen() != app.ScreenGame {
		t.Fatalf("name = %q, screen = %v", c.app.Name(), c.app.Screen())
	}
}

func TestMouseMovesCatcherTarget(t *testing.T) {
	c, stream, _ := newTestClient(t, nil)
	stream.Feed([]byte("Ana\x1b[C\r"))
	step(t, c)

	// Column 121 of 160 is three quarters across the field
	stream.Feed([]byte("\x1b[<35;121;30M"))
	step(t, c)

	target := c.app.Session().Catcher().Target
	if target == nil || *target < 470 || *target > 490 {
		t.Fatalf("target = %v, want near 480", target)
	}
}

func TestCtrlCStops(t *testing.T) {
	c, stream, _ := newTestClient(t, nil)
	stream.Feed([]byte{0x03})
	step(t, c)
	if c.state.Running {
		t.Fatal("Ctrl-C should stop the client")
	}
}

func TestReportsStatusChanges(t *testing.T) {
	fs := &fakeServer{}
	c, stream, _ := newTestClient(t, fs)
	step(t, c)
	step(t, c)
	if len(fs.reports) != 1 || fs.reports[0].Playing {
		t.Fatalf("reports = %+v, want one idle report", fs.reports)
	}

	stream.Feed([]byte("Ana\x1b[C\r"))
	step(t, c)
	last := fs.reports[len(fs.reports)-1]
	if !last.Playing || last.Name != "Ana" {
		t.Fatalf("last report = %+v", last)
	}
}

func TestShutdownCountdown(t *testing.T) {
	fs := &fakeServer{}
	c, stream, out := newTestClient(t, fs)
	fs.handle.EventsCh <- server.ClientEvent{Type: server.EventServerShutdown}
	step(t, c)

	if !c.state.Shutdown || !strings.Contains(out.String(), "SERVER SHUTTING DOWN") {
		t.Fatal("shutdown screen not shown")
	}
	stream.Feed([]byte("q"))
	step(t, c)
	if c.state.Running {
		t.Fatal("q should disconnect during shutdown")
	}
}

func TestClosedEventsStopClient(t *testing.T) {
	fs := &fakeServer{}
	c, _, _ := newTestClient(t, fs)
	close(fs.handle.EventsCh)
	step(t, c)
	if c.state.Running {
		t.Fatal("client should stop when the server drops it")
	}
}

func TestClampTermSize(t *testing.T) {
	w, h, col, row := clampTermSize(200, 80)
	if w != 160 || h != 60 || col != 20 || row != 10 {
		t.Fatalf("clamp = %d %d %d %d", w, h, col, row)
	}
}

// slowBoard holds every save until release is closed.
type slowBoard struct {
	release chan struct{}
	saved   chan leaderboard.Entry
}

func (b *slowBoard) Save(ctx context.Context, name string, score int) (leaderboard.Entry, error) {
	select {
	case <-b.release:
	case <-ctx.Done():
		return leaderboard.Entry{}, ctx.Err()
	}
	e := leaderboard.Entry{Name: name, Score: score}
	b.saved <- e
	return e, nil
}

func (b *slowBoard) Top(context.Context) ([]leaderboard.Entry, error) { return nil, nil }

func TestRunWaitsForPendingSave(t *testing.T) {
	board := &slowBoard{release: make(chan struct{}), saved: make(chan leaderboard.Entry, 1)}
	tuning := config.DefaultTuning()
	tuning.MouthOffset = 1000 // nothing can be caught
	tuning.FirstSpawnDelay = 10 * time.Millisecond

	stream := input.NewStream()
	quiet := log.New(io.Discard)
	c := newClient(nil, stream, io.Discard, ClientOptions{
		TermSizeFunc: func() (int, int, error) { return 160, 60, nil },
		Username:     "tester",
		App:          app.Options{Tuning: tuning, Board: board, Logger: quiet},
	})

	for _, r := range "Ana" {
		c.app.TypeRune(r)
	}
	c.app.NextSkin()
	c.app.Play()
	for i := 0; i < 10000 && c.app.Screen() == app.ScreenGame; i++ {
		c.app.Update(16 * time.Millisecond)
	}
	if c.app.Screen() != app.ScreenOver || c.app.SaveStatus() != app.SaveInProgress {
		t.Fatalf("screen = %v, save = %v", c.app.Screen(), c.app.SaveStatus())
	}

	// Quit from the game over screen while the save is still running
	stream.Feed([]byte("q"))
	done := make(chan error, 1)
	go func() { done <- c.Run() }()

	select {
	case <-done:
		t.Fatal("Run returned before the save finished")
	case <-time.After(100 * time.Millisecond):
	}

	close(board.release)
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after the save finished")
	}

	select {
	case e := <-board.saved:
		if e.Name != "Ana" {
			t.Fatalf("saved %+v", e)
		}
	default:
		t.Fatal("score was not saved")
	}
}
