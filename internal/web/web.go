// Package web serves the landing page and the public leaderboard, as JSON
// and as a live websocket feed.
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/tomz197/popcatch/internal/leaderboard"
	"github.com/tomz197/popcatch/internal/loop/config"
)

// Board is the read side of the leaderboard service.
type Board interface {
	Top(ctx context.Context) ([]leaderboard.Entry, error)
}

// Options configures the handler.
type Options struct {
	Board        Board
	Page         string        // HTML with a {{.SSHHost}} placeholder
	SSHHost      string        // Host shown in the connect command
	PollInterval time.Duration // How often websocket clients are refreshed
	Logger       *log.Logger
}

// Row is a leaderboard entry as served to browsers.
type Row struct {
	Rank      int    `json:"rank"`
	Name      string `json:"name"`
	Score     int    `json:"score"`
	Timestamp int64  `json:"ts"`
}

// Payload is the body of /api/leaderboard and of every websocket message.
type Payload struct {
	Scores []Row  `json:"scores"`
	Error  string `json:"error,omitempty"`
}

// Handler routes the web endpoints.
type Handler struct {
	opts     Options
	page     string
	logger   *log.Logger
	mux      *http.ServeMux
	upgrader websocket.Upgrader
}

// NewHandler creates the web handler.
func NewHandler(opts Options) *Handler {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 5 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	h := &Handler{
		opts:   opts,
		page:   strings.ReplaceAll(opts.Page, "{{.SSHHost}}", opts.SSHHost),
		logger: opts.Logger.WithPrefix("web"),
		mux:    http.NewServeMux(),
		upgrader: websocket.Upgrader{
			// The feed is public and read-only
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	h.mux.HandleFunc("/", h.handlePage)
	h.mux.HandleFunc("/api/leaderboard", h.handleLeaderboard)
	h.mux.HandleFunc("/ws", h.handleWS)
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(h.page))
}

func (h *Handler) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	payload, err := h.load(r.Context())
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		w.WriteHeader(http.StatusBadGateway)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// load fetches the board and converts it for browsers.
func (h *Handler) load(ctx context.Context) (Payload, error) {
	ctx, cancel := context.WithTimeout(ctx, config.StoreTimeout)
	defer cancel()

	entries, err := h.opts.Board.Top(ctx)
	if err != nil {
		h.logger.Warn("leaderboard unavailable", "err", err)
		return Payload{Scores: []Row{}, Error: "Could not load leaderboard."}, err
	}
	rows := make([]Row, len(entries))
	for i, e := range entries {
		rows[i] = Row{Rank: i + 1, Name: e.DisplayName(), Score: e.Score, Timestamp: e.Timestamp}
	}
	return Payload{Scores: rows}, nil
}

func (h *Handler) handleWS(w http.ResponseWriter, r *http.Request) {
	// Upgrade HTTP -> WebSocket
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	// Basic timeouts + pong handling (keeps connections healthy)
	conn.SetReadLimit(1 << 10)
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// The feed is one-way; reading only notices when the browser leaves
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	h.stream(r.Context(), conn, closed)
}

// stream pushes the board on connect and whenever it changes.
func (h *Handler) stream(ctx context.Context, conn *websocket.Conn, closed <-chan struct{}) {
	poll := time.NewTicker(h.opts.PollInterval)
	defer poll.Stop()
	ping := time.NewTicker(25 * time.Second)
	defer ping.Stop()

	var last *Payload
	send := func() bool {
		payload, _ := h.load(ctx)
		if last != nil && samePayload(*last, payload) {
			return true
		}
		last = &payload
		_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteJSON(payload); err != nil {
			h.logger.Debug("write failed", "err", err)
			return false
		}
		return true
	}

	if !send() {
		return
	}
	for {
		select {
		case <-closed:
			return
		case <-ctx.Done():
			return
		case <-poll.C:
			if !send() {
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func samePayload(a, b Payload) bool {
	return a.Error == b.Error && slices.Equal(a.Scores, b.Scores)
}
