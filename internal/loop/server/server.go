package server

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/popcatch/internal/loop/config"
)

// GameServer is the interface clients use to communicate with the lobby.
// Decouples the Client from the concrete Server implementation, enabling
// testing.
type GameServer interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID int)
	Report(clientID int, status PlayerStatus)
	GetSnapshot() *LobbySnapshot
}

// Server tracks every connected client. Each client simulates its own
// game; the server only shares presence, running scores and leaderboard
// changes between them.
type Server struct {
	lobby        *LobbyState
	snapshot     atomic.Pointer[LobbySnapshot]
	nextClientID int
	reportCh     chan ClientReport
	membershipCh chan membership // Joins and leaves, in call order
	mu           sync.RWMutex

	boardVersion func() uint64 // Optional leaderboard change counter
	boardSeen    uint64
	logger       *log.Logger
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// ClientHandle represents a client's connection to the server.
type ClientHandle struct {
	ID       int
	Username string           // SSH user name
	Status   PlayerStatus     // Last reported game state
	EventsCh chan ClientEvent // Events sent to client
}

// membership is a join (handle set) or a leave (handle nil).
type membership struct {
	handle   *ClientHandle
	clientID int
}

// ClientReport is a status update from a specific client.
type ClientReport struct {
	ClientID int
	Status   PlayerStatus
}

// ClientEvent represents an event sent from server to client.
type ClientEvent struct {
	Type ClientEventType
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventBoardChanged ClientEventType = iota // Someone saved a score
	EventServerShutdown
)

// Options configures a Server.
type Options struct {
	// BoardVersion reports a counter that changes when a score is saved.
	BoardVersion func() uint64
	Logger       *log.Logger
}

// NewServer creates a new lobby server.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		lobby:        NewLobbyState(),
		nextClientID: 1,
		reportCh:     make(chan ClientReport, 256),
		membershipCh: make(chan membership, 32),
		boardVersion: opts.BoardVersion,
		logger:       logger.WithPrefix("lobby"),
	}
	if s.boardVersion != nil {
		s.boardSeen = s.boardVersion()
	}

	// Create initial empty snapshot
	s.snapshot.Store(&LobbySnapshot{LiveTop: []LiveScore{}})

	return s
}

// Run starts the server loop. Blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		frameStart := time.Now()
		s.step()

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ServerTickTime {
			time.Sleep(config.ServerTickTime - elapsed)
		}
	}
}

// step runs one lobby update.
func (s *Server) step() {
	s.processRegistrations()
	s.collectReports()
	s.checkBoard()
	s.createSnapshot()
}

// Shutdown gracefully shuts down the server by notifying all connected clients
// and waiting for them to disconnect (up to the given timeout).
// The caller should cancel the server context after Shutdown returns.
func (s *Server) Shutdown(timeout time.Duration) {
	s.broadcast(ClientEvent{Type: EventServerShutdown})

	// Wait for all clients to disconnect, or timeout
	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			return
		case <-ticker.C:
			s.mu.RLock()
			remaining := s.lobby.Len()
			s.mu.RUnlock()
			if remaining == 0 {
				return
			}
		}
	}
}

// RegisterClient registers a new client with the given username and returns its handle.
func (s *Server) RegisterClient(username string) *ClientHandle {
	s.mu.Lock()
	id := s.nextClientID
	s.nextClientID++
	s.mu.Unlock()

	handle := &ClientHandle{
		ID:       id,
		Username: username,
		EventsCh: make(chan ClientEvent, 16),
	}

	s.membershipCh <- membership{handle: handle, clientID: id}
	return handle
}

// UnregisterClient removes a client from the server.
func (s *Server) UnregisterClient(clientID int) {
	s.membershipCh <- membership{clientID: clientID}
}

// Report sends a client's game status to the server.
func (s *Server) Report(clientID int, status PlayerStatus) {
	select {
	case s.reportCh <- ClientReport{ClientID: clientID, Status: status}:
	default:
		// Report channel full, drop; the next frame reports again
	}
}

// GetSnapshot returns the current lobby snapshot.
func (s *Server) GetSnapshot() *LobbySnapshot {
	return s.snapshot.Load()
}

// broadcast sends ev to every client without blocking.
func (s *Server) broadcast(ev ClientEvent) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, handle := range s.lobby.clients {
		select {
		case handle.EventsCh <- ev:
		default:
		}
	}
}

// processRegistrations applies pending joins and leaves in the order they
// were made, so a client that leaves in the same tick it joined is gone.
func (s *Server) processRegistrations() {
	for {
		select {
		case m := <-s.membershipCh:
			s.mu.Lock()
			if m.handle != nil {
				s.lobby.Add(m.handle)
				s.logger.Debug("client joined", "id", m.handle.ID, "user", m.handle.Username)
			} else if handle, ok := s.lobby.Remove(m.clientID); ok {
				close(handle.EventsCh)
				s.logger.Debug("client left", "id", m.clientID, "user", handle.Username)
			}
			s.mu.Unlock()
		default:
			return
		}
	}
}

// collectReports applies pending status reports; the newest one wins.
func (s *Server) collectReports() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		select {
		case r := <-s.reportCh:
			if handle, ok := s.lobby.clients[r.ClientID]; ok {
				handle.Status = r.Status
			}
		default:
			return
		}
	}
}

// checkBoard tells every client when the leaderboard changed.
func (s *Server) checkBoard() {
	if s.boardVersion == nil {
		return
	}
	v := s.boardVersion()
	if v == s.boardSeen {
		return
	}
	s.boardSeen = v
	s.broadcast(ClientEvent{Type: EventBoardChanged})
}

// createSnapshot publishes an immutable view of the lobby.
func (s *Server) createSnapshot() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	top, playing := s.lobby.liveTop(config.LiveScoresShown)
	if top == nil {
		top = []LiveScore{}
	}
	s.snapshot.Store(&LobbySnapshot{
		Players:   s.lobby.Len(),
		Playing:   playing,
		LiveTop:   top,
		BoardSeen: s.boardSeen,
	})
}
