package server

import (
	"sort"

	"github.com/tomz197/popcatch/internal/loop/config"
)

// PlayerStatus is what a client reports about its own game.
type PlayerStatus struct {
	Playing bool
	Name    string // Name typed on the start form
	Score   int
	Skin    string
}

// LiveScore is a running game shown to everyone connected.
type LiveScore struct {
	Username string
	Score    int
	clientID int // Used for deterministic tie-break when scores are equal
}

// LobbySnapshot is an immutable view of the lobby for rendering.
type LobbySnapshot struct {
	Players   int         // Connected clients
	Playing   int         // Clients with a game in progress
	LiveTop   []LiveScore // Best running games, highest first
	BoardSeen uint64      // Leaderboard version the lobby last broadcast
}

// LobbyState holds the connected clients. It is owned by the server loop.
type LobbyState struct {
	clients map[int]*ClientHandle
}

// NewLobbyState creates an empty lobby.
func NewLobbyState() *LobbyState {
	return &LobbyState{clients: make(map[int]*ClientHandle)}
}

// Add registers a client.
func (l *LobbyState) Add(handle *ClientHandle) {
	l.clients[handle.ID] = handle
}

// Remove drops a client and returns its handle.
func (l *LobbyState) Remove(clientID int) (*ClientHandle, bool) {
	handle, ok := l.clients[clientID]
	if ok {
		delete(l.clients, clientID)
	}
	return handle, ok
}

// Len returns the number of connected clients.
func (l *LobbyState) Len() int {
	return len(l.clients)
}

// liveTop returns the best n running games, score descending then by
// connection order.
func (l *LobbyState) liveTop(n int) (top []LiveScore, playing int) {
	for _, handle := range l.clients {
		if !handle.Status.Playing {
			continue
		}
		playing++
		name := handle.Status.Name
		if name == "" {
			name = handle.Username
		}
		if name == "" {
			name = config.DefaultPlayerName
		}
		top = append(top, LiveScore{Username: name, Score: handle.Status.Score, clientID: handle.ID})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Score != top[j].Score {
			return top[i].Score > top[j].Score
		}
		return top[i].clientID < top[j].clientID
	})
	if len(top) > n {
		top = top[:n]
	}
	return top, playing
}
