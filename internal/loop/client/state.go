package client

import (
	"time"

	"github.com/tomz197/popcatch/internal/input"
)

// ClientState holds per-connection state that is not part of the game
// flow: the frame clock, inactivity and shutdown handling.
type ClientState struct {
	Input         input.Input
	Running       bool          // Client loop running
	Shutdown      bool          // Server is shutting down
	delta         time.Duration // Frame delta time (client-side)
	shutdownTimer float64       // Countdown before auto-disconnect on shutdown
	isInactive    bool          // Whether the client is in inactive warning state
	lastReport    reportKey     // Last status sent to the lobby
}

// reportKey is the part of the game state the lobby cares about.
type reportKey struct {
	playing bool
	name    string
	score   int
	skin    string
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{Running: true}
}
