// Package app implements the screen flow shared by every front end: the
// start form, the leaderboard, the game itself and the game-over screen.
// Front ends feed it input and frame deltas and render what it exposes.
package app

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/popcatch/internal/leaderboard"
	"github.com/tomz197/popcatch/internal/loop/config"
	"github.com/tomz197/popcatch/internal/loop/session"
	"github.com/tomz197/popcatch/internal/prefs"
	"github.com/tomz197/popcatch/internal/skin"
)

// Screen is the visible screen.
type Screen int

const (
	ScreenStart Screen = iota // Name and skin form
	ScreenBoard               // Leaderboard
	ScreenGame                // Active gameplay
	ScreenOver                // Final score and save status
)

// SaveStatus tracks the score save after a game.
type SaveStatus int

const (
	SaveNone SaveStatus = iota
	SaveInProgress
	SaveDone
	SaveFailed
)

// BoardStatus tracks the leaderboard fetch.
type BoardStatus int

const (
	BoardLoading BoardStatus = iota
	BoardReady
	BoardFailed
)

// Leaderboard is the score service the app talks to.
type Leaderboard interface {
	Save(ctx context.Context, name string, score int) (leaderboard.Entry, error)
	Top(ctx context.Context) ([]leaderboard.Entry, error)
}

// PrefsStore remembers a player's last name and skin.
type PrefsStore interface {
	Load(user string) prefs.Prefs
	Save(user string, p prefs.Prefs) error
}

// SpriteFunc returns the sprite of a skin, or nil to draw the default
// catcher.
type SpriteFunc func(id string) *skin.Sprite

// Options configures an App.
type Options struct {
	User    string        // Preferences key
	Tuning  config.Tuning // Zero value uses config.DefaultTuning
	Board   Leaderboard   // Required
	Prefs   PrefsStore    // Optional
	Sprites SpriteFunc    // Optional
	Rand    *rand.Rand    // Optional; seeds sessions
	Logger  *log.Logger   // Optional
	Timeout time.Duration // Store call timeout; zero uses config.StoreTimeout
}

type saveResult struct {
	gen   int
	entry leaderboard.Entry
	err   error
}

type boardResult struct {
	gen     int
	entries []leaderboard.Entry
	err     error
}

// App is one player's UI state. Like GameSession it is owned by a single
// frame loop; only the store calls run on other goroutines.
type App struct {
	opts   Options
	logger *log.Logger

	screen  Screen
	name    []rune
	skinIdx int // -1 until a skin is chosen
	session *session.GameSession
	steer   float64 // -1, 0 or 1 from held arrow keys

	lastScore int
	save      SaveStatus
	saveGen   int

	board    BoardStatus
	entries  []leaderboard.Entry
	boardGen int

	toast     string
	toastLeft float64 // Seconds
	hintLeft  float64 // Seconds

	quit bool

	saveCh  chan saveResult
	boardCh chan boardResult
	pending sync.WaitGroup
}

// New creates an app on the start screen, restoring the user's last name
// and skin when a PrefsStore is set.
func New(opts Options) *App {
	if opts.Tuning == (config.Tuning{}) {
		opts.Tuning = config.DefaultTuning()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = config.StoreTimeout
	}

	p := prefs.Defaults()
	if opts.Prefs != nil {
		p = opts.Prefs.Load(opts.User)
	}

	a := &App{
		opts:    opts,
		logger:  opts.Logger.With("user", opts.User),
		screen:  ScreenStart,
		name:    []rune(p.Name),
		skinIdx: skin.Index(p.Skin),
		session: session.New(opts.Tuning, opts.Rand),
		saveCh:  make(chan saveResult, 4),
		boardCh: make(chan boardResult, 1),
	}
	return a
}

// Screen returns the visible screen.
func (a *App) Screen() Screen { return a.screen }

// Name returns the name typed on the start form.
func (a *App) Name() string { return string(a.name) }

// Skin returns the selected skin ID, or "" before one is chosen.
func (a *App) Skin() string {
	if a.skinIdx < 0 {
		return ""
	}
	return skin.IDs[a.skinIdx]
}

// SkinIndex returns the position of the selected skin in skin.IDs, or -1.
func (a *App) SkinIndex() int { return a.skinIdx }

// Session returns the game session; it is meaningful on ScreenGame and
// ScreenOver.
func (a *App) Session() *session.GameSession { return a.session }

// Sprites returns the skin sprite lookup, which may be nil.
func (a *App) Sprites() SpriteFunc { return a.opts.Sprites }

// Tuning returns the gameplay parameters.
func (a *App) Tuning() config.Tuning { return a.opts.Tuning }

// LastScore returns the score of the most recent finished game.
func (a *App) LastScore() int { return a.lastScore }

// SaveStatus returns the state of the last score save.
func (a *App) SaveStatus() SaveStatus { return a.save }

// SaveMessage returns the text shown under the final score.
func (a *App) SaveMessage() string {
	switch a.save {
	case SaveInProgress:
		return "Saving score..."
	case SaveDone:
		return "Score saved."
	case SaveFailed:
		return "Could not save score."
	default:
		return ""
	}
}

// Board returns the leaderboard fetch state and the ranked entries.
func (a *App) Board() (BoardStatus, []leaderboard.Entry) {
	return a.board, a.entries
}

// Toast returns the transient message, if one is showing.
func (a *App) Toast() (string, bool) {
	return a.toast, a.toastLeft > 0
}

// HintVisible reports whether the control hint is showing.
func (a *App) HintVisible() bool {
	return a.hintLeft > 0
}

// CanPlay reports whether the start form is complete.
func (a *App) CanPlay() bool {
	return leaderboard.SanitizeName(string(a.name)) != "" && skin.Valid(a.Skin())
}

// Quit reports whether the player asked to leave.
func (a *App) Quit() bool { return a.quit }

// RequestQuit makes Quit report true.
func (a *App) RequestQuit() { a.quit = true }

// Wait blocks until in-flight store calls finish. Their results are
// applied by the next Update.
func (a *App) Wait() {
	a.pending.Wait()
}
