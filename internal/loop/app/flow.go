package app

import (
	"time"
	"unicode/utf8"

	"github.com/tomz197/popcatch/internal/input"
	"github.com/tomz197/popcatch/internal/leaderboard"
	"github.com/tomz197/popcatch/internal/loop/config"
	"github.com/tomz197/popcatch/internal/loop/session"
	"github.com/tomz197/popcatch/internal/physics"
	"github.com/tomz197/popcatch/internal/prefs"
	"github.com/tomz197/popcatch/internal/skin"
)

// HandleInput applies one frame of keyboard input to the current screen.
func (a *App) HandleInput(in input.Input) {
	if in.Quit {
		a.quit = true
		return
	}

	switch a.screen {
	case ScreenStart:
		a.handleStart(in)
	case ScreenBoard:
		switch {
		case in.Has(input.KeyEscape), in.Has(input.KeyEnter), in.HasRune('b'):
			a.Home()
		case in.HasRune('r'):
			a.OpenBoard()
		case in.HasRune('q'):
			a.quit = true
		}
	case ScreenGame:
		a.steer = 0
		if in.Left && !in.Right {
			a.steer = -1
		} else if in.Right && !in.Left {
			a.steer = 1
		}
		switch {
		case in.Has(input.KeyEscape):
			a.Home()
		case in.HasRune('q'):
			a.quit = true
		}
	case ScreenOver:
		switch {
		case in.Has(input.KeyEnter), in.HasRune('r'):
			a.Play()
		case in.Has(input.KeyEscape), in.HasRune('h'):
			a.Home()
		case in.Has(input.KeyTab), in.HasRune('b'):
			a.OpenBoard()
		case in.HasRune('q'):
			a.quit = true
		}
	}
}

// handleStart edits the form. Letters go into the name, so quitting from
// here is Escape or Ctrl-C.
func (a *App) handleStart(in input.Input) {
	for _, r := range in.Text {
		a.TypeRune(r)
	}
	for _, k := range in.Keys {
		switch k {
		case input.KeyBackspace:
			a.Backspace()
		case input.KeyLeft, input.KeyUp:
			a.PrevSkin()
		case input.KeyRight, input.KeyDown:
			a.NextSkin()
		case input.KeyTab:
			a.OpenBoard()
			return
		case input.KeyEnter:
			a.Play()
			return
		case input.KeyEscape:
			a.quit = true
			return
		}
	}
}

// TypeRune appends r to the name, up to MaxUsernameLength runes.
func (a *App) TypeRune(r rune) {
	if len(a.name) >= config.MaxUsernameLength || !utf8.ValidRune(r) {
		return
	}
	a.name = append(a.name, r)
}

// Backspace deletes the last rune of the name.
func (a *App) Backspace() {
	if len(a.name) > 0 {
		a.name = a.name[:len(a.name)-1]
	}
}

// NextSkin selects the following skin, wrapping around.
func (a *App) NextSkin() {
	a.selectSkin((a.skinIdx + 1) % len(skin.IDs))
}

// PrevSkin selects the preceding skin, wrapping around. With no skin
// chosen it selects the last one.
func (a *App) PrevSkin() {
	if a.skinIdx < 0 {
		a.selectSkin(len(skin.IDs) - 1)
		return
	}
	a.selectSkin((a.skinIdx - 1 + len(skin.IDs)) % len(skin.IDs))
}

func (a *App) selectSkin(i int) {
	a.skinIdx = i
	a.savePrefs()
}

// Play validates the form and starts a game. From the game-over screen it
// replays with the same name and skin.
func (a *App) Play() {
	if !a.CanPlay() {
		a.showToast("Enter your name and choose a skin.")
		return
	}
	a.name = []rune(leaderboard.SanitizeName(string(a.name)))
	a.savePrefs()

	if a.opts.Sprites != nil {
		a.session.SetSkin(a.opts.Sprites(a.Skin()))
	}
	if err := a.session.Start(); err != nil {
		a.logger.Warn("start failed", "err", err)
		return
	}
	a.steer = 0
	a.save = SaveNone
	a.hintLeft = config.HintSeconds
	a.screen = ScreenGame
	a.logger.Debug("game started", "skin", a.Skin())
}

// Home returns to the start form, abandoning a game in progress.
func (a *App) Home() {
	if a.screen == ScreenGame {
		a.session = a.newSession()
	}
	a.screen = ScreenStart
}

// OpenBoard shows the leaderboard and fetches it.
func (a *App) OpenBoard() {
	if a.screen == ScreenGame {
		a.session = a.newSession()
	}
	a.screen = ScreenBoard
	a.board = BoardLoading
	a.boardGen++
	a.loadBoard(a.boardGen)
}

// RefreshBoard refetches the leaderboard if it is showing.
func (a *App) RefreshBoard() {
	if a.screen == ScreenBoard {
		a.boardGen++
		a.loadBoard(a.boardGen)
	}
}

// SetPointer aims the catcher at field x while a game is running.
func (a *App) SetPointer(x float64) {
	if a.screen == ScreenGame {
		a.session.SetPointer(x)
	}
}

// Update advances timers, applies finished store calls and ticks the game.
func (a *App) Update(dt time.Duration) {
	secs := dt.Seconds()
	a.toastLeft = max(a.toastLeft-secs, 0)
	a.hintLeft = max(a.hintLeft-secs, 0)

	a.pollResults()

	if a.screen != ScreenGame {
		return
	}

	if a.steer != 0 {
		a.steerTarget(dt)
	}

	if res := a.session.Tick(dt); res.GameOver {
		a.gameOver()
	}
}

// steerTarget moves the catcher target with the held arrow key.
func (a *App) steerTarget(dt time.Duration) {
	t := a.opts.Tuning
	c := a.session.Catcher()
	x := c.CenterX()
	if c.Target != nil {
		x = *c.Target
	}
	scale := physics.FrameScale(dt, t.ReferenceFrame, t.MaxFrameDelta)
	x = physics.Clamp(x+a.steer*config.KeySteerSpeed*scale, c.W/2, t.Width-c.W/2)
	a.session.SetPointer(x)
}

func (a *App) gameOver() {
	a.lastScore = a.session.Score()
	a.screen = ScreenOver
	a.save = SaveInProgress
	a.steer = 0
	a.logger.Info("game over", "score", a.lastScore, "elapsed", a.session.Elapsed().Round(time.Millisecond))
	a.saveScore(string(a.name), a.lastScore)
}

func (a *App) newSession() *session.GameSession {
	return session.New(a.opts.Tuning, a.opts.Rand)
}

func (a *App) showToast(msg string) {
	a.toast = msg
	a.toastLeft = config.ToastSeconds
}

func (a *App) savePrefs() {
	if a.opts.Prefs == nil {
		return
	}
	p := prefs.Prefs{Name: string(a.name), Skin: a.Skin()}
	if err := a.opts.Prefs.Save(a.opts.User, p); err != nil {
		a.logger.Warn("could not save preferences", "err", err)
	}
}
