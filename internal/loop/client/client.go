package client

import (
	"bufio"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tomz197/popcatch/internal/draw"
	"github.com/tomz197/popcatch/internal/input"
	"github.com/tomz197/popcatch/internal/loop/app"
	"github.com/tomz197/popcatch/internal/loop/config"
	"github.com/tomz197/popcatch/internal/loop/server"
)

// Client handles rendering and input for a single terminal connection.
type Client struct {
	server       server.GameServer // Nil for offline play
	handle       *server.ClientHandle
	app          *app.App
	state        *ClientState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	username     string
	termSizeFunc draw.TermSizeFunc
	styles       styles
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	App          app.Options
	Renderer     *lipgloss.Renderer // Nil uses NewRenderer(w)
}

// NewClient creates a new client. gs may be nil for a single offline player.
func NewClient(gs server.GameServer, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	return newClient(gs, input.StartStream(r), w, opts)
}

func newClient(gs server.GameServer, stream *input.Stream, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = NewRenderer(w)
	}

	var handle *server.ClientHandle
	if gs != nil {
		handle = gs.RegisterClient(opts.Username)
	}
	if opts.App.User == "" {
		opts.App.User = opts.Username
	}

	a := app.New(opts.App)
	field := a.Tuning()

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, err := draw.TerminalSizeRawWith(termSizeFunc)
	if err != nil {
		termWidth, termHeight = 80, 24
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, field.Width, field.Height)
	canvas.SetOffset(offsetCol, offsetRow)
	chunkWriter := draw.NewChunkWriter(w, offsetCol, offsetRow)

	return &Client{
		server:       gs,
		handle:       handle,
		app:          a,
		state:        NewClientState(),
		canvas:       canvas,
		chunkWriter:  chunkWriter,
		writer:       w,
		lastInput:    time.Now(),
		inputStream:  stream,
		username:     opts.Username,
		termSizeFunc: termSizeFunc,
		styles:       newStyles(renderer),
	}
}

// Run starts the client loop. Blocks until the player quits, the
// connection closes or the server shutdown countdown ends, and then until
// pending store calls finish.
func (c *Client) Run() error {
	// A score save started on the last frames must land before the caller
	// can exit. Store calls are bounded by the app's timeout.
	defer c.app.Wait()

	draw.HideCursor(c.writer)
	draw.EnableMouse(c.writer)
	defer draw.ShowCursor(c.writer)
	defer draw.DisableMouse(c.writer)
	draw.ClearScreen(c.writer)

	lastTime := time.Now()

	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		if err := c.frame(); err != nil {
			c.unregister()
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	c.unregister()
	draw.ClearScreen(c.writer)
	return nil
}

// frame runs one Input -> Update -> Draw cycle.
func (c *Client) frame() error {
	c.processInput()
	c.processServerEvents()
	c.updateScreen()

	if c.state.Shutdown {
		c.updateShutdownState()
	} else {
		c.app.Update(c.state.delta)
		if c.app.Quit() {
			c.state.Running = false
		}
		c.report()
	}

	return c.drawFrame()
}

func (c *Client) unregister() {
	if c.server != nil {
		c.server.UnregisterClient(c.handle.ID)
	}
}

// processInput reads input and hands it to the game flow.
func (c *Client) processInput() {
	c.state.Input = input.ReadInput(c.inputStream)
	in := c.state.Input

	if len(in.Pressed) > 0 {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityDisconnectUser {
		c.state.Running = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityWarnUser {
		c.state.isInactive = true
	}

	if in.Quit {
		c.state.Running = false
		return
	}

	if c.state.Shutdown {
		if in.HasRune('q') || in.Has(input.KeyEscape) {
			c.state.Running = false
		}
		return
	}

	if in.Pointer != nil {
		x, _ := c.canvas.TerminalToLogical(in.Pointer.Col, in.Pointer.Row)
		c.app.SetPointer(x)
	}
	c.app.HandleInput(in)
}

// processServerEvents handles events from the lobby.
func (c *Client) processServerEvents() {
	if c.server == nil {
		return
	}
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				// Server closed the channel
				c.state.Running = false
				return
			}
			switch event.Type {
			case server.EventBoardChanged:
				c.app.RefreshBoard()
			case server.EventServerShutdown:
				c.state.Shutdown = true
				c.state.shutdownTimer = config.ShutdownDisplaySeconds
			}
		default:
			return
		}
	}
}

// report sends the game status to the lobby when it changed.
func (c *Client) report() {
	if c.server == nil {
		return
	}
	s := c.app.Session()
	key := reportKey{
		playing: c.app.Screen() == app.ScreenGame,
		name:    c.app.Name(),
		score:   s.Score(),
		skin:    c.app.Skin(),
	}
	if key == c.state.lastReport {
		return
	}
	c.state.lastReport = key
	c.server.Report(c.handle.ID, server.PlayerStatus{
		Playing: key.playing,
		Name:    key.name,
		Score:   key.score,
		Skin:    key.skin,
	})
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area (e.g. old borders or offset content).
func (c *Client) updateScreen() {
	termWidth, termHeight, err := draw.TerminalSizeRawWith(c.termSizeFunc)
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.writer)
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = termWidth
	renderHeight = termHeight
	if renderWidth > config.MaxTermWidth {
		renderWidth = config.MaxTermWidth
	}
	if renderHeight > config.MaxTermHeight {
		renderHeight = config.MaxTermHeight
	}
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

// updateShutdownState handles the shutdown screen countdown.
func (c *Client) updateShutdownState() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}
