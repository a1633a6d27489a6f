package client

import (
	"fmt"
	"time"

	"github.com/tomz197/popcatch/internal/draw"
	"github.com/tomz197/popcatch/internal/loop/app"
	"github.com/tomz197/popcatch/internal/loop/config"
	"github.com/tomz197/popcatch/internal/object"
	"github.com/tomz197/popcatch/internal/skin"
)

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// The canvas only writes filled cells, so every frame starts blank.
	// The clear is buffered with the rest of the frame and sent in one flush.
	c.chunkWriter.Clear()

	c.canvas.Clear()
	ctx := object.DrawContext{Canvas: c.canvas}

	if !c.state.Shutdown && !c.state.isInactive {
		switch c.app.Screen() {
		case app.ScreenGame:
			if err := c.drawField(ctx); err != nil {
				return err
			}
		case app.ScreenStart:
			c.drawSkinPreview(ctx)
		}
	}

	// Render canvas to terminal
	c.chunkWriter.WriteString(c.styles.popcorn)
	c.canvas.Render(c.chunkWriter)
	c.chunkWriter.WriteString(draw.ColorReset)

	// Draw border when terminal exceeds max render resolution
	c.canvas.RenderBorder(c.chunkWriter)

	c.drawUI()

	return c.chunkWriter.Flush()
}

// drawField draws the floor and every game object.
func (c *Client) drawField(ctx object.DrawContext) error {
	t := c.app.Tuning()
	floor := t.FloorY()
	for x := 0.0; x < t.Width; x += 12 {
		c.canvas.DrawLine(draw.Point{X: x, Y: floor}, draw.Point{X: x + 6, Y: floor})
	}
	for _, obj := range c.app.Session().Objects() {
		if err := obj.Draw(ctx); err != nil {
			return err
		}
	}
	return nil
}

// drawSkinPreview draws the selected catcher under the start form.
func (c *Client) drawSkinPreview(ctx object.DrawContext) {
	if c.app.Skin() == "" {
		return
	}
	t := c.app.Tuning()
	preview := object.NewCatcher(t)
	if sprites := c.app.Sprites(); sprites != nil {
		preview.Sprite = sprites(c.app.Skin())
	}
	preview.Draw(ctx)
}

// drawUI draws the text overlay.
func (c *Client) drawUI() {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if c.state.Shutdown {
		c.drawShutdownScreen(centerX, centerY)
		return
	}

	if c.state.isInactive {
		c.drawInactivityScreen(centerX, centerY)
		return
	}

	switch c.app.Screen() {
	case app.ScreenStart:
		c.drawStartScreen(centerX, centerY, termHeight)
	case app.ScreenBoard:
		c.drawBoardScreen(centerX, termHeight)
	case app.ScreenGame:
		c.drawPlayingHUD(termWidth, termHeight)
	case app.ScreenOver:
		c.drawOverScreen(centerX, centerY)
	}

	if msg, ok := c.app.Toast(); ok {
		c.chunkWriter.Centered(centerX, termHeight-1, c.styles.bad.Render(msg))
	}
	c.drawPlayers(termWidth, termHeight)
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	c.chunkWriter.Centered(centerX, centerY-2, c.styles.title.Render("INACTIVITY WARNING"))

	msg := fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	)
	c.chunkWriter.Centered(centerX, centerY, msg)
	c.chunkWriter.Centered(centerX, centerY+2, c.styles.dim.Render("Press any key to continue"))
}

// drawStartScreen draws the title and the name/skin form.
func (c *Client) drawStartScreen(centerX, centerY, termHeight int) {
	st := c.styles
	row := max(centerY-11, 1)
	row += c.chunkWriter.Block(centerX, row, st.box.Render(st.title.Render("P O P C A T C H")))
	c.chunkWriter.Centered(centerX, row, st.dim.Render("~ Catch the popcorn before it hits the floor ~"))

	// Form
	name := c.app.Name()
	cursor := " "
	if time.Now().UnixMilli()/500%2 == 0 {
		cursor = "_"
	}
	field := fmt.Sprintf("%-*s", config.MaxUsernameLength+1, name+cursor)
	c.chunkWriter.Centered(centerX, row+2, "Name  "+st.accent.Underline(true).Render(field))

	skinName := c.app.Skin()
	if skinName == "" {
		skinName = noSkinLabel
	}
	skinLine := fmt.Sprintf("◀ %-*s ▶", maxSkinNameLen(), skinName)
	c.chunkWriter.Centered(centerX, row+3, "Skin  "+st.accent.Render(skinLine))

	controlLines := []string{
		"type . . . . . . . .  Name",
		"< >  . . . . . . . .  Skin",
		"ENTER  . . . . . . .  Play",
		"TAB  . . . . . Leaderboard",
		"ESC  . . . . . . . .  Quit",
	}
	for i, line := range controlLines {
		c.chunkWriter.Centered(centerX, row+5+i, st.dim.Render(line))
	}

	// Blinking start prompt
	if c.app.CanPlay() && time.Now().UnixMilli()/600%2 == 0 {
		c.chunkWriter.Centered(centerX, row+6+len(controlLines), st.title.Render(">>  Press ENTER to Play  <<"))
	}
}

// noSkinLabel fills the skin selector until a skin is chosen.
const noSkinLabel = "- choose -"

func maxSkinNameLen() int {
	n := 0
	for _, id := range skin.IDs {
		n = max(n, len(id))
	}
	return n
}

// drawBoardScreen draws the ranked leaderboard.
func (c *Client) drawBoardScreen(centerX, termHeight int) {
	st := c.styles
	row := 1
	row += c.chunkWriter.Block(centerX, row, st.box.Render(st.title.Render("LEADERBOARD")))
	row++

	status, entries := c.app.Board()
	switch {
	case status == app.BoardLoading:
		c.chunkWriter.Centered(centerX, row, st.dim.Render("Loading..."))
	case status == app.BoardFailed:
		c.chunkWriter.Centered(centerX, row, st.bad.Render("Could not load leaderboard."))
	case len(entries) == 0:
		c.chunkWriter.Centered(centerX, row, st.dim.Render("No scores yet."))
	default:
		rows := max(termHeight-row-2, 1)
		for i, e := range entries {
			if i >= rows {
				break
			}
			line := st.rank.Render(fmt.Sprintf("%2d.", i+1)) + " " +
				fmt.Sprintf("%-*s", config.MaxUsernameLength, e.DisplayName()) + " " +
				st.score.Render(fmt.Sprintf("%6d", e.Score)) + "  " +
				st.dim.Render(e.Time().Local().Format("2006-01-02 15:04"))
			c.chunkWriter.Centered(centerX, row+i, line)
		}
	}

	c.chunkWriter.Centered(centerX, termHeight, st.dim.Render("ESC back · R refresh · Q quit"))
}

// drawPlayingHUD draws the in-game HUD.
func (c *Client) drawPlayingHUD(termWidth, termHeight int) {
	s := c.app.Session()
	cw := c.chunkWriter
	cw.WriteAt(2, 1, c.styles.score.Render(fmt.Sprintf("Score: %-6d", s.Score())))

	timeText := fmt.Sprintf("Time: %6.1fs", s.Elapsed().Seconds())
	cw.WriteAt(termWidth-len(timeText)-1, 1, timeText)

	if c.app.HintVisible() {
		c.chunkWriter.Centered(termWidth/2, 3, c.styles.dim.Render("Move the mouse or hold < > to catch the popcorn"))
	}
}

// drawOverScreen draws the final score and the save status.
func (c *Client) drawOverScreen(centerX, centerY int) {
	titleArt := []string{
		`   ___   _   __  __ ___    _____   _____ ___  `,
		`  / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \ `,
		` | (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   / `,
		`  \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\ `,
	}

	st := c.styles
	titleStartY := max(centerY-6, 1)
	for i, line := range titleArt {
		c.chunkWriter.Centered(centerX, titleStartY+i, st.title.Render(line))
	}
	row := titleStartY + len(titleArt) + 1

	c.chunkWriter.Centered(centerX, row, st.score.Render(fmt.Sprintf("Score: %d", c.app.LastScore())))

	msg := c.app.SaveMessage()
	switch c.app.SaveStatus() {
	case app.SaveDone:
		msg = st.good.Render(msg)
	case app.SaveFailed:
		msg = st.bad.Render(msg)
	default:
		msg = st.dim.Render(msg)
	}
	c.chunkWriter.Centered(centerX, row+2, msg)

	if time.Now().UnixMilli()/600%2 == 0 {
		c.chunkWriter.Centered(centerX, row+4, st.title.Render(">>  Press ENTER to Play Again  <<"))
	}
	c.chunkWriter.Centered(centerX, row+6, st.dim.Render("H home · B leaderboard · Q quit"))
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	c.chunkWriter.Centered(centerX, centerY-3, c.styles.title.Render("SERVER SHUTTING DOWN"))
	c.chunkWriter.Centered(centerX, centerY-1, "The server is restarting for maintenance.")
	c.chunkWriter.Centered(centerX, centerY, "Please reconnect in a moment.")

	remaining := int(c.state.shutdownTimer) + 1
	c.chunkWriter.Centered(centerX, centerY+2, fmt.Sprintf("Disconnecting in %d seconds...", remaining))
	c.chunkWriter.Centered(centerX, centerY+4, c.styles.dim.Render("Press Q to disconnect now"))
}

// drawPlayers lists who else is online (bottom right) and the best
// running games during play.
func (c *Client) drawPlayers(termWidth, termHeight int) {
	if c.server == nil {
		return
	}
	snapshot := c.server.GetSnapshot()
	cw := c.chunkWriter

	playersText := fmt.Sprintf("Players: %-4d", snapshot.Players)
	cw.WriteAt(termWidth-len(playersText)-1, termHeight, c.styles.dim.Render(playersText))

	if c.app.Screen() != app.ScreenGame || len(snapshot.LiveTop) == 0 {
		return
	}
	for i, live := range snapshot.LiveTop {
		line := fmt.Sprintf("%-*s %5d", config.MaxUsernameLength, live.Username, live.Score)
		cw.WriteAt(termWidth-len(line)-1, 3+i, c.styles.dim.Render(line))
	}
}
