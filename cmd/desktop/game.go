package main

import (
	"fmt"
	"image/color"
	_ "image/png"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/tomz197/popcatch/internal/input"
	"github.com/tomz197/popcatch/internal/loop/app"
	"github.com/tomz197/popcatch/internal/loop/config"
	"github.com/tomz197/popcatch/internal/object"
	"github.com/tomz197/popcatch/internal/skin"
)

// Debug font cell size
const (
	glyphW = 6
	glyphH = 16
)

var (
	backgroundColor = color.RGBA{0x11, 0x11, 0x11, 0xff}
	popcornColor    = color.RGBA{0xff, 0xf3, 0xc4, 0xff}
	catcherColor    = color.RGBA{0xd9, 0x3a, 0x3a, 0xff}
	floorColor      = color.RGBA{0x55, 0x55, 0x55, 0xff}
)

// Game adapts the shared app to ebiten.
type Game struct {
	app      *app.App
	skinsDir string
	logger   *log.Logger
	last     time.Time
	cursor   [2]int

	images map[string]*ebiten.Image // nil entries remember failed loads
}

func newGame(a *app.App, skinsDir string, logger *log.Logger) *Game {
	return &Game{
		app:      a,
		skinsDir: skinsDir,
		logger:   logger,
		images:   make(map[string]*ebiten.Image),
	}
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	now := time.Now()
	dt := time.Second / time.Duration(ebiten.TPS())
	if !g.last.IsZero() {
		dt = now.Sub(g.last)
	}
	g.last = now

	g.app.HandleInput(readInput())

	// Only a moved cursor takes over from the arrow keys
	x, y := ebiten.CursorPosition()
	if [2]int{x, y} != g.cursor {
		g.cursor = [2]int{x, y}
		g.app.SetPointer(float64(x))
	}

	g.app.Update(dt)
	if g.app.Quit() {
		return ebiten.Termination
	}
	return nil
}

// readInput maps this tick's keyboard state onto the terminal input model.
func readInput() input.Input {
	var in input.Input
	keys := []struct {
		ebiten ebiten.Key
		key    input.Key
	}{
		{ebiten.KeyArrowUp, input.KeyUp},
		{ebiten.KeyArrowDown, input.KeyDown},
		{ebiten.KeyArrowLeft, input.KeyLeft},
		{ebiten.KeyArrowRight, input.KeyRight},
		{ebiten.KeyEnter, input.KeyEnter},
		{ebiten.KeyNumpadEnter, input.KeyEnter},
		{ebiten.KeyTab, input.KeyTab},
		{ebiten.KeyEscape, input.KeyEscape},
	}
	for _, k := range keys {
		if inpututil.IsKeyJustPressed(k.ebiten) {
			in.Keys = append(in.Keys, k.key)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		in.Keys = append(in.Keys, input.KeyBackspace)
	} else if d := inpututil.KeyPressDuration(ebiten.KeyBackspace); d > 30 && d%3 == 0 {
		in.Keys = append(in.Keys, input.KeyBackspace)
	}

	in.Text = ebiten.AppendInputChars(nil)
	in.Left = ebiten.IsKeyPressed(ebiten.KeyArrowLeft)
	in.Right = ebiten.IsKeyPressed(ebiten.KeyArrowRight)
	return in
}

// Layout implements ebiten.Game. The screen is the logical field.
func (g *Game) Layout(_, _ int) (int, int) {
	t := g.app.Tuning()
	return int(t.Width), int(t.Height)
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	switch g.app.Screen() {
	case app.ScreenStart:
		g.drawStart(screen)
	case app.ScreenBoard:
		g.drawBoard(screen)
	case app.ScreenGame:
		g.drawField(screen)
		g.drawHUD(screen)
	case app.ScreenOver:
		g.drawField(screen)
		g.drawOver(screen)
	}

	if msg, ok := g.app.Toast(); ok {
		t := g.app.Tuning()
		printCentered(screen, msg, int(t.Width)/2, int(t.Height)-3*glyphH)
	}
}

func (g *Game) drawField(screen *ebiten.Image) {
	s := g.app.Session()
	if s == nil {
		return
	}
	t := s.Tuning()

	floor := float32(t.FloorY())
	for x := float32(0); x < float32(t.Width); x += 12 {
		vector.StrokeLine(screen, x, floor, x+6, floor, 1, floorColor, false)
	}

	for _, p := range s.Popcorns() {
		if p.Dead {
			continue
		}
		vector.DrawFilledCircle(screen, float32(p.X), float32(p.Y), float32(p.Radius), popcornColor, true)
	}
	for _, obj := range s.Particles() {
		p, ok := obj.(*object.Particle)
		if !ok {
			continue
		}
		clr := color.NRGBA{popcornColor.R, popcornColor.G, popcornColor.B, uint8(255 * p.Alpha())}
		if p.Ring {
			vector.StrokeCircle(screen, float32(p.X), float32(p.Y), float32(p.Radius), 2, clr, true)
		} else {
			vector.DrawFilledCircle(screen, float32(p.X), float32(p.Y), 2, clr, true)
		}
	}

	g.drawCatcher(screen, s.Catcher(), g.app.Skin())
}

// drawCatcher draws the skin image stretched over the catcher, or a
// bucket when the image is missing.
func (g *Game) drawCatcher(screen *ebiten.Image, c *object.Catcher, id string) {
	if img := g.image(id); img != nil {
		b := img.Bounds()
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(c.W/float64(b.Dx()), c.H/float64(b.Dy()))
		op.GeoM.Translate(c.X, c.Y)
		op.Filter = ebiten.FilterLinear
		screen.DrawImage(img, op)
		return
	}

	x, y, w, h := float32(c.X), float32(c.Y), float32(c.W), float32(c.H)
	inset := w * 0.1
	vector.DrawFilledRect(screen, x+inset, y+h*0.15, w-2*inset, h*0.85, catcherColor, false)
	vector.StrokeRect(screen, x, y, w, h*0.15, 2, color.White, false)
}

// image loads the desktop skin image once. Failures are cached as nil.
func (g *Game) image(id string) *ebiten.Image {
	if img, ok := g.images[id]; ok {
		return img
	}
	var img *ebiten.Image
	if g.skinsDir != "" {
		loaded, _, err := ebitenutil.NewImageFromFile(skin.ImagePath(g.skinsDir, id))
		if err != nil {
			g.logger.Debug("skin image unavailable", "skin", id, "err", err)
		} else {
			img = loaded
		}
	}
	g.images[id] = img
	return img
}

func (g *Game) drawStart(screen *ebiten.Image) {
	t := g.app.Tuning()
	cx := int(t.Width) / 2
	row := int(t.Height)/2 - 9*glyphH

	printCentered(screen, "P O P C A T C H", cx, row)
	printCentered(screen, "~ Catch the popcorn before it hits the floor ~", cx, row+glyphH)

	cursor := " "
	if time.Now().UnixMilli()/500%2 == 0 {
		cursor = "_"
	}
	name := fmt.Sprintf("%-*s", config.MaxUsernameLength+1, g.app.Name()+cursor)
	printCentered(screen, "Name  ["+name+"]", cx, row+3*glyphH)
	skinName := g.app.Skin()
	if skinName == "" {
		skinName = "- choose -"
	}
	printCentered(screen, "Skin  < "+skinName+" >", cx, row+4*glyphH)

	// Skin preview where the catcher will stand
	preview := object.NewCatcher(t)
	preview.Y = float64(row + 6*glyphH)
	if g.app.Skin() != "" {
		g.drawCatcher(screen, preview, g.app.Skin())
	}

	controls := []string{
		"type: name   < >: skin",
		"ENTER play   TAB leaderboard   ESC quit",
	}
	base := int(preview.Y+preview.H) + glyphH
	for i, line := range controls {
		printCentered(screen, line, cx, base+i*glyphH)
	}
	if g.app.CanPlay() && time.Now().UnixMilli()/600%2 == 0 {
		printCentered(screen, ">>  Press ENTER to Play  <<", cx, base+3*glyphH)
	}
}

func (g *Game) drawBoard(screen *ebiten.Image) {
	t := g.app.Tuning()
	cx := int(t.Width) / 2
	row := glyphH

	printCentered(screen, "LEADERBOARD", cx, row)
	row += 2 * glyphH

	status, entries := g.app.Board()
	switch {
	case status == app.BoardLoading:
		printCentered(screen, "Loading...", cx, row)
	case status == app.BoardFailed:
		printCentered(screen, "Could not load leaderboard.", cx, row)
	case len(entries) == 0:
		printCentered(screen, "No scores yet.", cx, row)
	default:
		rows := max((int(t.Height)-row)/glyphH-2, 1)
		for i, e := range entries {
			if i >= rows {
				break
			}
			line := fmt.Sprintf("%2d. %-*s %6d  %s", i+1, config.MaxUsernameLength, e.DisplayName(),
				e.Score, e.Time().Local().Format("2006-01-02 15:04"))
			printCentered(screen, line, cx, row+i*glyphH)
		}
	}
	printCentered(screen, "ESC back - R refresh - Q quit", cx, int(t.Height)-glyphH-4)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	s := g.app.Session()
	t := s.Tuning()
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Score: %d", s.Score()), 8, 4)
	timeText := fmt.Sprintf("Time: %6.1fs", s.Elapsed().Seconds())
	ebitenutil.DebugPrintAt(screen, timeText, int(t.Width)-len(timeText)*glyphW-8, 4)
	if g.app.HintVisible() {
		printCentered(screen, "Move the mouse or hold < > to catch the popcorn", int(t.Width)/2, 3*glyphH)
	}
}

func (g *Game) drawOver(screen *ebiten.Image) {
	t := g.app.Tuning()
	cx := int(t.Width) / 2
	row := int(t.Height)/2 - 4*glyphH

	vector.DrawFilledRect(screen, 0, float32(row-glyphH), float32(t.Width), float32(8*glyphH), color.RGBA{0, 0, 0, 0xc0}, false)
	printCentered(screen, "G A M E   O V E R", cx, row)
	printCentered(screen, fmt.Sprintf("Score: %d", g.app.LastScore()), cx, row+2*glyphH)
	printCentered(screen, g.app.SaveMessage(), cx, row+3*glyphH)
	if time.Now().UnixMilli()/600%2 == 0 {
		printCentered(screen, ">>  Press ENTER to Play Again  <<", cx, row+5*glyphH)
	}
	printCentered(screen, "H home - B leaderboard - Q quit", cx, row+6*glyphH)
}

func printCentered(screen *ebiten.Image, s string, cx, y int) {
	for i, line := range strings.Split(s, "\n") {
		ebitenutil.DebugPrintAt(screen, line, cx-len(line)*glyphW/2, y+i*glyphH)
	}
}
