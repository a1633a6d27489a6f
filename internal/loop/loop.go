// Package loop runs the game on a local terminal.
package loop

import (
	"bufio"
	"io"

	"github.com/tomz197/popcatch/internal/draw"
	"github.com/tomz197/popcatch/internal/loop/app"
	"github.com/tomz197/popcatch/internal/loop/client"
)

// Options configures a local game.
type Options struct {
	Username     string            // Preferences key
	TermSizeFunc draw.TermSizeFunc // Nil reads the size of stdout
	App          app.Options
}

// Run starts the main game loop with the standard Input → Update → Draw
// cycle for a single offline player. Blocks until the player quits.
func Run(r *bufio.Reader, w io.Writer, opts Options) error {
	c := client.NewClient(nil, r, w, client.ClientOptions{
		TermSizeFunc: opts.TermSizeFunc,
		Username:     opts.Username,
		App:          opts.App,
	})
	return c.Run()
}
