package client

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// styles are the text styles of the overlays, bound to one connection's
// renderer so color support follows that terminal.
type styles struct {
	title   lipgloss.Style
	accent  lipgloss.Style
	dim     lipgloss.Style
	good    lipgloss.Style
	bad     lipgloss.Style
	box     lipgloss.Style
	rank    lipgloss.Style
	score   lipgloss.Style
	popcorn string // Escape that colors canvas pixels
}

// NewRenderer creates a lipgloss renderer for w. SSH sessions are not
// detected as color terminals, so ANSI256 is forced.
func NewRenderer(w io.Writer) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(termenv.ANSI256)
	return r
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("221")),
		accent: r.NewStyle().Foreground(lipgloss.Color("51")),
		dim:    r.NewStyle().Faint(true),
		good:   r.NewStyle().Foreground(lipgloss.Color("114")),
		bad:    r.NewStyle().Foreground(lipgloss.Color("210")),
		box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("221")).
			Padding(0, 2),
		rank:    r.NewStyle().Foreground(lipgloss.Color("245")),
		score:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("230")),
		popcorn: termenv.CSI + r.ColorProfile().Color("#FFF3C4").Sequence(false) + "m",
	}
}
