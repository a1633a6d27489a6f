package draw

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Terminal control sequences.
var (
	seqClear        = termenv.CSI + fmt.Sprintf(termenv.CursorPositionSeq, 1, 1) + termenv.CSI + fmt.Sprintf(termenv.EraseDisplaySeq, 2)
	seqHideCursor   = termenv.CSI + termenv.HideCursorSeq
	seqShowCursor   = termenv.CSI + termenv.ShowCursorSeq
	seqMouseEnable  = termenv.CSI + termenv.EnableMouseAllMotionSeq + termenv.CSI + termenv.EnableMouseExtendedModeSeq
	seqMouseDisable = termenv.CSI + termenv.DisableMouseAllMotionSeq + termenv.CSI + termenv.DisableMouseExtendedModeSeq
)

// ChunkWriter collects one frame of terminal output and sends it in
// network-sized chunks on Flush. Positions are 1-based render-area cells;
// the render-area offset is added when the cursor moves.
type ChunkWriter struct {
	buf    strings.Builder
	out    *bufio.Writer
	offCol int
	offRow int
}

// NewChunkWriter creates a ChunkWriter for w with the given render-area offset.
func NewChunkWriter(w io.Writer, offsetCol, offsetRow int) *ChunkWriter {
	return &ChunkWriter{
		out:    bufio.NewWriterSize(w, 8192),
		offCol: offsetCol,
		offRow: offsetRow,
	}
}

// SetOffset moves the render area, e.g. after a resize.
func (cw *ChunkWriter) SetOffset(offsetCol, offsetRow int) {
	cw.offCol = offsetCol
	cw.offRow = offsetRow
}

// Clear queues a full screen erase.
func (cw *ChunkWriter) Clear() {
	cw.buf.WriteString(seqClear)
}

// MoveCursor queues a cursor move to render-area cell (col, row).
func (cw *ChunkWriter) MoveCursor(col, row int) {
	cw.buf.WriteString(termenv.CSI)
	fmt.Fprintf(&cw.buf, termenv.CursorPositionSeq, row+cw.offRow, col+cw.offCol)
}

// Write implements io.Writer so the canvas can render into the frame.
func (cw *ChunkWriter) Write(p []byte) (n int, err error) {
	return cw.buf.Write(p)
}

// WriteString queues s at the current cursor position.
func (cw *ChunkWriter) WriteString(s string) {
	cw.buf.WriteString(s)
}

// WriteAt queues s at (col, row).
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	cw.MoveCursor(col, row)
	cw.buf.WriteString(s)
}

// Centered queues a possibly styled line centered on column centerCol.
func (cw *ChunkWriter) Centered(centerCol, row int, s string) {
	cw.WriteAt(max(centerCol-lipgloss.Width(s)/2, 1), row, s)
}

// Block queues a multi-line block (e.g. a bordered lipgloss box) centered on
// centerCol, starting at row. It returns the number of rows used.
func (cw *ChunkWriter) Block(centerCol, row int, block string) int {
	col := max(centerCol-lipgloss.Width(block)/2, 1)
	lines := strings.Split(block, "\n")
	for i, line := range lines {
		cw.WriteAt(col, row+i, line)
	}
	return len(lines)
}

var _ io.Writer = (*ChunkWriter)(nil)

// Flush sends the queued frame and resets the buffer.
func (cw *ChunkWriter) Flush() error {
	data := cw.buf.String()
	cw.buf.Reset()
	for len(data) > 0 {
		n := min(len(data), maxChunkSize)
		if _, err := cw.out.WriteString(data[:n]); err != nil {
			return err
		}
		data = data[n:]
	}
	return cw.out.Flush()
}

// TermSizeFunc returns the terminal size in cells.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc reads the size of the local terminal.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// TerminalSizeRawWith returns the size reported by sizeFunc, rejecting
// empty sizes.
func TerminalSizeRawWith(sizeFunc TermSizeFunc) (width, height int, err error) {
	width, height, err = sizeFunc()
	if err != nil {
		return 0, 0, err
	}
	if width < 1 || height < 1 {
		return 0, 0, fmt.Errorf("invalid terminal size %dx%d", width, height)
	}
	return width, height, nil
}

// ClearScreen erases the terminal and homes the cursor.
func ClearScreen(w io.Writer) {
	io.WriteString(w, seqClear)
}

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) {
	io.WriteString(w, seqHideCursor)
}

// ShowCursor shows the terminal cursor.
func ShowCursor(w io.Writer) {
	io.WriteString(w, seqShowCursor)
}

// EnableMouse asks the terminal for any-motion pointer reports with SGR
// coordinates.
func EnableMouse(w io.Writer) {
	io.WriteString(w, seqMouseEnable)
}

// DisableMouse stops pointer reports.
func DisableMouse(w io.Writer) {
	io.WriteString(w, seqMouseDisable)
}
