// Package input turns raw terminal bytes into per-frame key, text and
// pointer input.
package input

import (
	"bufio"
	"time"
	"unicode"
	"unicode/utf8"
)

// keyHoldDuration is how long a steering key is considered "held" after its
// last press. Terminals only send repeats, never key-up events.
const keyHoldDuration = 120 * time.Millisecond

// escapeTimeout is how long a lone ESC waits for the rest of a sequence
// before it counts as the Escape key.
const escapeTimeout = 50 * time.Millisecond

// Key is a discrete key event.
type Key int

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyTab
	KeyBackspace
	KeyEscape
)

// Pointer is a mouse position in 1-based terminal cells.
type Pointer struct {
	Col, Row int
	Down     bool
}

// Input represents the current frame's input state.
type Input struct {
	Keys    []Key    // Discrete key events this frame, in order
	Text    []rune   // Printable characters typed this frame
	Left    bool     // Steering left (held)
	Right   bool     // Steering right (held)
	Pointer *Pointer // Latest pointer report this frame, nil if none
	Quit    bool     // Ctrl-C or input closed
	Pressed []byte   // Raw bytes received this frame
}

// Has reports whether key k was pressed this frame.
func (in Input) Has(k Key) bool {
	for _, key := range in.Keys {
		if key == k {
			return true
		}
	}
	return false
}

// HasRune reports whether any of the given runes was typed this frame,
// ignoring case.
func (in Input) HasRune(runes ...rune) bool {
	for _, t := range in.Text {
		for _, r := range runes {
			if unicode.ToLower(t) == unicode.ToLower(r) {
				return true
			}
		}
	}
	return false
}

// keyState tracks the last time each steering key was pressed.
type keyState struct {
	left  time.Time
	right time.Time
}

// Stream delivers input bytes via a channel and keeps state across frames.
type Stream struct {
	ch        chan byte
	state     keyState
	pending   []byte    // Incomplete escape sequence or rune from the last frame
	pendingAt time.Time // When pending was first seen
	closed    bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := NewStream()
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// NewStream creates a stream that is fed with Feed instead of a reader.
func NewStream() *Stream {
	return &Stream{ch: make(chan byte, 256)}
}

// Feed queues bytes as if they were read from the terminal.
func (s *Stream) Feed(data []byte) {
	for _, b := range data {
		s.ch <- b
	}
}

// Reset forgets held steering keys (e.g. when a new game starts).
func Reset(s *Stream) {
	if s == nil {
		return
	}
	s.state = keyState{}
}

// ReadInput drains all available bytes from the stream (non-blocking).
func ReadInput(s *Stream) Input {
	return readInputAt(s, time.Now())
}

func readInputAt(s *Stream, now time.Time) Input {
	buf := s.pending
	s.pending = nil

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	in := Input{Pressed: buf, Quit: s.closed}
	rest := parse(&in, &s.state, buf, now)

	if len(rest) > 0 {
		// An incomplete sequence that stays incomplete is a lone Escape
		if rest[0] == '\x1b' && !s.pendingAt.IsZero() && now.Sub(s.pendingAt) >= escapeTimeout {
			in.Keys = append(in.Keys, KeyEscape)
			rest = rest[1:]
			s.pendingAt = time.Time{}
			if len(rest) > 0 {
				rest = parse(&in, &s.state, rest, now)
			}
		}
	}
	if len(rest) > 0 {
		s.pending = append([]byte(nil), rest...)
		if s.pendingAt.IsZero() {
			s.pendingAt = now
		}
	} else {
		s.pendingAt = time.Time{}
	}

	in.Left = now.Sub(s.state.left) < keyHoldDuration
	in.Right = now.Sub(s.state.right) < keyHoldDuration
	return in
}

// parse consumes buf and returns any trailing incomplete sequence.
func parse(in *Input, state *keyState, buf []byte, now time.Time) []byte {
	for i := 0; i < len(buf); {
		b := buf[i]

		if b == '\x1b' {
			n, complete := parseEscape(in, state, buf[i:], now)
			if !complete {
				return buf[i:]
			}
			i += n
			continue
		}

		switch b {
		case 0x03: // Ctrl-C
			in.Quit = true
		case '\r', '\n':
			in.Keys = append(in.Keys, KeyEnter)
		case '\t':
			in.Keys = append(in.Keys, KeyTab)
		case '\b', 0x7f:
			in.Keys = append(in.Keys, KeyBackspace)
		default:
			if b < 0x20 {
				break
			}
			if !utf8.FullRune(buf[i:]) {
				return buf[i:]
			}
			r, size := utf8.DecodeRune(buf[i:])
			if r != utf8.RuneError && unicode.IsPrint(r) {
				in.Text = append(in.Text, r)
			}
			i += size
			continue
		}
		i++
	}
	return nil
}

// parseEscape handles an escape sequence at the start of seq. It returns the
// number of bytes consumed and false if the sequence is incomplete.
func parseEscape(in *Input, state *keyState, seq []byte, now time.Time) (int, bool) {
	if len(seq) < 2 {
		return 0, false
	}
	if seq[1] != '[' && seq[1] != 'O' {
		// ESC followed by something else: plain Escape key
		in.Keys = append(in.Keys, KeyEscape)
		return 1, true
	}
	if len(seq) < 3 {
		return 0, false
	}

	switch seq[2] {
	case 'A':
		in.Keys = append(in.Keys, KeyUp)
	case 'B':
		in.Keys = append(in.Keys, KeyDown)
	case 'C':
		in.Keys = append(in.Keys, KeyRight)
		state.right = now
	case 'D':
		in.Keys = append(in.Keys, KeyLeft)
		state.left = now
	case '<':
		return parseSGRMouse(in, seq)
	default:
		// Unknown CSI: skip to its final byte
		for j := 2; j < len(seq); j++ {
			if seq[j] >= 0x40 && seq[j] <= 0x7e {
				return j + 1, true
			}
		}
		return 0, false
	}
	return 3, true
}

// parseSGRMouse parses ESC [ < b ; col ; row (M|m).
func parseSGRMouse(in *Input, seq []byte) (int, bool) {
	var fields [3]int
	field := 0
	for j := 3; j < len(seq); j++ {
		c := seq[j]
		switch {
		case c >= '0' && c <= '9':
			if field < len(fields) {
				fields[field] = fields[field]*10 + int(c-'0')
			}
		case c == ';':
			field++
		case c == 'M' || c == 'm':
			if field == 2 {
				button := fields[0]
				in.Pointer = &Pointer{
					Col:  fields[1],
					Row:  fields[2],
					Down: c == 'M' && button&3 != 3,
				}
			}
			return j + 1, true
		default:
			return j + 1, true
		}
	}
	return 0, false
}
