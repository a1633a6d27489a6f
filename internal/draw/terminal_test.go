package draw

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestChunkWriterCentersWithOffset(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 10, 5)

	cw.Centered(20, 3, "abcd")
	if out.Len() != 0 {
		t.Fatal("nothing should be written before Flush")
	}
	if err := cw.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if got, want := out.String(), "\x1b[8;28Habcd"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestChunkWriterBlock(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 0, 0)

	if n := cw.Block(10, 2, "ab\ncd"); n != 2 {
		t.Fatalf("Block rows = %d, want 2", n)
	}
	cw.Flush()
	if got, want := out.String(), "\x1b[2;9Hab\x1b[3;9Hcd"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestChunkWriterClampsToFirstColumn(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 0, 0)
	cw.Centered(1, 1, "wide line")
	cw.Flush()
	if !strings.HasPrefix(out.String(), "\x1b[1;1H") {
		t.Fatalf("got %q", out.String())
	}
}

func TestChunkWriterFlushesLargeFrames(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 0, 0)
	frame := strings.Repeat("x", 3*maxChunkSize+7)
	cw.WriteString(frame)
	cw.Flush()
	if out.String() != frame {
		t.Fatalf("flushed %d bytes, want %d", out.Len(), len(frame))
	}

	out.Reset()
	cw.Flush()
	if out.Len() != 0 {
		t.Fatal("buffer should be empty after Flush")
	}
}

func TestTerminalSizeRawWith(t *testing.T) {
	w, h, err := TerminalSizeRawWith(func() (int, int, error) { return 100, 40, nil })
	if err != nil || w != 100 || h != 40 {
		t.Fatalf("got %dx%d, %v", w, h, err)
	}
	if _, _, err := TerminalSizeRawWith(func() (int, int, error) { return 0, 40, nil }); err == nil {
		t.Fatal("expected error for empty size")
	}
	boom := errors.New("boom")
	if _, _, err := TerminalSizeRawWith(func() (int, int, error) { return 0, 0, boom }); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped size error, got %v", err)
	}
}
