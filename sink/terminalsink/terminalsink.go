// Package terminalsink degrades a composited frame to ANSI truecolour
// half-block glyphs sized to the real terminal, the closest desktop
// analogue to spec.md's constrained-LCD target — grounded in the
// teacher's terminal_host.go use of golang.org/x/term.
package terminalsink

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/ainyan03/fleximg-go"
)

// Sink buffers a full composited frame, then Flush renders it as two
// vertically-stacked pixels per terminal row using the unicode upper
// half-block glyph (foreground = top pixel, background = bottom).
type Sink struct {
	width       int
	height      int
	frame       []fleximg.RGBA
	originX     int
	originY     int
	drawEnabled bool
	out         io.Writer
}

// New creates a sink sized width x height, writing to w on Flush.
func New(width, height int, w io.Writer) *Sink {
	return &Sink{
		width: width, height: height,
		frame:       make([]fleximg.RGBA, width*height),
		drawEnabled: true,
		out:         w,
	}
}

// NewForTerminal sizes the sink to the current terminal, two rows of
// source pixels per printed character cell via term.GetSize(fd).
func NewForTerminal(fd int) (*Sink, error) {
	cols, rows, err := term.GetSize(fd)
	if err != nil {
		return nil, fmt.Errorf("terminalsink: %w", err)
	}
	return New(cols, rows*2, os.Stdout), nil
}

func (s *Sink) SetOrigin(x, y int) { s.originX, s.originY = x, y }

func (s *Sink) SetDrawEnabled(enabled bool) { s.drawEnabled = enabled }

func (s *Sink) WriteRow(y int, resp fleximg.RenderResponse, srcFormat fleximg.PixelFormatID) {
	if !s.drawEnabled {
		return
	}
	dstY := s.originY + y
	if dstY < 0 || dstY >= s.height {
		return
	}
	lo, hi := resp.DataRange.X, resp.DataRange.X+resp.DataRange.W
	for x := lo; x < hi; x++ {
		dstX := s.originX + x
		if dstX < 0 || dstX >= s.width {
			continue
		}
		s.frame[dstY*s.width+dstX] = resp.View.PixelAt(x, 0)
	}
}

// Flush writes the buffered frame to the sink's writer as one line of
// half-block glyphs per pair of source rows, resetting terminal
// attributes at the end of every line.
func (s *Sink) Flush() error {
	at := func(x, y int) fleximg.RGBA {
		if y >= s.height {
			return fleximg.RGBA{}
		}
		return s.frame[y*s.width+x]
	}
	for y := 0; y < s.height; y += 2 {
		for x := 0; x < s.width; x++ {
			top := at(x, y)
			bot := at(x, y+1)
			if _, err := fmt.Fprintf(s.out, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀",
				top.R, top.G, top.B, bot.R, bot.G, bot.B); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprint(s.out, "\x1b[0m\n"); err != nil {
			return err
		}
	}
	return nil
}
