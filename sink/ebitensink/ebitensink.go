// Package ebitensink is a desktop preview SinkNode backend: a window
// that receives composited frames via ebiten, the same role ebiten
// plays in the teacher's own video backend. It is a generic preview,
// not the LCD-specific hardware driver spec.md excludes.
package ebitensink

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ainyan03/fleximg-go"
)

// Sink is a fleximg.SinkNode that composites rows into an RGBA frame
// buffer and presents it through an ebiten window.
type Sink struct {
	mu          sync.Mutex
	width       int
	height      int
	frame       *image.RGBA
	originX     int
	originY     int
	drawEnabled bool
	title       string
}

// New creates a sink sized width x height. Call Run to open the window;
// rows can be written before Run is called.
func New(width, height int, title string) *Sink {
	return &Sink{
		width: width, height: height,
		frame:       image.NewRGBA(image.Rect(0, 0, width, height)),
		drawEnabled: true,
		title:       title,
	}
}

func (s *Sink) SetOrigin(x, y int) {
	s.mu.Lock()
	s.originX, s.originY = x, y
	s.mu.Unlock()
}

func (s *Sink) SetDrawEnabled(enabled bool) {
	s.mu.Lock()
	s.drawEnabled = enabled
	s.mu.Unlock()
}

// WriteRow implements fleximg.SinkNode. Pixels are decoded through
// resp.View.PixelAt, which follows the view's own format, so any
// srcFormat the renderer hands over is handled.
func (s *Sink) WriteRow(y int, resp fleximg.RenderResponse, srcFormat fleximg.PixelFormatID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.drawEnabled {
		return
	}
	dstY := s.originY + y
	if dstY < 0 || dstY >= s.height {
		return
	}
	desc := fleximg.FormatOf(srcFormat)
	if desc == nil {
		return
	}
	lo, hi := resp.DataRange.X, resp.DataRange.X+resp.DataRange.W
	for x := lo; x < hi; x++ {
		dstX := s.originX + x
		if dstX < 0 || dstX >= s.width {
			continue
		}
		c := resp.View.PixelAt(x, 0)
		s.frame.SetRGBA(dstX, dstY, color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A})
	}
}

// game adapts Sink to ebiten.Game.
type game struct{ s *Sink }

func (g *game) Update() error { return nil }

func (g *game) Draw(screen *ebiten.Image) {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	screen.WritePixels(g.s.frame.Pix)
}

func (g *game) Layout(outsideW, outsideH int) (int, int) {
	return g.s.width, g.s.height
}

// Run opens the preview window and blocks until it is closed. Call it
// from its own goroutine; RendererNode.exec() keeps running on the
// caller's goroutine, same pattern as the teacher's ebiten backend
// (SPEC_FULL.md's non-goal note: the sink may run its own event loop,
// the renderer itself stays single-threaded per frame).
func (s *Sink) Run() error {
	ebiten.SetWindowSize(s.width, s.height)
	ebiten.SetWindowTitle(s.title)
	if err := ebiten.RunGame(&game{s: s}); err != nil {
		return fmt.Errorf("ebitensink: %w", err)
	}
	return nil
}
