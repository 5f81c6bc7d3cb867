//go:build headless

// Headless build: same Sink type and software compositing path as
// vulkansink.go, but OpenDevice is a no-op error since there is no
// Vulkan loader to link against, mirroring the teacher's
// voodoo_vulkan_headless.go delegating to its software backend under
// the same type name so the rest of the codebase compiles unchanged.
package vulkansink

import (
	"errors"
	"sync"

	"github.com/ainyan03/fleximg-go"
)

// Sink composites rows into a software frame buffer. In headless
// builds OpenDevice always fails.
type Sink struct {
	mu          sync.Mutex
	width       int
	height      int
	frame       []byte
	originX     int
	originY     int
	drawEnabled bool
	deviceName  string
}

// New creates a sink sized width x height with drawing enabled.
func New(width, height int) *Sink {
	return &Sink{
		width: width, height: height,
		frame:       make([]byte, width*height*4),
		drawEnabled: true,
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

func (s *Sink) Frame() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]byte, len(s.frame))
	copy(out, s.frame)
	return out
}

func (s *Sink) DeviceName() string { return s.deviceName }

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
	lo, hi := resp.DataRange.X, resp.DataRange.X+resp.DataRange.W
	for x := lo; x < hi; x++ {
		dstX := s.originX + x
		if dstX < 0 || dstX >= s.width {
			continue
		}
		c := resp.View.PixelAt(x, 0)
		off := (dstY*s.width + dstX) * 4
		s.frame[off], s.frame[off+1], s.frame[off+2], s.frame[off+3] = c.R, c.G, c.B, c.A
	}
}

// OpenDevice always fails in headless builds.
func (s *Sink) OpenDevice() error {
	return errors.New("vulkansink: built with headless tag, no Vulkan loader linked")
}

func (s *Sink) Close() {}
