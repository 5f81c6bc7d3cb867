package fleximg

// SinkNode is the only node with externally-visible side effects
// (spec.md §4.7/O3): it receives each row the renderer produces and
// writes it somewhere — a ViewPort, a window, a terminal. Backends live
// in sink/ subpackages; ViewPortSink below is the in-process reference
// implementation every backend is adapted from.
type SinkNode interface {
	SetOrigin(x, y int)
	SetDrawEnabled(enabled bool)
	// WriteRow is called once per output row by RendererNode.Exec, with
	// resp already clipped to resp.DataRange and srcFormat naming
	// resp.View's pixel format: the renderer's output format,
	// RGBA8Straight unless RendererNode.SetOutputFormat chose another.
	WriteRow(y int, resp RenderResponse, srcFormat PixelFormatID)
}

// ViewPortSink writes composited rows into a caller-owned ImageBuffer,
// converting formats via the target's Unstraighten kernel when the
// source row isn't already in the target's native format (spec.md
// §4.6's "any-to-RGBA8 + RGBA8-to-any" 2-step conversion path: each
// pixel is decoded from srcFormat to straight RGBA8, then encoded in
// the target's format).
type ViewPortSink struct {
	target       ImageBuffer
	hasTarget    bool
	originX      int
	originY      int
	drawEnabled  bool
}

// NewViewPortSink creates a sink with drawing enabled and no target
// bound yet.
func NewViewPortSink() *ViewPortSink {
	return &ViewPortSink{drawEnabled: true}
}

// SetTarget installs the buffer rows are written into.
func (s *ViewPortSink) SetTarget(target ImageBuffer) {
	s.target = target
	s.hasTarget = true
}

func (s *ViewPortSink) SetOrigin(x, y int) { s.originX, s.originY = x, y }

func (s *ViewPortSink) SetDrawEnabled(enabled bool) { s.drawEnabled = enabled }

func (s *ViewPortSink) WriteRow(y int, resp RenderResponse, srcFormat PixelFormatID) {
	if !s.hasTarget || !s.drawEnabled {
		return
	}
	dstY := s.originY + y
	if dstY < 0 || dstY >= s.target.Height() {
		return
	}

	srcDesc := FormatOf(srcFormat)
	dstDesc := FormatOf(s.target.Format())
	srcRow := resp.View.Row(0)
	dstRow := s.target.Row(dstY)

	lo, hi := resp.DataRange.X, resp.DataRange.X+resp.DataRange.W
	for x := lo; x < hi; x++ {
		dstX := s.originX + x
		if dstX < 0 || dstX >= s.target.Width() {
			continue
		}
		c := straightenAt(srcDesc, resp.View.Palette(), srcRow, x)
		writePixel(dstDesc, s.target.Palette(), dstRow, dstX, c)
	}
}

// writePixel encodes c at column x of row, handling both byte-aligned
// and packed sub-byte paletted formats the way straightenAt handles
// decode — the write-side counterpart of the packed-index addressing
// fix in format_index.go.
func writePixel(desc *FormatDescriptor, pal []RGBA, row []byte, x int, c RGBA) {
	if desc.Paletted {
		idx := nearestPaletteIndex(pal, c)
		writePackedIndex(row, x, desc.BitsPerPel, idx)
		return
	}
	bpp := desc.BitsPerPel / 8
	desc.Unstraighten(pal, row[x*bpp:x*bpp+bpp], c)
}
