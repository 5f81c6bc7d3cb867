package fleximg

// NinePatchSourceNode partitions a source image into a 3x3 grid given
// fixed-pixel border widths and stretches only the center row/column;
// the four corners keep pixel scale (spec.md §4.2). It has no input
// port — like SourceNode, it is a graph leaf wrapping a static image.
type NinePatchSourceNode struct {
	view                     ViewPort
	left, top, right, bottom int // border widths in source pixels
	outW, outH               int // target output size

	prepared bool
	status   PrepareStatus
	scratch  RGBAHandle
}

// NewNinePatchSourceNode creates an empty nine-patch source.
func NewNinePatchSourceNode() *NinePatchSourceNode {
	return &NinePatchSourceNode{}
}

// SetSource installs the image to stretch.
func (n *NinePatchSourceNode) SetSource(v ViewPort) { n.view = v }

// SetBorders sets the fixed-pixel widths of the four unstretched edges.
func (n *NinePatchSourceNode) SetBorders(left, top, right, bottom int) {
	n.left, n.top, n.right, n.bottom = left, top, right, bottom
}

// SetOutputSize sets the stretched output dimensions.
func (n *NinePatchSourceNode) SetOutputSize(w, h int) { n.outW, n.outH = w, h }

// AbsorbCapability reports TranslationOnly: a nine-patch has a fixed
// internal layout and can only be repositioned, not rotated or scaled,
// without breaking its border invariant.
func (n *NinePatchSourceNode) AbsorbCapability() AffineCapability { return CapTranslationOnly }

func (n *NinePatchSourceNode) Prepare(ctx *RenderContext) PrepareStatus {
	if n.prepared {
		return n.status
	}
	n.prepared = true
	if n.view.Empty() || n.outW <= 0 || n.outH <= 0 {
		n.status = StatusEmpty
		return n.status
	}
	n.status = Ready
	return n.status
}

func (n *NinePatchSourceNode) ResetPrepare() {
	n.prepared = false
	n.scratch.Release()
}

// srcColumnFor maps an output-space x (0..outW) to the source column to
// sample, per the three horizontal regions: left border unscaled,
// center region stretched to fill outW-left-right, right border
// unscaled and anchored to the image's right edge.
func (n *NinePatchSourceNode) srcColumnFor(x int) int {
	w := n.view.Width()
	centerSrc := w - n.left - n.right
	centerOut := n.outW - n.left - n.right
	switch {
	case x < n.left:
		return x
	case x >= n.outW-n.right:
		return w - (n.outW - x)
	default:
		if centerOut <= 0 || centerSrc <= 0 {
			return n.left
		}
		return n.left + (x-n.left)*centerSrc/centerOut
	}
}

func (n *NinePatchSourceNode) srcRowFor(y int) int {
	h := n.view.Height()
	centerSrc := h - n.top - n.bottom
	centerOut := n.outH - n.top - n.bottom
	switch {
	case y < n.top:
		return y
	case y >= n.outH-n.bottom:
		return h - (n.outH - y)
	default:
		if centerOut <= 0 || centerSrc <= 0 {
			return n.top
		}
		return n.top + (y-n.top)*centerSrc/centerOut
	}
}

func (n *NinePatchSourceNode) Pull(req RenderRequest) RenderResponse {
	if n.view.Empty() {
		return emptyResponse(req.Origin)
	}
	y := req.Origin.Y.Floor()
	if y < 0 || y >= n.outH {
		return emptyResponse(req.Origin)
	}
	x0 := req.Origin.X.Floor()
	lo := maxInt(x0, 0)
	hi := minInt(x0+req.Width, n.outW)
	if hi <= lo {
		return emptyResponse(req.Origin)
	}

	n.scratch.Release()
	n.scratch = req.Ctx.Pool.AcquireRGBARow(req.Width)
	view := n.scratch.View()
	rowBytes := view.Row(0)

	desc := FormatOf(n.view.Format())
	srcY := n.srcRowFor(y)
	srcRow := n.view.Row(srcY)
	pal := n.view.Palette()
	for x := lo; x < hi; x++ {
		srcX := n.srcColumnFor(x)
		c := straightenAt(desc, pal, srcRow, srcX)
		setRGBAAt(rowBytes, x-x0, c)
	}

	return RenderResponse{
		View:      view,
		Origin:    req.Origin,
		DataRange: DataRange{X: lo - x0, Y: 0, W: hi - lo, H: 1},
		Status:    Ready,
	}
}
