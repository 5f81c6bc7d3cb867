package fleximg

// MatteNode alpha-keys two layers together through a third mask input:
// output = lerp(bg, fg, mask.A/255) per channel (spec.md §4.4). Inputs
// are fixed: 0=foreground, 1=background, 2=mask. Any of the three may
// be left unwired — fg/bg default to fully transparent, and an unwired
// mask defaults to fully opaque (output is fg unmodified), matching the
// shortcut behavior noted in spec.md scenario 6.
type MatteNode struct {
	MultiInputNode
	scratch RGBAHandle
}

const (
	matteFG   = 0
	matteBG   = 1
	matteMask = 2
)

// NewMatteNode allocates a matte node with its three fixed input ports.
func NewMatteNode() *MatteNode {
	return &MatteNode{MultiInputNode: NewMultiInputNode(3)}
}

func (n *MatteNode) AbsorbCapability() AffineCapability { return 0 }

func (n *MatteNode) Prepare(ctx *RenderContext) PrepareStatus {
	return n.preparedOnce(func() PrepareStatus {
		worst := Ready
		any := false
		for _, in := range n.Inputs() {
			if in == nil {
				continue
			}
			any = true
			worst = worsePrepareStatus(worst, in.Prepare(ctx))
		}
		if !any {
			return StatusEmpty
		}
		return worst
	})
}

func (n *MatteNode) ResetPrepare() {
	n.MultiInputNode.ResetPrepare()
	n.scratch.Release()
}

func (n *MatteNode) Pull(req RenderRequest) RenderResponse {
	fg, fgRange := n.pullInput(matteFG, req)
	bg, bgRange := n.pullInput(matteBG, req)
	mask, maskRange := n.pullInput(matteMask, req)

	dataRange := fgRange.Union(bgRange).Union(maskRange)
	if dataRange.Empty() {
		return emptyResponse(req.Origin)
	}

	n.scratch.Release()
	n.scratch = req.Ctx.Pool.AcquireRGBARow(req.Width)
	view := n.scratch.View()
	dstRow := view.Row(0)

	lo, hi := dataRange.X, dataRange.X+dataRange.W
	for x := lo; x < hi; x++ {
		fgC := samplePixel(fg, fgRange, x)
		bgC := samplePixel(bg, bgRange, x)
		t := 255
		if n.At(matteMask) != nil {
			t = int(samplePixel(mask, maskRange, x).A)
		}
		setRGBAAt(dstRow, x, RGBA{
			R: matteLerp(bgC.R, fgC.R, t),
			G: matteLerp(bgC.G, fgC.G, t),
			B: matteLerp(bgC.B, fgC.B, t),
			A: matteLerp(bgC.A, fgC.A, t),
		})
	}

	return RenderResponse{
		View:      view,
		Origin:    req.Origin,
		DataRange: dataRange,
		Status:    Ready,
	}
}

// pullInput pulls input idx if wired, returning a zero ViewPort and an
// empty DataRange for an unwired or non-Ready port.
func (n *MatteNode) pullInput(idx int, req RenderRequest) (ViewPort, DataRange) {
	in := n.At(idx)
	if in == nil {
		return ViewPort{}, EmptyDataRange
	}
	resp := in.Pull(req)
	if resp.Status != Ready {
		return ViewPort{}, EmptyDataRange
	}
	return resp.View, resp.DataRange
}

// samplePixel reads column x from view if it falls within dr, else
// returns fully transparent black.
func samplePixel(view ViewPort, dr DataRange, x int) RGBA {
	if dr.Empty() || x < dr.X || x >= dr.X+dr.W {
		return RGBA{}
	}
	return getRGBAAt(view.Row(0), x)
}

func matteLerp(a, b uint8, t int) uint8 {
	return uint8((int(a)*(255-t) + int(b)*t) / 255)
}
