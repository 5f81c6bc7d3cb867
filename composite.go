package fleximg

// CompositeNode stacks N inputs with standard source-over compositing,
// input 0 topmost and increasing indices further underneath (spec.md
// §4.4 scenario 5). Unwired or StatusEmpty inputs contribute nothing.
type CompositeNode struct {
	MultiInputNode
	enabled []bool
	scratch RGBAHandle
}

// NewCompositeNode allocates a composite with n input ports, all
// enabled by default.
func NewCompositeNode(n int) *CompositeNode {
	enabled := make([]bool, n)
	for i := range enabled {
		enabled[i] = true
	}
	return &CompositeNode{MultiInputNode: NewMultiInputNode(n), enabled: enabled}
}

// SetEnabled toggles whether input idx contributes to the composite
// without disconnecting it, the Go counterpart of the teacher
// compositor's per-source VideoSource.IsEnabled flag.
func (n *CompositeNode) SetEnabled(idx int, enabled bool) { n.enabled[idx] = enabled }

// AbsorbCapability is always zero: a multi-input node can't forward a
// single pushed transform unambiguously to several upstreams, so it
// always presents as opaque to downstream AffineNodes (they must
// materialize against it).
func (n *CompositeNode) AbsorbCapability() AffineCapability { return 0 }

func (n *CompositeNode) Prepare(ctx *RenderContext) PrepareStatus {
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

func (n *CompositeNode) ResetPrepare() {
	n.MultiInputNode.ResetPrepare()
	n.scratch.Release()
}

func (n *CompositeNode) Pull(req RenderRequest) RenderResponse {
	inputs := n.Inputs()

	n.scratch.Release()
	n.scratch = req.Ctx.Pool.AcquireRGBARow(req.Width)
	view := n.scratch.View()
	dstRow := view.Row(0)

	dataRange := EmptyDataRange
	any := false
	for i := len(inputs) - 1; i >= 0; i-- {
		in := inputs[i]
		if in == nil || !n.enabled[i] {
			continue
		}
		resp := in.Pull(req)
		if resp.Status != Ready || resp.DataRange.Empty() {
			continue
		}
		any = true
		srcRow := resp.View.Row(0)
		lo, hi := resp.DataRange.X, resp.DataRange.X+resp.DataRange.W
		for x := lo; x < hi; x++ {
			layer := getRGBAAt(srcRow, x)
			under := getRGBAAt(dstRow, x)
			setRGBAAt(dstRow, x, blendSrcUnderDst(under, layer))
		}
		dataRange = dataRange.Union(resp.DataRange)
	}
	if !any {
		return emptyResponse(req.Origin)
	}

	return RenderResponse{
		View:      view,
		Origin:    req.Origin,
		DataRange: dataRange,
		Status:    Ready,
	}
}

// DistributorNode fans a single input out to multiple consumers: each
// downstream node wires its own input to the SAME DistributorNode
// instance. It caches the last row it pulled from upstream so that N
// consumers asking for the same (Origin.Y, Width) within one frame only
// cost one upstream Pull (spec.md §4.1's pull-sharing for DAGs, not just
// trees).
type DistributorNode struct {
	BaseNode
	cachedY     int
	cachedW     int
	haveCache   bool
	cachedResp  RenderResponse
}

// NewDistributorNode creates a fan-out node with no upstream wired yet.
func NewDistributorNode() *DistributorNode { return &DistributorNode{} }

func (n *DistributorNode) AbsorbCapability() AffineCapability {
	if n.upstream == nil {
		return 0
	}
	return n.upstream.AbsorbCapability()
}

func (n *DistributorNode) Prepare(ctx *RenderContext) PrepareStatus {
	return n.preparedOnce(func() PrepareStatus {
		if n.upstream == nil {
			return StatusError
		}
		return n.upstream.Prepare(ctx)
	})
}

func (n *DistributorNode) ResetPrepare() {
	n.resetPrepare()
	n.haveCache = false
}

func (n *DistributorNode) Pull(req RenderRequest) RenderResponse {
	y := req.Origin.Y.Floor()
	if n.haveCache && n.cachedY == y && n.cachedW == req.Width {
		return n.cachedResp
	}
	resp := n.upstream.Pull(req)
	n.cachedY, n.cachedW, n.cachedResp, n.haveCache = y, req.Width, resp, true
	return resp
}
