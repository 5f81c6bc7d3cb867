package fleximg

// BrightnessNode adds a constant offset to each RGB channel, saturating
// at 255 (spec.md scenario 2). Alpha is untouched.
type BrightnessNode struct {
	BaseNode
	delta int // -255..255
}

// NewBrightnessNode creates a node with the given additive offset.
func NewBrightnessNode(delta int) *BrightnessNode {
	return &BrightnessNode{delta: delta}
}

func (n *BrightnessNode) SetDelta(delta int) { n.delta = delta }

// AbsorbCapability propagates whatever upstream supplies: a per-pixel
// filter has no geometric effect of its own (spec.md §3).
func (n *BrightnessNode) AbsorbCapability() AffineCapability {
	if n.upstream == nil {
		return 0
	}
	return n.upstream.AbsorbCapability()
}

func (n *BrightnessNode) Prepare(ctx *RenderContext) PrepareStatus {
	return n.preparedOnce(func() PrepareStatus {
		if n.upstream == nil {
			return StatusError
		}
		return n.upstream.Prepare(ctx)
	})
}

func (n *BrightnessNode) Pull(req RenderRequest) RenderResponse {
	resp := n.upstream.Pull(req)
	if resp.Status != Ready {
		return resp
	}
	row := resp.View.Row(0)
	for x := resp.DataRange.X; x < resp.DataRange.X+resp.DataRange.W; x++ {
		c := getRGBAAt(row, x)
		setRGBAAt(row, x, RGBA{
			R: saturateAdd(c.R, n.delta),
			G: saturateAdd(c.G, n.delta),
			B: saturateAdd(c.B, n.delta),
			A: c.A,
		})
	}
	return resp
}

func saturateAdd(v uint8, delta int) uint8 {
	r := int(v) + delta
	if r < 0 {
		return 0
	}
	if r > 255 {
		return 255
	}
	return uint8(r)
}

// GrayscaleNode converts each pixel to its Rec.601 luma, replicated
// across R/G/B (spec.md scenario 1: weights 0.299/0.587/0.114).
type GrayscaleNode struct {
	BaseNode
}

func NewGrayscaleNode() *GrayscaleNode { return &GrayscaleNode{} }

func (n *GrayscaleNode) AbsorbCapability() AffineCapability {
	if n.upstream == nil {
		return 0
	}
	return n.upstream.AbsorbCapability()
}

func (n *GrayscaleNode) Prepare(ctx *RenderContext) PrepareStatus {
	return n.preparedOnce(func() PrepareStatus {
		if n.upstream == nil {
			return StatusError
		}
		return n.upstream.Prepare(ctx)
	})
}

func (n *GrayscaleNode) Pull(req RenderRequest) RenderResponse {
	resp := n.upstream.Pull(req)
	if resp.Status != Ready {
		return resp
	}
	row := resp.View.Row(0)
	for x := resp.DataRange.X; x < resp.DataRange.X+resp.DataRange.W; x++ {
		c := getRGBAAt(row, x)
		y := uint8((299*int(c.R) + 587*int(c.G) + 114*int(c.B)) / 1000)
		setRGBAAt(row, x, RGBA{R: y, G: y, B: y, A: c.A})
	}
	return resp
}

// AlphaNode scales the alpha channel by a constant factor in [0,1],
// leaving RGB untouched — used to fade a whole layer in/out.
type AlphaNode struct {
	BaseNode
	factor float64
}

func NewAlphaNode(factor float64) *AlphaNode { return &AlphaNode{factor: factor} }

func (n *AlphaNode) SetFactor(f float64) { n.factor = f }

func (n *AlphaNode) AbsorbCapability() AffineCapability {
	if n.upstream == nil {
		return 0
	}
	return n.upstream.AbsorbCapability()
}

func (n *AlphaNode) Prepare(ctx *RenderContext) PrepareStatus {
	return n.preparedOnce(func() PrepareStatus {
		if n.upstream == nil {
			return StatusError
		}
		return n.upstream.Prepare(ctx)
	})
}

func (n *AlphaNode) Pull(req RenderRequest) RenderResponse {
	resp := n.upstream.Pull(req)
	if resp.Status != Ready {
		return resp
	}
	row := resp.View.Row(0)
	for x := resp.DataRange.X; x < resp.DataRange.X+resp.DataRange.W; x++ {
		c := getRGBAAt(row, x)
		c.A = uint8(float64(c.A) * n.factor)
		setRGBAAt(row, x, c)
	}
	return resp
}
