package fleximg

// blurRecipShift is the fixed-point shift used to turn a box-blur
// division into a multiply-by-reciprocal (spec.md §4.5).
const blurRecipShift = 24

// blurReciprocal returns round(2^blurRecipShift / window), the table
// entry a given window width (2r+1) divides by.
func blurReciprocal(window int) uint32 {
	return uint32((uint64(1)<<blurRecipShift + uint64(window)/2) / uint64(window))
}

// divRound divides sum by the window encoded in recip, rounding to the
// nearest integer via multiply-and-shift rather than truncating integer
// division.
func divRound(sum int, recip uint32) uint8 {
	v := (uint64(sum)*uint64(recip) + (1 << (blurRecipShift - 1))) >> blurRecipShift
	return uint8(v)
}

// HorizontalBlurNode is a separable box blur along x, radius r (window
// width 2r+1), edge-replicate clamped at the strip boundary (spec.md
// scenario 3). It operates one row at a time via a rolling sum, so it
// needs no state across rows.
type HorizontalBlurNode struct {
	BaseNode
	radius  int
	recip   uint32
	scratch RGBAHandle
}

// NewHorizontalBlurNode creates a blur with the given radius.
func NewHorizontalBlurNode(radius int) *HorizontalBlurNode {
	n := &HorizontalBlurNode{radius: radius}
	if radius > 0 {
		n.recip = blurReciprocal(2*radius + 1)
	}
	return n
}

func (n *HorizontalBlurNode) SetRadius(r int) {
	n.radius = r
	if r > 0 {
		n.recip = blurReciprocal(2*r + 1)
	}
}

func (n *HorizontalBlurNode) AbsorbCapability() AffineCapability {
	if n.upstream == nil {
		return 0
	}
	return n.upstream.AbsorbCapability()
}

func (n *HorizontalBlurNode) Prepare(ctx *RenderContext) PrepareStatus {
	return n.preparedOnce(func() PrepareStatus {
		if n.upstream == nil {
			return StatusError
		}
		return n.upstream.Prepare(ctx)
	})
}

func (n *HorizontalBlurNode) ResetPrepare() {
	n.resetPrepare()
	n.scratch.Release()
}

func (n *HorizontalBlurNode) Pull(req RenderRequest) RenderResponse {
	resp := n.upstream.Pull(req)
	if resp.Status != Ready || n.radius <= 0 {
		return resp
	}
	srcRow := resp.View.Row(0)
	x0, w := resp.DataRange.X, resp.DataRange.W
	if w <= 0 {
		return resp
	}

	n.scratch.Release()
	n.scratch = req.Ctx.Pool.AcquireRGBARow(req.Width)
	view := n.scratch.View()
	dstRow := view.Row(0)

	clampX := func(x int) int {
		if x < x0 {
			return x0
		}
		if x >= x0+w {
			return x0 + w - 1
		}
		return x
	}
	var sumR, sumG, sumB, sumA int
	for k := -n.radius; k <= n.radius; k++ {
		c := getRGBAAt(srcRow, clampX(x0+k))
		sumR += int(c.R)
		sumG += int(c.G)
		sumB += int(c.B)
		sumA += int(c.A)
	}
	for x := x0; x < x0+w; x++ {
		setRGBAAt(dstRow, x, RGBA{
			R: divRound(sumR, n.recip),
			G: divRound(sumG, n.recip),
			B: divRound(sumB, n.recip),
			A: divRound(sumA, n.recip),
		})
		if x+1 < x0+w {
			drop := getRGBAAt(srcRow, clampX(x-n.radius))
			add := getRGBAAt(srcRow, clampX(x+1+n.radius))
			sumR += int(add.R) - int(drop.R)
			sumG += int(add.G) - int(drop.G)
			sumB += int(add.B) - int(drop.B)
			sumA += int(add.A) - int(drop.A)
		}
	}

	return RenderResponse{
		View:      view,
		Origin:    resp.Origin,
		DataRange: resp.DataRange,
		Status:    Ready,
	}
}

// VerticalBlurNode is the separable counterpart along y. Unlike the
// horizontal pass, it needs rows above and below the requested one, so
// it keeps a ring buffer of the last 2r+1 upstream rows it has pulled
// and re-requests neighbors directly from upstream as each new row is
// asked for.
//
// Preserving req.Origin.X exactly (not just producing the right pixel
// values) is the resolved form of the spec.md §9 open question on
// vertical blur, grounded in examples/vblur_test/src/main.cpp: the test
// harness there asserts the response origin is byte-identical to the
// request's, not merely numerically equivalent after blur.
type VerticalBlurNode struct {
	BaseNode
	radius  int
	recip   uint32
	scratch RGBAHandle

	ring     []ringRow // length 2*radius+1, indexed by (y mod len)
	ringInit bool
}

type ringRow struct {
	y     int
	valid bool
	view  ViewPort
}

// NewVerticalBlurNode creates a blur with the given radius.
func NewVerticalBlurNode(radius int) *VerticalBlurNode {
	n := &VerticalBlurNode{radius: radius}
	if radius > 0 {
		n.recip = blurReciprocal(2*radius + 1)
	}
	return n
}

func (n *VerticalBlurNode) SetRadius(r int) {
	n.radius = r
	if r > 0 {
		n.recip = blurReciprocal(2*r + 1)
	}
}

func (n *VerticalBlurNode) AbsorbCapability() AffineCapability {
	if n.upstream == nil {
		return 0
	}
	return n.upstream.AbsorbCapability()
}

func (n *VerticalBlurNode) Prepare(ctx *RenderContext) PrepareStatus {
	return n.preparedOnce(func() PrepareStatus {
		if n.upstream == nil {
			return StatusError
		}
		return n.upstream.Prepare(ctx)
	})
}

func (n *VerticalBlurNode) ResetPrepare() {
	n.resetPrepare()
	n.scratch.Release()
	n.ring = nil
	n.ringInit = false
}

// fetchRow returns the upstream row y, pulling it and caching it in the
// ring buffer if not already resident. Requests for y must be
// non-decreasing across a frame (O1), so the ring only ever needs to
// hold the 2r+1 rows immediately around the current y.
func (n *VerticalBlurNode) fetchRow(ctx *RenderContext, req RenderRequest, y int) (ViewPort, DataRange, PrepareStatus) {
	size := 2*n.radius + 1
	if !n.ringInit {
		n.ring = make([]ringRow, size)
		n.ringInit = true
	}
	slot := &n.ring[((y%size)+size)%size]
	if slot.valid && slot.y == y {
		return slot.view, DataRange{}, Ready
	}
	resp := n.upstream.Pull(RenderRequest{
		Width: req.Width, Height: 1,
		Origin: Point{X: req.Origin.X, Y: ToFixed(y)},
		Ctx:    ctx,
	})
	view := resp.View
	if resp.Status == Ready && !view.Empty() {
		// Copy the row: upstream may reuse its buffer on its next Pull.
		row := append([]byte(nil), view.Row(0)...)
		view = viewFromBytes(row, view.Width(), 1, len(row), view.Format(), view.Palette())
	}
	*slot = ringRow{y: y, valid: resp.Status == Ready, view: view}
	return view, resp.DataRange, resp.Status
}

func (n *VerticalBlurNode) Pull(req RenderRequest) RenderResponse {
	if n.radius <= 0 {
		return n.upstream.Pull(req)
	}
	centerY := req.Origin.Y.Floor()

	n.scratch.Release()
	n.scratch = req.Ctx.Pool.AcquireRGBARow(req.Width)
	view := n.scratch.View()
	dstRow := view.Row(0)

	worst := Ready
	sums := make([][4]int, req.Width)
	for k := -n.radius; k <= n.radius; k++ {
		rowView, dr, status := n.fetchRow(req.Ctx, req, centerY+k)
		if status != Ready {
			worst = worsePrepareStatus(worst, status)
			continue
		}
		row := rowView.Row(0)
		lo, hi := 0, req.Width
		if !dr.Empty() {
			lo, hi = dr.X, dr.X+dr.W
		}
		for x := lo; x < hi && x < req.Width; x++ {
			c := getRGBAAt(row, x)
			sums[x][0] += int(c.R)
			sums[x][1] += int(c.G)
			sums[x][2] += int(c.B)
			sums[x][3] += int(c.A)
		}
	}
	for x := 0; x < req.Width; x++ {
		setRGBAAt(dstRow, x, RGBA{
			R: divRound(sums[x][0], n.recip),
			G: divRound(sums[x][1], n.recip),
			B: divRound(sums[x][2], n.recip),
			A: divRound(sums[x][3], n.recip),
		})
	}

	status := Ready
	if worst > Deferred {
		status = worst
	}
	return RenderResponse{
		View:      view,
		Origin:    req.Origin,
		DataRange: DataRange{X: 0, Y: 0, W: req.Width, H: 1},
		Status:    status,
	}
}
