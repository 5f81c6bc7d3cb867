package fleximg

// AffineNode accumulates an affine matrix and propagates it, either by
// pushing it into an upstream that declares CapFullAffine (becoming a
// transparent pass-through) or by materializing: caching upstream's
// entire output once per frame into a local buffer and resampling it
// itself, exactly like a SourceNode (spec.md §4.3).
//
// Materializing needs random access to upstream rows, which a one-row-
// at-a-time pull interface doesn't give for free when this node's own
// matrix includes rotation (the source row a given output row needs is
// not monotonic in y). This port resolves that by pulling upstream's
// entire frame once, in increasing y order — satisfying the pull-
// monotonicity guarantee (O1) trivially — into an RGBA8 cache sized by
// SetSourceSize, then sampling that cache exactly as SourceNode does.
// SetSourceSize must be called whenever upstream will be materialized;
// it is a no-op when upstream accepts the pushed transform directly.
type AffineNode struct {
	BaseNode
	m      Matrix
	interp Interpolation

	srcW, srcH int // expected upstream dimensions, for the materialize path

	materialized bool
	cache        ViewPort
	cacheBuf     *ImageBuffer
	scratch      RGBAHandle
}

// NewAffineNode creates a node with an identity transform and bilinear
// sampling on the materialize path.
func NewAffineNode() *AffineNode {
	return &AffineNode{m: Identity(), interp: Bilinear}
}

// SetInterpolationMode selects Nearest or Bilinear sampling for the
// materialize path (ignored when upstream accepts the pushed transform
// directly, since then no resampling happens in this node at all).
func (a *AffineNode) SetInterpolationMode(mode Interpolation) { a.interp = mode }

// SetMatrix sets the node's transform directly.
func (a *AffineNode) SetMatrix(m Matrix) { a.m = m }

// SetRotationScale sets the transform via the spec.md §4.3 helper.
func (a *AffineNode) SetRotationScale(theta, sx, sy float64) { a.m = RotationScale(theta, sx, sy) }

// SetTranslation sets (replaces) the translation component.
func (a *AffineNode) SetTranslation(x, y Fixed) { a.m.Tx, a.m.Ty = x, y }

// SetSourceSize declares upstream's pixel dimensions for the
// materialize path (ignored when upstream accepts a pushed transform).
func (a *AffineNode) SetSourceSize(w, h int) { a.srcW, a.srcH = w, h }

// AbsorbCapability reports FullAffine: an AffineNode can always absorb
// a further transform by composing it into its own matrix, whether or
// not it ends up pushing or materializing against its own upstream
// (spec.md §4.3/§9).
func (a *AffineNode) AbsorbCapability() AffineCapability { return CapFullAffine }

// PushTransform composes an additional downstream-pushed transform
// into this node's own matrix.
func (a *AffineNode) PushTransform(m Matrix) bool {
	a.m = a.m.Mul(m)
	return true
}

func (a *AffineNode) Prepare(ctx *RenderContext) PrepareStatus {
	return a.preparedOnce(func() PrepareStatus {
		if a.upstream == nil {
			return StatusError
		}
		upstreamStatus := a.upstream.Prepare(ctx)
		if upstreamStatus == StatusError {
			return StatusError
		}
		if acceptor, ok := a.upstream.(TransformAcceptor); ok && a.upstream.AbsorbCapability().Has(CapFullAffine) {
			if acceptor.PushTransform(a.m) {
				a.materialized = false
				return Deferred
			}
		}
		a.materialized = true
		if err := a.buildCache(ctx); err != nil {
			return StatusError
		}
		return Ready
	})
}

// buildCache pulls upstream's entire frame, row by row in increasing y
// (O1-safe), into a local RGBA8 buffer this node then samples exactly
// as a SourceNode would.
func (a *AffineNode) buildCache(ctx *RenderContext) error {
	if a.srcW <= 0 || a.srcH <= 0 {
		return newRenderError("prepare", "AffineNode materializing without SetSourceSize", nil)
	}
	if a.cacheBuf != nil {
		a.cacheBuf.Close()
	}
	a.cacheBuf = NewImageBuffer(a.srcW, a.srcH, RGBA8Straight, Zeroed, ctx.Allocator, nil)
	for y := 0; y < a.srcH; y++ {
		resp := a.upstream.Pull(RenderRequest{
			Width: a.srcW, Height: 1,
			Origin: Point{Y: ToFixed(y)},
			Ctx:    ctx,
		})
		if resp.Status != Ready || resp.DataRange.Empty() {
			continue
		}
		dstRow := a.cacheBuf.Row(y)
		srcRow := resp.View.Row(0)
		desc := FormatOf(resp.View.Format())
		for x := resp.DataRange.X; x < resp.DataRange.X+resp.DataRange.W; x++ {
			c := straightenAt(desc, resp.View.Palette(), srcRow, x)
			setRGBAAt(dstRow, x, c)
		}
	}
	a.cache = a.cacheBuf.View()
	return nil
}

func (a *AffineNode) Pull(req RenderRequest) RenderResponse {
	if !a.materialized {
		return a.upstream.Pull(req)
	}
	return sampleAffineRow(&a.scratch, a.cache, a.interp, a.m, req)
}

func (a *AffineNode) ResetPrepare() {
	a.resetPrepare()
	a.scratch.Release()
}
