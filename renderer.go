package fleximg

// RendererNode drives the scanline loop (spec.md §4.6): it holds a
// virtual-screen size and origin, prepares the upstream chain once per
// exec(), then pulls one row at a time and forwards each response
// (format-converted if necessary) to its sink.
type RendererNode struct {
	upstream Node
	sink     SinkNode

	width, height int
	origin        Point
	format        PixelFormatID
	alloc         Allocator
	logf          func(format string, args ...any)
}

// NewRendererNode creates a renderer targeting RGBA8Straight output
// using the default heap allocator, until SetAllocator/SetOutputFormat
// override them.
func NewRendererNode() *RendererNode {
	return &RendererNode{format: RGBA8Straight}
}

// SetUpstream wires the node this renderer pulls from.
func (r *RendererNode) SetUpstream(n Node) { r.upstream = n }

// SetSink wires the sink every exec() writes rows into.
func (r *RendererNode) SetSink(s SinkNode) { r.sink = s }

// SetVirtualScreen sets the output size and, optionally, its origin in
// the upstream chain's coordinate frame. Safe to call between exec()
// calls, not mid-frame (SPEC_FULL.md's renegotiation note, grounded in
// the teacher's NotifyResolutionChange).
func (r *RendererNode) SetVirtualScreen(w, h int, origin ...Point) {
	r.width, r.height = w, h
	if len(origin) > 0 {
		r.origin = origin[0]
	}
}

// SetPivotCenter centers the virtual screen's origin on (w/2, h/2),
// matching the `renderer.setPivotCenter()` call in
// examples/m5stack_matte/src/main.cpp.
func (r *RendererNode) SetPivotCenter() {
	r.origin = Point{X: ToFixed(-r.width / 2), Y: ToFixed(-r.height / 2)}
}

// SetOutputFormat sets the format rows are converted to before being
// handed to the sink.
func (r *RendererNode) SetOutputFormat(f PixelFormatID) { r.format = f }

// SetAllocator sets the allocator backing this renderer's per-frame
// entry pool.
func (r *RendererNode) SetAllocator(a Allocator) { r.alloc = a }

// SetLogf overrides the diagnostic sink; Exec writes to it when prepare
// fails and the frame is aborted.
func (r *RendererNode) SetLogf(fn func(format string, args ...any)) { r.logf = fn }

// AbsorbCapability reports TranslationOnly: the renderer can reposition
// its virtual screen but not rotate or scale it (spec.md §4).
func (r *RendererNode) AbsorbCapability() AffineCapability { return CapTranslationOnly }

// Exec runs one frame: prepare, then pull+convert+write every row,
// returning the worst PrepareStatus observed (spec.md §4.6).
func (r *RendererNode) Exec() PrepareStatus {
	if r.upstream == nil {
		return StatusError
	}
	ctx := NewRenderContext(r.alloc)
	if r.logf != nil {
		ctx.Logf = r.logf
	}
	defer ctx.Pool.Close()

	walkNodes(r.upstream, func(n Node) {
		if rs, ok := n.(Resettable); ok {
			rs.ResetPrepare()
		}
	})

	status := r.upstream.Prepare(ctx)
	if status == StatusError {
		ctx.logf("prepare failed, aborting exec()")
		return StatusError
	}

	worst := status
	for y := 0; y < r.height; y++ {
		req := RenderRequest{
			Width: r.width, Height: 1,
			Origin: Point{X: r.origin.X, Y: addSatFixed(r.origin.Y, ToFixed(y))},
			Ctx:    ctx,
		}
		resp := r.upstream.Pull(req)
		worst = worsePrepareStatus(worst, resp.Status)
		if resp.Status != Ready || resp.DataRange.Empty() {
			continue
		}
		if r.sink != nil {
			var strip StripHandle
			if srcFmt := resp.View.Format(); srcFmt != r.format {
				strip = ctx.Pool.Acquire(r.format, resp.View.Width(), 1)
				srcDesc, dstDesc := FormatOf(srcFmt), FormatOf(r.format)
				srcRow, dstRow := resp.View.Row(0), strip.Buffer().Row(0)
				for x := resp.DataRange.X; x < resp.DataRange.X+resp.DataRange.W; x++ {
					writePixel(dstDesc, nil, dstRow, x, straightenAt(srcDesc, resp.View.Palette(), srcRow, x))
				}
				resp.View = strip.View()
			}
			r.sink.WriteRow(y, resp, r.format)
			strip.Release()
		}
	}
	return worst
}
