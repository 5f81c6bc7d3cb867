package fleximg

import "testing"

// TestHorizontalBlurEdgeReplicateWindow reproduces the "isolated red
// pixel in a black row" half of the spec's box-blur scenario: with
// radius 1 on a 3-wide row, edge-replicate clamping makes every output
// column's window include the center pixel, so the row blurs to a
// uniform 255/3 = 85.
func TestHorizontalBlurEdgeReplicateWindow(t *testing.T) {
	black := RGBA{A: 255}
	red := RGBA{R: 255, A: 255}
	stub := readyRowStub([]RGBA{black, red, black})

	hb := NewHorizontalBlurNode(1)
	hb.SetInput(0, stub)
	ctx := newTestContext()
	defer ctx.Pool.Close()
	hb.Prepare(ctx)

	resp := hb.Pull(RenderRequest{Width: 3, Height: 1, Ctx: ctx})
	row := resp.View.Row(0)
	for x := 0; x < 3; x++ {
		c := getRGBAAt(row, x)
		if c.R != 85 {
			t.Errorf("blurred row[%d].R = %d, want 85", x, c.R)
		}
		if c.A != 255 {
			t.Errorf("blurred row[%d].A = %d, want 255", x, c.A)
		}
	}
}

func TestHorizontalBlurZeroRadiusPassesThrough(t *testing.T) {
	stub := readyRowStub([]RGBA{{R: 10, A: 255}, {R: 20, A: 255}})
	hb := NewHorizontalBlurNode(0)
	hb.SetInput(0, stub)
	ctx := newTestContext()
	defer ctx.Pool.Close()
	hb.Prepare(ctx)

	resp := hb.Pull(RenderRequest{Width: 2, Height: 1, Ctx: ctx})
	row := resp.View.Row(0)
	if c := getRGBAAt(row, 0); c.R != 10 {
		t.Errorf("zero-radius blur altered pixel 0: got R=%d, want 10", c.R)
	}
	if c := getRGBAAt(row, 1); c.R != 20 {
		t.Errorf("zero-radius blur altered pixel 1: got R=%d, want 20", c.R)
	}
}

// TestVerticalBlurPreservesOriginX is the resolved form of the spec's
// §9 open question on vertical blur: the response's Origin must equal
// the request's Origin exactly, not a value recomputed from the
// blurred content.
func TestVerticalBlurPreservesOriginX(t *testing.T) {
	gray := RGBA{R: 50, G: 50, B: 50, A: 255}
	upstream := &stubNode{
		status: Ready,
		pullFn: func(req RenderRequest) RenderResponse {
			return RenderResponse{
				View:      makeRGBA8Row([]RGBA{gray}),
				Origin:    req.Origin,
				DataRange: DataRange{X: 0, Y: 0, W: 1, H: 1},
				Status:    Ready,
			}
		},
	}
	vb := NewVerticalBlurNode(1)
	vb.SetInput(0, upstream)
	ctx := newTestContext()
	defer ctx.Pool.Close()
	vb.Prepare(ctx)

	req := RenderRequest{
		Width: 1, Height: 1,
		Origin: Point{X: ToFixed(37), Y: ToFixed(10)},
		Ctx:    ctx,
	}
	resp := vb.Pull(req)
	if resp.Origin != req.Origin {
		t.Errorf("VerticalBlurNode.Pull origin = %+v, want %+v (byte-identical to request)", resp.Origin, req.Origin)
	}
}

// TestHorizontalBlurRoundsRatherThanTruncates picks a sum/window pair
// (17/9) where round-to-nearest and truncating integer division give
// different answers (2 vs 1), catching a reciprocal-table
// implementation that silently degrades to truncation.
func TestHorizontalBlurRoundsRatherThanTruncates(t *testing.T) {
	colors := make([]RGBA, 9)
	for i := range colors {
		colors[i] = RGBA{A: 255}
	}
	colors[4] = RGBA{R: 17, A: 255}
	stub := readyRowStub(colors)

	hb := NewHorizontalBlurNode(4)
	hb.SetInput(0, stub)
	ctx := newTestContext()
	defer ctx.Pool.Close()
	hb.Prepare(ctx)

	resp := hb.Pull(RenderRequest{Width: 9, Height: 1, Ctx: ctx})
	row := resp.View.Row(0)
	if c := getRGBAAt(row, 4); c.R != 2 {
		t.Errorf("blurred center R = %d, want 2 (round-to-nearest of 17/9, not truncated 1)", c.R)
	}
}

func TestVerticalBlurUniformRegionUnchanged(t *testing.T) {
	gray := RGBA{R: 50, G: 60, B: 70, A: 255}
	upstream := &stubNode{
		status: Ready,
		pullFn: func(req RenderRequest) RenderResponse {
			return RenderResponse{
				View:      makeRGBA8Row([]RGBA{gray}),
				Origin:    req.Origin,
				DataRange: DataRange{X: 0, Y: 0, W: 1, H: 1},
				Status:    Ready,
			}
		},
	}
	vb := NewVerticalBlurNode(1)
	vb.SetInput(0, upstream)
	ctx := newTestContext()
	defer ctx.Pool.Close()
	vb.Prepare(ctx)

	resp := vb.Pull(RenderRequest{Width: 1, Height: 1, Origin: Point{Y: ToFixed(10)}, Ctx: ctx})
	got := getRGBAAt(resp.View.Row(0), 0)
	if got != gray {
		t.Errorf("vertical blur of a uniform region = %+v, want %+v unchanged", got, gray)
	}
}
