package fleximg

import "testing"

func TestMatteLerpsByMaskAlpha(t *testing.T) {
	fg := readyRowStub([]RGBA{{R: 255, A: 255}})
	bg := readyRowStub([]RGBA{{B: 255, A: 255}})
	mask := readyRowStub([]RGBA{{A: 128}})

	m := NewMatteNode()
	m.SetInput(matteFG, fg)
	m.SetInput(matteBG, bg)
	m.SetInput(matteMask, mask)
	ctx := newTestContext()
	defer ctx.Pool.Close()
	m.Prepare(ctx)

	resp := m.Pull(RenderRequest{Width: 1, Height: 1, Ctx: ctx})
	got := getRGBAAt(resp.View.Row(0), 0)
	want := RGBA{R: 128, G: 0, B: 127, A: 255}
	if got != want {
		t.Errorf("matte(mask.A=128) = %+v, want %+v", got, want)
	}
}

func TestMatteUnwiredMaskDefaultsToFullyOpaque(t *testing.T) {
	fg := readyRowStub([]RGBA{{R: 200, G: 10, B: 10, A: 255}})
	bg := readyRowStub([]RGBA{{B: 255, A: 255}})

	m := NewMatteNode()
	m.SetInput(matteFG, fg)
	m.SetInput(matteBG, bg)
	ctx := newTestContext()
	defer ctx.Pool.Close()
	m.Prepare(ctx)

	resp := m.Pull(RenderRequest{Width: 1, Height: 1, Ctx: ctx})
	got := getRGBAAt(resp.View.Row(0), 0)
	want := RGBA{R: 200, G: 10, B: 10, A: 255}
	if got != want {
		t.Errorf("matte with unwired mask = %+v, want fg unmodified %+v", got, want)
	}
}

func TestMatteUnwiredFgIsTransparent(t *testing.T) {
	bg := readyRowStub([]RGBA{{B: 255, A: 255}})
	m := NewMatteNode()
	m.SetInput(matteBG, bg)
	ctx := newTestContext()
	defer ctx.Pool.Close()
	m.Prepare(ctx)

	resp := m.Pull(RenderRequest{Width: 1, Height: 1, Ctx: ctx})
	got := getRGBAAt(resp.View.Row(0), 0)
	if got != (RGBA{}) {
		t.Errorf("matte with unwired fg and unwired mask = %+v, want fully transparent", got)
	}
}

func TestMatteAllUnwiredIsEmpty(t *testing.T) {
	m := NewMatteNode()
	ctx := newTestContext()
	defer ctx.Pool.Close()
	status := m.Prepare(ctx)
	if status != StatusEmpty {
		t.Errorf("Prepare() on fully-unwired matte = %v, want StatusEmpty", status)
	}
	resp := m.Pull(RenderRequest{Width: 1, Height: 1, Ctx: ctx})
	if resp.Status != StatusEmpty {
		t.Errorf("Pull() on fully-unwired matte status = %v, want StatusEmpty", resp.Status)
	}
}
