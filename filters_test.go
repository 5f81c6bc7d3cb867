package fleximg

import "testing"

func TestGrayscaleRec601Weights(t *testing.T) {
	red := RGBA{R: 255, G: 0, B: 0, A: 255}
	blue := RGBA{R: 0, G: 0, B: 255, A: 255}
	stub := readyRowStub([]RGBA{red, blue})

	g := NewGrayscaleNode()
	g.SetInput(0, stub)
	ctx := newTestContext()
	defer ctx.Pool.Close()
	g.Prepare(ctx)

	resp := g.Pull(RenderRequest{Width: 2, Height: 1, Ctx: ctx})
	row := resp.View.Row(0)

	got0 := getRGBAAt(row, 0)
	if got0 != (RGBA{R: 76, G: 76, B: 76, A: 255}) {
		t.Errorf("grayscale(red) = %+v, want {76 76 76 255}", got0)
	}
	got1 := getRGBAAt(row, 1)
	if got1 != (RGBA{R: 29, G: 29, B: 29, A: 255}) {
		t.Errorf("grayscale(blue) = %+v, want {29 29 29 255}", got1)
	}
}

func TestBrightnessSaturates(t *testing.T) {
	stub := readyRowStub([]RGBA{{R: 100, G: 150, B: 200, A: 255}})
	b := NewBrightnessNode(128)
	b.SetInput(0, stub)
	ctx := newTestContext()
	defer ctx.Pool.Close()
	b.Prepare(ctx)

	resp := b.Pull(RenderRequest{Width: 1, Height: 1, Ctx: ctx})
	got := getRGBAAt(resp.View.Row(0), 0)
	want := RGBA{R: 228, G: 255, B: 255, A: 255}
	if got != want {
		t.Errorf("brightness(+128) = %+v, want %+v", got, want)
	}
}

func TestBrightnessSaturatesLow(t *testing.T) {
	stub := readyRowStub([]RGBA{{R: 10, G: 0, B: 5, A: 255}})
	b := NewBrightnessNode(-50)
	b.SetInput(0, stub)
	ctx := newTestContext()
	defer ctx.Pool.Close()
	b.Prepare(ctx)

	resp := b.Pull(RenderRequest{Width: 1, Height: 1, Ctx: ctx})
	got := getRGBAAt(resp.View.Row(0), 0)
	want := RGBA{R: 0, G: 0, B: 0, A: 255}
	if got != want {
		t.Errorf("brightness(-50) = %+v, want %+v", got, want)
	}
}

func TestAlphaNodeScalesAlphaOnly(t *testing.T) {
	stub := readyRowStub([]RGBA{{R: 10, G: 20, B: 30, A: 200}})
	a := NewAlphaNode(0.5)
	a.SetInput(0, stub)
	ctx := newTestContext()
	defer ctx.Pool.Close()
	a.Prepare(ctx)

	resp := a.Pull(RenderRequest{Width: 1, Height: 1, Ctx: ctx})
	got := getRGBAAt(resp.View.Row(0), 0)
	if got.R != 10 || got.G != 20 || got.B != 30 {
		t.Errorf("AlphaNode modified RGB: got %+v", got)
	}
	if got.A != 100 {
		t.Errorf("AlphaNode alpha = %d, want 100", got.A)
	}
}

func TestFilterNodesPropagateAbsorbCapability(t *testing.T) {
	stub := &stubNode{status: Ready, absorb: CapFullAffine}
	b := NewBrightnessNode(0)
	b.SetInput(0, stub)
	if got := b.AbsorbCapability(); got != CapFullAffine {
		t.Errorf("BrightnessNode.AbsorbCapability() = %v, want CapFullAffine (propagated)", got)
	}
}

func TestFilterNodeErrorsWhenUnwired(t *testing.T) {
	g := NewGrayscaleNode()
	ctx := newTestContext()
	defer ctx.Pool.Close()
	if status := g.Prepare(ctx); status != StatusError {
		t.Errorf("Prepare() on unwired GrayscaleNode = %v, want StatusError", status)
	}
}
