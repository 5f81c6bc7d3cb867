package fleximg

import "testing"

// TestAffineNodeMaterializeNearestMatchesSourceNode exercises the
// materialize path (upstream does not implement TransformAcceptor, so
// AffineNode must cache and resample itself) with Nearest selected,
// reproducing the same 2x scale scenario as
// TestSourceNodeNearestScale2x exactly, per the pushdown/materialize
// equivalence requirement for nearest-neighbor sampling.
func TestAffineNodeMaterializeNearestMatchesSourceNode(t *testing.T) {
	red := RGBA{R: 255, A: 255}
	blue := RGBA{B: 255, A: 255}
	upstream := readyRowStub([]RGBA{red, blue})

	a := NewAffineNode()
	a.SetInput(0, upstream)
	a.SetSourceSize(2, 1)
	a.SetRotationScale(0, 2, 1)
	a.SetInterpolationMode(Nearest)

	ctx := newTestContext()
	defer ctx.Pool.Close()
	status := a.Prepare(ctx)
	if status != Ready {
		t.Fatalf("Prepare() materializing over a non-TransformAcceptor upstream = %v, want Ready", status)
	}

	resp := a.Pull(RenderRequest{Width: 4, Height: 1, Ctx: ctx})
	row := resp.View.Row(0)
	want := []RGBA{red, red, blue, blue}
	for i, w := range want {
		if got := getRGBAAt(row, i); got != w {
			t.Errorf("materialized row[%d] = %+v, want %+v", i, got, w)
		}
	}
}

func TestAffineNodeDefaultInterpolationIsBilinear(t *testing.T) {
	a := NewAffineNode()
	if a.interp != Bilinear {
		t.Errorf("NewAffineNode() interp = %v, want Bilinear", a.interp)
	}
}
