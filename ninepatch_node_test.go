package fleximg

import "testing"

// TestNinePatchStretchesCenterOnly builds a 3-wide source [Left, Center,
// Right] with 1px unstretched borders, stretched to a 5-wide output:
// the borders stay pinned and only the center column repeats.
func TestNinePatchStretchesCenterOnly(t *testing.T) {
	left := RGBA{R: 1, A: 255}
	center := RGBA{R: 2, A: 255}
	right := RGBA{R: 3, A: 255}
	buf := makeSourceBuffer([]RGBA{left, center, right})
	defer buf.Close()

	n := NewNinePatchSourceNode()
	n.SetSource(buf.View())
	n.SetBorders(1, 0, 1, 0)
	n.SetOutputSize(5, 1)

	ctx := newTestContext()
	defer ctx.Pool.Close()
	n.Prepare(ctx)

	resp := n.Pull(RenderRequest{Width: 5, Height: 1, Ctx: ctx})
	row := resp.View.Row(0)
	want := []RGBA{left, center, center, center, right}
	for i, w := range want {
		if got := getRGBAAt(row, i); got != w {
			t.Errorf("nine-patch row[%d] = %+v, want %+v", i, got, w)
		}
	}
}

func TestNinePatchEmptyWithNoSource(t *testing.T) {
	n := NewNinePatchSourceNode()
	ctx := newTestContext()
	defer ctx.Pool.Close()
	if status := n.Prepare(ctx); status != StatusEmpty {
		t.Errorf("Prepare() with no source = %v, want StatusEmpty", status)
	}
}

func TestNinePatchDeclaresTranslationOnly(t *testing.T) {
	n := NewNinePatchSourceNode()
	if n.AbsorbCapability() != CapTranslationOnly {
		t.Errorf("AbsorbCapability() = %v, want CapTranslationOnly", n.AbsorbCapability())
	}
}
