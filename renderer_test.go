package fleximg

import "testing"

func TestRendererExecWritesSourceToSink(t *testing.T) {
	src := makeSourceBuffer([]RGBA{{R: 10, G: 20, B: 30, A: 255}, {R: 40, G: 50, B: 60, A: 255}})
	defer src.Close()
	source := NewSourceNode()
	source.SetSource(src.View())
	source.SetInterpolationMode(Nearest)

	out := NewImageBuffer(2, 1, RGBA8Straight, Zeroed, nil, nil)
	defer out.Close()
	sink := NewViewPortSink()
	sink.SetTarget(*out)

	r := NewRendererNode()
	r.SetUpstream(source)
	r.SetSink(sink)
	r.SetVirtualScreen(2, 1)

	status := r.Exec()
	if status != Ready {
		t.Fatalf("Exec() = %v, want Ready", status)
	}

	got0 := out.PixelAt(0, 0)
	want0 := RGBA{R: 10, G: 20, B: 30, A: 255}
	if got0 != want0 {
		t.Errorf("out[0,0] = %+v, want %+v", got0, want0)
	}
	got1 := out.PixelAt(1, 0)
	want1 := RGBA{R: 40, G: 50, B: 60, A: 255}
	if got1 != want1 {
		t.Errorf("out[1,0] = %+v, want %+v", got1, want1)
	}
}

func TestRendererExecErrorsWithNoUpstream(t *testing.T) {
	r := NewRendererNode()
	if status := r.Exec(); status != StatusError {
		t.Errorf("Exec() with no upstream = %v, want StatusError", status)
	}
}

func TestRendererExecResetsPrepareBetweenFrames(t *testing.T) {
	stub := &stubNode{
		status: Ready,
		pullFn: func(req RenderRequest) RenderResponse {
			return RenderResponse{
				View:      makeRGBA8Row([]RGBA{{A: 255}}),
				Origin:    req.Origin,
				DataRange: DataRange{X: 0, Y: 0, W: 1, H: 1},
				Status:    Ready,
			}
		},
	}
	wrapping := NewBrightnessNode(0)
	wrapping.SetInput(0, stub)

	r := NewRendererNode()
	r.SetUpstream(wrapping)
	r.SetVirtualScreen(1, 1)

	r.Exec()
	afterFirst := stub.prepped
	r.Exec()
	if stub.prepped <= afterFirst {
		t.Errorf("upstream Prepare count did not increase across Exec() calls (got %d then %d), want fresh prepare per frame", afterFirst, stub.prepped)
	}
}
