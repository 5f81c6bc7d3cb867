package fleximg

import "testing"

// stubNode is a minimal graph leaf used across tests to hand a fixed
// RenderResponse to whatever node is under test without needing a real
// ImageBuffer-backed SourceNode.
type stubNode struct {
	pullFn  func(RenderRequest) RenderResponse
	status  PrepareStatus
	absorb  AffineCapability
	prepped int
}

func (s *stubNode) Prepare(ctx *RenderContext) PrepareStatus {
	s.prepped++
	return s.status
}
func (s *stubNode) Pull(req RenderRequest) RenderResponse { return s.pullFn(req) }
func (s *stubNode) AbsorbCapability() AffineCapability    { return s.absorb }

func readyRowStub(colors []RGBA) *stubNode {
	return &stubNode{
		status: Ready,
		pullFn: func(req RenderRequest) RenderResponse {
			return RenderResponse{
				View:      makeRGBA8Row(colors),
				Origin:    req.Origin,
				DataRange: DataRange{X: 0, Y: 0, W: len(colors), H: 1},
				Status:    Ready,
			}
		},
	}
}

// makeRGBA8Row builds a standalone one-row ViewPort in RGBA8Straight
// layout, the same scratch shape every node's Pull accumulates into.
func makeRGBA8Row(colors []RGBA) ViewPort {
	buf := make([]byte, len(colors)*4)
	for i, c := range colors {
		setRGBAAt(buf, i, c)
	}
	return viewFromBytes(buf, len(colors), 1, len(colors)*4, RGBA8Straight, nil)
}

func newTestContext() *RenderContext {
	return NewRenderContext(DefaultAllocatorInstance())
}

func TestConnectRejectsCycle(t *testing.T) {
	b := NewBrightnessNode(0)
	g := NewGrayscaleNode()
	if err := Connect(b, g); err != nil {
		t.Fatalf("Connect(b, g) = %v, want nil", err)
	}
	if err := Connect(g, b); err == nil {
		t.Error("Connect(g, b) succeeded, want cycle rejection")
	}
}

func TestConnectSelfCycle(t *testing.T) {
	b := NewBrightnessNode(0)
	if err := Connect(b, b); err == nil {
		t.Error("Connect(b, b) succeeded, want cycle rejection")
	}
}

func TestBaseNodePreparedOnce(t *testing.T) {
	stub := &stubNode{status: Ready}
	b := NewBrightnessNode(10)
	b.SetInput(0, stub)
	ctx := newTestContext()
	defer ctx.Pool.Close()

	b.Prepare(ctx)
	b.Prepare(ctx)
	if stub.prepped != 1 {
		t.Errorf("upstream Prepare called %d times, want 1 (memoized)", stub.prepped)
	}
}

func TestResetPrepareClearsMemoization(t *testing.T) {
	stub := &stubNode{status: Ready}
	b := NewBrightnessNode(10)
	b.SetInput(0, stub)
	ctx := newTestContext()
	defer ctx.Pool.Close()

	b.Prepare(ctx)
	b.ResetPrepare()
	b.Prepare(ctx)
	if stub.prepped != 2 {
		t.Errorf("upstream Prepare called %d times after reset, want 2", stub.prepped)
	}
}

func TestWalkNodesVisitsOnceAcrossSharedInput(t *testing.T) {
	leaf := &stubNode{status: Ready}
	dist := NewDistributorNode()
	dist.SetInput(0, leaf)
	comp := NewCompositeNode(2)
	comp.SetInput(0, dist)
	comp.SetInput(1, dist)

	visits := 0
	walkNodes(comp, func(Node) { visits++ })
	// comp, dist (shared, visited once), leaf = 3
	if visits != 3 {
		t.Errorf("walkNodes visited %d nodes, want 3 (dist shared via two ports)", visits)
	}
}
