package fleximg

// Node is the minimal surface every element of the graph implements:
// the two-phase prepare/pull protocol from spec.md §4.1.
type Node interface {
	// Prepare is called at most once per frame (O2), downstream before
	// upstream: the node negotiates AffineCapability with whatever is
	// wired to its inputs and declares its own output geometry. Returns
	// the worst status it or anything upstream reported.
	Prepare(ctx *RenderContext) PrepareStatus
	// Pull computes and returns the requested strip. Within one
	// exec(), successive calls to the same node have non-decreasing
	// req.Origin.Y (O1).
	Pull(req RenderRequest) RenderResponse
	// AbsorbCapability reports which categories of affine transform
	// this node can absorb from upstream without materializing an
	// intermediate buffer (spec.md §3/§9).
	AbsorbCapability() AffineCapability
}

// Wireable is implemented by nodes that accept input connections. Most
// nodes have exactly one input port (index 0 only); CompositeNode and
// MatteNode accept several.
type Wireable interface {
	Node
	// SetInput wires src as this node's input idx. Returns
	// ErrInvalidConnection if idx is out of range for this node.
	SetInput(idx int, src Node) error
	// Inputs returns the node's current input nodes, nil entries for
	// unwired ports. Used only for the cycle-detection reachability
	// walk at connect time.
	Inputs() []Node
}

// Connect wires src's output to dst's input 0, the Go spelling of the
// spec's `a >> b` operator.
func Connect(src Node, dst Wireable) error {
	return ConnectTo(src, dst, 0)
}

// ConnectTo wires src's output to dst's input idx, rejecting the
// connection if it would introduce a cycle (a single-direction
// reachability walk from src through existing input edges, per spec.md
// §9) or if idx is out of range.
func ConnectTo(src Node, dst Wireable, idx int) error {
	if wouldCycle(src, dst) {
		return newRenderError("connect", "connection would introduce a cycle", ErrInvalidConnection)
	}
	if err := dst.SetInput(idx, src); err != nil {
		return err
	}
	return nil
}

// wouldCycle reports whether dst is reachable from src by walking src's
// own input edges — if so, wiring src -> dst would close a loop back
// through dst.
func wouldCycle(src Node, dst Node) bool {
	if src == dst {
		return true
	}
	w, ok := src.(Wireable)
	if !ok {
		return false
	}
	for _, in := range w.Inputs() {
		if in == nil {
			continue
		}
		if in == dst {
			return true
		}
		if wouldCycle(in, dst) {
			return true
		}
	}
	return false
}

// BaseNode implements the single-input-port bookkeeping shared by every
// node that has exactly one upstream (SourceNode excluded — it has
// none; CompositeNode/MatteNode use their own multi-port storage). Embed it to get Inputs()/SetInput()/Into() for
// free, the way the teacher's backends embed a common struct for shared
// bookkeeping rather than duplicating it per implementation.
type BaseNode struct {
	upstream Node
	prepared bool
	status   PrepareStatus
}

// SetInput wires idx 0 only; any other index is out of range for a
// single-input node.
func (b *BaseNode) SetInput(idx int, src Node) error {
	if idx != 0 {
		return newRenderError("connect", "single-input node: port index out of range", ErrInvalidConnection)
	}
	b.upstream = src
	return nil
}

// Inputs returns the single upstream node, or nil if unwired.
func (b *BaseNode) Inputs() []Node {
	if b.upstream == nil {
		return nil
	}
	return []Node{b.upstream}
}

// Into wires this node's output to dst's input 0. self must be the
// concrete node embedding this BaseNode (BaseNode itself has no output
// of its own).
func (b *BaseNode) Into(self Node, dst Wireable) error {
	return Connect(self, dst)
}

// preparedOnce runs prepare exactly once per frame, memoizing the
// status (spec.md O2, "a node's prepare is called at most once per
// frame"). fn is only invoked the first time; later calls in the same
// frame return the cached status.
func (b *BaseNode) preparedOnce(fn func() PrepareStatus) PrepareStatus {
	if b.prepared {
		return b.status
	}
	b.prepared = true
	b.status = fn()
	return b.status
}

// resetPrepare clears the per-frame memoization. RendererNode.Exec
// calls this on every node it owns at the start of a fresh exec() —
// nodes persist across frames (spec.md §6, "no persisted state except
// user-set parameters") but the prepare cache must not.
func (b *BaseNode) resetPrepare() { b.prepared = false }

// Resettable is implemented by nodes whose per-frame prepare memoization
// needs clearing before a new exec(). RendererNode walks the graph and
// calls ResetPrepare on every Resettable it finds.
type Resettable interface {
	ResetPrepare()
}

func (b *BaseNode) ResetPrepare() { b.resetPrepare() }

// MultiInputNode is the fixed-arity counterpart of BaseNode for nodes
// like CompositeNode and MatteNode that take more than one input port.
type MultiInputNode struct {
	inputs   []Node
	prepared bool
	status   PrepareStatus
}

// NewMultiInputNode allocates storage for exactly n input ports.
func NewMultiInputNode(n int) MultiInputNode {
	return MultiInputNode{inputs: make([]Node, n)}
}

func (m *MultiInputNode) SetInput(idx int, src Node) error {
	if idx < 0 || idx >= len(m.inputs) {
		return newRenderError("connect", "port index out of range", ErrInvalidConnection)
	}
	m.inputs[idx] = src
	return nil
}

func (m *MultiInputNode) Inputs() []Node { return m.inputs }

func (m *MultiInputNode) At(idx int) Node { return m.inputs[idx] }

func (m *MultiInputNode) preparedOnce(fn func() PrepareStatus) PrepareStatus {
	if m.prepared {
		return m.status
	}
	m.prepared = true
	m.status = fn()
	return m.status
}

func (m *MultiInputNode) ResetPrepare() { m.prepared = false }

// walkNodes visits root and every node reachable through Wireable.Inputs
// exactly once, calling visit on each. Used by RendererNode.Exec to
// reset the per-frame prepare memoization across the whole graph before
// each exec() (spec.md §6, "memoryless across exec() calls except for
// nodes holding user-set parameters" — the prepare cache is not a
// user-set parameter).
func walkNodes(root Node, visit func(Node)) {
	seen := make(map[Node]bool)
	var walk func(Node)
	walk = func(n Node) {
		if n == nil || seen[n] {
			return
		}
		seen[n] = true
		visit(n)
		if w, ok := n.(Wireable); ok {
			for _, in := range w.Inputs() {
				walk(in)
			}
		}
	}
	walk(root)
}
