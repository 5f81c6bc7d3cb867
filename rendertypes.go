package fleximg

// DataRange is a closed-open axis-aligned rectangle, in the coordinate
// frame of the RenderResponse it is attached to, denoting the pixels a
// producer actually wrote. Pixels outside the range are transparent.
type DataRange struct {
	X, Y, W, H int
}

// EmptyDataRange reports a fully-transparent strip.
var EmptyDataRange = DataRange{}

// Empty reports whether the range covers zero pixels.
func (d DataRange) Empty() bool { return d.W <= 0 || d.H <= 0 }

// Intersect returns the overlap of two ranges (possibly empty).
func (d DataRange) Intersect(o DataRange) DataRange {
	x0, y0 := max(d.X, o.X), max(d.Y, o.Y)
	x1, y1 := min(d.X+d.W, o.X+o.W), min(d.Y+d.H, o.Y+o.H)
	if x1 <= x0 || y1 <= y0 {
		return EmptyDataRange
	}
	return DataRange{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Union returns the smallest range containing both ranges. An empty
// operand is ignored. MatteNode uses it to report the union of its fg,
// bg and mask ranges.
func (d DataRange) Union(o DataRange) DataRange {
	if d.Empty() {
		return o
	}
	if o.Empty() {
		return d
	}
	x0, y0 := min(d.X, o.X), min(d.Y, o.Y)
	x1, y1 := max(d.X+d.W, o.X+o.W), max(d.Y+d.H, o.Y+o.H)
	return DataRange{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// PrepareStatus is the outcome of a node's Prepare pass.
type PrepareStatus int

const (
	Ready PrepareStatus = iota
	Deferred
	StatusEmpty
	StatusError
)

func (s PrepareStatus) String() string {
	switch s {
	case Ready:
		return "Ready"
	case Deferred:
		return "Deferred"
	case StatusEmpty:
		return "Empty"
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// worsePrepareStatus returns the more severe of two statuses, in the order
// Ready < Deferred < Empty < Error, used by RendererNode.Exec to report
// the worst status seen across the whole frame.
func worsePrepareStatus(a, b PrepareStatus) PrepareStatus {
	if b > a {
		return b
	}
	return a
}

// AffineCapability is a bit-set describing which categories of affine
// transform a consumer can absorb from upstream without materializing an
// intermediate buffer.
type AffineCapability uint8

const (
	CapTranslationOnly AffineCapability = 1 << iota
	CapScaleUniform
	CapScaleAny
	CapRotationAny
	// CapFullAffine is the union of every category; AffineNode announces
	// it because it can absorb (compose into its own matrix) anything.
	CapFullAffine = CapTranslationOnly | CapScaleUniform | CapScaleAny | CapRotationAny
)

// Has reports whether cap declares every category in required — a node
// may only push a transform downstream-to-upstream when the upstream's
// declared capability is a superset of the transform's category
// (spec.md invariant I3).
func (cap AffineCapability) Has(required AffineCapability) bool {
	return cap&required == required
}

// RenderContext is the per-frame mutable state shared by every node
// during one RendererNode.Exec call: the entry pool and the allocator
// backing it. It is not reentrant — concurrent pipelines must use
// disjoint contexts (spec.md §5).
type RenderContext struct {
	Pool      *EntryPool
	Allocator Allocator
	// Logf receives diagnostics: RendererNode.Exec reports through it
	// when prepare fails and the frame is aborted. Pool-miss fallback and
	// degenerate geometry are not reported. Defaults to a
	// fmt.Printf-based writer if nil — see logger.go.
	Logf func(format string, args ...any)
}

func (c *RenderContext) logf(format string, args ...any) {
	if c == nil || c.Logf == nil {
		defaultLogf(format, args...)
		return
	}
	c.Logf(format, args...)
}

// NewRenderContext creates a context with a fresh EntryPool bound to
// alloc. Passing a nil allocator uses DefaultAllocatorInstance().
func NewRenderContext(alloc Allocator) *RenderContext {
	if alloc == nil {
		alloc = DefaultAllocatorInstance()
	}
	return &RenderContext{
		Pool:      NewEntryPool(alloc),
		Allocator: alloc,
	}
}

// RenderRequest asks a node to produce the strip described by Width x
// Height at Origin in the consumer's output coordinate frame.
type RenderRequest struct {
	Width, Height int
	Origin        Point
	Ctx           *RenderContext
}

// RenderResponse is what a node's Pull returns. View may point
// into the requester's scratch, the producer's own buffer, or an
// entry-pool strip; its lifetime is valid only until the next call on
// the same producer (spec.md §3).
type RenderResponse struct {
	View      ViewPort
	Origin    Point
	DataRange DataRange
	Status    PrepareStatus
}

// emptyResponse builds a Status-appropriate response carrying no pixels,
// at the given origin, for nodes that have nothing to draw this strip.
func emptyResponse(origin Point) RenderResponse {
	return RenderResponse{Origin: origin, Status: StatusEmpty}
}
