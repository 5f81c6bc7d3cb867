package fleximg

// Interpolation selects how SourceNode resamples under a non-identity
// affine transform.
type Interpolation int

const (
	Nearest Interpolation = iota
	Bilinear
)

// TransformAcceptor is implemented by nodes willing to have a transform
// composed directly into their own sampling matrix instead of being
// materialized by the caller — SourceNode is the canonical acceptor,
// announcing CapFullAffine from AbsorbCapability (spec.md §4.2/§4.3).
type TransformAcceptor interface {
	PushTransform(m Matrix) bool
}

// SourceNode wraps a single static image plus the affine state spec.md
// §4.2 describes: position, pivot, rotation+scale, and an interpolation
// mode. It has no input port — it is a graph leaf.
type SourceNode struct {
	view   ViewPort
	pivot  Point
	pos    Point
	rs     Matrix // rotation+scale only, no translation
	interp Interpolation

	pushed   Matrix
	hasPush  bool
	prepared bool
	status   PrepareStatus

	// scratch holds the RGBA8 row produced by the previous Pull. It is
	// released and replaced at the start of the next Pull rather than
	// by the caller, matching spec.md §3's "view's lifetime is valid
	// until the next call on the same producer".
	scratch RGBAHandle
}

// NewSourceNode creates a source with identity rotation/scale and zero
// position/pivot.
func NewSourceNode() *SourceNode {
	return &SourceNode{rs: Identity()}
}

// SetSource installs the image this node samples from.
func (s *SourceNode) SetSource(v ViewPort) { s.view = v }

// SetPivot sets the point (in source pixel space) rotation/scale pivot
// around before translation is applied.
func (s *SourceNode) SetPivot(x, y Fixed) { s.pivot = Point{X: x, Y: y} }

// SetPosition sets where the pivot lands in output space.
func (s *SourceNode) SetPosition(x, y Fixed) { s.pos = Point{X: x, Y: y} }

// SetRotationScale sets the node's own rotation+scale, per the
// `setRotationScale(θ, sx, sy)` helper in spec.md §4.3.
func (s *SourceNode) SetRotationScale(theta, sx, sy float64) { s.rs = RotationScale(theta, sx, sy) }

// SetInterpolationMode selects Nearest or Bilinear sampling.
func (s *SourceNode) SetInterpolationMode(mode Interpolation) { s.interp = mode }

// ownTransform returns the source-to-output matrix this node
// contributes on its own, before any pushed-down parent transform:
// output = rs.Apply(src - pivot) + pos.
func (s *SourceNode) ownTransform() Matrix {
	rsPivot := s.rs.Apply(s.pivot)
	return Matrix{
		A: s.rs.A, B: s.rs.B, C: s.rs.C, D: s.rs.D,
		Tx: addSatFixed(s.pos.X, -rsPivot.X),
		Ty: addSatFixed(s.pos.Y, -rsPivot.Y),
	}
}

// totalTransform composes this node's own transform with whatever an
// AffineNode downstream has pushed into it.
func (s *SourceNode) totalTransform() Matrix {
	own := s.ownTransform()
	if !s.hasPush {
		return own
	}
	return own.Mul(s.pushed)
}

// PushTransform composes m into the node's accumulated pushed
// transform. SourceNode always accepts, since it announces
// CapFullAffine.
func (s *SourceNode) PushTransform(m Matrix) bool {
	if !s.hasPush {
		s.pushed = m
		s.hasPush = true
	} else {
		s.pushed = s.pushed.Mul(m)
	}
	return true
}

// AbsorbCapability reports FullAffine: a SourceNode can compose any
// affine transform into its own sampling matrix (spec.md §4.2).
func (s *SourceNode) AbsorbCapability() AffineCapability { return CapFullAffine }

func (s *SourceNode) Prepare(ctx *RenderContext) PrepareStatus {
	if s.prepared {
		return s.status
	}
	s.prepared = true
	if s.view.Empty() {
		s.status = StatusEmpty
		return s.status
	}
	s.status = Ready
	return s.status
}

func (s *SourceNode) ResetPrepare() {
	s.prepared = false
	s.pushed = Matrix{}
	s.hasPush = false
	s.scratch.Release()
}

// Pull implements spec.md §4.2's four-step source pull, delegated to
// the shared affine sampler in affine_sample.go since AffineNode's
// materialize path needs the exact same kernel against its own cached
// view.
func (s *SourceNode) Pull(req RenderRequest) RenderResponse {
	if s.view.Empty() {
		return emptyResponse(req.Origin)
	}
	return sampleAffineRow(&s.scratch, s.view, s.interp, s.totalTransform(), req)
}
