package fleximg

import "fmt"

// RenderError provides detailed error context for failures raised during
// prepare or pull. It wraps an optional underlying error the way the
// teacher's VideoError does, so callers can still errors.Is/As through it.
type RenderError struct {
	Operation string // what was being attempted, e.g. "prepare", "allocate"
	Details   string // additional context
	Err       error  // underlying error, if any
}

func (e *RenderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fleximg %s failed: %s: %v", e.Operation, e.Details, e.Err)
	}
	return fmt.Sprintf("fleximg %s failed: %s", e.Operation, e.Details)
}

func (e *RenderError) Unwrap() error { return e.Err }

func newRenderError(op, details string, err error) *RenderError {
	return &RenderError{Operation: op, Details: details, Err: err}
}

// ErrInvalidConnection is returned by Connect/ConnectTo when the wiring
// would introduce a cycle or target an out-of-range port index.
var ErrInvalidConnection = fmt.Errorf("fleximg: invalid connection")

// ErrUnsupportedFormat names a missing converter between two pixel
// formats. No function in this package returns it: every format in the
// descriptor table carries both converters.
var ErrUnsupportedFormat = fmt.Errorf("fleximg: unsupported format conversion")
