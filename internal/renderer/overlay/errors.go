package overlay

import (
	"errors"
	"fmt"
)

// Overlay errors.
var (
	// ErrDisposed indicates the manager was disposed.
	ErrDisposed = errors.New("overlay manager disposed")

	// ErrUnsupported indicates the operation does not apply to the
	// active policy.
	ErrUnsupported = errors.New("operation not supported by policy")

	// ErrNoRenderer indicates neither a Renderer nor an AsyncRenderer
	// was configured.
	ErrNoRenderer = errors.New("no renderer configured")
)

// InvariantError reports an internal contract violation. The manager
// panics with it in debug mode and logs it otherwise.
type InvariantError struct {
	Op     string
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("overlay invariant violated in %s: %s", e.Op, e.Detail)
}

// PanicError wraps a value recovered from a panicking renderer.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("renderer panic: %v", e.Value)
}
