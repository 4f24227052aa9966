package driver

import (
	"errors"
	"fmt"

	"github.com/san-kum/chemscene/internal/reaction"
)

var (
	// ErrInvalidRate indicates a negative or non-finite playback rate.
	ErrInvalidRate = errors.New("driver: rate must be finite and non-negative")

	// ErrInvalidInterval indicates a non-positive frame interval for Run.
	ErrInvalidInterval = errors.New("driver: frame interval must be positive")
)

// ResolveError wraps a source failure with the frame it was resolving.
type ResolveError struct {
	ID       string
	View     reaction.ViewLevel
	Progress float64
	Wrapped  error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("driver: resolve %s/%s@%.3f: %v", e.ID, e.View, e.Progress, e.Wrapped)
}

func (e *ResolveError) Unwrap() error {
	return e.Wrapped
}
