// Package backend defines the execution boundary: a compiled circuit goes
// in, per-shot bit records come out. Shot bits are indexed by classical
// slot exactly as allocated during compilation.
package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/qecworks/steanelab/internal/circuit"
	"github.com/qecworks/steanelab/internal/code"
)

// Backend executes compiled circuits.
type Backend interface {
	// Name identifies the backend in logs and stored results.
	Name() string

	// Submit executes the circuit for the given number of shots and
	// returns one bit record per shot, each with one bit per slot.
	Submit(ctx context.Context, c *circuit.Circuit, shots int) ([][]code.Bit, error)
}

// SubmitError reports a failed submission. Failures are scoped to the
// configuration that raised them: callers running sweeps record the
// failure and move on.
type SubmitError struct {
	Backend string
	Circuit string
	Err     error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("backend %s: submit %s: %v", e.Backend, e.Circuit, e.Err)
}

func (e *SubmitError) Unwrap() error { return e.Err }

// IsSubmitError reports whether err is (or wraps) a SubmitError.
func IsSubmitError(err error) bool {
	var se *SubmitError
	return errors.As(err, &se)
}
