package backend

import (
	"context"

	"github.com/qecworks/steanelab/internal/circuit"
	"github.com/qecworks/steanelab/internal/code"
)

// Stub is a scripted backend for tests: it returns the shots it was
// given, or a fixed error, regardless of the circuit.
type Stub struct {
	// Shots is returned verbatim from Submit when Err is nil.
	Shots [][]code.Bit

	// Err, when set, fails every submission.
	Err error

	// Submitted counts Submit calls.
	Submitted int
}

// Name implements Backend.
func (s *Stub) Name() string { return "stub" }

// Submit implements Backend.
func (s *Stub) Submit(_ context.Context, c *circuit.Circuit, _ int) ([][]code.Bit, error) {
	s.Submitted++
	if s.Err != nil {
		return nil, &SubmitError{Backend: s.Name(), Circuit: c.Name, Err: s.Err}
	}
	return s.Shots, nil
}
