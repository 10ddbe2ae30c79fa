// Package harness provides scenario-driven testing for the compile and
// decode pipeline: YAML fixtures describe a program and scripted shot
// records with expected outcomes, and golden files pin the canonical
// circuit text.
package harness

import (
	"fmt"

	"github.com/qecworks/steanelab/internal/circuit"
	"github.com/qecworks/steanelab/internal/code"
	"github.com/qecworks/steanelab/internal/decode"
	"github.com/qecworks/steanelab/internal/encode"
)

// Result is the outcome of running a scenario: the compiled circuit and
// one decoded outcome per scripted shot.
type Result struct {
	Circuit  *circuit.Circuit
	Outcomes []decode.Outcome
}

// Run compiles the scenario's program and decodes its scripted shots.
func Run(s *Scenario) (*Result, error) {
	prog, err := s.program()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}

	opts := []encode.CompilerOption{}
	if s.MaxBits > 0 {
		opts = append(opts, encode.WithMaxBits(s.MaxBits))
	}
	circ, err := encode.NewCompiler(encode.Setup(s.Setup), opts...).Compile(prog)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: compile: %w", s.Name, err)
	}

	dec, err := decode.New(circ)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}

	res := &Result{Circuit: circ}
	for i, shot := range s.Shots {
		bits, err := parseBits(shot.Bits)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: shot %d: %w", s.Name, i, err)
		}
		o, err := dec.Shot(bits)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: shot %d: %w", s.Name, i, err)
		}
		res.Outcomes = append(res.Outcomes, o)
	}
	return res, nil
}

// parseBits converts a "0"/"1" string into slot-indexed bits.
func parseBits(s string) ([]code.Bit, error) {
	bits := make([]code.Bit, len(s))
	for i, c := range s {
		switch c {
		case '0':
			bits[i] = 0
		case '1':
			bits[i] = 1
		default:
			return nil, fmt.Errorf("bit string position %d: %q is not 0 or 1", i, c)
		}
	}
	return bits, nil
}
