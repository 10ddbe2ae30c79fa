package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/qecworks/steanelab/internal/circuit"
	"github.com/qecworks/steanelab/internal/encode"
)

// Scenario is a declarative pipeline fixture.
type Scenario struct {
	Name    string     `yaml:"name"`
	Setup   string     `yaml:"setup"`
	MaxBits int        `yaml:"max_bits,omitempty"`
	Program []OpSpec   `yaml:"program"`
	Shots   []ShotSpec `yaml:"shots,omitempty"`
}

// OpSpec is one program operation. Exactly one field must be set.
type OpSpec struct {
	Prep        *string      `yaml:"prep,omitempty"`
	Rotation    *float64     `yaml:"rotation,omitempty"`
	QEC         *string      `yaml:"qec,omitempty"`
	Iceberg     *IcebergSpec `yaml:"iceberg,omitempty"`
	Transversal *string      `yaml:"transversal,omitempty"`
	Measure     *string      `yaml:"measure,omitempty"`
}

// IcebergSpec selects a detection check.
type IcebergSpec struct {
	Kind  string `yaml:"kind"`
	Index int    `yaml:"index"`
}

// ShotSpec is one scripted shot record with its expected outcome.
type ShotSpec struct {
	Bits   string     `yaml:"bits"`
	Expect ExpectSpec `yaml:"expect"`
}

// ExpectSpec is the expected decode of a shot.
type ExpectSpec struct {
	Accepted bool `yaml:"accepted"`
	Value    int  `yaml:"value,omitempty"`
}

// LoadScenario reads and validates a scenario file. Unknown YAML fields
// are rejected so fixture typos fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scenario: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var s Scenario
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return &s, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	switch encode.Setup(s.Setup) {
	case encode.SetupExp, encode.SetupPFT:
	default:
		return fmt.Errorf("unknown setup %q", s.Setup)
	}
	if len(s.Program) == 0 {
		return fmt.Errorf("program is empty")
	}
	for i, op := range s.Program {
		if err := op.validate(); err != nil {
			return fmt.Errorf("program[%d]: %w", i, err)
		}
	}
	return nil
}

func (o OpSpec) validate() error {
	n := 0
	if o.Prep != nil {
		n++
	}
	if o.Rotation != nil {
		n++
	}
	if o.QEC != nil {
		n++
	}
	if o.Iceberg != nil {
		n++
	}
	if o.Transversal != nil {
		n++
	}
	if o.Measure != nil {
		n++
	}
	if n != 1 {
		return fmt.Errorf("exactly one operation field must be set, got %d", n)
	}
	return nil
}

// program lowers the scenario into an encode.Program.
func (s *Scenario) program() (encode.Program, error) {
	var ops []encode.Operation
	for _, o := range s.Program {
		switch {
		case o.Prep != nil:
			ops = append(ops, encode.Prep{State: encode.PrepState(*o.Prep)})
		case o.Rotation != nil:
			ops = append(ops, encode.Rotation{Theta: *o.Rotation})
		case o.QEC != nil:
			ops = append(ops, encode.QECCycle{Basis: circuit.Basis(*o.QEC)})
		case o.Iceberg != nil:
			ops = append(ops, encode.IcebergCycle{
				Kind:  encode.CheckKind(o.Iceberg.Kind),
				Index: o.Iceberg.Index,
			})
		case o.Transversal != nil:
			ops = append(ops, encode.Transversal{Gate: encode.TransversalGate(*o.Transversal)})
		case o.Measure != nil:
			ops = append(ops, encode.Measure{Basis: circuit.Basis(*o.Measure)})
		}
	}
	return encode.Program{Name: s.Name, Ops: ops}, nil
}
