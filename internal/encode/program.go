// Package encode compiles logical programs over one Steane-encoded qubit
// into physical circuits. Compilation is deterministic: the same program
// under the same setup always yields byte-identical canonical circuits.
package encode

import (
	"github.com/qecworks/steanelab/internal/circuit"
)

// Setup selects the state preparation discipline for every encoded block
// in the circuit.
type Setup string

const (
	// SetupExp uses bare (non fault-tolerant) encoding circuits.
	SetupExp Setup = "exp"

	// SetupPFT uses verified encoding: each block's preparation couples a
	// verification qubit to the logical support and measures it. Shots with
	// a nonzero verification bit are rejected in post-processing.
	SetupPFT Setup = "pft"
)

// PrepState selects the logical state an encode operation prepares.
type PrepState string

const (
	StateZero PrepState = "zero"
	StatePlus PrepState = "plus"
	StateOne  PrepState = "one"
)

// CheckKind selects the flavor of a detection cycle's weight-4 check.
type CheckKind string

const (
	// CheckW measures the joint X and Z parity of a stabilizer support.
	CheckW CheckKind = "w"
	// CheckX measures the X-type stabilizer at the given index.
	CheckX CheckKind = "x"
	// CheckZ measures the Z-type stabilizer at the given index.
	CheckZ CheckKind = "z"
)

// TransversalGate names a logical Clifford applied transversally.
type TransversalGate string

const (
	GateX   TransversalGate = "x"
	GateZ   TransversalGate = "z"
	GateH   TransversalGate = "h"
	GateS   TransversalGate = "s"
	GateSdg TransversalGate = "sdg"
)

// Operation is one step of a logical program.
type Operation interface {
	opName() string
}

// Prep encodes the logical qubit in the given state. Must be the first
// operation of every program.
type Prep struct {
	State PrepState
}

// Rotation applies a logical Z rotation by Theta radians. Rotations
// whose binary-fraction phase is Clifford are expanded transversally;
// anything deeper is realized by gate teleportation.
type Rotation struct {
	Theta float64
}

// QECCycle runs one round of syndrome extraction in the given basis.
// The extracted bits are recorded for decode-time correction; no
// correction gates are applied in-circuit.
type QECCycle struct {
	Basis circuit.Basis
}

// IcebergCycle runs one two-ancilla detection check. Index selects the
// stabilizer support (0..2); Kind selects the check flavor.
type IcebergCycle struct {
	Kind  CheckKind
	Index int
}

// Transversal applies a logical Clifford gate transversally.
type Transversal struct {
	Gate TransversalGate
}

// Measure reads out the data block destructively in the given basis.
// Must be the last operation of every program.
type Measure struct {
	Basis circuit.Basis
}

func (Prep) opName() string         { return "prep" }
func (Rotation) opName() string     { return "rotation" }
func (QECCycle) opName() string     { return "qec" }
func (IcebergCycle) opName() string { return "iceberg" }
func (Transversal) opName() string  { return "transversal" }
func (Measure) opName() string      { return "measure" }

// Program is an ordered logical program over a single encoded qubit.
type Program struct {
	Name string
	Ops  []Operation
}
