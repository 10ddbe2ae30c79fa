package encode

import (
	"fmt"
	"math"

	"github.com/qecworks/steanelab/internal/circuit"
	"github.com/qecworks/steanelab/internal/code"
)

// emitRotation lowers a logical Z rotation. The angle is split into a
// Clifford head (its half-turn and quarter-turn components, applied
// transversally) and a residual. A residual beyond the snapping tolerance
// is realized by one teleportation gadget; its outcome bit conditions a
// logical Z frame update instead of any in-circuit correction.
//
// The residual is teleported at its exact value, so angles off the binary
// grid lose nothing; the grid only decides what counts as Clifford.
func (em *emitter) emitRotation(theta float64, opIndex int) error {
	if math.IsNaN(theta) || math.IsInf(theta, 0) {
		return newArgumentError(opIndex, fmt.Sprintf("non-finite rotation angle %v", theta))
	}

	h := halfTurns(theta)
	tol := math.Pow(2, float64(-em.maxBits))

	var b0, b1 int
	if h+tol/2 >= 1 {
		b0 = 1
		h -= 1
	}
	if h+tol/2 >= 0.5 {
		b1 = 1
		h -= 0.5
	}
	em.emitCliffordHead(b0, b1)

	if math.Abs(h) <= tol/2 {
		return nil
	}
	em.emitTeleport(h * math.Pi)
	return nil
}

// emitCliffordHead applies the Clifford part of a phase expansion:
// the half-turn bit is a logical Z, the quarter-turn bit a logical S.
// Logical S is transversal Sdg on this code, and Z*S collapses to Sdg.
// A quarter-turn bit conjugates the pending Pauli frame through S.
func (em *emitter) emitCliffordHead(b0, b1 int) {
	switch {
	case b0 == 1 && b1 == 0:
		for _, q := range code.LogicalSupport {
			em.b.Z(dataBase + q)
		}
	case b0 == 0 && b1 == 1:
		for q := 0; q < code.NumQubits; q++ {
			em.b.Sdg(dataBase + q)
		}
	case b0 == 1 && b1 == 1:
		for q := 0; q < code.NumQubits; q++ {
			em.b.S(dataBase + q)
		}
	}
	if b1 == 1 {
		em.b.Frame().ConjugateS()
	}
}

// emitTeleport realizes a residual Z rotation by phase kickback through a
// magic ancilla: the ancilla is prepared in Rz(theta)|+>, then the logical
// support kicks its Z parity onto the ancilla through data-controlled CX
// and the ancilla is measured. Outcome zero leaves Rz(theta) applied to
// the logical qubit, outcome one leaves Rz(-theta); the outcome bit
// conditions a logical Z frame update resolved at decode time, so the
// circuit stays free of classically controlled gates.
func (em *emitter) emitTeleport(theta float64) {
	em.b.Barrier()
	em.b.Reset(auxA)
	em.b.H(auxA)
	em.b.Rz(auxA, theta)
	for _, q := range code.LogicalSupport {
		em.b.CX(dataBase+q, auxA)
	}

	slot := em.b.Measure(auxA, circuit.SlotRole{
		Kind:     circuit.KindTeleport,
		Rotation: em.teleports,
	})
	em.b.Frame().Condition(slot, circuit.PauliZ)
	em.b.Barrier()
	em.teleports++
}

// emitTransversal applies a logical Clifford gate transversally and
// conjugates the pending Pauli frame through it. Logical X and Z commute
// with the frame up to sign, which is not tracked; H swaps the frame's X
// and Z components, S and Sdg fold X into Y.
func (em *emitter) emitTransversal(gate TransversalGate, opIndex int) error {
	switch gate {
	case GateX:
		for _, q := range code.LogicalSupport {
			em.b.X(dataBase + q)
		}
	case GateZ:
		for _, q := range code.LogicalSupport {
			em.b.Z(dataBase + q)
		}
	case GateH:
		for q := 0; q < code.NumQubits; q++ {
			em.b.H(dataBase + q)
		}
		em.b.Frame().ConjugateH()
	case GateS:
		for q := 0; q < code.NumQubits; q++ {
			em.b.Sdg(dataBase + q)
		}
		em.b.Frame().ConjugateS()
	case GateSdg:
		for q := 0; q < code.NumQubits; q++ {
			em.b.S(dataBase + q)
		}
		em.b.Frame().ConjugateS()
	default:
		return newArgumentError(opIndex, fmt.Sprintf("unknown transversal gate %q", gate))
	}
	return nil
}

// emitMeasure reads out the data block destructively. An X-basis readout
// rotates into the computational basis first.
func (em *emitter) emitMeasure(basis circuit.Basis, opIndex int) error {
	switch basis {
	case circuit.BasisZ, circuit.BasisX:
	default:
		return newArgumentError(opIndex, fmt.Sprintf("unknown measure basis %q", basis))
	}

	em.b.Barrier()
	if basis == circuit.BasisX {
		for q := 0; q < code.NumQubits; q++ {
			em.b.H(dataBase + q)
		}
	}
	em.b.SetMeasureBasis(basis)
	for q := 0; q < code.NumQubits; q++ {
		em.b.Measure(dataBase+q, circuit.SlotRole{
			Kind:  circuit.KindData,
			Index: q,
		})
	}
	return nil
}
