package encode

import (
	"fmt"

	"github.com/qecworks/steanelab/internal/circuit"
	"github.com/qecworks/steanelab/internal/code"
)

// emitQECCycle runs one round of syndrome extraction against a fresh
// ancilla block. A Z-basis cycle couples data onto the ancilla and reads
// it out in Z, locating X errors; an X-basis cycle works in the conjugate
// direction and locates Z errors.
//
// No correction gates are emitted. The seven ancilla bits are recorded as
// this cycle's syndrome slots and resolved entirely at decode time.
func (em *emitter) emitQECCycle(basis circuit.Basis, opIndex int) error {
	switch basis {
	case circuit.BasisZ, circuit.BasisX:
	default:
		return newArgumentError(opIndex, fmt.Sprintf("unknown cycle basis %q", basis))
	}

	em.b.Barrier()
	em.emitBlockZero(ancBase)

	switch basis {
	case circuit.BasisZ:
		for q := 0; q < code.NumQubits; q++ {
			em.b.CX(dataBase+q, ancBase+q)
		}
	case circuit.BasisX:
		for q := 0; q < code.NumQubits; q++ {
			em.b.H(ancBase + q)
		}
		for q := 0; q < code.NumQubits; q++ {
			em.b.CX(ancBase+q, dataBase+q)
		}
		for q := 0; q < code.NumQubits; q++ {
			em.b.H(ancBase + q)
		}
	}

	for q := 0; q < code.NumQubits; q++ {
		em.b.Measure(ancBase+q, circuit.SlotRole{
			Kind:  circuit.KindSyndrome,
			Cycle: em.qecCycles,
			Basis: basis,
			Index: q,
		})
	}
	em.b.Barrier()
	em.qecCycles++
	return nil
}
