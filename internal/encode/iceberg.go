package encode

import (
	"fmt"

	"github.com/qecworks/steanelab/internal/circuit"
	"github.com/qecworks/steanelab/internal/code"
)

// emitIceberg runs one two-ancilla detection check over the stabilizer
// support selected by index. The two outcome bits are detection slots:
// decoding rejects any shot where either reads one.
//
// The X and Z checks are flagged weight-4 parity measurements (auxA is
// the syndrome qubit, auxB the flag). The W check reads the joint X and
// Z parity of the support using one ancilla per parity.
func (em *emitter) emitIceberg(kind CheckKind, index int, opIndex int) error {
	if index < 0 || index >= code.NumStabilizers {
		return newArgumentError(opIndex,
			fmt.Sprintf("detection check index %d out of range [0,%d)", index, code.NumStabilizers))
	}
	supp := code.StabilizerSupport[index]

	em.b.Barrier()
	em.b.Reset(auxA)
	em.b.Reset(auxB)

	switch kind {
	case CheckX:
		em.b.H(auxA)
		em.b.CX(auxA, dataBase+supp[0])
		em.b.CX(auxA, auxB)
		em.b.CX(auxA, dataBase+supp[1])
		em.b.CX(auxA, dataBase+supp[2])
		em.b.CX(auxA, auxB)
		em.b.CX(auxA, dataBase+supp[3])
		em.b.H(auxA)

	case CheckZ:
		em.b.H(auxB)
		em.b.CX(dataBase+supp[0], auxA)
		em.b.CX(auxB, auxA)
		em.b.CX(dataBase+supp[1], auxA)
		em.b.CX(dataBase+supp[2], auxA)
		em.b.CX(auxB, auxA)
		em.b.CX(dataBase+supp[3], auxA)
		em.b.H(auxB)

	case CheckW:
		em.b.H(auxA)
		for _, q := range supp {
			em.b.CX(auxA, dataBase+q)
			em.b.CX(dataBase+q, auxB)
		}
		em.b.H(auxA)

	default:
		return newArgumentError(opIndex, fmt.Sprintf("unknown detection check kind %q", kind))
	}

	em.b.Measure(auxA, circuit.SlotRole{
		Kind:  circuit.KindDetect,
		Cycle: em.detectCycles,
		Index: 0,
	})
	em.b.Measure(auxB, circuit.SlotRole{
		Kind:  circuit.KindDetect,
		Cycle: em.detectCycles,
		Index: 1,
	})
	em.b.Barrier()
	em.detectCycles++
	return nil
}
