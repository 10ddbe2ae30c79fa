package encode

import (
	"fmt"

	"github.com/qecworks/steanelab/internal/circuit"
	"github.com/qecworks/steanelab/internal/code"
)

// encodeChain is the CX ladder of the bare logical zero encoder, as
// (control, target) offsets within a block.
var encodeChain = [8][2]int{
	{0, 1}, {4, 5}, {6, 3}, {6, 5}, {4, 2}, {0, 3}, {4, 1}, {3, 2},
}

// plusOffsets are the block offsets that receive a Hadamard before the
// encoder ladder.
var plusOffsets = [3]int{0, 4, 6}

// emitPrep encodes the data block in the requested logical state.
//
// The One state is not prepared with physical gates: it is the Zero
// preparation plus a static X component in the Pauli frame, resolved when
// shots are decoded.
func (em *emitter) emitPrep(state PrepState, opIndex int) error {
	switch state {
	case StateZero, StateOne, StatePlus:
	default:
		return newArgumentError(opIndex, fmt.Sprintf("unknown prep state %q", state))
	}

	em.emitBlockZero(dataBase)

	switch state {
	case StateOne:
		em.b.Frame().FlipX()
	case StatePlus:
		for q := 0; q < code.NumQubits; q++ {
			em.b.H(dataBase + q)
		}
	}
	em.b.Barrier()
	return nil
}

// emitBlockZero prepares the 7-qubit block at base in the logical zero
// state. Under the verified setup the preparation couples a fresh
// auxiliary qubit to the logical support and measures it; a nonzero
// outcome marks the shot for rejection.
func (em *emitter) emitBlockZero(base int) {
	for q := 0; q < code.NumQubits; q++ {
		em.b.Reset(base + q)
	}
	for _, off := range plusOffsets {
		em.b.H(base + off)
	}
	for _, ct := range encodeChain {
		em.b.CX(base+ct[0], base+ct[1])
	}

	if em.setup == SetupPFT {
		em.b.Reset(auxA)
		for _, q := range code.LogicalSupport {
			em.b.CX(base+q, auxA)
		}
		em.b.Measure(auxA, circuit.SlotRole{Kind: circuit.KindVerify})
	}
}
