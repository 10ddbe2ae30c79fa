// Package code models the [[7,1,3]] Steane code: stabilizer generators,
// logical operators, and classical syndrome decoding over measured readouts.
//
// All readout processing here is pure bit arithmetic. Circuit construction
// for state preparation and syndrome extraction lives in internal/encode.
package code

import "fmt"

// NumQubits is the number of physical qubits per logical block.
const NumQubits = 7

// NumStabilizers is the number of independent generators per Pauli type.
const NumStabilizers = 3

// Distance is the code distance. Single-qubit errors are correctable.
const Distance = 3

// StabilizerSupport lists the qubit supports of the three weight-4
// generators. The Steane code is CSS and self-dual: the X-type and Z-type
// generators share the same supports.
var StabilizerSupport = [NumStabilizers][4]int{
	{0, 1, 2, 3},
	{1, 2, 4, 5},
	{2, 3, 5, 6},
}

// LogicalSupport lists the qubits acted on by the transversal logical
// X and Z operators.
var LogicalSupport = [3]int{1, 3, 5}

// Bit is a classical measurement outcome, 0 or 1.
type Bit uint8

// Readout is one logical block's worth of physical measurement outcomes,
// indexed by physical qubit.
type Readout [NumQubits]Bit

// Syndrome holds one parity bit per stabilizer generator.
type Syndrome [NumStabilizers]Bit

// NoCorrection is returned by Decode when the syndrome is trivial.
const NoCorrection = -1

// syndromeTable maps every syndrome pattern to the single physical qubit
// whose error produces it. The map is total over the nonzero patterns;
// the zero syndrome decodes to NoCorrection.
var syndromeTable = map[Syndrome]int{
	{1, 0, 0}: 0,
	{1, 1, 0}: 1,
	{1, 1, 1}: 2,
	{1, 0, 1}: 3,
	{0, 1, 0}: 4,
	{0, 1, 1}: 5,
	{0, 0, 1}: 6,
}

// SyndromeOf computes the stabilizer parities of a readout. For a Z-basis
// readout of an ancilla block this is the X-error syndrome of the data it
// was coupled to, and symmetrically for the X basis.
func SyndromeOf(r Readout) Syndrome {
	var s Syndrome
	for i, supp := range StabilizerSupport {
		var p Bit
		for _, q := range supp {
			p ^= r[q]
		}
		s[i] = p
	}
	return s
}

// Decode maps a syndrome to the physical qubit to flip, or NoCorrection
// for the trivial syndrome. The lookup is total: every one of the eight
// patterns has a defined answer, so decoding can never be ambiguous.
func Decode(s Syndrome) int {
	if s == (Syndrome{}) {
		return NoCorrection
	}
	q, ok := syndromeTable[s]
	if !ok {
		// Unreachable: the table covers all 7 nonzero patterns.
		panic(fmt.Sprintf("code: syndrome %v not in lookup table", s))
	}
	return q
}

// CorrectReadout applies one round of lookup correction to a raw data
// readout: compute the syndrome, flip the implicated qubit if any.
func CorrectReadout(r Readout) Readout {
	q := Decode(SyndromeOf(r))
	if q != NoCorrection {
		r[q] ^= 1
	}
	return r
}

// LogicalParity extracts the logical measurement outcome from a (corrected)
// readout: the parity over the logical operator support.
func LogicalParity(r Readout) Bit {
	var p Bit
	for _, q := range LogicalSupport {
		p ^= r[q]
	}
	return p
}

// SupportMask returns stabilizer i's support as a 7-bit mask, bit q set
// when qubit q is in the support.
func SupportMask(i int) uint8 {
	var m uint8
	for _, q := range StabilizerSupport[i] {
		m |= 1 << q
	}
	return m
}

// IsCodeword reports whether a readout has trivial syndrome, i.e. lies in
// the classical code spanned by the stabilizer supports and the logical
// operator.
func IsCodeword(r Readout) bool {
	return SyndromeOf(r) == Syndrome{}
}
