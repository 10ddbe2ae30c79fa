// Package decode turns raw shot records into logical outcomes. Decoding
// is a pure function of the circuit metadata and the shot bits: replaying
// the same shots always produces identical outcomes and aggregates.
package decode

import (
	"fmt"

	"github.com/qecworks/steanelab/internal/circuit"
	"github.com/qecworks/steanelab/internal/code"
)

// Correction records one decoded syndrome hit: which cycle implicated
// which physical qubit.
type Correction struct {
	Cycle int
	Qubit int
	Pauli circuit.Pauli
}

// Outcome is the decoded result of one shot.
type Outcome struct {
	// Accepted is false when any detection or verification bit fired.
	Accepted bool

	// Value is the logical measurement outcome. Only meaningful when
	// Accepted is true.
	Value code.Bit

	// Corrections lists the syndrome-implicated qubits, in cycle order.
	Corrections []Correction
}

// Decoder decodes shots of one compiled circuit. It precomputes the slot
// layout once so per-shot work is pure bit arithmetic.
type Decoder struct {
	meta      circuit.Meta
	slots     int
	dataSlots []int
	cycles    [][]int
	rejects   []int
}

// New builds a decoder for the given circuit.
func New(c *circuit.Circuit) (*Decoder, error) {
	d := &Decoder{
		meta:      c.Meta,
		slots:     c.Slots,
		dataSlots: c.Meta.DataSlots(),
		cycles:    c.Meta.SyndromeCycles(),
		rejects:   c.Meta.RejectSlots(),
	}
	if len(d.dataSlots) != code.NumQubits {
		return nil, fmt.Errorf("decode: circuit has %d data slots, want %d", len(d.dataSlots), code.NumQubits)
	}
	for i, cycle := range d.cycles {
		if len(cycle) != code.NumQubits {
			return nil, fmt.Errorf("decode: cycle %d has %d syndrome slots, want %d", i, len(cycle), code.NumQubits)
		}
	}
	return d, nil
}

// Shot decodes one shot record. bits must hold one 0/1 entry per slot,
// indexed by slot number.
func (d *Decoder) Shot(bits []code.Bit) (Outcome, error) {
	if len(bits) != d.slots {
		return Outcome{}, fmt.Errorf("decode: shot has %d bits, want %d", len(bits), d.slots)
	}

	// Postselection first: a fired detection or verification bit rejects
	// the shot before any correction is attempted.
	for _, slot := range d.rejects {
		if bits[slot] != 0 {
			return Outcome{Accepted: false}, nil
		}
	}

	// Each cycle's ancilla readout decodes independently. Z-basis cycles
	// locate X errors on the data, X-basis cycles locate Z errors.
	var xErr, zErr [code.NumQubits]code.Bit
	var corrections []Correction
	for cycleIdx, slots := range d.cycles {
		var r code.Readout
		for i, slot := range slots {
			r[i] = bits[slot]
		}
		q := code.Decode(code.SyndromeOf(r))
		if q == code.NoCorrection {
			continue
		}
		basis := d.meta.CycleBasis(cycleIdx)
		if basis == circuit.BasisZ {
			xErr[q] ^= 1
			corrections = append(corrections, Correction{Cycle: cycleIdx, Qubit: q, Pauli: circuit.PauliX})
		} else {
			zErr[q] ^= 1
			corrections = append(corrections, Correction{Cycle: cycleIdx, Qubit: q, Pauli: circuit.PauliZ})
		}
	}

	// Apply the error mask that anticommutes with the readout basis, then
	// one round of readout correction.
	var data code.Readout
	for i, slot := range d.dataSlots {
		data[i] = bits[slot]
	}
	mask := xErr
	if d.meta.MeasureBasis == circuit.BasisX {
		mask = zErr
	}
	for q := 0; q < code.NumQubits; q++ {
		data[q] ^= mask[q]
	}
	data = code.CorrectReadout(data)

	value := code.LogicalParity(data)
	value ^= d.frameFlip(bits)

	return Outcome{
		Accepted:    true,
		Value:       value,
		Corrections: corrections,
	}, nil
}

// frameFlip resolves the Pauli frame against the measurement basis: a
// Z-basis outcome flips under the frame's X component, an X-basis outcome
// under its Z component. Conditional components count only when their
// keyed slot read one.
func (d *Decoder) frameFlip(bits []code.Bit) code.Bit {
	frame := d.meta.Frame
	basis := d.meta.MeasureBasis

	var flip code.Bit
	if basis == circuit.BasisZ && frame.X {
		flip ^= 1
	}
	if basis == circuit.BasisX && frame.Z {
		flip ^= 1
	}
	for _, cf := range frame.Cond {
		if bits[cf.Slot] == 0 {
			continue
		}
		if basis == circuit.BasisZ && cf.X {
			flip ^= 1
		}
		if basis == circuit.BasisX && cf.Z {
			flip ^= 1
		}
	}
	return flip
}
