package circuit

// Basis is a measurement basis.
type Basis string

const (
	BasisZ Basis = "z"
	BasisX Basis = "x"
)

// SlotKind sorts classical slots by how the decoder consumes them.
type SlotKind string

const (
	// KindData marks a final data-block measurement bit.
	KindData SlotKind = "data"
	// KindSyndrome marks one ancilla bit of an error correction cycle.
	KindSyndrome SlotKind = "syndrome"
	// KindDetect marks a detection bit; any nonzero value rejects the shot.
	KindDetect SlotKind = "detect"
	// KindVerify marks a state preparation verification bit; treated like
	// a detection bit by the decoder.
	KindVerify SlotKind = "verify"
	// KindTeleport marks a rotation teleportation outcome bit.
	KindTeleport SlotKind = "teleport"
)

// SlotRole describes one classical slot. Fields beyond Kind are set per
// kind: Cycle/Basis/Index for syndrome bits, Cycle/Index for detection
// bits, Rotation for teleport bits, Index for data bits.
type SlotRole struct {
	Kind     SlotKind
	Cycle    int
	Basis    Basis
	Index    int
	Rotation int
}

// Pauli names a logical Pauli frame component.
type Pauli string

const (
	PauliX Pauli = "X"
	PauliY Pauli = "Y"
	PauliZ Pauli = "Z"
)

// CondFlip is a conditional Pauli frame update: when the bit in Slot reads
// one, the logical frame picks up the Pauli with the set components. X and
// Z set together denote a logical Y, which S conjugation produces.
type CondFlip struct {
	Slot int
	X    bool
	Z    bool
}

// Pauli returns the component label of the flip. Global phase is not
// tracked, so X and Z together read as Y.
func (cf CondFlip) Pauli() Pauli {
	switch {
	case cf.X && cf.Z:
		return PauliY
	case cf.X:
		return PauliX
	default:
		return PauliZ
	}
}

// Frame is the logical Pauli frame accumulated during compilation. It is
// resolved entirely at decode time: a Z-basis logical outcome flips under
// the X component, an X-basis outcome flips under the Z component.
//
// The frame is a pending operator on the physical state. Applying a
// logical Clifford G to the circuit conjugates every pending component
// through G, so emitters that lay down transversal Cliffords must call
// the matching Conjugate method. Signs are dropped throughout; only the
// flip parity survives to decoding.
type Frame struct {
	X    bool
	Z    bool
	Cond []CondFlip
}

// FlipX toggles the static X component.
func (f *Frame) FlipX() { f.X = !f.X }

// FlipZ toggles the static Z component.
func (f *Frame) FlipZ() { f.Z = !f.Z }

// Condition appends a conditional frame update keyed to slot.
func (f *Frame) Condition(slot int, p Pauli) {
	cf := CondFlip{Slot: slot}
	switch p {
	case PauliX:
		cf.X = true
	case PauliZ:
		cf.Z = true
	case PauliY:
		cf.X, cf.Z = true, true
	}
	f.Cond = append(f.Cond, cf)
}

// ConjugateH rewrites the frame through a logical Hadamard: X and Z
// components swap, in the static part and in every conditional entry.
func (f *Frame) ConjugateH() {
	f.X, f.Z = f.Z, f.X
	for i := range f.Cond {
		f.Cond[i].X, f.Cond[i].Z = f.Cond[i].Z, f.Cond[i].X
	}
}

// ConjugateS rewrites the frame through a logical S or Sdg: X picks up a
// Z component (X becomes Y), Z is unchanged. S and Sdg differ only in the
// dropped sign, so one method covers both.
func (f *Frame) ConjugateS() {
	f.Z = f.Z != f.X
	for i := range f.Cond {
		f.Cond[i].Z = f.Cond[i].Z != f.Cond[i].X
	}
}

// Meta carries everything the decoder needs: the role of every slot in
// allocation order, the final measurement basis, and the Pauli frame.
type Meta struct {
	Roles        []SlotRole
	MeasureBasis Basis
	Frame        Frame
}

// DataSlots returns the slot indices of the final data measurement,
// ordered by data qubit index.
func (m Meta) DataSlots() []int {
	return m.slotsOf(func(r SlotRole) bool { return r.Kind == KindData })
}

// SyndromeCycles returns, per correction cycle in ascending order, the
// cycle's ancilla slot indices ordered by ancilla index.
func (m Meta) SyndromeCycles() [][]int {
	byCycle := map[int][]int{}
	maxCycle := -1
	for slot, r := range m.Roles {
		if r.Kind != KindSyndrome {
			continue
		}
		byCycle[r.Cycle] = append(byCycle[r.Cycle], slot)
		if r.Cycle > maxCycle {
			maxCycle = r.Cycle
		}
	}
	out := make([][]int, 0, maxCycle+1)
	for c := 0; c <= maxCycle; c++ {
		out = append(out, byCycle[c])
	}
	return out
}

// CycleBasis returns the extraction basis of correction cycle c.
func (m Meta) CycleBasis(c int) Basis {
	for _, r := range m.Roles {
		if r.Kind == KindSyndrome && r.Cycle == c {
			return r.Basis
		}
	}
	return BasisZ
}

// RejectSlots returns all detection and verification slot indices.
func (m Meta) RejectSlots() []int {
	return m.slotsOf(func(r SlotRole) bool {
		return r.Kind == KindDetect || r.Kind == KindVerify
	})
}

func (m Meta) slotsOf(pred func(SlotRole) bool) []int {
	var out []int
	for slot, r := range m.Roles {
		if pred(r) {
			out = append(out, slot)
		}
	}
	return out
}
