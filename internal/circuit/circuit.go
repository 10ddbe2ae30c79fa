// Package circuit defines the physical circuit representation produced by
// compilation: a flat instruction list over physical qubits, a monotonic
// classical slot allocator, and per-slot metadata describing how decoding
// should interpret each measured bit.
package circuit

import "fmt"

// Op enumerates the physical gate set.
type Op string

const (
	OpReset   Op = "reset"
	OpH       Op = "h"
	OpX       Op = "x"
	OpY       Op = "y"
	OpZ       Op = "z"
	OpS       Op = "s"
	OpSdg     Op = "sdg"
	OpCX      Op = "cx"
	OpRz      Op = "rz"
	OpMeasure Op = "measure"
	OpBarrier Op = "barrier"
)

// Instruction is one physical operation. Qubits holds the operands
// (control first for CX). Angle is set for Rz only. Slot is set for
// Measure only.
type Instruction struct {
	Op     Op
	Qubits []int
	Angle  float64
	Slot   int
}

// Circuit is an immutable compiled circuit: the instruction stream plus
// the metadata needed to decode its shots.
type Circuit struct {
	Name   string
	Qubits int
	Slots  int
	Instrs []Instruction
	Meta   Meta
}

// Builder accumulates instructions and allocates classical slots in
// strictly increasing order. A Builder is single-use: call Build once.
type Builder struct {
	name   string
	qubits int
	slots  int
	instrs []Instruction
	meta   Meta
	built  bool
}

// NewBuilder creates a builder for a circuit over the given number of
// physical qubits.
func NewBuilder(name string, qubits int) *Builder {
	return &Builder{
		name:   name,
		qubits: qubits,
		meta:   Meta{MeasureBasis: BasisZ},
	}
}

// Qubits returns the declared qubit count.
func (b *Builder) Qubits() int { return b.qubits }

// Reset appends a reset on qubit q.
func (b *Builder) Reset(q int) { b.gate1(OpReset, q) }

// H appends a Hadamard on qubit q.
func (b *Builder) H(q int) { b.gate1(OpH, q) }

// X appends a Pauli X on qubit q.
func (b *Builder) X(q int) { b.gate1(OpX, q) }

// Y appends a Pauli Y on qubit q.
func (b *Builder) Y(q int) { b.gate1(OpY, q) }

// Z appends a Pauli Z on qubit q.
func (b *Builder) Z(q int) { b.gate1(OpZ, q) }

// S appends a phase gate on qubit q.
func (b *Builder) S(q int) { b.gate1(OpS, q) }

// Sdg appends an inverse phase gate on qubit q.
func (b *Builder) Sdg(q int) { b.gate1(OpSdg, q) }

// CX appends a controlled-X with control c and target t.
func (b *Builder) CX(c, t int) {
	b.checkQubit(c)
	b.checkQubit(t)
	if c == t {
		panic(fmt.Sprintf("circuit: cx control equals target (%d)", c))
	}
	b.instrs = append(b.instrs, Instruction{Op: OpCX, Qubits: []int{c, t}})
}

// Rz appends a Z rotation by angle radians on qubit q.
func (b *Builder) Rz(q int, angle float64) {
	b.checkQubit(q)
	b.instrs = append(b.instrs, Instruction{Op: OpRz, Qubits: []int{q}, Angle: angle})
}

// Barrier appends a scheduling barrier across all qubits.
func (b *Builder) Barrier() {
	b.instrs = append(b.instrs, Instruction{Op: OpBarrier})
}

// Measure appends a measurement of qubit q into a freshly allocated slot
// and records the slot's role. Slots are allocated in program order, so
// the slot index doubles as the bit position in a shot record.
func (b *Builder) Measure(q int, role SlotRole) int {
	b.checkQubit(q)
	slot := b.slots
	b.slots++
	b.instrs = append(b.instrs, Instruction{Op: OpMeasure, Qubits: []int{q}, Slot: slot})
	b.meta.Roles = append(b.meta.Roles, role)
	return slot
}

// SetMeasureBasis records the basis of the final data measurement.
func (b *Builder) SetMeasureBasis(basis Basis) { b.meta.MeasureBasis = basis }

// Frame returns the mutable Pauli frame record for this build.
func (b *Builder) Frame() *Frame { return &b.meta.Frame }

// Build freezes the builder into an immutable Circuit.
func (b *Builder) Build() *Circuit {
	if b.built {
		panic("circuit: Build called twice")
	}
	b.built = true
	return &Circuit{
		Name:   b.name,
		Qubits: b.qubits,
		Slots:  b.slots,
		Instrs: b.instrs,
		Meta:   b.meta,
	}
}

func (b *Builder) gate1(op Op, q int) {
	b.checkQubit(q)
	b.instrs = append(b.instrs, Instruction{Op: op, Qubits: []int{q}})
}

func (b *Builder) checkQubit(q int) {
	if q < 0 || q >= b.qubits {
		panic(fmt.Sprintf("circuit: qubit %d out of range [0,%d)", q, b.qubits))
	}
}
