package circuit

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DomainCircuit is the domain prefix for content-addressed circuit
// identity. The version suffix enables future format migration.
const DomainCircuit = "steanelab/circuit/v1"

// MarshalCanonical renders the circuit in a deterministic line-oriented
// text form. Two compilations of the same program produce byte-identical
// output, so this is the form used for hashing and golden comparisons.
//
// The circuit name is NFC normalized at the serialization boundary;
// everything else is ASCII by construction. Angles are rendered with
// strconv shortest-round-trip formatting so equal float64 values always
// render identically.
func (c *Circuit) MarshalCanonical() []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "circuit %s\n", norm.NFC.String(c.Name))
	fmt.Fprintf(&sb, "qubits %d\n", c.Qubits)
	fmt.Fprintf(&sb, "slots %d\n", c.Slots)
	fmt.Fprintf(&sb, "basis %s\n", c.Meta.MeasureBasis)
	writeFrame(&sb, c.Meta.Frame)
	for slot, r := range c.Meta.Roles {
		fmt.Fprintf(&sb, "slot %d %s\n", slot, roleString(r))
	}
	for _, in := range c.Instrs {
		sb.WriteString(instrString(in))
		sb.WriteByte('\n')
	}
	return []byte(sb.String())
}

// Hash computes the content-addressed identity of the circuit:
// SHA256(domain + 0x00 + canonical bytes). The null separator prevents
// domain/data boundary ambiguity.
func (c *Circuit) Hash() string {
	h := sha256.New()
	h.Write([]byte(DomainCircuit))
	h.Write([]byte{0x00})
	h.Write(c.MarshalCanonical())
	return hex.EncodeToString(h.Sum(nil))
}

func writeFrame(sb *strings.Builder, f Frame) {
	fmt.Fprintf(sb, "frame x=%t z=%t\n", f.X, f.Z)
	for _, cf := range f.Cond {
		fmt.Fprintf(sb, "frame cond slot=%d pauli=%s\n", cf.Slot, cf.Pauli())
	}
}

func roleString(r SlotRole) string {
	switch r.Kind {
	case KindData:
		return fmt.Sprintf("data index=%d", r.Index)
	case KindSyndrome:
		return fmt.Sprintf("syndrome cycle=%d basis=%s index=%d", r.Cycle, r.Basis, r.Index)
	case KindDetect:
		return fmt.Sprintf("detect cycle=%d index=%d", r.Cycle, r.Index)
	case KindVerify:
		return "verify"
	case KindTeleport:
		return fmt.Sprintf("teleport rotation=%d", r.Rotation)
	default:
		return string(r.Kind)
	}
}

func instrString(in Instruction) string {
	switch in.Op {
	case OpBarrier:
		return "barrier"
	case OpMeasure:
		return fmt.Sprintf("measure q%d -> c%d", in.Qubits[0], in.Slot)
	case OpRz:
		return fmt.Sprintf("rz(%s) q%d", strconv.FormatFloat(in.Angle, 'g', -1, 64), in.Qubits[0])
	case OpCX:
		return fmt.Sprintf("cx q%d q%d", in.Qubits[0], in.Qubits[1])
	default:
		return fmt.Sprintf("%s q%d", in.Op, in.Qubits[0])
	}
}
