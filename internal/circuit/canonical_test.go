package circuit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSample(name string) *Circuit {
	b := NewBuilder(name, 8)
	b.Reset(7)
	b.H(7)
	b.Rz(7, 0.7853981633974483)
	b.CX(7, 1)
	b.CX(7, 3)
	b.CX(7, 5)
	b.H(7)
	slot := b.Measure(7, SlotRole{Kind: KindTeleport, Rotation: 0})
	b.Frame().Condition(slot, PauliZ)
	b.Barrier()
	for q := 0; q < 7; q++ {
		b.Measure(q, SlotRole{Kind: KindData, Index: q})
	}
	return b.Build()
}

func TestMarshalCanonical_Deterministic(t *testing.T) {
	a := buildSample("sample")
	b := buildSample("sample")
	assert.Equal(t, a.MarshalCanonical(), b.MarshalCanonical())
	assert.Equal(t, a.Hash(), b.Hash())
}

func TestMarshalCanonical_NameNFCNormalized(t *testing.T) {
	// U+00E9 and e + U+0301 are the same text after NFC.
	composed := buildSample("café")
	decomposed := buildSample("café")
	assert.Equal(t, composed.Hash(), decomposed.Hash())
}

func TestMarshalCanonical_Layout(t *testing.T) {
	c := buildSample("layout")
	text := string(c.MarshalCanonical())
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")

	require.GreaterOrEqual(t, len(lines), 6)
	assert.Equal(t, "circuit layout", lines[0])
	assert.Equal(t, "qubits 8", lines[1])
	assert.Equal(t, "slots 8", lines[2])
	assert.Equal(t, "basis z", lines[3])
	assert.Equal(t, "frame x=false z=false", lines[4])
	assert.Equal(t, "frame cond slot=0 pauli=Z", lines[5])

	assert.Contains(t, text, "rz(0.7853981633974483) q7")
	assert.Contains(t, text, "measure q7 -> c0")
	assert.Contains(t, text, "slot 0 teleport rotation=0")
	assert.Contains(t, text, "slot 7 data index=6")
}

func TestHash_SensitiveToContent(t *testing.T) {
	a := buildSample("one")
	b := buildSample("two")
	assert.NotEqual(t, a.Hash(), b.Hash())

	bld := NewBuilder("one", 8)
	bld.H(0)
	c := bld.Build()
	assert.NotEqual(t, a.Hash(), c.Hash())
}
