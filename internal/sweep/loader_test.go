package sweep

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qecworks/steanelab/internal/circuit"
	"github.com/qecworks/steanelab/internal/encode"
)

func TestLoad_Valid(t *testing.T) {
	configs, err := Load("testdata/valid")
	require.NoError(t, err)
	require.Len(t, configs, 3)

	byName := map[string]Config{}
	for _, c := range configs {
		byName[c.Name] = c
	}

	k1 := byName["exp-k1"]
	assert.Equal(t, encode.SetupExp, k1.Setup)
	assert.Equal(t, 1, k1.Cycles)
	assert.InDelta(t, math.Pi/4, k1.Theta, 1e-12)
	assert.Equal(t, 256, k1.Shots)
	// Defaults fill in what the file leaves out.
	assert.Equal(t, circuit.BasisZ, k1.CycleBasis)
	assert.Equal(t, circuit.BasisZ, k1.Basis)

	k2 := byName["exp-k2"]
	assert.Equal(t, 1, k2.IcebergEvery)
	assert.Equal(t, encode.CheckX, k2.IcebergKind)
	assert.Equal(t, DefaultShots, k2.ShotCount())

	assert.Equal(t, encode.SetupPFT, byName["pft-k1"].Setup)
}

func TestLoad_BadSetup(t *testing.T) {
	_, err := Load("testdata/badsetup")
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
	assert.Contains(t, err.Error(), "setup")
}

func TestLoad_BadType(t *testing.T) {
	_, err := Load("testdata/badtype")
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
	assert.Contains(t, err.Error(), "cycles")
}

func TestLoad_MissingDir(t *testing.T) {
	_, err := Load("testdata/nope")
	assert.Error(t, err)
}
