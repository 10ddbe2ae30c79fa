package chem

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHamiltonianGroundState(t *testing.T) {
	// The two-term Hamiltonian's ground energy CI - sqrt(CZ^2 + CX^2)
	// must reproduce the FCI energy.
	ground := CI - math.Sqrt(CZ*CZ+CX*CX)
	assert.InDelta(t, FCIEnergy, ground, 1e-6)
}

func TestPhaseEnergyRoundTrip(t *testing.T) {
	for _, e := range []float64{FCIEnergy, ApproxEnergy, -1.0} {
		phi := PhaseOfEnergy(e)
		assert.GreaterOrEqual(t, phi, 0.0)
		assert.Less(t, phi, 2.0)
		assert.InDelta(t, e, EnergyOfPhase(phi), 1e-9)
	}
}

func TestLikelihood_Bounds(t *testing.T) {
	for _, q := range []float64{0, 0.01, 0.3} {
		for k := 1; k <= 16; k *= 2 {
			for _, beta := range []float64{0, 0.25, 0.5, 1.5} {
				p1 := Likelihood(1, k, beta, 0.357, q)
				p0 := Likelihood(0, k, beta, 0.357, q)
				assert.InDelta(t, 1.0, p0+p1, 1e-12)
				assert.GreaterOrEqual(t, p0, 0.0)
				assert.LessOrEqual(t, p0, 1.0)
			}
		}
	}
}

func TestLikelihood_NoiseFlattens(t *testing.T) {
	// With total depolarization the outcome is a coin flip.
	assert.InDelta(t, 0.5, Likelihood(0, 4, 0.1, 0.357, 1.0), 1e-12)
}

func TestEstimatePhase_RecoversTruth(t *testing.T) {
	// Synthesize exact expected counts at the true phase; the estimator
	// must land within one grid step.
	const truth = 0.3568
	const shots = 10000
	var records []Record
	for k := 1; k <= 16; k *= 2 {
		for _, beta := range []float64{0, 0.5} {
			p1 := Likelihood(1, k, beta, truth, 0)
			records = append(records, Record{
				K:     k,
				Beta:  beta,
				Ones:  int(math.Round(p1 * shots)),
				Total: shots,
			})
		}
	}

	grid := 1 << 12
	est := EstimatePhase(records, grid, 0)
	assert.InDelta(t, truth, est, 2*2.0/float64(grid))
}
