package sweep

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qecworks/steanelab/internal/backend"
	"github.com/qecworks/steanelab/internal/circuit"
	"github.com/qecworks/steanelab/internal/encode"
	"github.com/qecworks/steanelab/internal/testutil"
)

func sweepConfigs() []Config {
	mk := func(name string, setup encode.Setup, cycles int) Config {
		return Config{
			Name:       name,
			Setup:      setup,
			Cycles:     cycles,
			CycleBasis: circuit.BasisZ,
			Basis:      circuit.BasisZ,
			Shots:      64,
		}
	}
	return []Config{
		mk("exp-k1", encode.SetupExp, 1),
		mk("exp-k2", encode.SetupExp, 2),
		mk("pft-k1", encode.SetupPFT, 1),
		mk("pft-k2", encode.SetupPFT, 2),
	}
}

func TestRunner_AllConfigsSucceed(t *testing.T) {
	r := NewRunner(backend.NewSampler(11),
		WithWorkers(2),
		WithTokenGenerator(testutil.FixedToken{Token: "run-0001"}),
	)
	results, err := r.Run(context.Background(), sweepConfigs())
	require.NoError(t, err)
	require.Len(t, results, 4)

	for i, res := range results {
		assert.False(t, res.Failed(), "config %d: %s", i, res.Err)
		assert.Equal(t, "run-0001", res.RunToken)
		assert.NotEmpty(t, res.CircuitHash)
		assert.Equal(t, 64, res.Aggregate.Shots)
		// The sampler emits clean zero-state shots.
		assert.Equal(t, 64, res.Aggregate.Accepted)
		assert.InDelta(t, 1.0, res.Aggregate.P0(), 1e-12)
	}

	// Results arrive in input order regardless of worker scheduling.
	for i, cfg := range sweepConfigs() {
		assert.Equal(t, cfg.Key(), results[i].Key)
	}
}

func TestRunner_FailureIsolation(t *testing.T) {
	// One configuration with an illegal program: its siblings still run.
	configs := sweepConfigs()
	configs[1].Setup = "broken"

	r := NewRunner(backend.NewSampler(11), WithTokenGenerator(testutil.FixedToken{Token: "run-0002"}))
	results, err := r.Run(context.Background(), configs)
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.True(t, results[1].Failed())
	for _, i := range []int{0, 2, 3} {
		assert.False(t, results[i].Failed(), "config %d: %s", i, results[i].Err)
	}
}

func TestRunner_BackendFailureRecorded(t *testing.T) {
	st := &backend.Stub{Err: errors.New("queue unavailable")}
	r := NewRunner(st, WithTokenGenerator(testutil.FixedToken{Token: "run-0003"}))

	results, err := r.Run(context.Background(), sweepConfigs())
	require.NoError(t, err)
	for _, res := range results {
		assert.True(t, res.Failed())
		assert.Contains(t, res.Err, "queue unavailable")
	}
	assert.Equal(t, len(sweepConfigs()), st.Submitted)
}

func TestRunner_Deterministic(t *testing.T) {
	run := func() []Result {
		r := NewRunner(backend.NewSampler(99),
			WithWorkers(3),
			WithTokenGenerator(testutil.FixedToken{Token: "run-0004"}),
		)
		results, err := r.Run(context.Background(), sweepConfigs())
		require.NoError(t, err)
		return results
	}
	assert.Equal(t, run(), run())
}

func TestRunner_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewRunner(backend.NewSampler(1))
	_, err := r.Run(ctx, sweepConfigs())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFitErrorRate_RecoversRate(t *testing.T) {
	const q = 0.07
	var points []Point
	for k := 1; k <= 8; k++ {
		points = append(points, Point{K: k, P0: SurvivalP0(q, k)})
	}
	got, err := FitErrorRate(points)
	require.NoError(t, err)
	assert.InDelta(t, q, got, 1e-3)
}

func TestFitErrorRate_NoisyPoints(t *testing.T) {
	const q = 0.12
	noise := []float64{0.004, -0.003, 0.002, -0.005, 0.001}
	var points []Point
	for k := 1; k <= 5; k++ {
		points = append(points, Point{K: k, P0: SurvivalP0(q, k) + noise[k-1]})
	}
	got, err := FitErrorRate(points)
	require.NoError(t, err)
	assert.InDelta(t, q, got, 0.02)
}

func TestFitErrorRate_Invalid(t *testing.T) {
	_, err := FitErrorRate(nil)
	assert.Error(t, err)
	_, err = FitErrorRate([]Point{{K: 1, P0: 1.5}})
	assert.Error(t, err)
	_, err = FitErrorRate([]Point{{K: -1, P0: 0.5}})
	assert.Error(t, err)
}
