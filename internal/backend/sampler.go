package backend

import (
	"context"
	"errors"
	"math/rand"

	"github.com/qecworks/steanelab/internal/circuit"
	"github.com/qecworks/steanelab/internal/code"
)

// Sampler is a seeded, noiseless development backend. It fills the data
// slots of each shot with a uniformly random Z-basis readout of the
// logical zero state (an element of the stabilizer-support span) and
// leaves every syndrome, detection and teleport slot at zero.
//
// That makes it exact for zero-state survival experiments and a stand-in
// everywhere else; it never models the rotated state. It exists so
// sweeps, decoding and storage can run end to end without hardware.
type Sampler struct {
	seed int64
}

// NewSampler creates a sampler with the given seed. The same seed yields
// the same shot sequence for the same submission order.
func NewSampler(seed int64) *Sampler {
	return &Sampler{seed: seed}
}

// Name implements Backend.
func (s *Sampler) Name() string { return "sampler" }

// Submit implements Backend.
func (s *Sampler) Submit(ctx context.Context, c *circuit.Circuit, shots int) ([][]code.Bit, error) {
	if shots <= 0 {
		return nil, &SubmitError{Backend: s.Name(), Circuit: c.Name, Err: errors.New("shots must be positive")}
	}
	dataSlots := c.Meta.DataSlots()
	if len(dataSlots) != code.NumQubits {
		return nil, &SubmitError{Backend: s.Name(), Circuit: c.Name, Err: errors.New("circuit has no full data readout")}
	}

	// Per-circuit deterministic stream: the seed is folded with the
	// circuit hash so reordering configurations does not reshuffle shots.
	rng := rand.New(rand.NewSource(s.seed ^ int64(hash64(c.Hash()))))

	out := make([][]code.Bit, 0, shots)
	for i := 0; i < shots; i++ {
		if err := ctx.Err(); err != nil {
			return nil, &SubmitError{Backend: s.Name(), Circuit: c.Name, Err: err}
		}
		bits := make([]code.Bit, c.Slots)
		cw := randomZeroCodeword(rng)
		for q, slot := range dataSlots {
			bits[slot] = cw[q]
		}
		out = append(out, bits)
	}
	return out, nil
}

// randomZeroCodeword draws a uniform element of the 8-element classical
// code spanned by the X-stabilizer supports.
func randomZeroCodeword(rng *rand.Rand) code.Readout {
	sel := rng.Intn(8)
	var m uint8
	for i := 0; i < code.NumStabilizers; i++ {
		if sel&(1<<i) != 0 {
			m ^= code.SupportMask(i)
		}
	}
	var r code.Readout
	for q := 0; q < code.NumQubits; q++ {
		r[q] = code.Bit((m >> q) & 1)
	}
	return r
}

// hash64 folds a hex hash string into 64 bits for seeding.
func hash64(s string) uint64 {
	var h uint64 = 1469598103934665603
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= 1099511628211
	}
	return h
}
