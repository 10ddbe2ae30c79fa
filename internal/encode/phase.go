package encode

import (
	"fmt"
	"math"
)

// DefaultMaxBits bounds the binary-fraction expansion of rotation phases
// and sets the Clifford snapping tolerance to 2^-DefaultMaxBits half
// turns.
const DefaultMaxBits = 5

// ResolvePhase expands a Z-rotation angle (radians) into binary-fraction
// bits of half turns: bit k carries weight 2^-k half turns. The angle is
// reduced modulo 2pi first, so theta and theta+2pi resolve identically.
//
// The expansion is greedy and stops after maxBits+1 bits or once the
// residual drops below half the 2^-maxBits tolerance; angles off the
// binary grid are truncated, not rejected, because the teleportation
// gadget realizes any residual angle exactly. Trailing zero bits are
// trimmed; the identity rotation resolves to an empty slice.
func ResolvePhase(theta float64, maxBits int) ([]int, error) {
	if math.IsNaN(theta) || math.IsInf(theta, 0) {
		return nil, fmt.Errorf("non-finite rotation angle %v", theta)
	}
	if maxBits < 1 {
		return nil, fmt.Errorf("maxBits must be positive, got %d", maxBits)
	}

	h := halfTurns(theta)
	tol := math.Pow(2, float64(-maxBits))
	bits := make([]int, 0, maxBits+1)
	for k := 0; k <= maxBits; k++ {
		w := math.Pow(2, float64(-k))
		if h+tol/2 >= w {
			bits = append(bits, 1)
			h -= w
		} else {
			bits = append(bits, 0)
		}
		if math.Abs(h) <= tol/2 {
			break
		}
	}

	for len(bits) > 0 && bits[len(bits)-1] == 0 {
		bits = bits[:len(bits)-1]
	}
	return bits, nil
}

// halfTurns reduces an angle in radians to half turns in [0, 2).
func halfTurns(theta float64) float64 {
	h := math.Mod(theta/math.Pi, 2)
	if h < 0 {
		h += 2
	}
	return h
}

// phaseOfBits is the inverse of ResolvePhase: half turns of the given
// bit expansion, as radians.
func phaseOfBits(bits []int) float64 {
	h := 0.0
	for k, b := range bits {
		if b == 1 {
			h += math.Pow(2, float64(-k))
		}
	}
	return h * math.Pi
}
