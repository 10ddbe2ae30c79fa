package sweep

import (
	"fmt"
	"math"
)

// Point is one calibration observation: the postselected probability of
// reading logical zero after k correction cycles.
type Point struct {
	K  int
	P0 float64
}

// FitErrorRate fits the per-cycle depolarizing rate q to the survival
// model p0(k) = (1 + (1-q)^k) / 2 by least squares. The search is a
// coarse grid over q in [0, 1] refined three times around the best cell;
// the model is monotone in q so this converges without derivatives.
func FitErrorRate(points []Point) (float64, error) {
	if len(points) == 0 {
		return 0, fmt.Errorf("fit: no calibration points")
	}
	for _, p := range points {
		if p.K < 0 {
			return 0, fmt.Errorf("fit: negative cycle count %d", p.K)
		}
		if p.P0 < 0 || p.P0 > 1 {
			return 0, fmt.Errorf("fit: p0=%v outside [0,1] at k=%d", p.P0, p.K)
		}
	}

	lo, hi := 0.0, 1.0
	best := 0.0
	for pass := 0; pass < 4; pass++ {
		const steps = 200
		bestLoss := math.Inf(1)
		for i := 0; i <= steps; i++ {
			q := lo + (hi-lo)*float64(i)/steps
			loss := 0.0
			for _, p := range points {
				model := (1 + math.Pow(1-q, float64(p.K))) / 2
				d := p.P0 - model
				loss += d * d
			}
			if loss < bestLoss {
				bestLoss = loss
				best = q
			}
		}
		width := (hi - lo) / steps
		lo = math.Max(0, best-2*width)
		hi = math.Min(1, best+2*width)
	}
	return best, nil
}

// SurvivalP0 evaluates the fitted survival model.
func SurvivalP0(q float64, k int) float64 {
	return (1 + math.Pow(1-q, float64(k))) / 2
}
