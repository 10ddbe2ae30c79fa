// Package chem carries the H2 molecule model targeted by the phase
// estimation experiments: the reduced two-term Hamiltonian coefficients,
// the trotter step, and the measurement likelihood used to estimate the
// ground state phase from postselected counts.
package chem

import "math"

// Reduced H2 Hamiltonian coefficients (Hartree) at the experimental bond
// length, after tapering to a single qubit: H = CI + CZ*Z + CX*X.
const (
	CZ = 0.7960489286466914
	CX = -0.1809233927385484
	CI = -0.3209561440881913
)

// FCIEnergy is the exact ground state energy (Hartree).
const FCIEnergy = -1.13730605

// ApproxEnergy is the variational ansatz energy the phase estimation
// iterates around.
const ApproxEnergy = -1.13629792

// AnsatzParams are the hardware-efficient ansatz angles preparing the
// approximate ground state.
var AnsatzParams = [2]float64{-0.08728706, -0.25}

// DeltaT is the evolution time per controlled-U application, scaled so
// the ground state phase lands inside the resolvable window.
const DeltaT = 0.986620 / math.Pi

// MaxBits is the number of phase bits the iterative estimation resolves.
const MaxBits = 5

// PhaseOfEnergy maps an energy (Hartree) to the eigenphase of
// exp(-i H DeltaT), in half turns of Z rotation.
func PhaseOfEnergy(e float64) float64 {
	return math.Mod(-e*DeltaT+2, 2)
}

// EnergyOfPhase inverts PhaseOfEnergy on the branch containing the
// ground state.
func EnergyOfPhase(phi float64) float64 {
	e := -phi / DeltaT
	// Phases wrap every 2/DeltaT Hartree; pick the branch nearest the
	// ansatz energy.
	period := 2 / DeltaT
	for e-ApproxEnergy > period/2 {
		e -= period
	}
	for ApproxEnergy-e > period/2 {
		e += period
	}
	return e
}

// Likelihood is the probability of measuring outcome m (0 or 1) in an
// iteration with k controlled-U applications and measurement offset beta
// (half turns), for eigenphase phi (half turns) under depolarizing
// survival rate q per application.
func Likelihood(m, k int, beta, phi, q float64) float64 {
	sign := 1.0
	if m == 1 {
		sign = -1.0
	}
	damp := math.Pow(1-q, float64(k))
	return (1 + sign*damp*math.Cos(math.Pi*(float64(k)*phi+beta))) / 2
}

// Record is one phase estimation measurement: the iteration setup and
// the counts it produced.
type Record struct {
	K     int     // controlled-U applications
	Beta  float64 // measurement offset, half turns
	Ones  int
	Total int
}

// EstimatePhase runs a grid posterior update over phases in [0, 2) half
// turns and returns the maximum-likelihood phase. gridSize controls the
// resolution; q is the per-application survival error rate.
func EstimatePhase(records []Record, gridSize int, q float64) float64 {
	if gridSize < 2 {
		gridSize = 1 << (MaxBits + 3)
	}
	logPost := make([]float64, gridSize)
	for i := range logPost {
		phi := 2 * float64(i) / float64(gridSize)
		for _, r := range records {
			p1 := Likelihood(1, r.K, r.Beta, phi, q)
			p0 := 1 - p1
			// Clamp to keep the log finite at the distribution's zeros.
			p1 = math.Max(p1, 1e-12)
			p0 = math.Max(p0, 1e-12)
			logPost[i] += float64(r.Ones)*math.Log(p1) + float64(r.Total-r.Ones)*math.Log(p0)
		}
	}

	best := 0
	for i, lp := range logPost {
		if lp > logPost[best] {
			best = i
		}
	}
	return 2 * float64(best) / float64(gridSize)
}
