// Package sweep runs calibration sweeps: a set of experiment
// configurations expanded into programs, compiled, executed and decoded
// independently, with per-configuration failure isolation and keyed
// aggregate collection.
package sweep

import (
	"fmt"
	"math"

	"github.com/qecworks/steanelab/internal/circuit"
	"github.com/qecworks/steanelab/internal/encode"
)

// DefaultShots is used when a configuration does not set a shot count.
const DefaultShots = 1024

// Config is one point of a calibration sweep.
type Config struct {
	// Name labels the configuration; part of the aggregate key.
	Name string

	// Setup selects the preparation discipline for every encoded block.
	Setup encode.Setup

	// Cycles is the number of correction cycles between prep and readout.
	Cycles int

	// CycleBasis is the syndrome extraction basis.
	CycleBasis circuit.Basis

	// IcebergEvery inserts a detection cycle after every n correction
	// cycles; zero disables detection cycles. The interleaving policy is
	// sweep data on purpose: changing it must not require recompiling the
	// toolchain.
	IcebergEvery int

	// IcebergKind is the detection check flavor.
	IcebergKind encode.CheckKind

	// Theta is the pre-measurement rotation angle in radians.
	Theta float64

	// Basis is the final readout basis.
	Basis circuit.Basis

	// Shots is the number of shots to request; DefaultShots when zero.
	Shots int
}

// Validate checks the configuration's domain.
func (c Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("config: name is required")
	}
	switch c.Setup {
	case encode.SetupExp, encode.SetupPFT:
	default:
		return fmt.Errorf("config %s: unknown setup %q", c.Name, c.Setup)
	}
	if c.Cycles < 0 {
		return fmt.Errorf("config %s: cycles must be non-negative, got %d", c.Name, c.Cycles)
	}
	switch c.CycleBasis {
	case circuit.BasisZ, circuit.BasisX:
	default:
		return fmt.Errorf("config %s: unknown cycle basis %q", c.Name, c.CycleBasis)
	}
	if c.IcebergEvery < 0 {
		return fmt.Errorf("config %s: iceberg_every must be non-negative, got %d", c.Name, c.IcebergEvery)
	}
	if c.IcebergEvery > 0 {
		switch c.IcebergKind {
		case encode.CheckW, encode.CheckX, encode.CheckZ:
		default:
			return fmt.Errorf("config %s: unknown iceberg kind %q", c.Name, c.IcebergKind)
		}
	}
	if math.IsNaN(c.Theta) || math.IsInf(c.Theta, 0) {
		return fmt.Errorf("config %s: non-finite theta", c.Name)
	}
	switch c.Basis {
	case circuit.BasisZ, circuit.BasisX:
	default:
		return fmt.Errorf("config %s: unknown measure basis %q", c.Name, c.Basis)
	}
	if c.Shots < 0 {
		return fmt.Errorf("config %s: shots must be non-negative, got %d", c.Name, c.Shots)
	}
	return nil
}

// Key is the stable aggregate key: every field that changes the compiled
// circuit or the shot budget is folded in, so distinct configurations
// never collide in the results store.
func (c Config) Key() string {
	return fmt.Sprintf("%s|%s|k=%d|cb=%s|ice=%d:%s|theta=%.12g|basis=%s|shots=%d",
		c.Name, c.Setup, c.Cycles, c.CycleBasis, c.IcebergEvery, c.IcebergKind,
		c.Theta, c.Basis, c.ShotCount())
}

// ShotCount resolves the effective shot count.
func (c Config) ShotCount() int {
	if c.Shots == 0 {
		return DefaultShots
	}
	return c.Shots
}

// Program expands the configuration into its logical program: prep, the
// cycle schedule with detection checks interleaved per policy, the
// measurement rotation, readout.
func (c Config) Program() encode.Program {
	ops := []encode.Operation{encode.Prep{State: encode.StateZero}}
	detections := 0
	for i := 0; i < c.Cycles; i++ {
		ops = append(ops, encode.QECCycle{Basis: c.CycleBasis})
		if c.IcebergEvery > 0 && (i+1)%c.IcebergEvery == 0 {
			ops = append(ops, encode.IcebergCycle{
				Kind:  c.IcebergKind,
				Index: detections % 3,
			})
			detections++
		}
	}
	if c.Theta != 0 {
		ops = append(ops, encode.Rotation{Theta: c.Theta})
	}
	ops = append(ops, encode.Measure{Basis: c.Basis})
	return encode.Program{Name: c.Name, Ops: ops}
}
