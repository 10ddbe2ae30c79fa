package encode

import (
	"fmt"
	"log/slog"

	"github.com/qecworks/steanelab/internal/circuit"
)

// State is a scheduler state. The scheduler enforces the legal operation
// order: exactly one Prep first, then any mix of rotations, cycles and
// transversal gates, then exactly one Measure.
type State string

const (
	StateAwaitingEncode State = "awaiting_encode"
	StateEncoded        State = "encoded"
	StateAfterRotation  State = "after_rotation"
	StateAfterCycle     State = "after_cycle"
	StateMeasuring      State = "measuring"
	StateDone           State = "done"
)

// Fixed physical layout: one data block, one syndrome ancilla block, and
// two auxiliary qubits shared by verification, teleportation and
// detection checks. Auxiliary qubits are reset before every use.
const (
	dataBase    = 0
	ancBase     = 7
	auxA        = 14
	auxB        = 15
	totalQubits = 16
)

// Compiler lowers logical programs to physical circuits under a fixed
// setup. A Compiler is stateless across programs and safe to reuse.
type Compiler struct {
	setup   Setup
	maxBits int
	logger  *slog.Logger
}

// CompilerOption configures a Compiler.
type CompilerOption func(*Compiler)

// WithMaxBits overrides the rotation phase resolution depth.
func WithMaxBits(n int) CompilerOption {
	return func(c *Compiler) { c.maxBits = n }
}

// WithLogger sets the compiler's logger.
func WithLogger(l *slog.Logger) CompilerOption {
	return func(c *Compiler) { c.logger = l }
}

// NewCompiler creates a compiler for the given setup.
func NewCompiler(setup Setup, opts ...CompilerOption) *Compiler {
	c := &Compiler{
		setup:   setup,
		maxBits: DefaultMaxBits,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile lowers a program into a physical circuit. The walk is a state
// machine: any out-of-order operation aborts the build with a
// ContractError and nothing is returned.
func (c *Compiler) Compile(p Program) (*circuit.Circuit, error) {
	em := &emitter{
		b:       circuit.NewBuilder(p.Name, totalQubits),
		setup:   c.setup,
		maxBits: c.maxBits,
	}

	state := StateAwaitingEncode
	for i, op := range p.Ops {
		next, err := c.step(em, state, i, op)
		if err != nil {
			return nil, err
		}
		state = next
	}
	if state != StateMeasuring {
		return nil, newSequenceError(state, len(p.Ops),
			"program ended without a measure operation")
	}
	circ := em.b.Build()
	c.logger.Debug("program compiled",
		"program", p.Name,
		"setup", string(c.setup),
		"ops", len(p.Ops),
		"qec_cycles", em.qecCycles,
		"detect_cycles", em.detectCycles,
		"teleports", em.teleports,
		"slots", circ.Slots,
	)
	return circ, nil
}

// step dispatches one operation against the current state and returns the
// successor state.
func (c *Compiler) step(em *emitter, state State, i int, op Operation) (State, error) {
	if state == StateMeasuring {
		return state, newSequenceError(state, i,
			fmt.Sprintf("%s operation after measure", op.opName()))
	}

	switch o := op.(type) {
	case Prep:
		if state != StateAwaitingEncode {
			return state, newSequenceError(state, i, "duplicate prep operation")
		}
		if err := em.emitPrep(o.State, i); err != nil {
			return state, err
		}
		return StateEncoded, nil

	case Rotation:
		if state == StateAwaitingEncode {
			return state, newSequenceError(state, i, "rotation before prep")
		}
		if err := em.emitRotation(o.Theta, i); err != nil {
			return state, err
		}
		return StateAfterRotation, nil

	case QECCycle:
		if state == StateAwaitingEncode {
			return state, newSequenceError(state, i, "correction cycle before prep")
		}
		if err := em.emitQECCycle(o.Basis, i); err != nil {
			return state, err
		}
		return StateAfterCycle, nil

	case IcebergCycle:
		if state == StateAwaitingEncode {
			return state, newSequenceError(state, i, "detection cycle before prep")
		}
		if err := em.emitIceberg(o.Kind, o.Index, i); err != nil {
			return state, err
		}
		return StateAfterCycle, nil

	case Transversal:
		if state == StateAwaitingEncode {
			return state, newSequenceError(state, i, "transversal gate before prep")
		}
		if err := em.emitTransversal(o.Gate, i); err != nil {
			return state, err
		}
		return StateEncoded, nil

	case Measure:
		if state == StateAwaitingEncode {
			return state, newSequenceError(state, i, "measure before prep")
		}
		if err := em.emitMeasure(o.Basis, i); err != nil {
			return state, err
		}
		return StateMeasuring, nil

	default:
		return state, newSequenceError(state, i,
			fmt.Sprintf("unknown operation %T", op))
	}
}

// emitter carries the per-build mutable state: the circuit under
// construction and the cycle and rotation counters that number slots.
type emitter struct {
	b       *circuit.Builder
	setup   Setup
	maxBits int

	qecCycles    int
	detectCycles int
	teleports    int
}
