// Package sim runs compiled programs: a local state-vector simulator and a
// client for a remote execution service.
package sim

import (
	"context"
	"errors"
	"fmt"

	"qcompose/internal/circuit"
)

var (
	ErrNoMeasurement    = errors.New("circuit has no measurement")
	ErrOracleUndefined  = errors.New("oracle function is not defined")
	ErrQubitOutOfRange  = errors.New("operation uses a qubit outside the register")
	ErrNoStatevector    = errors.New("backend cannot return a state vector")
	ErrInvalidShotCount = errors.New("shots must be positive")
)

// Backend executes a program and returns its measurement counts.
type Backend interface {
	Name() string
	Run(ctx context.Context, p circuit.Program, shots int) (Result, error)
}

// StatevectorBackend can also return the final state, ignoring
// measurements.
type StatevectorBackend interface {
	Backend
	Statevector(ctx context.Context, p circuit.Program) (*StateVector, error)
}

// Validate checks what every backend needs before running p. Measurements
// are only required when requireMeasure is set.
func Validate(p circuit.Program, requireMeasure bool) error {
	for _, op := range p.Ops() {
		if op.Code == circuit.OpOracle {
			return ErrOracleUndefined
		}
		if op.Target < 0 || op.Target >= p.NumQubits {
			return fmt.Errorf("%s: %w", op, ErrQubitOutOfRange)
		}
		for _, c := range op.Controls {
			if c < 0 || c >= p.NumQubits {
				return fmt.Errorf("%s: %w", op, ErrQubitOutOfRange)
			}
		}
	}
	if requireMeasure && !p.HasMeasure() {
		return ErrNoMeasurement
	}
	return nil
}

// Bloch computes the Bloch vector of one qubit through b.
func Bloch(ctx context.Context, b Backend, p circuit.Program, qubit int) (BlochReading, error) {
	sb, ok := b.(StatevectorBackend)
	if !ok {
		return BlochReading{}, fmt.Errorf("%s: %w", b.Name(), ErrNoStatevector)
	}
	if qubit < 0 || qubit >= p.NumQubits {
		return BlochReading{}, fmt.Errorf("qubit %d: %w", qubit, ErrQubitOutOfRange)
	}
	state, err := sb.Statevector(ctx, p)
	if err != nil {
		return BlochReading{}, err
	}
	v := state.BlochVector(qubit)
	return BlochReading{Qubit: qubit, X: v.X, Y: v.Y, Z: v.Z, Purity: state.Purity(qubit)}, nil
}

// BlochReading is one qubit's Bloch vector.
type BlochReading struct {
	Qubit   int
	X, Y, Z float64
	Purity  float64
}

func (r BlochReading) String() string {
	return fmt.Sprintf("q[%d] x=%+.3f y=%+.3f z=%+.3f |r|=%.3f", r.Qubit, r.X, r.Y, r.Z, r.Purity)
}
