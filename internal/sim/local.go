package sim

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"qcompose/internal/circuit"
)

// Local is an in-process state-vector simulator. It is not safe for
// concurrent use; the random source is shared between runs.
type Local struct {
	src rand.Source
}

// NewLocal returns a simulator seeded with seed, or with the clock when
// seed is 0.
func NewLocal(seed uint64) *Local {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Local{src: rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)}
}

func (l *Local) Name() string { return "local" }

// Run samples shots executions of p. When no gate follows a measurement on
// the same qubit the final distribution is sampled directly; otherwise every
// shot is simulated with collapse.
func (l *Local) Run(ctx context.Context, p circuit.Program, shots int) (Result, error) {
	if shots < 1 {
		return Result{}, ErrInvalidShotCount
	}
	if err := Validate(p, true); err != nil {
		return Result{}, err
	}

	ops := p.Ops()
	if terminalMeasurements(ops) {
		return l.sampleFinal(ctx, p, ops, shots)
	}

	res := Result{Shots: shots, Counts: make(map[string]int)}
	for i := 0; i < shots; i++ {
		if i%64 == 0 {
			if err := ctx.Err(); err != nil {
				return Result{}, fmt.Errorf("simulation cancelled after %d shots: %w", i, err)
			}
		}
		res.Counts[bitstring(l.shot(p, ops), p.NumClbits)]++
	}
	return res, nil
}

// Statevector returns the state after every unitary in p.
func (l *Local) Statevector(ctx context.Context, p circuit.Program) (*StateVector, error) {
	if err := Validate(p, false); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	state := NewStateVector(p.NumQubits)
	for _, op := range p.Ops() {
		state.Apply(op)
	}
	return state, nil
}

func (l *Local) shot(p circuit.Program, ops []circuit.Op) int {
	state := NewStateVector(p.NumQubits)
	clbits := 0
	for _, op := range ops {
		if op.Code != circuit.OpMeasure {
			state.Apply(op)
			continue
		}
		one := distuv.Bernoulli{P: clamp01(state.ProbabilityOne(op.Target)), Src: l.src}.Rand()
		outcome := int(one)
		state.Collapse(op.Target, outcome)
		if outcome == 1 {
			clbits |= 1 << op.Clbit
		} else {
			clbits &^= 1 << op.Clbit
		}
	}
	return clbits
}

func (l *Local) sampleFinal(ctx context.Context, p circuit.Program, ops []circuit.Op, shots int) (Result, error) {
	state := NewStateVector(p.NumQubits)
	// qubit -> clbit for every measurement
	measured := make(map[int]int)
	for _, op := range ops {
		if op.Code == circuit.OpMeasure {
			measured[op.Target] = op.Clbit
			continue
		}
		state.Apply(op)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	dist := distuv.NewCategorical(state.Probabilities(), l.src)
	res := Result{Shots: shots, Counts: make(map[string]int)}
	for i := 0; i < shots; i++ {
		basis := int(dist.Rand())
		clbits := 0
		for q, c := range measured {
			if basis&(1<<q) != 0 {
				clbits |= 1 << c
			}
		}
		res.Counts[bitstring(clbits, p.NumClbits)]++
	}
	return res, nil
}

// terminalMeasurements reports whether no op touches a qubit after it has
// been measured.
func terminalMeasurements(ops []circuit.Op) bool {
	done := make(map[int]bool)
	for _, op := range ops {
		if op.Code == circuit.OpMeasure {
			done[op.Target] = true
			continue
		}
		for q := range done {
			if op.Touches(q) {
				return false
			}
		}
	}
	return true
}

func clamp01(p float64) float64 {
	return min(max(p, 0), 1)
}
