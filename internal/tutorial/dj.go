package tutorial

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"qcompose/internal/circuit"
	"qcompose/internal/sim"
)

var ErrNotBalanced = errors.New("oracle is not balanced")

// Verdict is the Deutsch-Jozsa answer read from a measurement.
type Verdict int

const (
	Inconclusive Verdict = iota
	Constant
	Balanced
)

func (v Verdict) String() string {
	switch v {
	case Constant:
		return "constant"
	case Balanced:
		return "balanced"
	}
	return "inconclusive"
}

// Thresholds on P(all inputs read 0).
const (
	ConstantThreshold = 0.8
	BalancedThreshold = 0.2
)

// Oracle is a Deutsch-Jozsa function on two input bits.
type Oracle struct {
	Constant bool
	Table    circuit.TruthTable
}

func ConstantOracle(v int) Oracle {
	return Oracle{Constant: true, Table: circuit.ConstantTable(v & 1)}
}

// BalancedOracle is 1 on exactly the given input patterns.
func BalancedOracle(ones ...string) (Oracle, error) {
	t, err := circuit.BalancedTable(ones...)
	if err != nil {
		return Oracle{}, fmt.Errorf("%s: %w", err, ErrNotBalanced)
	}
	return Oracle{Table: t}, nil
}

// RandomOracle picks uniformly among the two constant and six balanced
// functions.
func RandomOracle(r *rand.Rand) Oracle {
	all := AllOracles()
	return all[r.IntN(len(all))]
}

// AllOracles lists every constant or balanced two-bit function.
func AllOracles() []Oracle {
	out := []Oracle{ConstantOracle(0), ConstantOracle(1)}
	p := circuit.OraclePatterns
	for i := 0; i < len(p); i++ {
		for j := i + 1; j < len(p); j++ {
			o, _ := BalancedOracle(p[i], p[j])
			out = append(out, o)
		}
	}
	return out
}

// Expect is the verdict an ideal run gives for o.
func (o Oracle) Expect() Verdict {
	if o.Constant {
		return Constant
	}
	return Balanced
}

func (o Oracle) String() string {
	return fmt.Sprintf("%s %s", o.Expect(), o.Table)
}

// Judge reads the verdict from a run that measured the input qubits.
func Judge(r sim.Result, inputs []int) Verdict {
	m := r.Marginal(inputs)
	p := m.Probability(strings.Repeat("0", len(inputs)))
	switch {
	case p >= ConstantThreshold:
		return Constant
	case p <= BalancedThreshold:
		return Balanced
	}
	return Inconclusive
}

func deutschJozsa() Tutorial {
	return Tutorial{
		Name:           "Deutsch Jozsa Algorithm",
		RequiredQubits: 3,
		Steps: []Step{
			{
				Title:       "Prepare the output qubit",
				Instruction: "Place an X on q[2].",
				Hint:        "The output qubit starts in |1>.",
				Check:       func(in Input) bool { return anyOp(gateOps(in), circuit.OpX, 2) },
			},
			{
				Title:       "Hadamard everything",
				Instruction: "Place H on q[0], q[1] and q[2] after the X.",
				Hint:        "The inputs go into superposition and the output into |->.",
				Check: func(in Input) bool {
					ops := gateOps(in)
					return anyOp(ops, circuit.OpX, 2) &&
						anyOp(ops, circuit.OpH, 0) && anyOp(ops, circuit.OpH, 1) && anyOp(ops, circuit.OpH, 2)
				},
			},
			{
				Title:       "Define the oracle",
				Instruction: "Insert the oracle and choose its function.",
				Hint:        "Constant or balanced; the algorithm will tell which.",
				Check:       func(in Input) bool { return in.Oracle != nil && in.Oracle.Defined() },
			},
			{
				Title:       "Interfere",
				Instruction: "Place H on q[0] and q[1] after the oracle.",
				Hint:        "A second Hadamard turns phase into amplitude.",
				Check: func(in Input) bool {
					ops := gateOps(in)
					return countOp(ops, circuit.OpH, 0) >= 2 && countOp(ops, circuit.OpH, 1) >= 2
				},
			},
			{
				Title:       "Measure the inputs",
				Instruction: "Measure q[0] and q[1] and run the circuit.",
				Hint:        "All zeros means constant.",
				Check:       func(in Input) bool { return measured(in, 0, 1) },
			},
		},
	}
}
