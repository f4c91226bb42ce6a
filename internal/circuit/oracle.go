package circuit

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	ErrOracleNeedsQubits = errors.New("oracle needs more qubits")
	ErrNoOracle          = errors.New("no oracle in circuit")
)

// Inputs of a two-bit oracle, in the order the truth table is written.
var OraclePatterns = []string{"00", "01", "10", "11"}

// TruthTable maps each two-bit input pattern to f(x). Character i of a
// pattern is the value of input qubit i.
type TruthTable map[string]int

// ConstantTable returns f(x) = v for every input.
func ConstantTable(v int) TruthTable {
	t := make(TruthTable, len(OraclePatterns))
	for _, p := range OraclePatterns {
		t[p] = v
	}
	return t
}

// BalancedTable returns the table that is 1 on exactly the given patterns.
func BalancedTable(ones ...string) (TruthTable, error) {
	t := ConstantTable(0)
	for _, p := range ones {
		if _, ok := t[p]; !ok {
			return nil, fmt.Errorf("unknown input pattern %q", p)
		}
		t[p] = 1
	}
	if !t.IsBalanced() {
		return nil, fmt.Errorf("%v is not balanced: need exactly two of %v", ones, OraclePatterns)
	}
	return t, nil
}

func (t TruthTable) ones() []string {
	var out []string
	for _, p := range OraclePatterns {
		if t[p] == 1 {
			out = append(out, p)
		}
	}
	return out
}

func (t TruthTable) IsConstant() bool {
	n := len(t.ones())
	return n == 0 || n == len(OraclePatterns)
}

func (t TruthTable) IsBalanced() bool {
	return len(t.ones()) == len(OraclePatterns)/2
}

func (t TruthTable) String() string {
	parts := make([]string, 0, len(OraclePatterns))
	for _, p := range OraclePatterns {
		parts = append(parts, fmt.Sprintf("%s:%d", p, t[p]))
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// Expand lowers the oracle y ^= f(x) onto X and MCX operations. A balanced
// table gets one MCX per pattern with f(x)=1, with inputs expected to be 0
// flipped before and after. Anything that is neither constant nor balanced
// expands to nothing.
func (t TruthTable) Expand(inputs []int, output int) []Op {
	ones := t.ones()
	switch {
	case len(ones) == 0:
		return nil
	case len(ones) == len(OraclePatterns):
		return []Op{{Code: OpX, Target: output}}
	case !t.IsBalanced():
		return nil
	}

	var ops []Op
	for _, pat := range ones {
		var flipped []int
		for i, bit := range pat {
			if i < len(inputs) && bit == '0' {
				ops = append(ops, Op{Code: OpX, Target: inputs[i]})
				flipped = append(flipped, inputs[i])
			}
		}
		ops = append(ops, Op{Code: OpMCX, Target: output, Controls: slices.Clone(inputs)})
		for _, q := range slices.Backward(flipped) {
			ops = append(ops, Op{Code: OpX, Target: q})
		}
	}
	return ops
}

// OracleBlock is the black-box function occupying a reserved column. It is
// kept outside the cell registry and spans rows 0..Rows-1.
type OracleBlock struct {
	Gate  *Gate
	Col   int
	Rows  int
	Table TruthTable
}

// Inputs are every spanned row except the last, which is the output.
func (o *OracleBlock) Inputs() []int {
	in := make([]int, 0, o.Rows-1)
	for q := 0; q < o.Rows-1; q++ {
		in = append(in, q)
	}
	return in
}

func (o *OracleBlock) Output() int { return o.Rows - 1 }

func (o *OracleBlock) Defined() bool { return o.Table != nil }
