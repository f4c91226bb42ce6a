package export

import (
	"fmt"
	"strings"

	"qcompose/internal/circuit"
)

// QASM renders p as OpenQASM 2.0 against qelib1.inc. Controlled X with up
// to four controls maps onto cx, ccx, c3x and c4x; controlled Z is the
// same gate conjugated by H on the target.
func QASM(p circuit.Program) (string, error) {
	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n", max(p.NumQubits, 1))
	fmt.Fprintf(&sb, "creg c[%d];\n", max(p.NumClbits, 1))

	for _, col := range p.Columns {
		fmt.Fprintf(&sb, "\n// column %d\n", col.Index)
		for _, op := range col.Ops {
			stmt, err := qasmStatement(op)
			if err != nil {
				return "", fmt.Errorf("column %d: %w", col.Index, err)
			}
			sb.WriteString(stmt)
		}
	}
	return sb.String(), nil
}

func qasmStatement(op circuit.Op) (string, error) {
	switch op.Code {
	case circuit.OpH, circuit.OpX, circuit.OpY, circuit.OpZ:
		return fmt.Sprintf("%s q[%d];\n", op.Code, op.Target), nil
	case circuit.OpRX, circuit.OpRY, circuit.OpRZ:
		return fmt.Sprintf("%s(%s) q[%d];\n", op.Code, circuit.FormatAngle(op.Angle), op.Target), nil
	case circuit.OpCX, circuit.OpCZ:
		return fmt.Sprintf("%s q[%d], q[%d];\n", op.Code, op.Controls[0], op.Target), nil
	case circuit.OpMCX:
		return multiControlledX(op.Controls, op.Target)
	case circuit.OpMCZ:
		x, err := multiControlledX(op.Controls, op.Target)
		if err != nil {
			return "", err
		}
		h := fmt.Sprintf("h q[%d];\n", op.Target)
		return h + x + h, nil
	case circuit.OpMeasure:
		return fmt.Sprintf("measure q[%d] -> c[%d];\n", op.Target, op.Clbit), nil
	case circuit.OpOracle:
		return "", fmt.Errorf("undefined oracle on %v: %w", op.Qubits, ErrUnsupported)
	}
	return "", fmt.Errorf("%s: %w", op.Code, ErrUnsupported)
}

var mcxNames = map[int]string{1: "cx", 2: "ccx", 3: "c3x", 4: "c4x"}

func multiControlledX(controls []int, target int) (string, error) {
	name, ok := mcxNames[len(controls)]
	if !ok {
		return "", fmt.Errorf("x with %d controls: %w", len(controls), ErrUnsupported)
	}
	return fmt.Sprintf("%s %s, q[%d];\n", name, joinInts(controls, "q[%d]"), target), nil
}
