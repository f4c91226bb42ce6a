package export

import (
	"fmt"
	"strings"

	"qcompose/internal/circuit"
)

// Qiskit renders p as a Python script that builds the same QuantumCircuit.
// Every operation becomes one statement, in program order, under a comment
// naming its grid column.
func Qiskit(p circuit.Program) string {
	var needPi, needZ bool
	for _, op := range p.Ops() {
		if op.Code.IsRotation() && strings.Contains(circuit.FormatAngle(op.Angle), "pi") {
			needPi = true
		}
		if op.Code == circuit.OpMCZ {
			needZ = true
		}
	}

	var sb strings.Builder
	sb.WriteString("from qiskit import QuantumCircuit\n")
	if needZ {
		sb.WriteString("from qiskit.circuit.library import ZGate\n")
	}
	if needPi {
		sb.WriteString("from numpy import pi\n")
	}
	fmt.Fprintf(&sb, "\nqc = QuantumCircuit(%d, %d)\n", p.NumQubits, p.NumClbits)

	for _, col := range p.Columns {
		fmt.Fprintf(&sb, "\n# Column %d\n", col.Index)
		for _, op := range col.Ops {
			sb.WriteString(qiskitStatement(op))
			sb.WriteString("\n")
		}
		if len(col.InertControls) > 0 {
			fmt.Fprintf(&sb, "# controls on [%s] have no target\n", joinInts(col.InertControls, "%d"))
		}
	}
	return sb.String()
}

func qiskitStatement(op circuit.Op) string {
	switch op.Code {
	case circuit.OpH, circuit.OpX, circuit.OpY, circuit.OpZ:
		return fmt.Sprintf("qc.%s(%d)", op.Code, op.Target)
	case circuit.OpRX, circuit.OpRY, circuit.OpRZ:
		return fmt.Sprintf("qc.%s(%s, %d)", op.Code, circuit.FormatAngle(op.Angle), op.Target)
	case circuit.OpCX, circuit.OpCZ:
		return fmt.Sprintf("qc.%s(%d, %d)", op.Code, op.Controls[0], op.Target)
	case circuit.OpMCX:
		return fmt.Sprintf("qc.mcx([%s], %d)", joinInts(op.Controls, "%d"), op.Target)
	case circuit.OpMCZ:
		return fmt.Sprintf("qc.append(ZGate().control(%d), [%s, %d])", len(op.Controls), joinInts(op.Controls, "%d"), op.Target)
	case circuit.OpMeasure:
		return fmt.Sprintf("qc.measure(%d, %d)", op.Target, op.Clbit)
	case circuit.OpOracle:
		return fmt.Sprintf("# oracle on [%s] is not defined", joinInts(op.Qubits, "%d"))
	}
	return fmt.Sprintf("# unsupported %s", op.Code)
}
