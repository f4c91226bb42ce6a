package export

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qcompose/internal/circuit"
)

func bellProgram() circuit.Program {
	c := circuit.New(2, 8)
	reg := c.Registry()
	reg.Place(circuit.Cell{Row: 0, Col: 0}, circuit.NewGate(circuit.Hadamard))
	reg.Place(circuit.Cell{Row: 0, Col: 1}, circuit.NewGate(circuit.Control))
	reg.Place(circuit.Cell{Row: 1, Col: 1}, circuit.NewGate(circuit.TargetX))
	reg.Place(circuit.Cell{Row: 0, Col: 2}, circuit.NewGate(circuit.Measure))
	reg.Place(circuit.Cell{Row: 1, Col: 2}, circuit.NewGate(circuit.Measure))
	return circuit.Compile(c)
}

func TestQiskitBell(t *testing.T) {
	want := `from qiskit import QuantumCircuit

qc = QuantumCircuit(2, 2)

# Column 0
qc.h(0)

# Column 1
qc.cx(0, 1)

# Column 2
qc.measure(0, 0)
qc.measure(1, 1)
`
	assert.Equal(t, want, Qiskit(bellProgram()))
}

func TestQiskitStatements(t *testing.T) {
	p := circuit.Program{
		NumQubits: 4,
		NumClbits: 4,
		Columns: []circuit.Column{
			{Index: 0, Ops: []circuit.Op{
				{Code: circuit.OpRX, Target: 1, Angle: math.Pi / 2},
				{Code: circuit.OpRZ, Target: 2, Angle: 0.3},
				{Code: circuit.OpMCX, Target: 3, Controls: []int{0, 1, 2}},
			}},
			{Index: 4, Ops: []circuit.Op{
				{Code: circuit.OpMCZ, Target: 3, Controls: []int{0, 1}},
			}, InertControls: nil},
			{Index: 6, InertControls: []int{0, 2}},
		},
	}

	out := Qiskit(p)

	assert.Contains(t, out, "from qiskit.circuit.library import ZGate\n")
	assert.Contains(t, out, "from numpy import pi\n")
	assert.Contains(t, out, "qc.rx(pi/2, 1)\n")
	assert.Contains(t, out, "qc.rz(0.3, 2)\n")
	assert.Contains(t, out, "qc.mcx([0, 1, 2], 3)\n")
	assert.Contains(t, out, "qc.append(ZGate().control(2), [0, 1, 3])\n")
	assert.Contains(t, out, "# controls on [0, 2] have no target\n")
}

func TestQiskitOneStatementPerOp(t *testing.T) {
	p := bellProgram()
	var stmts int
	for _, line := range strings.Split(Qiskit(p), "\n") {
		if strings.HasPrefix(line, "qc.") {
			stmts++
		}
	}
	assert.Equal(t, len(p.Ops()), stmts)
}

func TestQASMBell(t *testing.T) {
	out, err := QASM(bellProgram())
	require.NoError(t, err)

	want := `OPENQASM 2.0;
include "qelib1.inc";

qreg q[2];
creg c[2];

// column 0
h q[0];

// column 1
cx q[0], q[1];

// column 2
measure q[0] -> c[0];
measure q[1] -> c[1];
`
	assert.Equal(t, want, out)
}

func TestQASMMultiControlled(t *testing.T) {
	tests := []struct {
		op   circuit.Op
		want string
		err  bool
	}{
		{circuit.Op{Code: circuit.OpMCX, Target: 2, Controls: []int{0, 1}}, "ccx q[0], q[1], q[2];\n", false},
		{circuit.Op{Code: circuit.OpMCX, Target: 3, Controls: []int{0, 1, 2}}, "c3x q[0], q[1], q[2], q[3];\n", false},
		{circuit.Op{Code: circuit.OpMCZ, Target: 2, Controls: []int{0, 1}}, "h q[2];\nccx q[0], q[1], q[2];\nh q[2];\n", false},
		{circuit.Op{Code: circuit.OpMCX, Target: 5, Controls: []int{0, 1, 2, 3, 4}}, "", true},
		{circuit.Op{Code: circuit.OpOracle, Qubits: []int{0, 1, 2}}, "", true},
		{circuit.Op{Code: circuit.OpRY, Target: 0, Angle: 3 * math.Pi / 4}, "ry(3*pi/4) q[0];\n", false},
	}

	for _, tt := range tests {
		got, err := qasmStatement(tt.op)
		if tt.err {
			assert.ErrorIs(t, err, ErrUnsupported, "%v", tt.op)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestWrite(t *testing.T) {
	p := bellProgram()

	py, err := Write(FormatQiskit, p)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(py, "from qiskit"))

	_, err = Write(Format("quil"), p)
	assert.Error(t, err)

	assert.Equal(t, ".qasm", FormatQASM.Extension())
	assert.Equal(t, ".py", FormatQiskit.Extension())
}
