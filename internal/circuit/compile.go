package circuit

import (
	"fmt"
	"slices"
	"strings"
)

// Opcode is a compiled operation.
type Opcode int

const (
	OpH Opcode = iota
	OpX
	OpY
	OpZ
	OpRX
	OpRY
	OpRZ
	OpCX
	OpCZ
	OpMCX
	OpMCZ
	OpMeasure
	OpOracle
)

var opcodeNames = [...]string{
	OpH: "h", OpX: "x", OpY: "y", OpZ: "z",
	OpRX: "rx", OpRY: "ry", OpRZ: "rz",
	OpCX: "cx", OpCZ: "cz", OpMCX: "mcx", OpMCZ: "mcz",
	OpMeasure: "measure", OpOracle: "oracle",
}

func (o Opcode) String() string {
	if o < OpH || o > OpOracle {
		return fmt.Sprintf("Opcode(%d)", int(o))
	}
	return opcodeNames[o]
}

func (o Opcode) IsRotation() bool { return o == OpRX || o == OpRY || o == OpRZ }

func (o Opcode) IsControlled() bool {
	return o == OpCX || o == OpCZ || o == OpMCX || o == OpMCZ
}

// Op is one compiled operation. Controls is set for controlled opcodes,
// Clbit for measurements, Qubits for an opaque oracle.
type Op struct {
	Code     Opcode
	Target   int
	Controls []int
	Angle    float64
	Clbit    int
	Qubits   []int
}

func (o Op) String() string {
	switch {
	case o.Code.IsRotation():
		return fmt.Sprintf("%s(%s) q%d", o.Code, FormatAngle(o.Angle), o.Target)
	case o.Code.IsControlled():
		return fmt.Sprintf("%s %v->q%d", o.Code, o.Controls, o.Target)
	case o.Code == OpMeasure:
		return fmt.Sprintf("measure q%d->c%d", o.Target, o.Clbit)
	case o.Code == OpOracle:
		return fmt.Sprintf("oracle %v", o.Qubits)
	}
	return fmt.Sprintf("%s q%d", o.Code, o.Target)
}

// Touches reports whether q is used by the op.
func (o Op) Touches(q int) bool {
	if o.Code == OpOracle {
		return slices.Contains(o.Qubits, q)
	}
	return o.Target == q || slices.Contains(o.Controls, q)
}

// Column is the compiled content of one grid column.
type Column struct {
	Index int
	Ops   []Op

	// InertControls lists Control rows in a column with no target. They
	// emit nothing; the editor flags them.
	InertControls []int
}

// Program is the compiled operation sequence of a circuit.
type Program struct {
	NumQubits int
	NumClbits int
	Columns   []Column
}

// Ops flattens the program in column order.
func (p Program) Ops() []Op {
	var ops []Op
	for _, c := range p.Columns {
		ops = append(ops, c.Ops...)
	}
	return ops
}

func (p Program) HasMeasure() bool {
	return len(p.MeasuredRows()) > 0
}

// MeasuredRows returns the measured qubits in ascending order.
func (p Program) MeasuredRows() []int {
	var rows []int
	for _, op := range p.Ops() {
		if op.Code == OpMeasure && !slices.Contains(rows, op.Target) {
			rows = append(rows, op.Target)
		}
	}
	slices.Sort(rows)
	return rows
}

// InertControls returns every inert control cell in the program.
func (p Program) InertControls() []Cell {
	var out []Cell
	for _, c := range p.Columns {
		for _, row := range c.InertControls {
			out = append(out, Cell{Row: row, Col: c.Index})
		}
	}
	return out
}

// HasOpaqueOracle reports whether an oracle with no truth table was compiled.
func (p Program) HasOpaqueOracle() bool {
	for _, op := range p.Ops() {
		if op.Code == OpOracle {
			return true
		}
	}
	return false
}

func (p Program) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "program q=%d c=%d\n", p.NumQubits, p.NumClbits)
	for _, c := range p.Columns {
		fmt.Fprintf(&sb, "  [%d]", c.Index)
		for _, op := range c.Ops {
			sb.WriteString(" " + op.String() + ";")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

var singleOps = map[Kind]Opcode{
	Hadamard: OpH,
	PauliX:   OpX,
	PauliY:   OpY,
	PauliZ:   OpZ,
	RotateX:  OpRX,
	RotateY:  OpRY,
	RotateZ:  OpRZ,
}

// Compile lowers the circuit to a Program. Columns are emitted left to right.
// Inside a column the single-qubit gates come first, then the controlled
// operation, then measurements. Rows ascend inside each group, so the result
// only depends on what sits where.
//
// Compile panics if a column holds more than one target; the placement
// rules make that unreachable.
func Compile(c *Circuit) Program {
	p := Program{NumQubits: c.Qubits(), NumClbits: c.Qubits()}

	cols := c.Registry().Columns()
	if o := c.Oracle(); o != nil && !slices.Contains(cols, o.Col) {
		cols = append(cols, o.Col)
		slices.Sort(cols)
	}

	for _, col := range cols {
		column := compileColumn(col, c.Registry().Column(col))
		if o := c.Oracle(); o != nil && o.Col == col {
			column.Ops = append(oracleOps(o), column.Ops...)
		}
		if len(column.Ops) > 0 || len(column.InertControls) > 0 {
			p.Columns = append(p.Columns, column)
		}
	}
	return p
}

func compileColumn(col int, gates map[int]*Gate) Column {
	rows := make([]int, 0, len(gates))
	for row := range gates {
		rows = append(rows, row)
	}
	slices.Sort(rows)

	var (
		column   = Column{Index: col}
		controls []int
		measures []int
		target   = -1
		tkind    Kind
	)

	for _, row := range rows {
		g := gates[row]
		switch g.Kind {
		case Hadamard, PauliX, PauliY, PauliZ, RotateX, RotateY, RotateZ:
			op := Op{Code: singleOps[g.Kind], Target: row}
			if g.Kind.IsRotation() {
				// An angle that was never set compiles as 0.
				op.Angle, _ = g.Angle()
			}
			column.Ops = append(column.Ops, op)
		case Control:
			controls = append(controls, row)
		case TargetX, TargetZ:
			if target >= 0 {
				panic(fmt.Sprintf("circuit: column %d has targets on rows %d and %d", col, target, row))
			}
			target, tkind = row, g.Kind
		case Measure:
			measures = append(measures, row)
		case Oracle:
			// Oracles live outside the registry.
		default:
			panic(fmt.Sprintf("circuit: unknown gate kind %v at %s", g.Kind, cellString(Cell{Row: row, Col: col})))
		}
	}

	if target >= 0 {
		column.Ops = append(column.Ops, controlledOp(tkind, target, controls))
	} else if len(controls) > 0 {
		column.InertControls = controls
	}

	for _, row := range measures {
		column.Ops = append(column.Ops, Op{Code: OpMeasure, Target: row, Clbit: row})
	}
	return column
}

func controlledOp(kind Kind, target int, controls []int) Op {
	op := Op{Target: target}
	switch len(controls) {
	case 0:
		op.Code = OpX
		if kind == TargetZ {
			op.Code = OpZ
		}
	case 1:
		op.Code = OpCX
		if kind == TargetZ {
			op.Code = OpCZ
		}
		op.Controls = controls
	default:
		op.Code = OpMCX
		if kind == TargetZ {
			op.Code = OpMCZ
		}
		op.Controls = controls
	}
	return op
}

func oracleOps(o *OracleBlock) []Op {
	if o.Defined() {
		return o.Table.Expand(o.Inputs(), o.Output())
	}
	qubits := make([]int, o.Rows)
	for i := range qubits {
		qubits[i] = i
	}
	return []Op{{Code: OpOracle, Qubits: qubits}}
}
