package circuit

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func place(c *Circuit, row, col int, g *Gate) *Gate {
	c.Registry().Place(Cell{Row: row, Col: col}, g)
	return g
}

func TestCompileHadamardThenCNOT(t *testing.T) {
	c := New(2, 8)
	place(c, 0, 0, NewGate(Hadamard))
	place(c, 0, 1, NewGate(Control))
	place(c, 1, 1, NewGate(TargetX))

	p := Compile(c)

	assert.Equal(t, 2, p.NumQubits)
	assert.Equal(t, 2, p.NumClbits)
	require.Len(t, p.Columns, 2)
	assert.Equal(t, []Op{{Code: OpH, Target: 0}}, p.Columns[0].Ops)
	assert.Equal(t, []Op{{Code: OpCX, Target: 1, Controls: []int{0}}}, p.Columns[1].Ops)
}

func TestCompileControlFanIn(t *testing.T) {
	tests := []struct {
		name     string
		target   Kind
		controls []int
		want     Op
	}{
		{"bare target x", TargetX, nil, Op{Code: OpX, Target: 3}},
		{"bare target z", TargetZ, nil, Op{Code: OpZ, Target: 3}},
		{"cx", TargetX, []int{1}, Op{Code: OpCX, Target: 3, Controls: []int{1}}},
		{"cz", TargetZ, []int{0}, Op{Code: OpCZ, Target: 3, Controls: []int{0}}},
		{"mcx", TargetX, []int{2, 0, 1}, Op{Code: OpMCX, Target: 3, Controls: []int{0, 1, 2}}},
		{"mcz", TargetZ, []int{0, 1}, Op{Code: OpMCZ, Target: 3, Controls: []int{0, 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(4, 8)
			place(c, 3, 5, NewGate(tt.target))
			for _, row := range tt.controls {
				place(c, row, 5, NewGate(Control))
			}

			p := Compile(c)
			require.Len(t, p.Columns, 1)
			assert.Equal(t, 5, p.Columns[0].Index)
			assert.Equal(t, []Op{tt.want}, p.Columns[0].Ops)
		})
	}
}

func TestCompileColumnOrdering(t *testing.T) {
	c := New(3, 8)
	place(c, 0, 0, NewGate(Measure))
	place(c, 1, 0, NewGate(TargetX))
	place(c, 2, 0, NewGate(Hadamard))
	place(c, 0, 1, NewGate(Control))

	p := Compile(c)

	require.Len(t, p.Columns, 2)
	assert.Equal(t, []Op{
		{Code: OpH, Target: 2},
		{Code: OpX, Target: 1},
		{Code: OpMeasure, Target: 0, Clbit: 0},
	}, p.Columns[0].Ops)
	assert.Empty(t, p.Columns[1].Ops, "a lone control compiles to nothing but is still reported")
	assert.Equal(t, []int{0}, p.Columns[1].InertControls)
}

func TestCompileInertControls(t *testing.T) {
	c := New(3, 8)
	place(c, 0, 2, NewGate(Control))
	place(c, 2, 2, NewGate(Control))
	place(c, 1, 2, NewGate(PauliY))

	p := Compile(c)

	require.Len(t, p.Columns, 1)
	assert.Equal(t, []Op{{Code: OpY, Target: 1}}, p.Columns[0].Ops)
	assert.Equal(t, []int{0, 2}, p.Columns[0].InertControls)
	assert.Equal(t, []Cell{{Row: 0, Col: 2}, {Row: 2, Col: 2}}, p.InertControls())
}

func TestCompileRotationAngles(t *testing.T) {
	c := New(1, 8)
	place(c, 0, 0, NewRotation(RotateX, math.Pi/2))
	place(c, 0, 1, NewGate(RotateZ))

	ops := Compile(c).Ops()

	require.Len(t, ops, 2)
	assert.Equal(t, Op{Code: OpRX, Target: 0, Angle: math.Pi / 2}, ops[0])
	assert.Equal(t, Op{Code: OpRZ, Target: 0, Angle: 0}, ops[1], "unset angles compile as zero")
}

func TestCompileMultipleTargetsPanics(t *testing.T) {
	c := New(2, 8)
	// Bypasses the admission checks on purpose.
	place(c, 0, 0, NewGate(TargetX))
	place(c, 1, 0, NewGate(TargetZ))

	assert.Panics(t, func() { Compile(c) })
}

func TestCompileIsDeterministic(t *testing.T) {
	layout := []struct {
		cell Cell
		kind Kind
	}{
		{Cell{Row: 0, Col: 0}, Hadamard},
		{Cell{Row: 1, Col: 0}, PauliX},
		{Cell{Row: 0, Col: 1}, Control},
		{Cell{Row: 2, Col: 1}, Control},
		{Cell{Row: 1, Col: 1}, TargetZ},
		{Cell{Row: 2, Col: 3}, RotateY},
		{Cell{Row: 0, Col: 4}, Measure},
		{Cell{Row: 1, Col: 4}, Measure},
	}

	var want Program
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 20; i++ {
		c := New(3, 8)
		for _, j := range rng.Perm(len(layout)) {
			place(c, layout[j].cell.Row, layout[j].cell.Col, NewGate(layout[j].kind))
		}
		got := Compile(c)
		if i == 0 {
			want = got
			continue
		}
		assert.Equal(t, want, got)
	}
	assert.Equal(t, []int{0, 1}, want.MeasuredRows())
}

func TestCompileEmpty(t *testing.T) {
	p := Compile(New(3, 8))

	assert.Empty(t, p.Columns)
	assert.False(t, p.HasMeasure())
	assert.Equal(t, 3, p.NumClbits)
}
