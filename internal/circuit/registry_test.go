package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryPlaceAndRemove(t *testing.T) {
	r := NewRegistry()
	h := NewGate(Hadamard)

	r.Place(Cell{Row: 0, Col: 0}, h)
	assert.Same(t, h, r.OccupantAt(Cell{Row: 0, Col: 0}))
	pos, ok := h.Position()
	require.True(t, ok)
	assert.Equal(t, Cell{Row: 0, Col: 0}, pos)

	r.Remove(Cell{Row: 0, Col: 0})
	assert.Nil(t, r.OccupantAt(Cell{Row: 0, Col: 0}))
	assert.False(t, h.IsPlaced())

	// Removing an empty cell is a no-op.
	r.Remove(Cell{Row: 3, Col: 3})
	assert.Equal(t, 0, r.Len())
}

func TestRegistryPlaceOverwrites(t *testing.T) {
	r := NewRegistry()
	a, b := NewGate(PauliX), NewGate(PauliY)

	r.Place(Cell{Row: 1, Col: 2}, a)
	r.Place(Cell{Row: 1, Col: 2}, b)

	assert.Equal(t, 1, r.Len())
	assert.Same(t, b, r.OccupantAt(Cell{Row: 1, Col: 2}))
	assert.False(t, a.IsPlaced())
}

func TestWouldViolateSingleTarget(t *testing.T) {
	r := NewRegistry()
	tx := NewGate(TargetX)
	r.Place(Cell{Row: 1, Col: 4}, tx)

	assert.True(t, r.WouldViolateSingleTarget(4))
	assert.False(t, r.WouldViolateSingleTarget(4, tx), "a gate never collides with itself")
	assert.False(t, r.WouldViolateSingleTarget(5))

	tz := NewGate(TargetZ)
	assert.True(t, r.Admits(tz, Cell{Row: 0, Col: 4}, tx), "an ignored gate is leaving its column")
	assert.False(t, r.Admits(tz, Cell{Row: 0, Col: 4}))
	assert.True(t, r.Admits(tx, Cell{Row: 0, Col: 4}))
	assert.True(t, r.Admits(NewGate(Control), Cell{Row: 0, Col: 4}))
}

func TestWouldViolateSingleMeasure(t *testing.T) {
	r := NewRegistry()
	m := NewGate(Measure)
	r.Place(Cell{Row: 0, Col: 2}, m)

	assert.True(t, r.WouldViolateSingleMeasure(0))
	assert.False(t, r.WouldViolateSingleMeasure(0, m))
	assert.False(t, r.WouldViolateSingleMeasure(1))

	assert.False(t, r.Admits(NewGate(Measure), Cell{Row: 0, Col: 5}))
	assert.True(t, r.Admits(m, Cell{Row: 0, Col: 5}), "moving the measure along its own row is fine")
}

func TestEvictOutOfRange(t *testing.T) {
	r := NewRegistry()
	r.Place(Cell{Row: 0, Col: 0}, NewGate(Hadamard))
	r.Place(Cell{Row: 1, Col: 0}, NewGate(PauliX))
	r.Place(Cell{Row: 2, Col: 3}, NewGate(Measure))
	r.Place(Cell{Row: 2, Col: 5}, NewGate(PauliZ))

	evicted := r.EvictOutOfRange(2)

	assert.Len(t, evicted, 2)
	assert.Equal(t, []Cell{{Row: 0, Col: 0}, {Row: 1, Col: 0}}, r.Cells())
	for _, g := range evicted {
		assert.False(t, g.IsPlaced())
	}
}

func TestRegistryCellsAreColumnMajor(t *testing.T) {
	r := NewRegistry()
	for _, c := range []Cell{{Row: 2, Col: 1}, {Row: 0, Col: 3}, {Row: 1, Col: 1}, {Row: 0, Col: 0}} {
		r.Place(c, NewGate(Hadamard))
	}

	assert.Equal(t, []Cell{{Row: 0, Col: 0}, {Row: 1, Col: 1}, {Row: 2, Col: 1}, {Row: 0, Col: 3}}, r.Cells())
	assert.Equal(t, []int{0, 1, 3}, r.Columns())
}

func TestReservedColumns(t *testing.T) {
	r := NewRegistry()
	r.Reserve(8)
	r.Reserve(3)

	assert.True(t, r.IsReserved(8))
	assert.False(t, r.IsReserved(4))
	assert.Equal(t, []int{3, 8}, r.Reserved())

	r.Clear()
	assert.Equal(t, []int{3, 8}, r.Reserved(), "clearing gates keeps reservations")

	r.Unreserve(3)
	assert.Equal(t, []int{8}, r.Reserved())
}

func TestSpawnCopiesAngleNotIdentity(t *testing.T) {
	tpl := NewRotation(RotateY, 1.25)
	c := tpl.Spawn()

	assert.NotEqual(t, tpl.ID, c.ID)
	assert.Equal(t, RotateY, c.Kind)
	a, ok := c.Angle()
	require.True(t, ok)
	assert.Equal(t, 1.25, a)

	c.SetAngle(2)
	a, _ = tpl.Angle()
	assert.Equal(t, 1.25, a, "template angle untouched")
}

func TestKindStrings(t *testing.T) {
	assert.Equal(t, "TARGET_X", TargetX.String())
	assert.Equal(t, "Kind(99)", Kind(99).String())
	assert.Equal(t, "⊕", TargetX.Symbol())
	assert.True(t, RotateZ.IsRotation())
	assert.True(t, RotateZ.IsSingleQubit())
	assert.False(t, Control.IsSingleQubit())
	assert.NotContains(t, Kinds(), Oracle)
}
