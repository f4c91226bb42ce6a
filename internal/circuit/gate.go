package circuit

import (
	"github.com/google/uuid"

	"qcompose/internal/grid"
)

// Cell addresses one slot of the registry: a qubit row and a time column.
type Cell = grid.Cell

// Gate is one operation instance: a palette template, a gate being dragged,
// or a gate committed to the registry. Identity is the ID, not the kind.
type Gate struct {
	ID   uuid.UUID
	Kind Kind

	angle *float64
	pos   *Cell
}

func NewGate(kind Kind) *Gate {
	return &Gate{ID: uuid.New(), Kind: kind}
}

// NewRotation returns a rotation gate with its angle already set.
func NewRotation(kind Kind, radians float64) *Gate {
	g := NewGate(kind)
	g.SetAngle(radians)
	return g
}

// Spawn clones g as a fresh, unplaced instance with its own identity.
func (g *Gate) Spawn() *Gate {
	c := &Gate{ID: uuid.New(), Kind: g.Kind}
	if g.angle != nil {
		a := *g.angle
		c.angle = &a
	}
	return c
}

// Angle returns the rotation angle in radians and whether one was ever set.
func (g *Gate) Angle() (float64, bool) {
	if g.angle == nil {
		return 0, false
	}
	return *g.angle, true
}

func (g *Gate) SetAngle(radians float64) { g.angle = &radians }

func (g *Gate) ClearAngle() { g.angle = nil }

// Position returns the committed cell, or false while the gate is unplaced.
func (g *Gate) Position() (Cell, bool) {
	if g.pos == nil {
		return Cell{}, false
	}
	return *g.pos, true
}

func (g *Gate) IsPlaced() bool { return g.pos != nil }

func (g *Gate) String() string {
	if c, ok := g.Position(); ok {
		return g.Kind.String() + "@" + cellString(c)
	}
	return g.Kind.String()
}

func (g *Gate) setPosition(c Cell) { g.pos = &c }

func (g *Gate) clearPosition() { g.pos = nil }
