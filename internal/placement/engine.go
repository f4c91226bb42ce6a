// Package placement decides what happens when a dragged gate is released
// over the circuit canvas, and owns every write to the gate registry.
package placement

import (
	"github.com/rs/zerolog"

	"qcompose/internal/circuit"
	"qcompose/internal/grid"
)

// Action is the terminal result of a drop.
type Action int

const (
	// Trashed: dropped on the trash zone; the gate is gone.
	Trashed Action = iota
	// PaletteReturn: dropped above the grid; the gate is gone.
	PaletteReturn
	// Reverted: invalid drop of a placed gate; it stays where it was.
	Reverted
	// Discarded: invalid drop of a palette gate; nothing was placed.
	Discarded
	// Swapped: the gate took an occupied cell and the occupant moved to
	// the gate's old cell.
	Swapped
	// Placed: the gate was committed to a cell.
	Placed
)

var actionNames = [...]string{"trashed", "palette-return", "reverted", "discarded", "swapped", "placed"}

func (a Action) String() string {
	if a < Trashed || a > Placed {
		return "unknown"
	}
	return actionNames[a]
}

// Mutated reports whether the registry changed.
func (a Action) Mutated() bool { return a != Reverted && a != Discarded }

// Reason says why a drop was refused.
type Reason string

const (
	ReasonNone         Reason = ""
	ReasonOutOfBounds  Reason = "outside the grid"
	ReasonReserved     Reason = "column reserved for the oracle"
	ReasonTarget       Reason = "column already has a target"
	ReasonMeasure      Reason = "row is already measured"
	ReasonOccupied     Reason = "cell is occupied"
	ReasonSwapConflict Reason = "swap would break the displaced gate"
)

// Outcome describes a finished drop.
type Outcome struct {
	Action  Action
	Reason  Reason
	Gate    *circuit.Gate
	From    *circuit.Cell
	To      *circuit.Cell
	Swapped *circuit.Gate
}

// Engine applies drops, deletions and qubit-count changes to a circuit.
type Engine struct {
	layout   grid.Layout
	circ     *circuit.Circuit
	log      zerolog.Logger
	onRedraw func()
	drag     *Session
}

func New(layout grid.Layout, circ *circuit.Circuit, log zerolog.Logger) *Engine {
	return &Engine{
		layout: layout,
		circ:   circ,
		log:    log.With().Str("component", "placement").Logger(),
	}
}

// OnRedraw registers fn to run after every registry change.
func (e *Engine) OnRedraw(fn func()) { e.onRedraw = fn }

func (e *Engine) Circuit() *circuit.Circuit { return e.circ }
func (e *Engine) Layout() grid.Layout       { return e.layout }

// Geometry reflects the current qubit count.
func (e *Engine) Geometry() grid.Geometry { return e.layout.For(e.circ.Qubits()) }

// Dragging returns the session in progress, or nil.
func (e *Engine) Dragging() *Session { return e.drag }

// BeginFromPalette starts dragging a fresh copy of tpl, centered at (x, y).
func (e *Engine) BeginFromPalette(tpl *circuit.Gate, x, y float64) *Session {
	s := &Session{gate: tpl.Spawn(), center: grid.Point{X: x, Y: y}}
	e.drag = s
	return s
}

// Pick starts dragging the gate in cell. The pointer is at (x, y). It
// returns nil for an empty cell.
func (e *Engine) Pick(cell circuit.Cell, x, y float64) *Session {
	g := e.circ.Registry().OccupantAt(cell)
	if g == nil {
		return nil
	}
	o := e.Geometry().CellOrigin(cell)
	c := cell
	s := &Session{
		gate:   g,
		origin: &c,
		center: o,
		grab:   grid.Point{X: o.X - x, Y: o.Y - y},
	}
	e.drag = s
	return s
}

// Cancel abandons s. A picked gate stays in its cell.
func (e *Engine) Cancel(s *Session) {
	if e.drag == s {
		e.drag = nil
	}
}

// Drop resolves s. The checks run in a fixed order and the first that
// matches decides: trash, palette return, out of bounds, reserved column,
// target/measure rules, collision, commit. A gate that was already placed
// is never lost to an invalid drop; it stays in its old cell.
func (e *Engine) Drop(s *Session) Outcome {
	defer e.Cancel(s)

	reg := e.circ.Registry()
	geo := e.Geometry()
	g := s.gate
	from, placed := s.Origin()
	if placed && reg.OccupantAt(from) != g {
		// The gate was evicted while it was being dragged.
		placed = false
	}
	out := Outcome{Gate: g}
	if placed {
		out.From = &from
	}

	x, y := s.center.X, s.center.Y
	if geo.InTrashZone(x, y) {
		out.Action = Trashed
		if placed {
			reg.Remove(from)
			e.redraw()
		}
		e.log.Debug().Str("gate", g.Kind.String()).Msg("gate trashed")
		return out
	}
	if geo.IsAboveGrid(y) {
		out.Action = PaletteReturn
		if placed {
			reg.Remove(from)
			e.redraw()
		}
		e.log.Debug().Str("gate", g.Kind.String()).Msg("gate returned to palette")
		return out
	}

	cell := geo.CellAt(x, y)
	out.To = &cell
	switch {
	case geo.OutOfBounds(cell):
		return e.reject(out, placed, ReasonOutOfBounds)
	case reg.IsReserved(cell.Col):
		return e.reject(out, placed, ReasonReserved)
	case g.Kind.IsTarget() && reg.WouldViolateSingleTarget(cell.Col, g):
		return e.reject(out, placed, ReasonTarget)
	case g.Kind == circuit.Measure && reg.WouldViolateSingleMeasure(cell.Row, g):
		return e.reject(out, placed, ReasonMeasure)
	}

	occ := reg.OccupantAt(cell)
	if occ != nil && occ != g {
		if !placed {
			out.Action = Discarded
			out.Reason = ReasonOccupied
			e.log.Debug().Str("gate", g.Kind.String()).Str("occupant", occ.String()).Msg("palette gate dropped on occupied cell")
			return out
		}
		// The occupant moves into the old cell; it has to be legal there
		// once g has left.
		if !reg.Admits(occ, from, g) {
			return e.reject(out, placed, ReasonSwapConflict)
		}
		reg.Remove(from)
		reg.Remove(cell)
		reg.Place(from, occ)
		reg.Place(cell, g)
		out.Action = Swapped
		out.Swapped = occ
		e.log.Debug().Str("gate", g.String()).Str("displaced", occ.String()).Msg("gates swapped")
		e.redraw()
		return out
	}

	if placed && reg.OccupantAt(from) == g {
		reg.Remove(from)
	}
	reg.Place(cell, g)
	out.Action = Placed
	e.log.Debug().Str("gate", g.String()).Msg("gate placed")
	e.redraw()
	return out
}

func (e *Engine) reject(out Outcome, placed bool, why Reason) Outcome {
	out.Reason = why
	if placed {
		out.Action = Reverted
		// Pick leaves the gate registered, so reverting only needs to make
		// sure its old cell still holds it, and never at another gate's
		// expense.
		reg := e.circ.Registry()
		if reg.OccupantAt(*out.From) == nil {
			reg.Place(*out.From, out.Gate)
		}
	} else {
		out.Action = Discarded
	}
	e.log.Debug().
		Str("gate", out.Gate.Kind.String()).
		Str("action", out.Action.String()).
		Str("reason", string(why)).
		Msg("drop refused")
	return out
}

func (e *Engine) redraw() {
	if e.onRedraw != nil {
		e.onRedraw()
	}
}
