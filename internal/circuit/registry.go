package circuit

import (
	"fmt"
	"slices"
)

// Registry is the authoritative cell -> gate mapping. At most one gate
// occupies a cell. The single-target-per-column and single-measure-per-row
// rules are not enforced by Place; callers check them first.
type Registry struct {
	cells    map[Cell]*Gate
	reserved map[int]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		cells:    make(map[Cell]*Gate),
		reserved: make(map[int]struct{}),
	}
}

// OccupantAt returns the gate in c, or nil.
func (r *Registry) OccupantAt(c Cell) *Gate {
	return r.cells[c]
}

// WouldViolateSingleTarget reports whether column col already holds a
// TargetX or TargetZ other than the gates in ignore.
func (r *Registry) WouldViolateSingleTarget(col int, ignore ...*Gate) bool {
	for c, g := range r.cells {
		if c.Col == col && g.Kind.IsTarget() && !isIgnored(g, ignore) {
			return true
		}
	}
	return false
}

// WouldViolateSingleMeasure reports whether row already holds a Measure
// other than the gates in ignore.
func (r *Registry) WouldViolateSingleMeasure(row int, ignore ...*Gate) bool {
	for c, g := range r.cells {
		if c.Row == row && g.Kind == Measure && !isIgnored(g, ignore) {
			return true
		}
	}
	return false
}

// Admits reports whether g could sit in c without breaking the per-column
// target rule or the per-row measure rule. Occupancy of c is not checked.
func (r *Registry) Admits(g *Gate, c Cell, ignore ...*Gate) bool {
	ignore = append(ignore[:len(ignore):len(ignore)], g)
	if g.Kind.IsTarget() && r.WouldViolateSingleTarget(c.Col, ignore...) {
		return false
	}
	if g.Kind == Measure && r.WouldViolateSingleMeasure(c.Row, ignore...) {
		return false
	}
	return true
}

// Place puts g in c, overwriting whatever was there.
func (r *Registry) Place(c Cell, g *Gate) {
	if prev := r.cells[c]; prev != nil && prev != g {
		if pos, ok := prev.Position(); ok && pos == c {
			prev.clearPosition()
		}
	}
	r.cells[c] = g
	g.setPosition(c)
}

// Remove empties c. It is a no-op for an empty cell.
func (r *Registry) Remove(c Cell) {
	g, ok := r.cells[c]
	if !ok {
		return
	}
	delete(r.cells, c)
	if pos, placed := g.Position(); placed && pos == c {
		g.clearPosition()
	}
}

// EvictOutOfRange drops every gate whose row is >= qubits and returns them.
func (r *Registry) EvictOutOfRange(qubits int) []*Gate {
	var evicted []*Gate
	for _, c := range r.Cells() {
		if c.Row >= qubits {
			evicted = append(evicted, r.cells[c])
			r.Remove(c)
		}
	}
	return evicted
}

// EvictColumn drops every gate in col and returns them.
func (r *Registry) EvictColumn(col int) []*Gate {
	var evicted []*Gate
	for _, c := range r.Cells() {
		if c.Col == col {
			evicted = append(evicted, r.cells[c])
			r.Remove(c)
		}
	}
	return evicted
}

func (r *Registry) Len() int { return len(r.cells) }

// Cells returns the occupied cells ordered by column, then row.
func (r *Registry) Cells() []Cell {
	out := make([]Cell, 0, len(r.cells))
	for c := range r.cells {
		out = append(out, c)
	}
	slices.SortFunc(out, compareCells)
	return out
}

// Column returns the gates in col keyed by row.
func (r *Registry) Column(col int) map[int]*Gate {
	out := make(map[int]*Gate)
	for c, g := range r.cells {
		if c.Col == col {
			out[c.Row] = g
		}
	}
	return out
}

// Columns returns the occupied column indices in ascending order.
func (r *Registry) Columns() []int {
	var cols []int
	for c := range r.cells {
		if !slices.Contains(cols, c.Col) {
			cols = append(cols, c.Col)
		}
	}
	slices.Sort(cols)
	return cols
}

// Each calls fn for every entry in column-major order.
func (r *Registry) Each(fn func(Cell, *Gate)) {
	for _, c := range r.Cells() {
		fn(c, r.cells[c])
	}
}

// Clear removes every gate. Reserved columns are kept.
func (r *Registry) Clear() {
	for c, g := range r.cells {
		g.clearPosition()
		delete(r.cells, c)
	}
}

func (r *Registry) Reserve(col int)   { r.reserved[col] = struct{}{} }
func (r *Registry) Unreserve(col int) { delete(r.reserved, col) }

func (r *Registry) IsReserved(col int) bool {
	_, ok := r.reserved[col]
	return ok
}

// Reserved returns the reserved columns in ascending order.
func (r *Registry) Reserved() []int {
	cols := make([]int, 0, len(r.reserved))
	for c := range r.reserved {
		cols = append(cols, c)
	}
	slices.Sort(cols)
	return cols
}

func isIgnored(g *Gate, ignore []*Gate) bool {
	for _, i := range ignore {
		if i != nil && i.ID == g.ID {
			return true
		}
	}
	return false
}

func compareCells(a, b Cell) int {
	if a.Col != b.Col {
		return a.Col - b.Col
	}
	return a.Row - b.Row
}

func cellString(c Cell) string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}
