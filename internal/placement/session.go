package placement

import (
	"qcompose/internal/circuit"
	"qcompose/internal/grid"
)

// Session is one drag in progress: the gate being carried, the cell it was
// picked up from (if any) and where its center currently is. The registry
// is not touched until the session is dropped.
type Session struct {
	gate   *circuit.Gate
	origin *circuit.Cell
	center grid.Point
	// grab is the offset from the pointer to the gate center, so the gate
	// does not jump under the pointer when picked up off-center.
	grab grid.Point
}

func (s *Session) Gate() *circuit.Gate { return s.gate }

// Origin is the committed cell the gate was picked up from. Palette drags
// have none.
func (s *Session) Origin() (circuit.Cell, bool) {
	if s.origin == nil {
		return circuit.Cell{}, false
	}
	return *s.origin, true
}

func (s *Session) FromPalette() bool { return s.origin == nil }

// MoveTo follows the pointer.
func (s *Session) MoveTo(x, y float64) {
	s.center = grid.Point{X: x + s.grab.X, Y: y + s.grab.Y}
}

// Center is the gate center used for every drop decision.
func (s *Session) Center() grid.Point { return s.center }
