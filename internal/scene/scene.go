// Package scene turns the circuit state into a flat list of draw commands.
// It keeps no state between frames; the canvas redraws from scratch every
// time.
package scene

import (
	"fmt"
	"slices"

	"qcompose/internal/circuit"
	"qcompose/internal/grid"
)

type CmdKind int

const (
	Wire CmdKind = iota
	WireLabel
	ClassicalWire
	Trash
	OracleBox
	Connector
	MeasureLink
	GateGlyph
	Cursor
	Ghost
)

// Flag marks how a gate glyph should be drawn.
type Flag int

const (
	// FlagInert marks a control with no target in its column.
	FlagInert Flag = 1 << iota
	// FlagLifted marks the gate currently being dragged.
	FlagLifted
	FlagCursor
)

// Cmd is one drawing primitive. Lines and boxes use From/To, glyphs use At.
type Cmd struct {
	Kind CmdKind
	From grid.Point
	To   grid.Point
	At   grid.Point
	Text string
	Cell circuit.Cell
	Gate circuit.Kind
	Flag Flag
}

// DragView is the gate following the pointer.
type DragView struct {
	Kind   circuit.Kind
	Label  string
	Center grid.Point
	Origin *circuit.Cell
}

type State struct {
	Geometry grid.Geometry
	Registry *circuit.Registry
	Oracle   *circuit.OracleBlock
	Inert    []circuit.Cell
	Cursor   *circuit.Cell
	Drag     *DragView
}

// Render returns the draw commands for s, back to front.
func Render(s State) []Cmd {
	geo := s.Geometry
	var cmds []Cmd

	for q := 0; q < geo.Qubits; q++ {
		o := geo.CellOrigin(circuit.Cell{Row: q})
		cmds = append(cmds,
			Cmd{
				Kind: Wire,
				From: grid.Point{X: geo.XOffset - geo.CellWidth/2, Y: o.Y},
				To:   grid.Point{X: geo.RightEdge() - geo.CellWidth/2, Y: o.Y},
				Cell: circuit.Cell{Row: q},
			},
			Cmd{
				Kind: WireLabel,
				At:   grid.Point{X: 0, Y: o.Y},
				Text: fmt.Sprintf("q[%d]", q),
				Cell: circuit.Cell{Row: q},
			},
		)
	}

	cy := geo.Bottom()
	cmds = append(cmds,
		Cmd{
			Kind: ClassicalWire,
			From: grid.Point{X: geo.XOffset - geo.CellWidth/2, Y: cy},
			To:   grid.Point{X: geo.RightEdge() - geo.CellWidth/2, Y: cy},
		},
		Cmd{Kind: WireLabel, At: grid.Point{X: 0, Y: cy}, Text: fmt.Sprintf("c%d", geo.Qubits)},
	)

	trash := geo.TrashZone()
	cmds = append(cmds, Cmd{
		Kind: Trash,
		From: grid.Point{X: trash.X, Y: trash.Y},
		To:   grid.Point{X: trash.Right(), Y: trash.Bottom()},
		Text: "trash",
	})

	if o := s.Oracle; o != nil {
		top := geo.CellOrigin(circuit.Cell{Row: 0, Col: o.Col})
		bot := geo.CellOrigin(circuit.Cell{Row: o.Rows - 1, Col: o.Col})
		label := circuit.Oracle.Symbol()
		if !o.Defined() {
			label += "?"
		}
		cmds = append(cmds, Cmd{
			Kind: OracleBox,
			From: top,
			To:   bot,
			Text: label,
			Cell: circuit.Cell{Row: 0, Col: o.Col},
			Gate: circuit.Oracle,
		})
	}

	if s.Registry != nil {
		cmds = append(cmds, connectors(geo, s.Registry)...)
		cmds = append(cmds, measureLinks(geo, s.Registry)...)
		cmds = append(cmds, gates(geo, s)...)
	}

	if s.Cursor != nil && !geo.OutOfBounds(*s.Cursor) {
		cmds = append(cmds, Cmd{Kind: Cursor, At: geo.CellOrigin(*s.Cursor), Cell: *s.Cursor})
	}

	if d := s.Drag; d != nil {
		cmds = append(cmds, Cmd{Kind: Ghost, At: d.Center, Text: d.Label, Gate: d.Kind, Flag: FlagLifted})
	}
	return cmds
}

// connectors links the topmost and bottommost control/target rows of every
// column holding two or more of them.
func connectors(geo grid.Geometry, reg *circuit.Registry) []Cmd {
	var cmds []Cmd
	for _, col := range reg.Columns() {
		var rows []int
		for row, g := range reg.Column(col) {
			if g.Kind == circuit.Control || g.Kind.IsTarget() {
				rows = append(rows, row)
			}
		}
		if len(rows) < 2 {
			continue
		}
		top, bot := slices.Min(rows), slices.Max(rows)
		cmds = append(cmds, Cmd{
			Kind: Connector,
			From: geo.CellOrigin(circuit.Cell{Row: top, Col: col}),
			To:   geo.CellOrigin(circuit.Cell{Row: bot, Col: col}),
			Cell: circuit.Cell{Row: top, Col: col},
		})
	}
	return cmds
}

func measureLinks(geo grid.Geometry, reg *circuit.Registry) []Cmd {
	var cmds []Cmd
	reg.Each(func(c circuit.Cell, g *circuit.Gate) {
		if g.Kind != circuit.Measure {
			return
		}
		from := geo.CellOrigin(c)
		cmds = append(cmds, Cmd{
			Kind: MeasureLink,
			From: from,
			To:   grid.Point{X: from.X, Y: geo.Bottom()},
			Cell: c,
		})
	})
	return cmds
}

func gates(geo grid.Geometry, s State) []Cmd {
	var cmds []Cmd
	s.Registry.Each(func(c circuit.Cell, g *circuit.Gate) {
		cmd := Cmd{
			Kind: GateGlyph,
			At:   geo.CellOrigin(c),
			Text: Label(g),
			Cell: c,
			Gate: g.Kind,
		}
		if slices.Contains(s.Inert, c) {
			cmd.Flag |= FlagInert
		}
		if s.Drag != nil && s.Drag.Origin != nil && *s.Drag.Origin == c {
			cmd.Flag |= FlagLifted
		}
		if s.Cursor != nil && *s.Cursor == c {
			cmd.Flag |= FlagCursor
		}
		cmds = append(cmds, cmd)
	})
	return cmds
}

// Label is the text drawn for g: its symbol, plus the angle for rotations.
func Label(g *circuit.Gate) string {
	if a, ok := g.Angle(); ok && g.Kind.IsRotation() {
		return g.Kind.Symbol() + " " + circuit.AngleLabel(a)
	}
	return g.Kind.Symbol()
}
