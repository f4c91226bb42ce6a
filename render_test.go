package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qcompose/internal/circuit"
	"qcompose/internal/grid"
	"qcompose/internal/scene"
	"qcompose/internal/sim"
)

func TestVisibleLen(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"abc", 3},
		{"\x1b[31mred\x1b[0m", 3},
		{"┤H├", 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, visibleLen(tt.in), "%q", tt.in)
	}
}

func TestOverlayAt(t *testing.T) {
	bg := "aaaaaa\nbbbbbb\ncccccc"
	out := overlayAt(bg, "XY", 2, 1)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "aaaaaa", lines[0])
	assert.Equal(t, "bb\x1b[0mXYbb", lines[1])
	assert.Equal(t, "cccccc", lines[2])

	// Rows outside the background are dropped; short lines are padded.
	out = overlayAt("ab", "XY\nZZ", 4, 0)
	assert.Equal(t, "ab  \x1b[0mXY", out)
}

func TestSpliceKeepsEscapes(t *testing.T) {
	line := "\x1b[31mabcdef\x1b[0m"
	out := spliceLineAt(line, "Z", 1)
	assert.True(t, strings.HasPrefix(out, "\x1b[31ma"))
	assert.Contains(t, out, "Zcdef")
}

func TestRasterizeGates(t *testing.T) {
	geo := grid.TerminalLayout().For(2)
	w, h := canvasSize(geo)
	cv := newCanvas(w, h)

	ctrl := geo.CellOrigin(circuit.Cell{Row: 0, Col: 0})
	tgt := geo.CellOrigin(circuit.Cell{Row: 1, Col: 0})
	rot := geo.CellOrigin(circuit.Cell{Row: 0, Col: 1})
	rasterize(cv, []scene.Cmd{
		{Kind: scene.Wire, From: grid.Point{X: geo.XOffset - 3, Y: ctrl.Y}, To: grid.Point{X: geo.RightEdge(), Y: ctrl.Y}},
		{Kind: scene.Wire, From: grid.Point{X: geo.XOffset - 3, Y: tgt.Y}, To: grid.Point{X: geo.RightEdge(), Y: tgt.Y}},
		{Kind: scene.Connector, From: ctrl, To: tgt},
		{Kind: scene.GateGlyph, At: ctrl, Text: "●", Gate: circuit.Control},
		{Kind: scene.GateGlyph, At: tgt, Text: "⊕", Gate: circuit.TargetX},
		{Kind: scene.GateGlyph, At: rot, Text: "Rx π/2", Gate: circuit.RotateX},
	})

	lines := strings.Split(cv.Plain(), "\n")
	x, y := round(ctrl.X), round(ctrl.Y)
	assert.Equal(t, '●', []rune(lines[y])[x])
	assert.Equal(t, '⊕', []rune(lines[round(tgt.Y)])[x])
	assert.Equal(t, '│', []rune(lines[y+1])[x])
	assert.Contains(t, lines[y], "┤Rx├")
	assert.Contains(t, lines[y+1], "π/2")
}

func TestRasterizeCursorAndTrash(t *testing.T) {
	geo := grid.TerminalLayout().For(1)
	w, h := canvasSize(geo)
	cv := newCanvas(w, h)
	trash := geo.TrashZone()
	at := geo.CellOrigin(circuit.Cell{})

	rasterize(cv, []scene.Cmd{
		{Kind: scene.Trash, From: grid.Point{X: trash.X, Y: trash.Y}, To: grid.Point{X: trash.Right(), Y: trash.Bottom()}, Text: "trash"},
		{Kind: scene.Cursor, At: at},
	})
	x, y := round(at.X), round(at.Y)
	assert.Equal(t, '┌', cv.at(x-2, y-1))
	assert.Equal(t, '┘', cv.at(x+2, y+1))
	assert.Contains(t, cv.Plain(), "┌trash┐")
}

func TestRenderHistogram(t *testing.T) {
	res := sim.Result{Shots: 100, Counts: map[string]int{"00": 25, "11": 75}}
	out := renderHistogram(res, 40)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "100 shots", lines[0])
	assert.Contains(t, lines[1], "11")
	assert.Contains(t, lines[1], "75 (75.0%)")
	assert.Contains(t, lines[2], "25 (25.0%)")

	assert.Contains(t, renderHistogram(sim.Result{}, 40), "no counts")
}

func TestPaletteHit(t *testing.T) {
	l := grid.TerminalLayout()
	for i, it := range palette {
		c := paletteCenter(l, i)
		got, ok := paletteHit(l, c.X+1, c.Y)
		require.True(t, ok, it.name)
		assert.Equal(t, it.kind, got.kind)
	}
	_, ok := paletteHit(l, paletteCenter(l, 0).X, paletteRowY+3)
	assert.False(t, ok)
}
