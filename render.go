package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"qcompose/internal/circuit"
	"qcompose/internal/grid"
	"qcompose/internal/scene"
	"qcompose/internal/sim"
)

// ──────────────────────────── Canvas ────────────────────────────

// paint selects the style a canvas cell is drawn with.
type paint int

const (
	paintNone paint = iota
	paintWire
	paintLabel
	paintClassical
	paintMeasure
	paintTrash
	paintOracle
	paintGate
	paintInert
	paintLifted
	paintCursor
	paintGhost
	paintPalette
)

var paintStyles = map[paint]lipgloss.Style{
	paintLabel:     qubitLabelStyle,
	paintClassical: cbitWireStyle,
	paintMeasure:   cbitConnectorStyle,
	paintTrash:     errorStyle,
	paintOracle:    oracleStyle,
	paintGate:      gateStyle,
	paintInert:     inertStyle,
	paintLifted:    dimStyle,
	paintCursor:    cursorBoxStyle,
	paintGhost:     ghostStyle,
	paintPalette:   activeGateStyle,
}

// canvas is a grid of runes in canvas coordinates; one unit is one
// terminal cell.
type canvas struct {
	w, h  int
	runes [][]rune
	paint [][]paint
}

func newCanvas(w, h int) *canvas {
	cv := &canvas{w: w, h: h, runes: make([][]rune, h), paint: make([][]paint, h)}
	for y := range cv.runes {
		cv.runes[y] = []rune(strings.Repeat(" ", w))
		cv.paint[y] = make([]paint, w)
	}
	return cv
}

func (cv *canvas) inside(x, y int) bool { return x >= 0 && x < cv.w && y >= 0 && y < cv.h }

func (cv *canvas) set(x, y int, r rune, p paint) {
	if cv.inside(x, y) {
		cv.runes[y][x] = r
		cv.paint[y][x] = p
	}
}

func (cv *canvas) at(x, y int) rune {
	if !cv.inside(x, y) {
		return 0
	}
	return cv.runes[y][x]
}

func (cv *canvas) text(x, y int, s string, p paint) {
	for i, r := range []rune(s) {
		cv.set(x+i, y, r, p)
	}
}

// textCentered writes s so that its middle rune lands on (x, y).
func (cv *canvas) textCentered(x, y float64, s string, p paint) {
	n := len([]rune(s))
	cv.text(round(x)-(n-1)/2, round(y), s, p)
}

func (cv *canvas) hline(x0, x1, y int, r rune, p paint) {
	for x := x0; x < x1; x++ {
		cv.set(x, y, r, p)
	}
}

// vline draws from y0 to y1 inclusive. Where it crosses a quantum wire the
// crossing rune is used instead.
func (cv *canvas) vline(x, y0, y1 int, r, cross rune, p paint) {
	for y := y0; y <= y1; y++ {
		if cv.at(x, y) == '─' {
			cv.set(x, y, cross, p)
			continue
		}
		cv.set(x, y, r, p)
	}
}

// String renders the canvas with styles applied to runs of equal paint.
func (cv *canvas) String() string {
	lines := make([]string, cv.h)
	for y := 0; y < cv.h; y++ {
		var sb strings.Builder
		start := 0
		for x := 1; x <= cv.w; x++ {
			if x < cv.w && cv.paint[y][x] == cv.paint[y][start] {
				continue
			}
			run := string(cv.runes[y][start:x])
			if st, ok := paintStyles[cv.paint[y][start]]; ok {
				run = st.Render(run)
			}
			sb.WriteString(run)
			start = x
		}
		lines[y] = sb.String()
	}
	return strings.Join(lines, "\n")
}

// Plain renders the canvas without styles, right-trimmed.
func (cv *canvas) Plain() string {
	lines := make([]string, cv.h)
	for y, row := range cv.runes {
		lines[y] = strings.TrimRight(string(row), " ")
	}
	return strings.Join(lines, "\n")
}

func round(v float64) int { return int(math.Round(v)) }

// ──────────────────────────── Rasterising ────────────────────────────

// canvasSize is the canvas needed for geo, palette strip included.
func canvasSize(geo grid.Geometry) (w, h int) {
	return round(geo.RightEdge()) + 2, round(geo.Bottom()) + 2
}

// rasterize paints the draw commands onto cv in order.
func rasterize(cv *canvas, cmds []scene.Cmd) {
	for _, c := range cmds {
		switch c.Kind {
		case scene.Wire:
			cv.hline(round(c.From.X), round(c.To.X), round(c.From.Y), '─', paintWire)

		case scene.ClassicalWire:
			cv.hline(round(c.From.X), round(c.To.X), round(c.From.Y), '═', paintClassical)

		case scene.WireLabel:
			cv.text(round(c.At.X), round(c.At.Y), c.Text, paintLabel)

		case scene.Trash:
			drawTrash(cv, c)

		case scene.OracleBox:
			drawOracle(cv, c)

		case scene.Connector:
			cv.vline(round(c.From.X), round(c.From.Y), round(c.To.Y), '│', '┼', paintWire)

		case scene.MeasureLink:
			x := round(c.From.X)
			cv.vline(x, round(c.From.Y)+1, round(c.To.Y)-1, '║', '╫', paintMeasure)
			cv.set(x, round(c.To.Y), '╩', paintMeasure)

		case scene.GateGlyph:
			p := paintGate
			switch {
			case c.Flag&scene.FlagLifted != 0:
				p = paintLifted
			case c.Flag&scene.FlagInert != 0:
				p = paintInert
			}
			drawGate(cv, c, p)

		case scene.Cursor:
			x, y := round(c.At.X), round(c.At.Y)
			cv.set(x-2, y-1, '┌', paintCursor)
			cv.set(x+2, y-1, '┐', paintCursor)
			cv.set(x-2, y+1, '└', paintCursor)
			cv.set(x+2, y+1, '┘', paintCursor)

		case scene.Ghost:
			sym, _, _ := strings.Cut(c.Text, " ")
			cv.textCentered(c.At.X, c.At.Y, "["+sym+"]", paintGhost)
		}
	}
}

// drawGate draws a gate glyph centered on its cell. Rotation angles go on
// the row below the wire.
func drawGate(cv *canvas, c scene.Cmd, p paint) {
	sym, angle, _ := strings.Cut(c.Text, " ")
	switch c.Gate {
	case circuit.Control, circuit.TargetX, circuit.TargetZ:
		cv.textCentered(c.At.X, c.At.Y, sym, p)
	default:
		cv.textCentered(c.At.X, c.At.Y, "┤"+sym+"├", p)
	}
	if angle != "" {
		if n := len([]rune(angle)); n > 5 {
			angle = string([]rune(angle)[:5])
		}
		cv.textCentered(c.At.X, c.At.Y+1, angle, p)
	}
}

func drawTrash(cv *canvas, c scene.Cmd) {
	x0, y0 := round(c.From.X), round(c.From.Y)
	w, h := round(c.To.X)-x0, round(c.To.Y)-y0
	if w < 2 || h < 1 {
		return
	}
	label := c.Text
	if len(label) > w-2 {
		label = label[:w-2]
	}
	pad := w - 2 - len(label)
	cv.text(x0, y0, "┌"+strings.Repeat("─", pad/2)+label+strings.Repeat("─", pad-pad/2)+"┐", paintTrash)
	for y := y0 + 1; y < y0+h-1; y++ {
		cv.set(x0, y, '│', paintTrash)
		cv.set(x0+w-1, y, '│', paintTrash)
	}
	if h > 1 {
		cv.text(x0, y0+h-1, "└"+strings.Repeat("─", w-2)+"┘", paintTrash)
	}
}

// drawOracle boxes the oracle's rows in its column.
func drawOracle(cv *canvas, c scene.Cmd) {
	x := round(c.From.X)
	top, bot := round(c.From.Y)-1, round(c.To.Y)+1
	for y := top; y <= bot; y++ {
		switch y {
		case top:
			cv.text(x-2, y, "┌───┐", paintOracle)
		case bot:
			cv.text(x-2, y, "└───┘", paintOracle)
		default:
			left, right := '│', '│'
			if cv.at(x-2, y) == '─' {
				left, right = '┤', '├'
			}
			cv.set(x-2, y, left, paintOracle)
			cv.text(x-1, y, "   ", paintOracle)
			cv.set(x+2, y, right, paintOracle)
		}
	}
	cv.textCentered(c.From.X, (c.From.Y+c.To.Y)/2, c.Text, paintOracle)
}

// ──────────────────────────── Panels ────────────────────────────

// renderHistogram draws one bar per outcome, most frequent first.
func renderHistogram(res sim.Result, width int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d shots\n", res.Shots)
	entries := res.Sorted()
	if len(entries) == 0 {
		sb.WriteString(dimStyle.Render("no counts"))
		return sb.String()
	}
	barW := max(width-24, 4)
	top := entries[0].Count
	for _, e := range entries {
		n := 0
		if top > 0 {
			n = e.Count * barW / top
		}
		fmt.Fprintf(&sb, "%s %s %d (%.1f%%)\n",
			activeGateStyle.Render(e.Bits),
			barStyle.Render(strings.Repeat("█", max(n, 1))),
			e.Count, 100*res.Probability(e.Bits))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// ──────────────────────────── Overlay helpers ────────────────────────────

// overlayAt composites the overlay string on top of the background at position (x, y).
// It handles ANSI escape sequences by tracking visible column positions.
func overlayAt(bg, overlay string, x, y int) string {
	bgLines := strings.Split(bg, "\n")
	ovLines := strings.Split(overlay, "\n")

	for i, ovLine := range ovLines {
		bgIdx := y + i
		if bgIdx < 0 || bgIdx >= len(bgLines) {
			continue
		}
		bgLines[bgIdx] = spliceLineAt(bgLines[bgIdx], ovLine, x)
	}
	return strings.Join(bgLines, "\n")
}

// spliceLineAt replaces visible columns starting at position x in bgLine with overlay content.
func spliceLineAt(bgLine, overlay string, x int) string {
	runes := []rune(bgLine)
	ovWidth := visibleLen(overlay)

	var prefix, suffix strings.Builder
	col, i := 0, 0

	for i < len(runes) && col < x {
		if runes[i] == '\x1b' {
			i = copyEscape(&prefix, runes, i)
			continue
		}
		prefix.WriteRune(runes[i])
		col++
		i++
	}
	for col < x {
		prefix.WriteRune(' ')
		col++
	}

	skipped := 0
	for i < len(runes) && skipped < ovWidth {
		if runes[i] == '\x1b' {
			i = copyEscape(nil, runes, i)
			continue
		}
		skipped++
		i++
	}

	for ; i < len(runes); i++ {
		suffix.WriteRune(runes[i])
	}

	// Reset styles so the overlay does not inherit the background's.
	return prefix.String() + "\x1b[0m" + overlay + suffix.String()
}

// copyEscape consumes one ANSI escape sequence starting at i, writing it to
// sb when sb is not nil, and returns the index after it.
func copyEscape(sb *strings.Builder, runes []rune, i int) int {
	for j := i; j < len(runes); j++ {
		if sb != nil {
			sb.WriteRune(runes[j])
		}
		r := runes[j]
		if j > i && r != '[' && ((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')) {
			return j + 1
		}
	}
	return len(runes)
}

// visibleLen returns the number of visible (non-ANSI-escape) characters in a string.
func visibleLen(s string) int {
	n := 0
	inEsc := false
	for _, r := range s {
		if r == '\x1b' {
			inEsc = true
			continue
		}
		if inEsc {
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				inEsc = false
			}
			continue
		}
		n++
	}
	return n
}
