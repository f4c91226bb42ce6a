package main

import (
	"fmt"
	"math"
	"strings"

	"qcompose/internal/circuit"
	"qcompose/internal/grid"
	"qcompose/internal/tutorial"
)

// paletteItem is one draggable gate template.
type paletteItem struct {
	kind circuit.Kind
	name string
	icon string
}

var palette = buildPalette()

func buildPalette() []paletteItem {
	var items []paletteItem
	for _, k := range circuit.Kinds() {
		items = append(items, paletteItem{kind: k, name: k.Label(), icon: iconFor(k)})
	}
	return items
}

// iconFor is the three-column glyph for k: boxed letters for single-qubit
// gates, bare symbols on the wire for controls and targets.
func iconFor(k circuit.Kind) string {
	switch k {
	case circuit.Control, circuit.TargetX, circuit.TargetZ:
		return "─" + k.Symbol() + "─"
	case circuit.RotateX, circuit.RotateY, circuit.RotateZ:
		return k.Symbol() + "θ"
	}
	return "┤" + k.Symbol() + "├"
}

// paletteCenter is where item i is drawn on the canvas.
func paletteCenter(l grid.Layout, i int) grid.Point {
	return grid.Point{X: l.XOffset + float64(i)*l.CellWidth, Y: paletteRowY}
}

// paletteHit returns the palette item under (x, y).
func paletteHit(l grid.Layout, x, y float64) (paletteItem, bool) {
	if math.Abs(y-paletteRowY) > 1 {
		return paletteItem{}, false
	}
	for i, it := range palette {
		c := paletteCenter(l, i)
		if math.Abs(x-c.X) <= 2 {
			return it, true
		}
	}
	return paletteItem{}, false
}

// drawPalette paints the palette strip above the grid.
func drawPalette(cv *canvas, l grid.Layout) {
	cv.text(0, paletteRowY, "gates", paintLabel)
	for i, it := range palette {
		c := paletteCenter(l, i)
		cv.textCentered(c.X, c.Y, it.icon, paintPalette)
	}
}

// renderMenu renders the keyboard gate picker.
func (m Model) renderMenu() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Add Gate"))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(strings.Repeat("─", 28)))
	sb.WriteString("\n")

	for i, item := range palette {
		if i == m.menuItem {
			sb.WriteString(menuSelectedStyle.Render(" ▸ "))
			sb.WriteString(menuSelectedStyle.Render(fmt.Sprintf("%-12s", item.name)))
			sb.WriteString(gateStyle.Render(item.kind.Symbol()))
		} else {
			sb.WriteString("   ")
			sb.WriteString(menuNormalStyle.Render(fmt.Sprintf("%-12s", item.name)))
			sb.WriteString(dimStyle.Render(item.kind.Symbol()))
		}
		if item.kind.IsRotation() {
			sb.WriteString(dimStyle.Render(" (θ)"))
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "%s", dimStyle.Render(fmt.Sprintf(" drops on q[%d] col %d", m.cursor.Row, m.cursor.Col)))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(" ↑↓ Select  ⏎ Ok  Esc ✕"))

	return menuBorderStyle.Render(sb.String())
}

// oracleChoices are the functions offered when defining the oracle. The
// last entry removes the oracle.
var oracleChoices = tutorial.AllOracles()

// renderOracleMenu renders the oracle function picker.
func (m Model) renderOracleMenu() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Define Oracle"))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(strings.Repeat("─", 34)))
	sb.WriteString("\n")

	for i := 0; i <= len(oracleChoices); i++ {
		label := "Remove oracle"
		if i < len(oracleChoices) {
			label = oracleChoices[i].String()
		}
		if i == m.oracleItem {
			sb.WriteString(menuSelectedStyle.Render(" ▸ " + label))
		} else {
			sb.WriteString(menuNormalStyle.Render("   " + label))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(dimStyle.Render(" ↑↓ Select  ⏎ Ok  Esc ✕"))
	return menuBorderStyle.Render(sb.String())
}
