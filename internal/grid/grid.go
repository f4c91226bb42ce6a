// Package grid maps freeform pointer coordinates onto the circuit's
// (row, column) cells and defines the trash and palette zones around it.
package grid

import "math"

// Cell addresses one slot on the circuit diagram.
type Cell struct {
	Row int
	Col int
}

// Point is a position in canvas units (pixels for the desktop preset,
// character cells for the terminal preset).
type Point struct {
	X float64
	Y float64
}

// Rect is an axis-aligned rectangle. Contains is inclusive on every edge.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Layout is the immutable set of measurements the editor is built with.
type Layout struct {
	CellWidth  float64
	RowHeight  float64
	XOffset    float64
	YOffset    float64
	MaxColumns int
	MaxQubits  int

	// Trash zone: TrashInset back from the grid's right edge, TrashTop from
	// the top of the canvas.
	TrashWidth  float64
	TrashHeight float64
	TrashInset  float64
	TrashTop    float64

	// A drop whose center is higher than YOffset-PaletteMargin goes back
	// to the palette.
	PaletteMargin float64
}

// DefaultLayout is the pixel layout of the desktop editor.
func DefaultLayout() Layout {
	return Layout{
		CellWidth:     55,
		RowHeight:     85,
		XOffset:       80,
		YOffset:       90,
		MaxColumns:    17,
		MaxQubits:     8,
		TrashWidth:    70,
		TrashHeight:   60,
		TrashInset:    90,
		TrashTop:      10,
		PaletteMargin: 40,
	}
}

// TerminalLayout measures the grid in character cells.
func TerminalLayout() Layout {
	return Layout{
		CellWidth:     6,
		RowHeight:     3,
		XOffset:       8,
		YOffset:       7,
		MaxColumns:    17,
		MaxQubits:     8,
		TrashWidth:    7,
		TrashHeight:   2,
		TrashInset:    7,
		TrashTop:      1,
		PaletteMargin: 2,
	}
}

// For binds the layout to a qubit count.
func (l Layout) For(qubits int) Geometry {
	return Geometry{Layout: l, Qubits: qubits}
}

// Geometry is a Layout plus the current qubit count. It is a value; rebuild
// it whenever the qubit count changes.
type Geometry struct {
	Layout
	Qubits int
}

// CellAt returns the nearest cell to (x, y). The result is not clamped.
func (g Geometry) CellAt(x, y float64) Cell {
	return Cell{
		Row: int(math.Round((y - g.YOffset) / g.RowHeight)),
		Col: int(math.Round((x - g.XOffset) / g.CellWidth)),
	}
}

// CellOrigin is the canvas position a gate in c is centered on.
func (g Geometry) CellOrigin(c Cell) Point {
	return Point{
		X: g.XOffset + float64(c.Col)*g.CellWidth,
		Y: g.YOffset + float64(c.Row)*g.RowHeight,
	}
}

func (g Geometry) IsAboveGrid(y float64) bool {
	return y < g.YOffset-g.PaletteMargin
}

func (g Geometry) InTrashZone(x, y float64) bool {
	return g.TrashZone().Contains(x, y)
}

func (g Geometry) OutOfBounds(c Cell) bool {
	return c.Row < 0 || c.Row >= g.Qubits || c.Col < 0 || c.Col >= g.MaxColumns
}

// Clamp pulls c into the valid cell range.
func (g Geometry) Clamp(c Cell) Cell {
	return Cell{
		Row: min(max(c.Row, 0), max(g.Qubits-1, 0)),
		Col: min(max(c.Col, 0), g.MaxColumns-1),
	}
}

// RightEdge is the x coordinate just past the last column.
func (g Geometry) RightEdge() float64 {
	return g.XOffset + g.CellWidth*float64(g.MaxColumns)
}

// Bottom is the y coordinate just past the last qubit row.
func (g Geometry) Bottom() float64 {
	return g.YOffset + g.RowHeight*float64(g.Qubits)
}

func (g Geometry) TrashZone() Rect {
	return Rect{
		X:      g.RightEdge() - g.TrashInset,
		Y:      g.TrashTop,
		Width:  g.TrashWidth,
		Height: g.TrashHeight,
	}
}

// PaletteZone is the strip above the grid that returns gates to the palette.
// It stops short of the trash zone.
func (g Geometry) PaletteZone() Rect {
	trash := g.TrashZone()
	return Rect{
		X:      0,
		Y:      0,
		Width:  trash.X,
		Height: g.YOffset - g.PaletteMargin,
	}
}

// Bounds covers every valid cell center, half a cell of slack around it.
func (g Geometry) Bounds() Rect {
	return Rect{
		X:      g.XOffset - g.CellWidth/2,
		Y:      g.YOffset - g.RowHeight/2,
		Width:  g.CellWidth * float64(g.MaxColumns),
		Height: g.RowHeight * float64(g.Qubits),
	}
}
