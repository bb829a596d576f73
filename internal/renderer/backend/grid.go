package backend

import (
	"strings"

	"github.com/rivo/uniseg"
)

// Cell is one terminal column. A wide grapheme occupies its first cell;
// the cell after it holds an empty continuation.
type Cell struct {
	Text     string
	Inverted bool
}

// blank is the content of an unpainted cell.
var blank = Cell{Text: " "}

// Grid is a fixed-size matrix of cells that text can be painted into.
type Grid struct {
	width, height int
	cells         [][]Cell
}

// NewGrid creates a blank grid with the given dimensions.
func NewGrid(width, height int) *Grid {
	g := &Grid{width: max(width, 0), height: max(height, 0)}
	g.allocate()
	return g
}

// allocate creates the cell rows.
func (g *Grid) allocate() {
	g.cells = make([][]Cell, g.height)
	for y := range g.cells {
		g.cells[y] = make([]Cell, g.width)
		for x := range g.cells[y] {
			g.cells[y][x] = blank
		}
	}
}

// Size returns the grid dimensions.
func (g *Grid) Size() (width, height int) {
	return g.width, g.height
}

// Resize resizes the grid, preserving content where possible.
func (g *Grid) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	if width == g.width && height == g.height {
		return
	}

	old := g.cells
	copyWidth := min(g.width, width)
	copyHeight := min(g.height, height)

	g.width, g.height = width, height
	g.allocate()

	for y := 0; y < copyHeight; y++ {
		copy(g.cells[y][:copyWidth], old[y][:copyWidth])
	}
}

// Cell returns the cell at the given position, blank when out of range.
func (g *Grid) Cell(x, y int) Cell {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return blank
	}
	return g.cells[y][x]
}

// SetString paints s starting at column x of row y, one grapheme cluster
// per cell run. Content past the right edge is dropped. It returns the
// number of columns the text covers, including clipped columns.
func (g *Grid) SetString(x, y int, s string, inverted bool) int {
	col := x
	state := -1
	for len(s) > 0 {
		var cluster string
		var boundaries int
		cluster, s, boundaries, state = uniseg.StepString(s, state)
		width := max(boundaries>>uniseg.ShiftWidth, 1)

		if y >= 0 && y < g.height && col >= 0 && col+width <= g.width {
			g.cells[y][col] = Cell{Text: cluster, Inverted: inverted}
			for i := 1; i < width; i++ {
				g.cells[y][col+i] = Cell{Inverted: inverted}
			}
		}
		col += width
	}
	return col - x
}

// ClearRow blanks row y.
func (g *Grid) ClearRow(y int) {
	if y < 0 || y >= g.height {
		return
	}
	for x := range g.cells[y] {
		g.cells[y][x] = blank
	}
}

// Clear blanks every row.
func (g *Grid) Clear() {
	for y := range g.cells {
		g.ClearRow(y)
	}
}

// Row returns the text of row y with trailing blanks removed.
func (g *Grid) Row(y int) string {
	if y < 0 || y >= g.height {
		return ""
	}
	var sb strings.Builder
	for _, c := range g.cells[y] {
		sb.WriteString(c.Text)
	}
	return strings.TrimRight(sb.String(), " ")
}

// RowInverted reports whether any cell on row y is inverted.
func (g *Grid) RowInverted(y int) bool {
	if y < 0 || y >= g.height {
		return false
	}
	for _, c := range g.cells[y] {
		if c.Inverted {
			return true
		}
	}
	return false
}
