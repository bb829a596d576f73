// Package viewport maps document coordinates onto a fixed-size window of
// terminal cells and keeps a target position inside that window by
// scrolling as little as possible.
package viewport

import "fmt"

// Size is a width and height in terminal cells.
type Size struct {
	Width  int
	Height int
}

// IsEmpty returns true if the size covers no cells.
func (s Size) IsEmpty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Position is a cell coordinate (0-indexed).
type Position struct {
	Col int
	Row int
}

// Sub returns p minus other, saturating each axis at zero.
func (p Position) Sub(other Position) Position {
	return Position{
		Col: max(p.Col-other.Col, 0),
		Row: max(p.Row-other.Row, 0),
	}
}

// String returns a debug representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Col, p.Row)
}

// Viewport represents the visible window onto the document.
//
// Rows are document lines and columns are rendered columns, so the offset
// is the document cell shown at the top-left corner of the window.
type Viewport struct {
	size   Size
	offset Position
}

// New creates a viewport of the given size scrolled to the origin.
// Negative dimensions are treated as zero.
func New(size Size) *Viewport {
	v := &Viewport{}
	v.Resize(size)
	return v
}

// Size returns the viewport size.
func (v *Viewport) Size() Size {
	return v.size
}

// Width returns the viewport width.
func (v *Viewport) Width() int {
	return v.size.Width
}

// Height returns the viewport height.
func (v *Viewport) Height() int {
	return v.size.Height
}

// Offset returns the document cell at the top-left corner.
func (v *Viewport) Offset() Position {
	return v.offset
}

// Resize updates the viewport size. The offset is left alone; callers
// re-reveal their cursor afterwards.
func (v *Viewport) Resize(size Size) {
	v.size = Size{Width: max(size.Width, 0), Height: max(size.Height, 0)}
}

// ScrollTo sets the offset directly. Negative coordinates are clamped.
func (v *Viewport) ScrollTo(offset Position) {
	v.offset = Position{Col: max(offset.Col, 0), Row: max(offset.Row, 0)}
}

// ScrollToReveal scrolls minimally so pos lies inside the viewport.
// Returns true if the offset changed. An empty viewport never scrolls.
func (v *Viewport) ScrollToReveal(pos Position) bool {
	if v.size.IsEmpty() {
		return false
	}

	before := v.offset
	v.offset.Row = reveal(v.offset.Row, v.size.Height, pos.Row)
	v.offset.Col = reveal(v.offset.Col, v.size.Width, pos.Col)
	return v.offset != before
}

// reveal returns the new start of a window of length n so that x is
// inside [start, start+n).
func reveal(start, n, x int) int {
	switch {
	case x < start:
		return max(x, 0)
	case x >= start+n:
		return x - n + 1
	default:
		return start
	}
}

// ToScreen converts a document cell to a viewport-relative cell.
func (v *Viewport) ToScreen(pos Position) Position {
	return pos.Sub(v.offset)
}

// Contains returns true if the document cell is inside the viewport.
func (v *Viewport) Contains(pos Position) bool {
	return pos.Row >= v.offset.Row && pos.Row < v.offset.Row+v.size.Height &&
		pos.Col >= v.offset.Col && pos.Col < v.offset.Col+v.size.Width
}

// LineToScreenRow converts a document line to a viewport row.
// Returns -1 if the line is not visible.
func (v *Viewport) LineToScreenRow(line int) int {
	row := line - v.offset.Row
	if row < 0 || row >= v.size.Height {
		return -1
	}
	return row
}

// ScreenRowToLine converts a viewport row to a document line.
func (v *Viewport) ScreenRowToLine(row int) int {
	return v.offset.Row + row
}

// ColumnRange returns the visible rendered columns as [start, end).
func (v *Viewport) ColumnRange() (start, end int) {
	return v.offset.Col, v.offset.Col + v.size.Width
}
