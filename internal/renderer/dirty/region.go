// Package dirty tracks which rows of a rendered area are stale and must be
// repainted. Adjacent or overlapping row ranges are coalesced, and once most
// of the area is dirty the tracker switches to a full redraw.
package dirty

// Region is a range of full-width rows, both ends inclusive.
type Region struct {
	StartRow int
	EndRow   int
}

// NewRowRegion creates a region covering rows start through end.
func NewRowRegion(start, end int) Region {
	if end < start {
		start, end = end, start
	}
	return Region{StartRow: start, EndRow: end}
}

// NewSingleRow creates a region for a single row.
func NewSingleRow(row int) Region {
	return Region{StartRow: row, EndRow: row}
}

// IsEmpty returns true if the region covers no rows.
func (r Region) IsEmpty() bool {
	return r.StartRow > r.EndRow
}

// RowCount returns the number of rows covered by the region.
func (r Region) RowCount() int {
	if r.IsEmpty() {
		return 0
	}
	return r.EndRow - r.StartRow + 1
}

// ContainsRow returns true if the region covers the given row.
func (r Region) ContainsRow(row int) bool {
	return row >= r.StartRow && row <= r.EndRow
}

// Overlaps returns true if two regions share a row.
func (r Region) Overlaps(other Region) bool {
	return r.StartRow <= other.EndRow && other.StartRow <= r.EndRow
}

// Adjacent returns true if one region ends right before the other starts.
func (r Region) Adjacent(other Region) bool {
	return r.EndRow+1 == other.StartRow || other.EndRow+1 == r.StartRow
}

// Merge combines two regions into a single region that covers both.
// Returns false when the regions neither overlap nor touch.
func (r Region) Merge(other Region) (Region, bool) {
	if !r.Overlaps(other) && !r.Adjacent(other) {
		return Region{}, false
	}
	return Region{
		StartRow: min(r.StartRow, other.StartRow),
		EndRow:   max(r.EndRow, other.EndRow),
	}, true
}

// Clamp restricts the region to rows [0, height).
func (r Region) Clamp(height int) Region {
	if r.StartRow < 0 {
		r.StartRow = 0
	}
	if r.EndRow > height-1 {
		r.EndRow = height - 1
	}
	return r
}
