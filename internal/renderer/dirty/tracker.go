package dirty

import "sort"

// ChangeType represents what happened to the rendered area.
type ChangeType uint8

const (
	// ChangeLine indicates the content of one line changed in place.
	ChangeLine ChangeType = iota

	// ChangeStructure indicates lines were inserted or removed, shifting
	// every row below the change.
	ChangeStructure

	// ChangeScroll indicates the viewport scrolled.
	ChangeScroll

	// ChangeResize indicates the area was resized.
	ChangeResize
)

// String returns the string representation of the change type.
func (ct ChangeType) String() string {
	switch ct {
	case ChangeLine:
		return "line"
	case ChangeStructure:
		return "structure"
	case ChangeScroll:
		return "scroll"
	case ChangeResize:
		return "resize"
	default:
		return "unknown"
	}
}

// Tracker tracks dirty rows and coalesces them for efficient rendering.
// It is not safe for concurrent use.
type Tracker struct {
	// regions contains the current dirty regions, disjoint and non-adjacent.
	regions []Region

	// fullRedraw indicates every row needs redrawing.
	fullRedraw bool

	// height is the number of rows in the tracked area.
	height int

	// maxRegions is the maximum number of regions before forcing full redraw.
	maxRegions int

	// coalesceThreshold is the fraction of rows that triggers full redraw.
	coalesceThreshold float64
}

// NewTracker creates a tracker for an area of the given height.
// A new tracker starts with a full redraw pending so the first paint
// covers everything. Negative heights are treated as zero.
func NewTracker(height int) *Tracker {
	return &Tracker{
		regions:           make([]Region, 0, 8),
		fullRedraw:        true,
		height:            max(height, 0),
		maxRegions:        16,
		coalesceThreshold: 0.5,
	}
}

// Height returns the number of tracked rows.
func (t *Tracker) Height() int {
	return t.height
}

// SetHeight updates the area height and schedules a full redraw.
func (t *Tracker) SetHeight(height int) {
	t.height = max(height, 0)
	t.MarkFullRedraw()
}

// MarkFullRedraw marks every row as needing redraw.
func (t *Tracker) MarkFullRedraw() {
	t.fullRedraw = true
	t.regions = t.regions[:0]
}

// MarkRow marks a single row as dirty. Rows outside the area are ignored.
func (t *Tracker) MarkRow(row int) {
	t.addRegion(NewSingleRow(row))
}

// MarkFrom marks row and every row below it as dirty.
func (t *Tracker) MarkFrom(row int) {
	t.addRegion(NewRowRegion(row, t.height-1))
}

// MarkChange marks rows dirty according to a change at row.
func (t *Tracker) MarkChange(ct ChangeType, row int) {
	switch ct {
	case ChangeLine:
		t.MarkRow(row)
	case ChangeStructure:
		t.MarkFrom(row)
	default:
		t.MarkFullRedraw()
	}
}

// addRegion adds a region and coalesces with existing regions.
func (t *Tracker) addRegion(region Region) {
	if t.fullRedraw || t.height == 0 {
		return
	}
	if region.EndRow < 0 || region.StartRow >= t.height {
		return
	}
	region = region.Clamp(t.height)
	if region.IsEmpty() {
		return
	}

	t.regions = append(t.regions, region)
	t.coalesceRegions()

	if len(t.regions) > t.maxRegions || t.dirtyRatio() > t.coalesceThreshold {
		t.MarkFullRedraw()
	}
}

// coalesceRegions merges overlapping or adjacent regions and keeps them
// sorted by start row.
func (t *Tracker) coalesceRegions() {
	if len(t.regions) <= 1 {
		return
	}

	sort.Slice(t.regions, func(i, j int) bool {
		return t.regions[i].StartRow < t.regions[j].StartRow
	})

	merged := t.regions[:1]
	for _, r := range t.regions[1:] {
		last := &merged[len(merged)-1]
		if m, ok := last.Merge(r); ok {
			*last = m
			continue
		}
		merged = append(merged, r)
	}
	t.regions = merged
}

// dirtyRatio returns the fraction of rows that are dirty.
func (t *Tracker) dirtyRatio() float64 {
	if t.height == 0 {
		return 0
	}
	rows := 0
	for _, r := range t.regions {
		rows += r.RowCount()
	}
	return float64(rows) / float64(t.height)
}

// IsDirty returns true if any row needs redrawing.
func (t *Tracker) IsDirty() bool {
	return t.fullRedraw || len(t.regions) > 0
}

// NeedsFullRedraw returns true if a full redraw is needed.
func (t *Tracker) NeedsFullRedraw() bool {
	return t.fullRedraw
}

// Regions returns a copy of the current dirty regions.
// If full redraw is needed, returns a single region covering the area.
func (t *Tracker) Regions() []Region {
	if t.fullRedraw {
		if t.height == 0 {
			return nil
		}
		return []Region{NewRowRegion(0, t.height-1)}
	}

	result := make([]Region, len(t.regions))
	copy(result, t.regions)
	return result
}

// Rows returns the dirty rows in ascending order.
func (t *Tracker) Rows() []int {
	var rows []int
	for _, r := range t.Regions() {
		for row := r.StartRow; row <= r.EndRow; row++ {
			rows = append(rows, row)
		}
	}
	return rows
}

// Clear clears all dirty rows.
func (t *Tracker) Clear() {
	t.regions = t.regions[:0]
	t.fullRedraw = false
}
