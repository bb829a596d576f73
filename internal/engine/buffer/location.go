package buffer

import "fmt"

// Location addresses a grapheme in the buffer.
// Line may equal Height(), denoting the empty position after the last line.
type Location struct {
	Line     int
	Grapheme int
}

// String returns a debug representation of the location.
func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Grapheme)
}

// Clamp returns the nearest location that exists in b.
func (b *Buffer) Clamp(loc Location) Location {
	if loc.Line < 0 {
		loc.Line = 0
	}
	if loc.Line > b.Height() {
		loc.Line = b.Height()
	}
	if loc.Grapheme < 0 {
		loc.Grapheme = 0
	}
	if n := b.LineLen(loc.Line); loc.Grapheme > n {
		loc.Grapheme = n
	}
	return loc
}
