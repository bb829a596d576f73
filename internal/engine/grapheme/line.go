package grapheme

import (
	"strings"

	"github.com/rivo/uniseg"
)

// Line is an ordered sequence of fragments.
//
// Edits rebuild the whole line from its text and re-segment it instead of
// patching fragments in place, so widths and replacements always reflect
// the current content. That costs O(line length) per edit.
//
// The zero value is an empty line.
type Line struct {
	fragments []Fragment
}

// NewLine segments text into grapheme clusters.
func NewLine(text string) *Line {
	return &Line{fragments: segment(text)}
}

func segment(text string) []Fragment {
	if text == "" {
		return nil
	}
	fragments := make([]Fragment, 0, len(text))
	state := -1
	for len(text) > 0 {
		var cluster string
		cluster, text, _, state = uniseg.StepString(text, state)
		fragments = append(fragments, NewFragment(cluster))
	}
	return fragments
}

// Count returns the number of graphemes in the line.
func (l *Line) Count() int {
	return len(l.fragments)
}

// Fragment returns the fragment at index.
func (l *Line) Fragment(index int) (Fragment, bool) {
	if index < 0 || index >= len(l.fragments) {
		return Fragment{}, false
	}
	return l.fragments[index], true
}

// WidthUntil returns the number of columns taken by the graphemes before
// index. Indices past the end yield the width of the whole line.
func (l *Line) WidthUntil(index int) int {
	width := 0
	for i, f := range l.fragments {
		if i >= index {
			break
		}
		width += int(f.Width)
	}
	return width
}

// Width returns the rendered width of the whole line.
func (l *Line) Width() int {
	return l.WidthUntil(len(l.fragments))
}

// Visible returns the text drawn for screen columns [start, end).
// A glyph that does not fit entirely inside the range is drawn as
// Truncation; a wide glyph is never split.
func (l *Line) Visible(start, end int) string {
	if start < 0 {
		start = 0
	}
	if start >= end {
		return ""
	}

	var b strings.Builder
	col := 0
	for _, f := range l.fragments {
		if col >= end {
			break
		}
		fragEnd := col + int(f.Width)
		if fragEnd > start {
			if fragEnd > end || col < start {
				b.WriteString(Truncation)
			} else {
				b.WriteString(f.Display())
			}
		}
		col = fragEnd
	}
	return b.String()
}

// Insert inserts text before the grapheme at index and returns the number
// of graphemes between index and the end of the inserted text, which is how
// far a cursor at index moves. The result is zero when text joins the
// preceding cluster, as a combining mark or a zero width joiner does, and
// is never negative even when the line ends up with fewer graphemes.
func (l *Line) Insert(text string, index int) int {
	index = max(0, min(index, len(l.fragments)))
	offset := l.byteOffset(index)
	s := l.String()
	l.fragments = segment(s[:offset] + text + s[offset:])

	end := offset + len(text)
	n, start := 0, 0
	for _, f := range l.fragments {
		if start >= end {
			break
		}
		start += len(f.Grapheme)
		n++
	}
	return max(n-index, 0)
}

// Delete removes the grapheme at index. It reports whether anything was
// removed.
func (l *Line) Delete(index int) bool {
	if index < 0 || index >= len(l.fragments) {
		return false
	}
	var b strings.Builder
	for i, f := range l.fragments {
		if i != index {
			b.WriteString(f.Grapheme)
		}
	}
	l.fragments = segment(b.String())
	return true
}

// Append joins other to the end of the line.
func (l *Line) Append(other *Line) {
	if other == nil || len(other.fragments) == 0 {
		return
	}
	l.fragments = segment(l.String() + other.String())
}

// Split truncates the line before the grapheme at index and returns the
// removed remainder as a new line.
func (l *Line) Split(index int) *Line {
	offset := l.byteOffset(index)
	s := l.String()
	l.fragments = segment(s[:offset])
	return NewLine(s[offset:])
}

// String returns the stored text of the line. Display replacements are
// not applied.
func (l *Line) String() string {
	var b strings.Builder
	for _, f := range l.fragments {
		b.WriteString(f.Grapheme)
	}
	return b.String()
}

// byteOffset converts a grapheme index to a byte offset in String().
// Out-of-range indices are clamped.
func (l *Line) byteOffset(index int) int {
	offset := 0
	for i, f := range l.fragments {
		if i >= index {
			break
		}
		offset += len(f.Grapheme)
	}
	return offset
}
