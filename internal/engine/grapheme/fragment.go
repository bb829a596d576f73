// Package grapheme represents a single line of text as a sequence of
// user-perceived characters (grapheme clusters), each annotated with the
// number of terminal columns it occupies and an optional display
// substitution for characters that cannot be printed as-is.
//
// Three coordinate spaces meet here:
//
//  1. Bytes: how Go stores the text.
//  2. Graphemes: what the cursor addresses. "e" + U+0301 is one grapheme.
//  3. Columns: what the terminal draws. CJK and most emoji take two.
//
// A Line only ever exposes graphemes and columns; bytes stay internal.
package grapheme

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// Width is the number of terminal columns a fragment occupies.
type Width int

const (
	// Half is a single-column glyph.
	Half Width = 1
	// Full is a double-column glyph (wide East Asian characters, emoji).
	Full Width = 2
)

// Display substitutions for graphemes that would otherwise render as
// nothing, or as something misleading.
const (
	ReplacementTab        = ' '
	ReplacementWhitespace = '␣'
	ReplacementControl    = '▯'
	ReplacementZeroWidth  = '·'
)

// Truncation is rendered in place of a glyph that straddles the edge of
// the visible column range.
const Truncation = "~"

// widthCondition treats ambiguous-width characters as narrow regardless of
// the user's locale so layout is stable across terminals.
var widthCondition = newWidthCondition()

func newWidthCondition() *runewidth.Condition {
	c := runewidth.NewCondition()
	c.EastAsianWidth = false
	return c
}

// Fragment is one grapheme cluster of a line.
// Width and Replacement are derived from Grapheme when the fragment is
// built and never change afterwards.
type Fragment struct {
	// Grapheme is the stored text, possibly several code points.
	Grapheme string

	// Width is the rendered width in columns.
	Width Width

	// Replacement is drawn instead of Grapheme when non-zero.
	Replacement rune
}

// NewFragment builds a fragment for a single grapheme cluster.
func NewFragment(cluster string) Fragment {
	cols := widthCondition.StringWidth(cluster)
	f := Fragment{
		Grapheme:    cluster,
		Width:       Half,
		Replacement: replacementFor(cluster, cols),
	}
	if cols >= 2 {
		f.Width = Full
	}
	return f
}

// HasReplacement reports whether the fragment is drawn with a substitute.
func (f Fragment) HasReplacement() bool {
	return f.Replacement != 0
}

// Display returns the text that is drawn for the fragment.
func (f Fragment) Display() string {
	if f.HasReplacement() {
		return string(f.Replacement)
	}
	return f.Grapheme
}

// replacementFor decides the display substitute of a cluster whose
// measured width is cols. Zero is returned when the cluster prints as-is.
func replacementFor(cluster string, cols int) rune {
	switch {
	case cluster == " ":
		return 0
	case cluster == "\t":
		return ReplacementTab
	case cols > 0 && strings.TrimSpace(cluster) == "":
		return ReplacementWhitespace
	case cols == 0:
		r, size := utf8.DecodeRuneInString(cluster)
		if size == len(cluster) && unicode.IsControl(r) {
			return ReplacementControl
		}
		return ReplacementZeroWidth
	default:
		return 0
	}
}
