package editor

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/dshills/quire/internal/renderer/backend"
	"github.com/dshills/quire/internal/renderer/viewport"
)

// DocumentStatus summarizes the document for the status bar.
type DocumentStatus struct {
	TotalLines       int
	CurrentLineIndex int
	IsModified       bool
	FileName         string
}

// ModifiedIndicator returns "(modified)" for a changed document.
func (s DocumentStatus) ModifiedIndicator() string {
	if s.IsModified {
		return "(modified)"
	}
	return ""
}

// LineCount returns the line count text.
func (s DocumentStatus) LineCount() string {
	return fmt.Sprintf("%d lines", s.TotalLines)
}

// PositionIndicator returns the one-based cursor line over the total.
func (s DocumentStatus) PositionIndicator() string {
	return fmt.Sprintf("%d/%d", s.CurrentLineIndex+1, s.TotalLines)
}

// StatusBar shows the document status in an inverted row.
type StatusBar struct {
	current     DocumentStatus
	width       int
	visible     bool
	needsRender bool
}

// Ensure StatusBar implements Component.
var _ Component = (*StatusBar)(nil)

// NewStatusBar creates an empty status bar.
func NewStatusBar() *StatusBar {
	return &StatusBar{needsRender: true}
}

// Update sets the status to show. Unchanged status does not repaint.
func (sb *StatusBar) Update(status DocumentStatus) {
	if status != sb.current {
		sb.current = status
		sb.needsRender = true
	}
}

func (sb *StatusBar) Resize(size viewport.Size) {
	sb.width = size.Width
	sb.visible = size.Height > 0 && size.Width > 0
	sb.needsRender = true
}

func (sb *StatusBar) NeedsRender() bool {
	return sb.needsRender
}

func (sb *StatusBar) Render(out backend.Backend, originRow int) {
	if !sb.needsRender {
		return
	}
	sb.needsRender = false
	if !sb.visible {
		return
	}

	out.MoveCursorTo(viewport.Position{Row: originRow})
	out.ClearLine()
	out.PrintInverted(padRight(sb.Text(), sb.width))
}

// Text returns the status line for the current width: the file name, line
// count and modified marker on the left, the position on the right. It is
// empty when the line does not fit.
func (sb *StatusBar) Text() string {
	s := sb.current
	left := fmt.Sprintf("%s - %s %s", s.FileName, s.LineCount(), s.ModifiedIndicator())
	right := s.PositionIndicator()

	leftWidth := runewidth.StringWidth(left)
	rightWidth := runewidth.StringWidth(right)
	if leftWidth+rightWidth > sb.width {
		return ""
	}
	return left + strings.Repeat(" ", sb.width-leftWidth-rightWidth) + right
}

// padRight pads s with spaces to width columns.
func padRight(s string, width int) string {
	if n := width - runewidth.StringWidth(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}
