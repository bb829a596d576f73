package editor

import (
	"strings"
	"testing"

	"github.com/dshills/quire/internal/renderer/backend"
	"github.com/dshills/quire/internal/renderer/viewport"
)

func TestDocumentStatusText(t *testing.T) {
	s := DocumentStatus{TotalLines: 12, CurrentLineIndex: 4, IsModified: true, FileName: "a.txt"}

	if got := s.LineCount(); got != "12 lines" {
		t.Errorf("LineCount = %q", got)
	}
	if got := s.PositionIndicator(); got != "5/12" {
		t.Errorf("PositionIndicator = %q", got)
	}
	if got := s.ModifiedIndicator(); got != "(modified)" {
		t.Errorf("ModifiedIndicator = %q", got)
	}

	s.IsModified = false
	if got := s.ModifiedIndicator(); got != "" {
		t.Errorf("ModifiedIndicator = %q, want empty", got)
	}
}

func TestStatusBarText(t *testing.T) {
	sb := NewStatusBar()
	sb.Resize(viewport.Size{Width: 30, Height: 1})
	sb.Update(DocumentStatus{TotalLines: 3, CurrentLineIndex: 0, FileName: "a.txt"})

	want := "a.txt - 3 lines " + strings.Repeat(" ", 11) + "1/3"
	if got := sb.Text(); got != want {
		t.Errorf("Text = %q, want %q", got, want)
	}
	if len(sb.Text()) != 30 {
		t.Errorf("len(Text) = %d, want 30", len(sb.Text()))
	}
}

func TestStatusBarTooNarrow(t *testing.T) {
	sb := NewStatusBar()
	sb.Resize(viewport.Size{Width: 10, Height: 1})
	sb.Update(DocumentStatus{TotalLines: 3, FileName: "long-name.txt"})

	if got := sb.Text(); got != "" {
		t.Errorf("Text = %q, want empty", got)
	}
}

func TestStatusBarRender(t *testing.T) {
	out := backend.NewNullBackend(30, 3)
	sb := NewStatusBar()
	sb.Resize(viewport.Size{Width: 30, Height: 1})
	sb.Update(DocumentStatus{TotalLines: 3, FileName: "a.txt", IsModified: true})

	sb.Render(out, 1)

	if !out.RowInverted(1) {
		t.Error("status row should be inverted")
	}
	if got := out.Row(1); got != "a.txt - 3 lines (modified) 1/3" {
		t.Errorf("Row(1) = %q", got)
	}

	prints := out.Prints()
	sb.Update(DocumentStatus{TotalLines: 3, FileName: "a.txt", IsModified: true})
	sb.Render(out, 1)
	if out.Prints() != prints {
		t.Error("unchanged status should not repaint")
	}

	sb.Update(DocumentStatus{TotalLines: 4, FileName: "a.txt", IsModified: true})
	if !sb.NeedsRender() {
		t.Error("changed status should need a repaint")
	}
}

func TestStatusBarHidden(t *testing.T) {
	out := backend.NewNullBackend(30, 3)
	sb := NewStatusBar()
	sb.Resize(viewport.Size{Width: 30, Height: 0})

	sb.Render(out, 0)

	if out.Prints() != 0 {
		t.Error("hidden status bar should not print")
	}
	if sb.NeedsRender() {
		t.Error("status bar should be clean after render")
	}
}
