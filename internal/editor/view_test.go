package editor

import (
	"errors"
	"fmt"
	"io/fs"
	"math/rand"
	"strings"
	"testing"

	"github.com/dshills/quire/internal/command"
	"github.com/dshills/quire/internal/engine/buffer"
	"github.com/dshills/quire/internal/renderer/backend"
	"github.com/dshills/quire/internal/renderer/viewport"
)

// newTestView creates a view over text, sized width x height.
func newTestView(text string, width, height int, opts ...ViewOption) *View {
	v := NewView(opts...)
	v.buf = buffer.NewFromString(text)
	v.Resize(viewport.Size{Width: width, Height: height})
	return v
}

func numberedLines(n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i)
	}
	return strings.Join(lines, "\n")
}

func run(v *View, cmds ...command.Command) {
	for _, cmd := range cmds {
		v.HandleCommand(cmd)
	}
}

var (
	up        = command.Move{Direction: command.Up}
	down      = command.Move{Direction: command.Down}
	left      = command.Move{Direction: command.Left}
	right     = command.Move{Direction: command.Right}
	home      = command.Move{Direction: command.Home}
	end       = command.Move{Direction: command.End}
	pageUp    = command.Move{Direction: command.PageUp}
	pageDown  = command.Move{Direction: command.PageDown}
	newline   = command.InsertNewline{}
	del       = command.DeleteForward{}
	backspace = command.DeleteBackward{}
)

func TestViewDownThenLeftWrapsToPreviousLine(t *testing.T) {
	v := newTestView(numberedLines(11), 40, 10)

	run(v, down, down, down, left)

	want := buffer.Location{Line: 2, Grapheme: len("line 2")}
	if v.Location() != want {
		t.Errorf("Location = %v, want %v", v.Location(), want)
	}
}

func TestViewInsertIntoEmptyBuffer(t *testing.T) {
	v := newTestView("", 20, 5)

	v.HandleCommand(command.Insert{Char: 'A'})

	if v.Buffer().Height() != 1 {
		t.Fatalf("Height = %d, want 1", v.Buffer().Height())
	}
	if got := v.Buffer().Line(0).String(); got != "A" {
		t.Errorf("line 0 = %q, want %q", got, "A")
	}
	if want := (buffer.Location{Line: 0, Grapheme: 1}); v.Location() != want {
		t.Errorf("Location = %v, want %v", v.Location(), want)
	}
	if !v.Buffer().IsModified() {
		t.Error("buffer should be modified")
	}

	out := backend.NewNullBackend(20, 5)
	v.Render(out, 0)
	if got := out.Row(0); got != "A" {
		t.Errorf("Row(0) = %q, want %q", got, "A")
	}
	if got := out.Row(1); got != Filler {
		t.Errorf("Row(1) = %q, want filler", got)
	}
}

func TestViewWideGlyphAtBoundary(t *testing.T) {
	v := newTestView("a\u4e2db", 2, 3)
	out := backend.NewNullBackend(2, 3)

	v.Render(out, 0)

	if got := out.Row(0); got != "a~" {
		t.Errorf("Row(0) = %q, want %q", got, "a~")
	}
}

func TestViewRenderIsIdempotent(t *testing.T) {
	v := newTestView(numberedLines(5), 20, 4)
	out := backend.NewNullBackend(20, 4)

	v.Render(out, 0)
	prints := out.Prints()
	if prints != 4 {
		t.Errorf("first render printed %d rows, want 4", prints)
	}
	if v.NeedsRender() {
		t.Error("view should be clean after render")
	}

	v.Render(out, 0)
	if out.Prints() != prints {
		t.Errorf("second render printed %d rows, want 0", out.Prints()-prints)
	}
}

func TestViewMoveWithoutScrollPaintsNothing(t *testing.T) {
	v := newTestView(numberedLines(5), 20, 4)
	out := backend.NewNullBackend(20, 4)
	v.Render(out, 0)
	prints := out.Prints()

	run(v, down, right, end)
	v.Render(out, 0)

	if out.Prints() != prints {
		t.Errorf("cursor movement repainted %d rows", out.Prints()-prints)
	}
}

func TestViewInsertRepaintsOnlyEditedRow(t *testing.T) {
	v := newTestView(numberedLines(5), 20, 10)
	out := backend.NewNullBackend(20, 10)
	v.Render(out, 0)
	prints := out.Prints()

	run(v, down, command.Insert{Char: '>'})
	v.Render(out, 0)

	if got := out.Prints() - prints; got != 1 {
		t.Errorf("insert repainted %d rows, want 1", got)
	}
	if got := out.Row(1); got != ">line 1" {
		t.Errorf("Row(1) = %q, want %q", got, ">line 1")
	}
}

func TestViewNewlineRepaintsBelow(t *testing.T) {
	v := newTestView(numberedLines(3), 20, 10)
	out := backend.NewNullBackend(20, 10)
	v.Render(out, 0)

	run(v, down, end, left, left, newline)
	v.Render(out, 0)

	want := []string{"line 0", "line", " 1", "line 2", Filler}
	for row, w := range want {
		if got := out.Row(row); got != w {
			t.Errorf("Row(%d) = %q, want %q", row, got, w)
		}
	}
	if loc := v.Location(); loc != (buffer.Location{Line: 2, Grapheme: 0}) {
		t.Errorf("Location = %v, want 2:0", loc)
	}
}

func TestViewScrollsToRevealCursor(t *testing.T) {
	v := newTestView(numberedLines(20), 20, 5)

	for i := 0; i < 7; i++ {
		v.HandleCommand(down)
	}

	if got := v.Viewport().Offset(); got.Row != 3 {
		t.Errorf("offset row = %d, want 3", got.Row)
	}
	if got := v.CursorPosition(); got != (viewport.Position{Col: 0, Row: 4}) {
		t.Errorf("CursorPosition = %v, want (0,4)", got)
	}

	out := backend.NewNullBackend(20, 5)
	v.Render(out, 0)
	if got := out.Row(0); got != "line 3" {
		t.Errorf("Row(0) = %q, want %q", got, "line 3")
	}
}

func TestViewInsertAfterScrollRepaintsCursorRow(t *testing.T) {
	v := newTestView(numberedLines(20), 20, 5)
	for i := 0; i < 7; i++ {
		v.HandleCommand(down)
	}
	out := backend.NewNullBackend(20, 5)
	v.Render(out, 0)
	prints := out.Prints()

	v.HandleCommand(command.Insert{Char: '>'})
	v.Render(out, 0)

	if got := out.Prints() - prints; got != 1 {
		t.Errorf("insert repainted %d rows, want 1", got)
	}
	if got := out.Row(4); got != ">line 7" {
		t.Errorf("Row(4) = %q, want %q", got, ">line 7")
	}
	if got := out.Row(0); got != "line 3" {
		t.Errorf("Row(0) = %q, want %q", got, "line 3")
	}
}

func TestViewHorizontalScroll(t *testing.T) {
	v := newTestView("abcdefghij", 4, 2)

	v.HandleCommand(end)

	if got := v.Viewport().Offset().Col; got != 7 {
		t.Errorf("offset col = %d, want 7", got)
	}
	out := backend.NewNullBackend(4, 2)
	v.Render(out, 0)
	if got := out.Row(0); got != "hij" {
		t.Errorf("Row(0) = %q, want %q", got, "hij")
	}
}

func TestViewMoves(t *testing.T) {
	text := "short\na much longer line\nmid"
	tests := []struct {
		name string
		cmds []command.Command
		want buffer.Location
	}{
		{"right at line end goes to next line", []command.Command{end, right}, buffer.Location{Line: 1, Grapheme: 0}},
		{"right at end of last line stays", []command.Command{down, down, end, right}, buffer.Location{Line: 2, Grapheme: 3}},
		{"down snaps to shorter line", []command.Command{down, end, down}, buffer.Location{Line: 2, Grapheme: 3}},
		{"up snaps to shorter line", []command.Command{down, end, up}, buffer.Location{Line: 0, Grapheme: 5}},
		{"up at top stays", []command.Command{up, up}, buffer.Location{Line: 0, Grapheme: 0}},
		{"down clamps to height", []command.Command{down, down, down, down, down}, buffer.Location{Line: 3, Grapheme: 0}},
		{"left at origin stays", []command.Command{left}, buffer.Location{Line: 0, Grapheme: 0}},
		{"home", []command.Command{end, home}, buffer.Location{Line: 0, Grapheme: 0}},
		{"page down", []command.Command{pageDown}, buffer.Location{Line: 2, Grapheme: 0}},
		{"page up", []command.Command{pageDown, pageDown, pageUp}, buffer.Location{Line: 1, Grapheme: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestView(text, 40, 3)
			run(v, tt.cmds...)
			if v.Location() != tt.want {
				t.Errorf("Location = %v, want %v", v.Location(), tt.want)
			}
		})
	}
}

func TestViewRightStopsAtEndOfBuffer(t *testing.T) {
	v := newTestView("ab\ncd", 20, 5)

	run(v, down, end, right, right)

	if want := (buffer.Location{Line: 1, Grapheme: 2}); v.Location() != want {
		t.Errorf("Location = %v, want %v", v.Location(), want)
	}
	if got := v.Buffer().Height(); got != 2 {
		t.Errorf("Height = %d, want 2", got)
	}
}

func TestViewBackspace(t *testing.T) {
	v := newTestView("ab\ncd", 20, 5)

	v.HandleCommand(backspace)
	if v.Buffer().IsModified() {
		t.Error("backspace at origin should not modify")
	}

	run(v, down, backspace)
	if got := v.Buffer().Text(); got != "abcd" {
		t.Errorf("Text = %q, want %q", got, "abcd")
	}
	if want := (buffer.Location{Line: 0, Grapheme: 2}); v.Location() != want {
		t.Errorf("Location = %v, want %v", v.Location(), want)
	}

	run(v, end, backspace)
	if got := v.Buffer().Text(); got != "abc" {
		t.Errorf("Text = %q, want %q", got, "abc")
	}
}

func TestViewDeleteForward(t *testing.T) {
	v := newTestView("ab\ncd", 20, 5)

	run(v, del)
	if got := v.Buffer().Text(); got != "b\ncd" {
		t.Errorf("Text = %q, want %q", got, "b\ncd")
	}

	run(v, end, del)
	if got := v.Buffer().Text(); got != "bcd" {
		t.Errorf("Text = %q, want %q", got, "bcd")
	}

	run(v, end, del)
	if got := v.Buffer().Text(); got != "bcd" {
		t.Errorf("delete at end of document changed text to %q", got)
	}
}

func TestViewInsertCombiningMark(t *testing.T) {
	v := newTestView("e", 20, 5)

	run(v, end, command.Insert{Char: '\u0301'})

	if got := v.Buffer().Line(0).String(); got != "e\u0301" {
		t.Errorf("line = %q, want e + combining acute", got)
	}
	if want := (buffer.Location{Line: 0, Grapheme: 1}); v.Location() != want {
		t.Errorf("Location = %v, want %v", v.Location(), want)
	}
}

func TestViewInsertJoinerKeepsCursor(t *testing.T) {
	v := newTestView("\U0001F44D\U0001F44D", 20, 5)

	run(v, right, command.Insert{Char: '\u200d'})

	if got := v.Buffer().LineLen(0); got != 1 {
		t.Fatalf("LineLen = %d, want 1 merged cluster", got)
	}
	if want := (buffer.Location{Line: 0, Grapheme: 1}); v.Location() != want {
		t.Errorf("Location = %v, want %v", v.Location(), want)
	}
}

func TestViewInsertLineBreakChar(t *testing.T) {
	for _, ch := range []rune{'\n', '\r'} {
		t.Run(fmt.Sprintf("%q", ch), func(t *testing.T) {
			v := newTestView("abcd", 20, 5)

			run(v, right, right, command.Insert{Char: ch})

			if got := v.Buffer().Height(); got != 2 {
				t.Fatalf("Height = %d, want 2", got)
			}
			if got := v.Buffer().Line(0).String(); got != "ab" {
				t.Errorf("line 0 = %q, want %q", got, "ab")
			}
			if got := v.Buffer().Line(1).String(); got != "cd" {
				t.Errorf("line 1 = %q, want %q", got, "cd")
			}
			if want := (buffer.Location{Line: 1, Grapheme: 0}); v.Location() != want {
				t.Errorf("Location = %v, want %v", v.Location(), want)
			}
		})
	}
}

func TestViewCursorOnWideGlyphs(t *testing.T) {
	v := newTestView("\u4e2d\u6587x", 20, 5)

	run(v, right, right)

	if got := v.CursorPosition(); got.Col != 4 {
		t.Errorf("cursor col = %d, want 4", got.Col)
	}
}

func TestViewWelcomeBanner(t *testing.T) {
	v := newTestView("", 60, 9, WithVersion("1.2.3"))
	out := backend.NewNullBackend(60, 9)

	v.Render(out, 0)

	banner := out.Row(3)
	if !strings.HasPrefix(banner, Filler+" ") || !strings.HasSuffix(banner, "quire editor -- version 1.2.3") {
		t.Errorf("banner row = %q", banner)
	}
	for _, row := range []int{0, 1, 2, 4, 8} {
		if got := out.Row(row); got != Filler {
			t.Errorf("Row(%d) = %q, want filler", row, got)
		}
	}
}

func TestViewWelcomeDisabled(t *testing.T) {
	v := newTestView("", 60, 9, WithWelcome(false))
	out := backend.NewNullBackend(60, 9)

	v.Render(out, 0)

	if got := out.Row(3); got != Filler {
		t.Errorf("Row(3) = %q, want filler", got)
	}
}

func TestWelcomeMessage(t *testing.T) {
	msg := "quire editor -- version 1.0"
	tests := []struct {
		width int
		want  string
	}{
		{len(msg), Filler},
		{len(msg) + 1, Filler + msg},
		{len(msg) + 5, Filler + "  " + msg},
		{0, Filler},
	}

	for _, tt := range tests {
		if got := WelcomeMessage("1.0", tt.width); got != tt.want {
			t.Errorf("WelcomeMessage(width=%d) = %q, want %q", tt.width, got, tt.want)
		}
	}
}

func TestViewRenderAtOrigin(t *testing.T) {
	v := newTestView("x", 10, 2)
	out := backend.NewNullBackend(10, 5)

	v.Render(out, 3)

	if got := out.Row(3); got != "x" {
		t.Errorf("Row(3) = %q, want %q", got, "x")
	}
	if got := out.Row(0); got != "" {
		t.Errorf("Row(0) = %q, want empty", got)
	}
}

func TestViewZeroSize(t *testing.T) {
	v := newTestView("text", 0, 0)
	out := backend.NewNullBackend(10, 5)

	v.HandleCommand(down)
	v.Render(out, 0)

	if out.Prints() != 0 {
		t.Errorf("zero-size view printed %d times", out.Prints())
	}
}

func TestViewLoad(t *testing.T) {
	memfs := buffer.NewMemFS()
	memfs.AddFile("/notes.txt", "first\nsecond\n")
	v := NewView(WithBufferOptions(buffer.WithFileSystem(memfs)))
	v.Resize(viewport.Size{Width: 20, Height: 5})

	if err := v.Load("/notes.txt"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	status := v.Status()
	if status.FileName != "notes.txt" || status.TotalLines != 2 {
		t.Errorf("Status = %+v", status)
	}

	err := v.Load("/missing.txt")
	var fileErr *buffer.FileError
	if !errors.As(err, &fileErr) || !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("Load missing = %v, want FileError wrapping ErrNotExist", err)
	}
	if got := v.Buffer().Text(); got != "first\nsecond" {
		t.Errorf("failed load replaced the document: %q", got)
	}
}

func TestViewSave(t *testing.T) {
	memfs := buffer.NewMemFS()
	memfs.AddFile("/a.txt", "a\n")
	v := NewView(WithBufferOptions(buffer.WithFileSystem(memfs)))
	v.Resize(viewport.Size{Width: 20, Height: 5})
	if err := v.Load("/a.txt"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	run(v, end, command.Insert{Char: 'b'})
	if err := v.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if got, _ := memfs.Contents("/a.txt"); got != "ab\n" {
		t.Errorf("saved %q, want %q", got, "ab\n")
	}
	if v.Status().IsModified {
		t.Error("status should not be modified after save")
	}

	memfs.WriteErr = fs.ErrPermission
	run(v, command.Insert{Char: 'c'})
	if err := v.Save(); !errors.Is(err, fs.ErrPermission) {
		t.Errorf("Save = %v, want ErrPermission", err)
	}
	if !v.Status().IsModified {
		t.Error("failed save should keep the modified flag")
	}
}

func TestViewStatus(t *testing.T) {
	v := newTestView(numberedLines(4), 20, 5)

	run(v, down, down)

	want := DocumentStatus{TotalLines: 4, CurrentLineIndex: 2, FileName: buffer.NoName}
	if got := v.Status(); got != want {
		t.Errorf("Status = %+v, want %+v", got, want)
	}
}

func TestViewResizeRevealsCursor(t *testing.T) {
	v := newTestView(numberedLines(30), 20, 20)
	for i := 0; i < 15; i++ {
		v.HandleCommand(down)
	}

	v.HandleCommand(command.Resize{Size: viewport.Size{Width: 20, Height: 5}})

	pos := v.CursorPosition()
	if pos.Row < 0 || pos.Row >= 5 {
		t.Errorf("cursor row %d outside the resized view", pos.Row)
	}
	if !v.NeedsRender() {
		t.Error("resize should schedule a repaint")
	}
}

// TestViewInvariants drives the view with random commands and checks that
// the cursor always addresses a valid location and stays on screen.
func TestViewInvariants(t *testing.T) {
	cmds := []command.Command{
		up, down, left, right, home, end, pageUp, pageDown,
		newline, del, backspace,
		command.Insert{Char: 'x'},
		command.Insert{Char: '\u4e2d'},
		command.Insert{Char: '\t'},
		command.Insert{Char: '\u0301'},
		command.Insert{Char: '\u200d'},
		command.Insert{Char: '\n'},
	}
	rng := rand.New(rand.NewSource(7))

	v := newTestView("alpha\n\u4e2d\u6587 text\n\nlast line here", 8, 4)
	out := backend.NewNullBackend(8, 4)

	for i := 0; i < 2000; i++ {
		cmd := cmds[rng.Intn(len(cmds))]
		v.HandleCommand(cmd)

		loc := v.Location()
		buf := v.Buffer()
		if loc.Line < 0 || loc.Line > buf.Height() {
			t.Fatalf("step %d (%v): line %d outside [0,%d]", i, cmd, loc.Line, buf.Height())
		}
		if loc.Grapheme < 0 || loc.Grapheme > buf.LineLen(loc.Line) {
			t.Fatalf("step %d (%v): grapheme %d outside [0,%d]", i, cmd, loc.Grapheme, buf.LineLen(loc.Line))
		}

		pos := v.CursorPosition()
		if pos.Col < 0 || pos.Col >= 8 || pos.Row < 0 || pos.Row >= 4 {
			t.Fatalf("step %d (%v): cursor %v off screen", i, cmd, pos)
		}

		v.Render(out, 0)
		if v.NeedsRender() {
			t.Fatalf("step %d: view dirty after render", i)
		}
	}
}
