package editor

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/dshills/quire/internal/command"
	"github.com/dshills/quire/internal/engine/buffer"
	"github.com/dshills/quire/internal/renderer/backend"
	"github.com/dshills/quire/internal/renderer/dirty"
	"github.com/dshills/quire/internal/renderer/viewport"
)

// Filler is drawn on rows below the end of the document.
const Filler = "~"

// ViewOption configures a View.
type ViewOption func(*View)

// WithVersion sets the version shown in the welcome banner.
func WithVersion(version string) ViewOption {
	return func(v *View) {
		v.version = version
	}
}

// WithWelcome enables or disables the welcome banner.
func WithWelcome(enabled bool) ViewOption {
	return func(v *View) {
		v.welcome = enabled
	}
}

// WithBufferOptions sets the options used when loading documents.
func WithBufferOptions(opts ...buffer.Option) ViewOption {
	return func(v *View) {
		v.bufferOpts = append(v.bufferOpts, opts...)
	}
}

// View shows a document through a scrollable viewport and applies
// editing and movement commands at its cursor.
type View struct {
	buf        *buffer.Buffer
	loc        buffer.Location
	vp         *viewport.Viewport
	tracker    *dirty.Tracker
	version    string
	welcome    bool
	bufferOpts []buffer.Option
}

// Ensure View implements Component.
var _ Component = (*View)(nil)

// NewView creates a view over an empty, unnamed document.
// The view has zero size until Resize is called.
func NewView(opts ...ViewOption) *View {
	v := &View{
		loc:     buffer.Location{},
		vp:      viewport.New(viewport.Size{}),
		tracker: dirty.NewTracker(0),
		welcome: true,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.buf = buffer.New(v.bufferOpts...)
	return v
}

// Load replaces the document with the file at path and moves the cursor to
// the top. On error the current document is kept.
func (v *View) Load(path string) error {
	buf, err := buffer.Load(path, v.bufferOpts...)
	if err != nil {
		return err
	}

	v.buf = buf
	v.loc = buffer.Location{}
	v.vp.ScrollTo(viewport.Position{})
	v.tracker.MarkFullRedraw()
	return nil
}

// Save writes the document to its file.
func (v *View) Save() error {
	return v.buf.Save()
}

// Buffer returns the document.
func (v *View) Buffer() *buffer.Buffer {
	return v.buf
}

// Location returns the cursor location in the document.
func (v *View) Location() buffer.Location {
	return v.loc
}

// Viewport returns the view's viewport.
func (v *View) Viewport() *viewport.Viewport {
	return v.vp
}

// Status returns the document summary shown by the status bar.
func (v *View) Status() DocumentStatus {
	return DocumentStatus{
		TotalLines:       v.buf.Height(),
		CurrentLineIndex: v.loc.Line,
		IsModified:       v.buf.IsModified(),
		FileName:         v.buf.FileInfo().Name(),
	}
}

// HandleCommand applies a movement or edit command. Save and Quit belong to
// the session and are ignored here.
func (v *View) HandleCommand(cmd command.Command) {
	switch c := cmd.(type) {
	case command.Move:
		v.move(c.Direction)
	case command.Insert:
		v.insert(c.Char)
	case command.InsertNewline:
		v.insertNewline()
	case command.DeleteForward:
		v.deleteForward()
	case command.DeleteBackward:
		v.deleteBackward()
	case command.Resize:
		v.Resize(c.Size)
	case command.Save, command.Quit:
	}
	v.scrollIntoView()
}

// Resize sets the view size, schedules a full repaint and keeps the cursor
// visible.
func (v *View) Resize(size viewport.Size) {
	v.vp.Resize(size)
	v.tracker.SetHeight(v.vp.Height())
	v.scrollIntoView()
}

// move moves the cursor without touching the document.
func (v *View) move(dir command.Direction) {
	height := v.vp.Height()

	switch dir {
	case command.Up:
		v.moveUp(1)
	case command.Down:
		v.moveDown(1)
	case command.PageUp:
		v.moveUp(max(height-1, 0))
	case command.PageDown:
		v.moveDown(max(height-1, 0))
	case command.Left:
		v.moveLeft()
	case command.Right:
		v.moveRight()
	case command.Home:
		v.loc.Grapheme = 0
	case command.End:
		v.loc.Grapheme = v.buf.LineLen(v.loc.Line)
	}
	v.loc = v.buf.Clamp(v.loc)
}

func (v *View) moveUp(step int) {
	v.loc.Line = max(v.loc.Line-step, 0)
	v.snapToGrapheme()
}

func (v *View) moveDown(step int) {
	v.loc.Line = min(v.loc.Line+step, v.buf.Height())
	v.snapToGrapheme()
}

func (v *View) moveLeft() {
	if v.loc.Grapheme > 0 {
		v.loc.Grapheme--
		return
	}
	if v.loc.Line > 0 {
		v.moveUp(1)
		v.loc.Grapheme = v.buf.LineLen(v.loc.Line)
	}
}

func (v *View) moveRight() {
	if v.loc.Grapheme < v.buf.LineLen(v.loc.Line) {
		v.loc.Grapheme++
		return
	}
	if v.loc.Line+1 < v.buf.Height() {
		v.loc.Grapheme = 0
		v.moveDown(1)
	}
}

// snapToGrapheme keeps the cursor within the current line.
func (v *View) snapToGrapheme() {
	v.loc.Grapheme = min(v.loc.Grapheme, v.buf.LineLen(v.loc.Line))
}

func (v *View) insert(ch rune) {
	if ch == '\n' || ch == '\r' {
		v.insertNewline()
		return
	}

	line := v.loc.Line
	appended := line >= v.buf.Height()

	added := v.buf.InsertText(string(ch), v.loc)
	v.loc.Grapheme += added
	v.loc = v.buf.Clamp(v.loc)

	if appended {
		v.markFrom(line)
	} else {
		v.markLine(line)
	}
}

func (v *View) insertNewline() {
	line := v.loc.Line
	v.buf.InsertNewline(v.loc)
	v.loc = v.buf.Clamp(buffer.Location{Line: line + 1})
	v.markFrom(line)
}

func (v *View) deleteForward() {
	line := v.loc.Line
	joins := v.loc.Grapheme >= v.buf.LineLen(line)

	if !v.buf.Delete(v.loc) {
		return
	}
	v.loc = v.buf.Clamp(v.loc)
	if joins {
		v.markFrom(line)
	} else {
		v.markLine(line)
	}
}

func (v *View) deleteBackward() {
	if v.loc == (buffer.Location{}) {
		return
	}
	v.moveLeft()
	v.loc = v.buf.Clamp(v.loc)
	v.deleteForward()
}

// markLine schedules the row showing document line for repaint.
func (v *View) markLine(line int) {
	if row := v.vp.LineToScreenRow(line); row >= 0 {
		v.tracker.MarkChange(dirty.ChangeLine, row)
	}
}

// markFrom schedules every row from the one showing line to the bottom.
func (v *View) markFrom(line int) {
	v.tracker.MarkChange(dirty.ChangeStructure, line-v.vp.Offset().Row)
}

// scrollIntoView scrolls so the cursor is visible. A scroll repaints the
// whole view; rows already marked stay marked.
func (v *View) scrollIntoView() {
	pos := v.documentPosition()
	if v.vp.Contains(pos) {
		return
	}
	if v.vp.ScrollToReveal(pos) {
		v.tracker.MarkChange(dirty.ChangeScroll, 0)
	}
}

// documentPosition returns the cursor cell relative to the document's
// top-left corner.
func (v *View) documentPosition() viewport.Position {
	col := 0
	if line := v.buf.Line(v.loc.Line); line != nil {
		col = line.WidthUntil(v.loc.Grapheme)
	}
	return viewport.Position{Col: col, Row: v.loc.Line}
}

// CursorPosition returns the cursor cell relative to the view's top-left
// corner.
func (v *View) CursorPosition() viewport.Position {
	return v.vp.ToScreen(v.documentPosition())
}

// NeedsRender reports whether any row is stale.
func (v *View) NeedsRender() bool {
	return v.tracker.IsDirty()
}

// Render repaints the stale rows of the view with its top row at
// originRow. Rendering twice without changes in between paints nothing
// the second time.
func (v *View) Render(out backend.Backend, originRow int) {
	if !v.tracker.IsDirty() {
		return
	}
	defer v.tracker.Clear()

	size := v.vp.Size()
	if size.IsEmpty() {
		return
	}

	start, end := v.vp.ColumnRange()
	bannerRow := size.Height / 3
	for _, row := range v.tracker.Rows() {
		out.MoveCursorTo(viewport.Position{Row: originRow + row})
		out.ClearLine()

		lineIdx := v.vp.ScreenRowToLine(row)
		switch line := v.buf.Line(lineIdx); {
		case line != nil:
			out.Print(line.Visible(start, end))
		case v.welcome && v.buf.IsEmpty() && row == bannerRow:
			out.Print(WelcomeMessage(v.version, size.Width))
		default:
			out.Print(Filler)
		}
	}
}

// WelcomeMessage builds the banner row: the filler followed by the
// centered product line, or just the filler when the line does not fit.
func WelcomeMessage(version string, width int) string {
	msg := "quire editor -- version " + version
	remaining := width - runewidth.StringWidth(Filler)
	msgWidth := runewidth.StringWidth(msg)
	if remaining < msgWidth {
		return Filler
	}
	pad := (remaining - msgWidth) / 2
	return Filler + strings.Repeat(" ", pad) + msg
}
