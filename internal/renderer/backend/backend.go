// Package backend provides the terminal capability consumed by the renderer:
// cursor addressing, printing, clearing, titles and the event queue.
package backend

import (
	"errors"
	"math"

	"github.com/dshills/quire/internal/renderer/viewport"
)

// ErrEventQueueFull is returned by PostEvent when the queue cannot accept
// another event.
var ErrEventQueueFull = errors.New("event queue full")

// EventType identifies the type of terminal event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventResize
	EventInterrupt
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventKey:
		return "key"
	case EventResize:
		return "resize"
	case EventInterrupt:
		return "interrupt"
	default:
		return "none"
	}
}

// Event represents a terminal event.
type Event struct {
	Type EventType

	// Key event fields
	Key  Key
	Rune rune
	Mod  ModMask

	// Resize event fields
	Width, Height int

	// Interrupt event payload, posted from other goroutines.
	Data any
}

// Key represents a keyboard key.
type Key int

// Key constants for special keys.
const (
	KeyNone Key = iota
	KeyRune     // Regular character (use Rune field)
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyCtrlQ
	KeyCtrlS
)

// ModMask represents modifier key state.
type ModMask int

const (
	ModNone  ModMask = 0
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has returns true if the mask contains the given modifier.
func (m ModMask) Has(mod ModMask) bool {
	return m&mod != 0
}

// Backend defines the interface for terminal/display backends.
type Backend interface {
	// Init enters raw mode and the alternate screen.
	// Must be called before any other methods.
	Init() error

	// Shutdown restores the terminal. Safe to call more than once.
	Shutdown()

	// Size returns the current terminal dimensions.
	Size() viewport.Size

	// MoveCursorTo moves the print cursor. Coordinates beyond
	// math.MaxUint16 are truncated.
	MoveCursorTo(pos viewport.Position)

	// ClearLine clears the row the print cursor is on.
	ClearLine()

	// ClearScreen clears every row.
	ClearScreen()

	// Print writes text at the print cursor and advances it.
	Print(text string)

	// PrintInverted writes text with foreground and background swapped.
	PrintInverted(text string)

	// HideCursor hides the visible cursor.
	HideCursor()

	// ShowCursor shows the visible cursor at the print cursor.
	ShowCursor()

	// Flush makes pending output visible.
	Flush()

	// SetTitle sets the terminal window title.
	SetTitle(title string)

	// PollEvent waits for and returns the next terminal event.
	PollEvent() Event

	// PostEvent queues a synthetic event. Safe for concurrent use.
	PostEvent(event Event) error
}

// clampCoord restricts a coordinate to what a terminal can address.
func clampCoord(v int) int {
	return min(max(v, 0), math.MaxUint16)
}

// NullBackend is an in-memory backend for testing.
type NullBackend struct {
	grid          *Grid
	cursorX       int
	cursorY       int
	cursorVisible bool
	title         string
	titleChanges  int
	prints        int
	flushes       int
	initialized   bool
	shutdowns     int
	events        chan Event
}

// NewNullBackend creates a null backend with the given dimensions.
func NewNullBackend(width, height int) *NullBackend {
	return &NullBackend{
		grid:   NewGrid(width, height),
		events: make(chan Event, 100),
	}
}

func (b *NullBackend) Init() error {
	b.initialized = true
	return nil
}

func (b *NullBackend) Shutdown() {
	b.shutdowns++
}

func (b *NullBackend) Size() viewport.Size {
	w, h := b.grid.Size()
	return viewport.Size{Width: w, Height: h}
}

func (b *NullBackend) MoveCursorTo(pos viewport.Position) {
	b.cursorX = clampCoord(pos.Col)
	b.cursorY = clampCoord(pos.Row)
}

func (b *NullBackend) ClearLine() {
	b.grid.ClearRow(b.cursorY)
}

func (b *NullBackend) ClearScreen() {
	b.grid.Clear()
}

func (b *NullBackend) Print(text string) {
	b.prints++
	b.cursorX += b.grid.SetString(b.cursorX, b.cursorY, text, false)
}

func (b *NullBackend) PrintInverted(text string) {
	b.prints++
	b.cursorX += b.grid.SetString(b.cursorX, b.cursorY, text, true)
}

func (b *NullBackend) HideCursor() {
	b.cursorVisible = false
}

func (b *NullBackend) ShowCursor() {
	b.cursorVisible = true
}

func (b *NullBackend) Flush() {
	b.flushes++
}

func (b *NullBackend) SetTitle(title string) {
	b.title = title
	b.titleChanges++
}

func (b *NullBackend) PollEvent() Event {
	return <-b.events
}

func (b *NullBackend) PostEvent(event Event) error {
	select {
	case b.events <- event:
		return nil
	default:
		return ErrEventQueueFull
	}
}

// Row returns the text painted on row y with trailing blanks removed.
func (b *NullBackend) Row(y int) string {
	return b.grid.Row(y)
}

// RowInverted reports whether any cell on row y was printed inverted.
func (b *NullBackend) RowInverted(y int) bool {
	return b.grid.RowInverted(y)
}

// CursorPosition returns the print cursor and its visibility.
func (b *NullBackend) CursorPosition() (x, y int, visible bool) {
	return b.cursorX, b.cursorY, b.cursorVisible
}

// Title returns the last title set and how many times it was set.
func (b *NullBackend) Title() (string, int) {
	return b.title, b.titleChanges
}

// Prints returns how many Print or PrintInverted calls were made.
func (b *NullBackend) Prints() int {
	return b.prints
}

// Flushes returns how many times Flush was called.
func (b *NullBackend) Flushes() int {
	return b.flushes
}

// Initialized reports whether Init was called.
func (b *NullBackend) Initialized() bool {
	return b.initialized
}

// Shutdowns returns how many times Shutdown was called.
func (b *NullBackend) Shutdowns() int {
	return b.shutdowns
}

// Resize simulates a terminal resize and queues the matching event.
func (b *NullBackend) Resize(width, height int) {
	b.grid.Resize(width, height)
	_ = b.PostEvent(Event{Type: EventResize, Width: width, Height: height})
}
