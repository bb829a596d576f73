package backend

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/quire/internal/renderer/viewport"
)

// Terminal implements Backend using tcell for terminal output.
type Terminal struct {
	screen  tcell.Screen
	mu      sync.Mutex
	x, y    int
	visible bool
	closed  bool
}

// NewTerminal creates a new terminal backend.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen}, nil
}

// newTerminalWithScreen wraps an existing screen, typically a simulation
// screen in tests.
func newTerminalWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.SetStyle(tcell.StyleDefault)
	t.screen.HideCursor()
	return nil
}

func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}
	t.closed = true
	t.screen.Fini()
}

func (t *Terminal) Size() viewport.Size {
	t.mu.Lock()
	defer t.mu.Unlock()

	w, h := t.screen.Size()
	return viewport.Size{Width: w, Height: h}
}

func (t *Terminal) MoveCursorTo(pos viewport.Position) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.x = clampCoord(pos.Col)
	t.y = clampCoord(pos.Row)
	if t.visible {
		t.screen.ShowCursor(t.x, t.y)
	}
}

func (t *Terminal) ClearLine() {
	t.mu.Lock()
	defer t.mu.Unlock()

	w, _ := t.screen.Size()
	for x := 0; x < w; x++ {
		t.screen.SetContent(x, t.y, ' ', nil, tcell.StyleDefault)
	}
}

func (t *Terminal) ClearScreen() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
}

func (t *Terminal) Print(text string) {
	t.print(text, tcell.StyleDefault)
}

func (t *Terminal) PrintInverted(text string) {
	t.print(text, tcell.StyleDefault.Reverse(true))
}

// print writes one grapheme cluster per cell run: the first rune is the
// main character and the rest are passed as combining runes.
func (t *Terminal) print(text string, style tcell.Style) {
	t.mu.Lock()
	defer t.mu.Unlock()

	state := -1
	for len(text) > 0 {
		var cluster string
		var boundaries int
		cluster, text, boundaries, state = uniseg.StepString(text, state)
		width := max(boundaries>>uniseg.ShiftWidth, 1)

		runes := []rune(cluster)
		t.screen.SetContent(t.x, t.y, runes[0], runes[1:], style)
		t.x += width
	}
}

func (t *Terminal) HideCursor() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.visible = false
	t.screen.HideCursor()
}

func (t *Terminal) ShowCursor() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.visible = true
	t.screen.ShowCursor(t.x, t.y)
}

func (t *Terminal) Flush() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Show()
}

func (t *Terminal) SetTitle(title string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.SetTitle(title)
}

func (t *Terminal) PollEvent() Event {
	ev := t.screen.PollEvent()
	if ev == nil {
		// The screen was finalized.
		return Event{Type: EventNone}
	}
	return convertEvent(ev)
}

func (t *Terminal) PostEvent(event Event) error {
	var ev tcell.Event
	switch event.Type {
	case EventInterrupt:
		ev = tcell.NewEventInterrupt(event.Data)
	case EventResize:
		ev = tcell.NewEventResize(event.Width, event.Height)
	default:
		return nil
	}
	if err := t.screen.PostEvent(ev); err != nil {
		return ErrEventQueueFull
	}
	return nil
}

// convertEvent converts tcell events to our Event type.
func convertEvent(ev tcell.Event) Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return Event{
			Type: EventKey,
			Key:  convertKey(e.Key()),
			Rune: e.Rune(),
			Mod:  convertMod(e.Modifiers()),
		}

	case *tcell.EventResize:
		w, h := e.Size()
		return Event{
			Type:   EventResize,
			Width:  w,
			Height: h,
		}

	case *tcell.EventInterrupt:
		return Event{
			Type: EventInterrupt,
			Data: e.Data(),
		}

	default:
		return Event{Type: EventNone}
	}
}

// convertKey converts tcell key to our Key type. tcell aliases several
// control keys to named keys (Enter is Ctrl-M, Tab is Ctrl-I), so only the
// named form is matched.
func convertKey(k tcell.Key) Key {
	switch k {
	case tcell.KeyRune:
		return KeyRune
	case tcell.KeyEnter:
		return KeyEnter
	case tcell.KeyTab:
		return KeyTab
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return KeyBackspace
	case tcell.KeyDelete:
		return KeyDelete
	case tcell.KeyHome:
		return KeyHome
	case tcell.KeyEnd:
		return KeyEnd
	case tcell.KeyPgUp:
		return KeyPageUp
	case tcell.KeyPgDn:
		return KeyPageDown
	case tcell.KeyUp:
		return KeyUp
	case tcell.KeyDown:
		return KeyDown
	case tcell.KeyLeft:
		return KeyLeft
	case tcell.KeyRight:
		return KeyRight
	case tcell.KeyCtrlQ:
		return KeyCtrlQ
	case tcell.KeyCtrlS:
		return KeyCtrlS
	default:
		return KeyNone
	}
}

// convertMod converts tcell modifier mask to our ModMask.
func convertMod(m tcell.ModMask) ModMask {
	var result ModMask
	if m&tcell.ModShift != 0 {
		result |= ModShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		result |= ModAlt
	}
	if m&tcell.ModMeta != 0 {
		result |= ModMeta
	}
	return result
}
