package editor

import (
	"time"

	"github.com/dshills/quire/internal/renderer/backend"
	"github.com/dshills/quire/internal/renderer/viewport"
)

// DefaultMessageDuration is how long a message stays on screen.
const DefaultMessageDuration = 5 * time.Second

// HelpMessage is shown when a session starts.
const HelpMessage = "HELP: Ctrl-S = save | Ctrl-Q = quit"

// MessageBar shows a transient message on one row.
type MessageBar struct {
	text        string
	shownAt     time.Time
	duration    time.Duration
	now         func() time.Time
	visible     bool
	needsRender bool
	cleared     bool
}

// Ensure MessageBar implements Component.
var _ Component = (*MessageBar)(nil)

// NewMessageBar creates an empty message bar.
func NewMessageBar() *MessageBar {
	return &MessageBar{
		duration:    DefaultMessageDuration,
		now:         time.Now,
		needsRender: true,
		cleared:     true,
	}
}

// SetClock replaces the time source. Intended for tests.
func (mb *MessageBar) SetClock(now func() time.Time) {
	mb.now = now
}

// Update shows text, restarting the expiry timer.
func (mb *MessageBar) Update(text string) {
	mb.text = text
	mb.shownAt = mb.now()
	mb.cleared = false
	mb.needsRender = true
}

// Text returns the message currently set, expired or not.
func (mb *MessageBar) Text() string {
	return mb.text
}

func (mb *MessageBar) expired() bool {
	return mb.now().Sub(mb.shownAt) > mb.duration
}

func (mb *MessageBar) Resize(size viewport.Size) {
	mb.visible = size.Height > 0 && size.Width > 0
	mb.needsRender = true
}

// NeedsRender reports whether the bar has a new message or one that
// expired since it was last painted.
func (mb *MessageBar) NeedsRender() bool {
	return mb.needsRender || (!mb.cleared && mb.expired())
}

func (mb *MessageBar) Render(out backend.Backend, originRow int) {
	if !mb.NeedsRender() {
		return
	}
	mb.needsRender = false

	text := mb.text
	if mb.expired() {
		text = ""
		mb.cleared = true
	}
	if !mb.visible {
		return
	}

	out.MoveCursorTo(viewport.Position{Row: originRow})
	out.ClearLine()
	out.Print(text)
}
