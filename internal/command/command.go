// Package command defines the closed set of editor commands and decodes
// terminal events into them.
//
// A Command is one of Move, Insert, InsertNewline, DeleteForward,
// DeleteBackward, Save, Resize or Quit. The set is sealed: only this
// package can add variants, so a type switch over Command is exhaustive.
package command

import (
	"errors"
	"fmt"

	"github.com/dshills/quire/internal/renderer/backend"
	"github.com/dshills/quire/internal/renderer/viewport"
)

// ErrUnsupported is returned by FromEvent for events that map to no command.
var ErrUnsupported = errors.New("unsupported event")

// Command is an editor command.
type Command interface {
	fmt.Stringer
	command()
}

// Direction is the direction of a cursor movement.
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
	Home
	End
	PageUp
	PageDown
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	case Home:
		return "home"
	case End:
		return "end"
	case PageUp:
		return "pageup"
	case PageDown:
		return "pagedown"
	default:
		return "unknown"
	}
}

// Move moves the cursor.
type Move struct {
	Direction Direction
}

// Insert inserts a single character at the cursor.
type Insert struct {
	Char rune
}

// InsertNewline splits the current line at the cursor.
type InsertNewline struct{}

// DeleteForward deletes the grapheme under the cursor.
type DeleteForward struct{}

// DeleteBackward deletes the grapheme before the cursor.
type DeleteBackward struct{}

// Save writes the document to its file.
type Save struct{}

// Resize reports a new terminal size.
type Resize struct {
	Size viewport.Size
}

// Quit ends the session.
type Quit struct{}

func (Move) command()           {}
func (Insert) command()         {}
func (InsertNewline) command()  {}
func (DeleteForward) command()  {}
func (DeleteBackward) command() {}
func (Save) command()           {}
func (Resize) command()         {}
func (Quit) command()           {}

func (c Move) String() string         { return "move " + c.Direction.String() }
func (c Insert) String() string       { return fmt.Sprintf("insert %q", c.Char) }
func (InsertNewline) String() string  { return "newline" }
func (DeleteForward) String() string  { return "delete" }
func (DeleteBackward) String() string { return "backspace" }
func (Save) String() string           { return "save" }
func (c Resize) String() string {
	return fmt.Sprintf("resize %dx%d", c.Size.Width, c.Size.Height)
}
func (Quit) String() string { return "quit" }

// FromEvent decodes a terminal event into a command.
// Returns ErrUnsupported for events with no binding.
func FromEvent(ev backend.Event) (Command, error) {
	switch ev.Type {
	case backend.EventKey:
		return fromKey(ev)
	case backend.EventResize:
		return Resize{Size: viewport.Size{Width: ev.Width, Height: ev.Height}}, nil
	default:
		return nil, fmt.Errorf("%w: %s event", ErrUnsupported, ev.Type)
	}
}

func fromKey(ev backend.Event) (Command, error) {
	switch ev.Key {
	case backend.KeyCtrlQ:
		return Quit{}, nil
	case backend.KeyCtrlS:
		return Save{}, nil
	case backend.KeyEnter:
		return InsertNewline{}, nil
	case backend.KeyTab:
		return Insert{Char: '\t'}, nil
	case backend.KeyBackspace:
		return DeleteBackward{}, nil
	case backend.KeyDelete:
		return DeleteForward{}, nil
	case backend.KeyUp:
		return Move{Direction: Up}, nil
	case backend.KeyDown:
		return Move{Direction: Down}, nil
	case backend.KeyLeft:
		return Move{Direction: Left}, nil
	case backend.KeyRight:
		return Move{Direction: Right}, nil
	case backend.KeyHome:
		return Move{Direction: Home}, nil
	case backend.KeyEnd:
		return Move{Direction: End}, nil
	case backend.KeyPageUp:
		return Move{Direction: PageUp}, nil
	case backend.KeyPageDown:
		return Move{Direction: PageDown}, nil
	case backend.KeyRune:
		return fromRune(ev)
	default:
		return nil, fmt.Errorf("%w: key %d", ErrUnsupported, ev.Key)
	}
}

// fromRune handles printable characters. Some terminals report control
// chords as a rune with the Ctrl modifier instead of a control key.
func fromRune(ev backend.Event) (Command, error) {
	if ev.Mod.Has(backend.ModCtrl) {
		switch ev.Rune {
		case 'q', 'Q':
			return Quit{}, nil
		case 's', 'S':
			return Save{}, nil
		}
		return nil, fmt.Errorf("%w: ctrl+%c", ErrUnsupported, ev.Rune)
	}
	if ev.Mod.Has(backend.ModAlt) || ev.Mod.Has(backend.ModMeta) {
		return nil, fmt.Errorf("%w: modified rune %q", ErrUnsupported, ev.Rune)
	}
	return Insert{Char: ev.Rune}, nil
}
