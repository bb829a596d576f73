// Package editor holds the on-screen parts of the editor: the document
// View, the status bar and the message bar.
//
// Every part implements Component. A component repaints only when something
// it shows changed, so calling Render repeatedly without intervening
// updates produces no terminal output.
//
// Basic usage:
//
//	view := editor.NewView(editor.WithVersion("1.0.0"))
//	if err := view.Load("notes.txt"); err != nil {
//	    // the previous document stays loaded
//	}
//	view.Resize(viewport.Size{Width: 80, Height: 22})
//	view.HandleCommand(command.Move{Direction: command.Down})
//	view.Render(term, 0)
package editor

import (
	"github.com/dshills/quire/internal/renderer/backend"
	"github.com/dshills/quire/internal/renderer/viewport"
)

// Component is a rectangular part of the screen.
type Component interface {
	// Resize sets the component size and schedules a full repaint.
	Resize(size viewport.Size)

	// NeedsRender reports whether Render would paint anything.
	NeedsRender() bool

	// Render paints the stale parts of the component with its top row at
	// originRow.
	Render(out backend.Backend, originRow int)
}
