// Package buffer holds the content of one open document as an ordered list
// of grapheme lines, together with its file association and modified flag.
//
// Lines are addressed with Location values (line index, grapheme index).
// A Location may point one line past the last line; inserting there appends
// a new line, which is how typing into an empty document works.
//
// Basic usage:
//
//	buf, err := buffer.Load("notes.txt")
//	if err != nil {
//	    // keep whatever buffer was active before
//	}
//	buf.InsertText("x", buffer.Location{Line: 0, Grapheme: 3})
//	buf.InsertNewline(buffer.Location{Line: 0, Grapheme: 4})
//	if err := buf.Save(); err != nil {
//	    // buf.IsModified() is still true
//	}
//
// Line Endings:
//
// Files are read with any of LF, CRLF or CR line endings. Content is held
// without separators; the detected ending is used again when saving.
//
// The buffer is owned by a single editing session and is not safe for
// concurrent use.
package buffer
