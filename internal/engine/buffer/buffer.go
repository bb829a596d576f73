package buffer

import (
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/dshills/quire/internal/engine/grapheme"
)

// LineEnding specifies the line ending style.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the string representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingCRLF:
		return "\\r\\n"
	case LineEndingCR:
		return "\\r"
	default:
		return "\\n"
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// NoName is the display name of a buffer without a file.
const NoName = "[No Name]"

// FileInfo describes the file a buffer is associated with.
type FileInfo struct {
	// Path is empty for a buffer that was never loaded or saved.
	Path string
}

// HasPath reports whether a file is associated.
func (f FileInfo) HasPath() bool {
	return f.Path != ""
}

// Name returns the base name of the file, or NoName.
func (f FileInfo) Name() string {
	if f.Path == "" {
		return NoName
	}
	return filepath.Base(f.Path)
}

// Buffer is an editable document.
type Buffer struct {
	lines      []*grapheme.Line
	file       FileInfo
	dirty      bool
	lineEnding LineEnding
	fs         FileSystem
}

// New creates an empty buffer with no file.
func New(opts ...Option) *Buffer {
	b := &Buffer{
		lineEnding: LineEndingLF,
		fs:         DefaultFS(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewFromString creates an unnamed buffer holding text.
// The buffer starts unmodified.
func NewFromString(text string, opts ...Option) *Buffer {
	b := New(opts...)
	b.setText(text)
	return b
}

// Load reads the file at path into a new buffer.
// On failure the error is a *FileError and no buffer is returned, so the
// caller's current buffer stays untouched.
func Load(path string, opts ...Option) (*Buffer, error) {
	b := New(opts...)

	data, err := b.fs.ReadFile(path)
	if err != nil {
		return nil, &FileError{Op: "load", Path: path, Err: err}
	}
	if !utf8.Valid(data) {
		return nil, &FileError{Op: "load", Path: path, Err: ErrInvalidEncoding}
	}

	b.setText(string(data))
	b.file = FileInfo{Path: path}
	return b, nil
}

// setText replaces the content, splitting on any line ending.
// A trailing line ending does not produce an extra empty line, but a text
// holding only a line ending is one empty line.
func (b *Buffer) setText(text string) {
	b.lineEnding = DetectLineEnding(text)

	b.lines = b.lines[:0]
	if text == "" {
		return
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	for _, s := range strings.Split(text, "\n") {
		b.lines = append(b.lines, grapheme.NewLine(s))
	}
}

// Save writes the buffer to its file.
// The modified flag is cleared only when the write succeeds.
func (b *Buffer) Save() error {
	if !b.file.HasPath() {
		return &FileError{Op: "save", Err: ErrNoFilePath}
	}
	return b.SaveAs(b.file.Path)
}

// SaveAs writes the buffer to path and associates the buffer with it.
// Every line, including the last, is followed by the line ending.
func (b *Buffer) SaveAs(path string) error {
	if path == "" {
		return &FileError{Op: "save", Err: ErrNoFilePath}
	}

	var sb strings.Builder
	sep := b.lineEnding.Sequence()
	for _, line := range b.lines {
		sb.WriteString(line.String())
		sb.WriteString(sep)
	}

	if err := b.fs.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return &FileError{Op: "save", Path: path, Err: err}
	}

	b.file = FileInfo{Path: path}
	b.dirty = false
	return nil
}

// Read Operations

// Height returns the number of lines.
func (b *Buffer) Height() int {
	return len(b.lines)
}

// IsEmpty returns true if the buffer has no lines.
func (b *Buffer) IsEmpty() bool {
	return len(b.lines) == 0
}

// Line returns the line at index, or nil when out of range.
// The returned line must not be modified.
func (b *Buffer) Line(index int) *grapheme.Line {
	if index < 0 || index >= len(b.lines) {
		return nil
	}
	return b.lines[index]
}

// LineLen returns the grapheme count of the line at index, zero when out
// of range.
func (b *Buffer) LineLen(index int) int {
	if line := b.Line(index); line != nil {
		return line.Count()
	}
	return 0
}

// Text returns the full content with LF separators and no trailing newline.
func (b *Buffer) Text() string {
	parts := make([]string, len(b.lines))
	for i, line := range b.lines {
		parts[i] = line.String()
	}
	return strings.Join(parts, "\n")
}

// IsModified reports whether the content changed since the last load or save.
func (b *Buffer) IsModified() bool {
	return b.dirty
}

// FileInfo returns the file association.
func (b *Buffer) FileInfo() FileInfo {
	return b.file
}

// LineEnding returns the line ending used when saving.
func (b *Buffer) LineEnding() LineEnding {
	return b.lineEnding
}

// Write Operations

// InsertText inserts text at loc and returns how many graphemes a cursor at
// loc advances to land after the text. The result is never negative.
// A location at or past the end of the buffer appends a new line holding
// text. The text must not contain line breaks; use InsertNewline.
func (b *Buffer) InsertText(text string, at Location) int {
	if text == "" {
		return 0
	}
	if at.Line < 0 {
		at.Line = 0
	}

	b.dirty = true
	if at.Line >= len(b.lines) {
		line := grapheme.NewLine(text)
		b.lines = append(b.lines, line)
		return line.Count()
	}
	return b.lines[at.Line].Insert(text, at.Grapheme)
}

// Delete removes the grapheme at loc. At or after the end of a line the
// following line is joined onto it. It reports whether the buffer changed.
func (b *Buffer) Delete(at Location) bool {
	line := b.Line(at.Line)
	if line == nil {
		return false
	}

	if at.Grapheme >= 0 && at.Grapheme < line.Count() {
		line.Delete(at.Grapheme)
		b.dirty = true
		return true
	}

	if at.Line+1 < len(b.lines) {
		line.Append(b.lines[at.Line+1])
		b.lines = append(b.lines[:at.Line+1], b.lines[at.Line+2:]...)
		b.dirty = true
		return true
	}
	return false
}

// InsertNewline breaks the line at loc, moving the graphemes from loc on to
// a new line below. At or past the end of the buffer an empty line is
// appended.
func (b *Buffer) InsertNewline(at Location) {
	if at.Line < 0 {
		at.Line = 0
	}

	b.dirty = true
	if at.Line >= len(b.lines) {
		b.lines = append(b.lines, &grapheme.Line{})
		return
	}

	rest := b.lines[at.Line].Split(at.Grapheme)
	b.lines = append(b.lines, nil)
	copy(b.lines[at.Line+2:], b.lines[at.Line+1:])
	b.lines[at.Line+1] = rest
}
