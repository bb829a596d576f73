package buffer

import (
	"errors"
	"fmt"
)

// Errors returned by buffer operations.
var (
	// ErrNoFilePath is returned by Save when the buffer has no file.
	ErrNoFilePath = errors.New("no file path")

	// ErrInvalidEncoding is returned by Load for content that is not UTF-8.
	ErrInvalidEncoding = errors.New("invalid UTF-8 content")
)

// FileError reports a failed load or save.
type FileError struct {
	Op   string // "load" or "save"
	Path string
	Err  error
}

func (e *FileError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}
