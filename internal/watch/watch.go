// Package watch reports changes made by other programs to the file open in
// the editor.
//
// The parent directory is watched rather than the file itself, so the
// watcher survives editors and tools that save by writing a temporary file
// and renaming it over the original. Bursts of events are coalesced into
// one, and changes caused by the editor's own saves can be suppressed with
// IgnoreFor.
package watch

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Common errors returned by watcher operations.
var (
	ErrPathNotExist = errors.New("path does not exist")
)

// DefaultDebounce is the window in which repeated events are coalesced.
const DefaultDebounce = 100 * time.Millisecond

// Op represents the type of file system operation.
type Op uint32

const (
	// OpWrite indicates the file content changed.
	OpWrite Op = 1 << iota
	// OpRemove indicates the file was removed or renamed away.
	OpRemove
	// OpCreate indicates the file was (re)created.
	OpCreate
)

// String returns a human-readable representation of the operation.
func (op Op) String() string {
	switch {
	case op.Has(OpRemove):
		return "REMOVE"
	case op.Has(OpCreate):
		return "CREATE"
	case op.Has(OpWrite):
		return "WRITE"
	default:
		return "UNKNOWN"
	}
}

// Has returns true if the operation includes the given op.
func (op Op) Has(o Op) bool {
	return op&o == o
}

// Event represents a change to the watched file.
type Event struct {
	// Path is the absolute path of the file.
	Path string

	// Op combines every operation seen during the debounce window.
	Op Op

	// Timestamp is when the first operation of the window occurred.
	Timestamp time.Time
}

// FileWatcher watches a single file.
type FileWatcher struct {
	mu sync.Mutex

	watcher *fsnotify.Watcher
	path    string
	delay   time.Duration

	pending     *Event
	timer       *time.Timer
	ignoreUntil time.Time

	events   chan Event
	errors   chan error
	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// Option configures a FileWatcher.
type Option func(*FileWatcher)

// WithDebounce sets the coalescing window.
func WithDebounce(d time.Duration) Option {
	return func(w *FileWatcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// New starts watching the file at path. The file's directory must exist;
// the file itself may not exist yet.
func New(path string, opts ...Option) (*FileWatcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(absPath)
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrPathNotExist
		}
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &FileWatcher{
		watcher: fsw,
		path:    absPath,
		delay:   DefaultDebounce,
		events:  make(chan Event, 16),
		errors:  make(chan error, 16),
		closeCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.closedWg.Add(1)
	go w.processLoop()

	return w, nil
}

// Path returns the absolute path of the watched file.
func (w *FileWatcher) Path() string {
	return w.path
}

// Events returns the channel of debounced change events.
// The channel is closed when the watcher is closed.
func (w *FileWatcher) Events() <-chan Event {
	return w.events
}

// Errors returns the channel of watcher errors.
// The channel is closed when the watcher is closed.
func (w *FileWatcher) Errors() <-chan error {
	return w.errors
}

// IgnoreFor drops events observed during the next d. Call it right before
// writing the file yourself.
func (w *FileWatcher) IgnoreFor(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ignoreUntil = time.Now().Add(d)
}

// Close stops the watcher.
func (w *FileWatcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	w.closedWg.Wait()

	close(w.events)
	close(w.errors)

	return w.watcher.Close()
}

// processLoop handles incoming fsnotify events.
func (w *FileWatcher) processLoop() {
	defer w.closedWg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case fsEvent, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(fsEvent)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.sendError(err)
		}
	}
}

// handleFSEvent filters events down to the watched file and starts or
// extends the debounce window.
func (w *FileWatcher) handleFSEvent(fsEvent fsnotify.Event) {
	if filepath.Clean(fsEvent.Name) != w.path {
		return
	}
	op := convertOp(fsEvent.Op)
	if op == 0 {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	if w.closed || now.Before(w.ignoreUntil) {
		return
	}

	if w.pending != nil {
		w.pending.Op |= op
		w.timer.Reset(w.delay)
		return
	}

	w.pending = &Event{Path: w.path, Op: op, Timestamp: now}
	w.timer = time.AfterFunc(w.delay, w.flush)
}

// flush delivers the pending event once the debounce window has passed.
func (w *FileWatcher) flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed || w.pending == nil {
		return
	}
	event := *w.pending
	w.pending = nil

	select {
	case w.events <- event:
	default:
		// Channel full, drop event
	}
}

// convertOp converts fsnotify.Op to Op. Permission changes are ignored.
func convertOp(fsOp fsnotify.Op) Op {
	var op Op
	if fsOp.Has(fsnotify.Create) {
		op |= OpCreate
	}
	if fsOp.Has(fsnotify.Write) {
		op |= OpWrite
	}
	if fsOp.Has(fsnotify.Remove) || fsOp.Has(fsnotify.Rename) {
		op |= OpRemove
	}
	return op
}

// sendError sends an error to the output channel.
func (w *FileWatcher) sendError(err error) {
	select {
	case w.errors <- err:
	default:
		// Channel full, drop error
	}
}
