package app

import (
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/quire/internal/command"
	"github.com/dshills/quire/internal/config"
	"github.com/dshills/quire/internal/editor"
	"github.com/dshills/quire/internal/engine/buffer"
	"github.com/dshills/quire/internal/renderer/backend"
	"github.com/dshills/quire/internal/renderer/viewport"
	"github.com/dshills/quire/internal/watch"
)

// Name is the program name shown in the terminal title.
const Name = "quire"

// Messages shown on the message bar.
const (
	msgSaved       = "File saved successfully"
	msgSaveFailed  = "Error writing file"
	msgOpenFailed  = "Cannot open file: %s"
	msgUnsaved     = "WARNING! File has unsaved changes. Press Ctrl-Q %d times more to quit"
	msgChanged     = "File changed on disk: %s"
	msgRemoved     = "File removed from disk: %s"
	ownWriteWindow = 500 * time.Millisecond
)

// Options configures the application.
type Options struct {
	// File is the file to open on startup. Empty starts with an unnamed
	// document.
	File string

	// Version is shown on the welcome banner.
	Version string

	// Config holds the resolved settings. Nil means config.Default().
	Config *config.Config

	// Logger receives session logs. Nil discards them.
	Logger *Logger

	// FileSystem is used for document I/O. Nil means the OS file system.
	FileSystem buffer.FileSystem
}

// Application runs one editing session over a backend.
type Application struct {
	mu sync.Mutex

	backend backend.Backend
	cfg     config.Config
	logger  *Logger
	opts    Options

	view    *editor.View
	status  *editor.StatusBar
	message *editor.MessageBar

	size      viewport.Size
	title     string
	quitTimes int

	watcher     *watch.FileWatcher
	watchDone   chan struct{}
	expiryTimer *time.Timer

	running atomic.Bool
}

// New creates an application and loads opts.File. A file that cannot be
// read is reported on the message bar rather than returned.
func New(opts Options) (*Application, error) {
	cfg := config.Default()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	if err := cfg.Validate(); err != nil {
		return nil, &InitError{Component: "config", Err: err}
	}

	logger := opts.Logger
	if logger == nil {
		logger = NullLogger
	}

	viewOpts := []editor.ViewOption{
		editor.WithVersion(opts.Version),
		editor.WithWelcome(cfg.Editor.Welcome),
	}
	if opts.FileSystem != nil {
		viewOpts = append(viewOpts, editor.WithBufferOptions(buffer.WithFileSystem(opts.FileSystem)))
	}

	app := &Application{
		cfg:     cfg,
		logger:  logger.WithComponent("app"),
		opts:    opts,
		view:    editor.NewView(viewOpts...),
		status:  editor.NewStatusBar(),
		message: editor.NewMessageBar(),
	}
	app.message.Update(editor.HelpMessage)

	if opts.File != "" {
		if err := app.view.Load(opts.File); err != nil {
			app.logger.Warn("load failed: %v", err)
			app.message.Update(fmt.Sprintf(msgOpenFailed, opts.File))
		} else {
			app.logger.Info("loaded %s (%d lines)", opts.File, app.view.Buffer().Height())
		}
	}
	app.status.Update(app.view.Status())

	return app, nil
}

// View returns the document view.
func (app *Application) View() *editor.View {
	return app.view
}

// Message returns the message bar.
func (app *Application) Message() *editor.MessageBar {
	return app.message
}

// SetBackend sets the terminal backend.
// Must be called before Run().
func (app *Application) SetBackend(b backend.Backend) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.running.Load() {
		return ErrAlreadyRunning
	}

	app.backend = b
	return nil
}

// Run initializes the backend and processes events until the user quits.
// The backend is shut down on every return path. A panic in the loop is
// recovered and returned as *RecoveredPanicError.
func (app *Application) Run() (err error) {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if app.backend == nil {
		return ErrNoBackend
	}
	if err := app.backend.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer app.backend.Shutdown()
	defer app.stopTimers()
	defer func() {
		if r := recover(); r != nil {
			stack := string(debug.Stack())
			app.logger.Error("recovered panic: %v", r)
			err = NewRecoveredPanicError(r, stack)
		}
	}()

	app.startWatcher()
	defer app.stopWatcher()

	app.resize(app.backend.Size())
	app.refreshStatus()
	app.logger.Info("session started")

	for {
		app.render()

		if err := app.handleEvent(app.backend.PollEvent()); err != nil {
			if errors.Is(err, ErrQuit) {
				app.logger.Info("session ended")
				return nil
			}
			return err
		}
		app.refreshStatus()
	}
}

// handleEvent applies one backend event.
func (app *Application) handleEvent(ev backend.Event) error {
	if ev.Type == backend.EventInterrupt {
		return app.handleInterrupt(ev)
	}

	cmd, err := command.FromEvent(ev)
	if err != nil {
		if errors.Is(err, command.ErrUnsupported) {
			app.logger.Debug("ignored event: %v", err)
			return nil
		}
		return err
	}
	return app.handleCommand(cmd)
}

// handleCommand runs session commands itself and hands the rest to the
// view. Any command other than Quit or Resize resets the quit guard.
func (app *Application) handleCommand(cmd command.Command) error {
	switch c := cmd.(type) {
	case command.Quit:
		return app.handleQuit()
	case command.Resize:
		app.resize(c.Size)
		return nil
	default:
		app.resetQuitTimes()
	}

	if _, ok := cmd.(command.Save); ok {
		app.handleSave()
		return nil
	}
	app.view.HandleCommand(cmd)
	return nil
}

// handleQuit returns ErrQuit once quitting is allowed. With unsaved
// changes quit must be requested quit_times times in a row.
func (app *Application) handleQuit() error {
	if !app.view.Buffer().IsModified() || app.quitTimes+1 >= app.cfg.Editor.QuitTimes {
		return ErrQuit
	}
	app.quitTimes++
	app.setMessage(fmt.Sprintf(msgUnsaved, app.cfg.Editor.QuitTimes-app.quitTimes))
	return nil
}

func (app *Application) resetQuitTimes() {
	if app.quitTimes > 0 {
		app.quitTimes = 0
		app.setMessage("")
	}
}

func (app *Application) handleSave() {
	path := app.view.Buffer().FileInfo().Path
	if app.watcher != nil {
		app.watcher.IgnoreFor(ownWriteWindow)
	}

	if err := app.view.Save(); err != nil {
		app.logger.Error("%v", NewOperationError("save", path, err))
		app.setMessage(msgSaveFailed)
		return
	}
	app.logger.Info("saved %s", path)
	app.setMessage(msgSaved)
}

// stopRequest is posted by Stop.
type stopRequest struct{}

// Stop asks a running session to end as if the user quit, skipping the
// unsaved changes guard. Safe to call from any goroutine.
func (app *Application) Stop() {
	app.mu.Lock()
	b := app.backend
	app.mu.Unlock()

	if b == nil || !app.running.Load() {
		return
	}
	if err := b.PostEvent(backend.Event{Type: backend.EventInterrupt, Data: stopRequest{}}); err != nil {
		app.logger.Warn("stop request dropped: %v", err)
	}
}

// handleInterrupt processes events posted by other goroutines.
func (app *Application) handleInterrupt(ev backend.Event) error {
	switch data := ev.Data.(type) {
	case stopRequest:
		app.logger.Info("stop requested")
		return ErrQuit
	case watch.Event:
		app.logger.WithField("op", data.Op).Warn("external change to %s", data.Path)
		name := app.view.Buffer().FileInfo().Name()
		if data.Op.Has(watch.OpRemove) {
			app.setMessage(fmt.Sprintf(msgRemoved, name))
		} else {
			app.setMessage(fmt.Sprintf(msgChanged, name))
		}
	}
	return nil
}

// setMessage shows text and wakes the loop once it expires so the bar
// gets cleared without waiting for input.
func (app *Application) setMessage(text string) {
	app.message.Update(text)

	app.mu.Lock()
	defer app.mu.Unlock()
	if app.expiryTimer != nil {
		app.expiryTimer.Stop()
	}
	if app.backend == nil || !app.running.Load() {
		return
	}
	b := app.backend
	app.expiryTimer = time.AfterFunc(editor.DefaultMessageDuration+10*time.Millisecond, func() {
		_ = b.PostEvent(backend.Event{Type: backend.EventInterrupt})
	})
}

func (app *Application) stopTimers() {
	app.mu.Lock()
	defer app.mu.Unlock()
	if app.expiryTimer != nil {
		app.expiryTimer.Stop()
		app.expiryTimer = nil
	}
}

// resize lays out the components: the view takes every row except the
// last two, which hold the status bar and the message bar.
func (app *Application) resize(size viewport.Size) {
	app.size = size
	app.view.Resize(viewport.Size{Width: size.Width, Height: max(size.Height-2, 0)})
	app.status.Resize(viewport.Size{Width: size.Width, Height: min(size.Height, 1)})
	app.message.Resize(viewport.Size{Width: size.Width, Height: min(size.Height, 1)})
	app.logger.Debug("resized to %dx%d", size.Width, size.Height)
}

// refreshStatus updates the status bar and the terminal title.
func (app *Application) refreshStatus() {
	status := app.view.Status()
	app.status.Update(status)

	title := status.FileName + " - " + Name
	if title != app.title {
		app.backend.SetTitle(title)
		app.title = title
	}
}

// render paints whatever changed and places the terminal cursor on the
// view cursor.
func (app *Application) render() {
	if app.size.Width <= 0 || app.size.Height <= 0 {
		return
	}

	out := app.backend
	out.HideCursor()
	app.message.Render(out, app.size.Height-1)
	if app.size.Height > 1 {
		app.status.Render(out, app.size.Height-2)
	}
	if app.size.Height > 2 {
		app.view.Render(out, 0)
	}
	out.MoveCursorTo(app.view.CursorPosition())
	out.ShowCursor()
	out.Flush()
}

// startWatcher begins reporting external changes to the open file.
// Failures are logged; the session works without a watcher.
func (app *Application) startWatcher() {
	info := app.view.Buffer().FileInfo()
	if !app.cfg.Watch.Enabled || !info.HasPath() || app.opts.FileSystem != nil {
		return
	}

	w, err := watch.New(info.Path)
	if err != nil {
		app.logger.Warn("%v", NewOperationError("watch", info.Path, err))
		return
	}
	app.watcher = w
	app.watchDone = make(chan struct{})

	log := app.logger.WithComponent("watch")
	out := app.backend
	go func() {
		defer close(app.watchDone)
		events, errs := w.Events(), w.Errors()
		for events != nil || errs != nil {
			select {
			case ev, ok := <-events:
				if !ok {
					events = nil
					continue
				}
				if err := out.PostEvent(backend.Event{Type: backend.EventInterrupt, Data: ev}); err != nil {
					log.Warn("dropped change notice: %v", err)
				}
			case err, ok := <-errs:
				if !ok {
					errs = nil
					continue
				}
				log.Error("%v", err)
			}
		}
	}()
}

func (app *Application) stopWatcher() {
	if app.watcher == nil {
		return
	}
	if err := app.watcher.Close(); err != nil {
		app.logger.Warn("closing watcher: %v", err)
	}
	<-app.watchDone
	app.watcher = nil
}
