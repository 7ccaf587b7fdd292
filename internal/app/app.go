// Package app wires the draftsmith demo editor together: configuration,
// logging, the text area host, the math renderer, the overlay manager and
// the terminal backend. It owns the single-threaded event loop that every
// overlay update runs on.
package app

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/draftsmith/internal/config"
	"github.com/dshills/draftsmith/internal/host"
	"github.com/dshills/draftsmith/internal/mathrender"
	"github.com/dshills/draftsmith/internal/renderer/backend"
	"github.com/dshills/draftsmith/internal/renderer/core"
	"github.com/dshills/draftsmith/internal/renderer/overlay"
	"github.com/dshills/draftsmith/internal/renderer/statusline"
)

// Application is the central coordinator for the editor components.
type Application struct {
	opts Options

	cfg       *config.Config
	loader    *config.Loader
	logger    *Logger
	logCloser io.Closer

	term     *backend.Terminal
	area     *host.TextArea
	async    *mathrender.Async
	manager  *overlay.Manager
	watcher  *config.Watcher

	status       *statusline.StatusLine
	baseRevision uint64
	pasting      bool

	// started is closed once Run has drawn its first frame.
	started   chan struct{}
	running   atomic.Bool
	done      chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool
}

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file. Empty skips the
	// file layer and live reload.
	ConfigPath string

	// LogLevel overrides log.level when set.
	LogLevel string

	// LogOutput overrides log.file when set.
	LogOutput io.Writer

	// Debug enables overlay invariant panics and debug logging.
	Debug bool

	// Text is the initial document.
	Text string

	// Filename is shown on the status line.
	Filename string

	// Screen replaces the real terminal, e.g. with a simulation screen.
	Screen tcell.Screen

	// Loader replaces the default config loader.
	Loader *config.Loader
}

// New creates a new Application with the given options. The terminal is
// not touched until Run.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts:    opts,
		loader:  opts.Loader,
		status:  statusline.New(),
		started: make(chan struct{}),
		done:    make(chan struct{}),
	}
	if app.loader == nil {
		app.loader = config.NewLoader()
	}

	if err := app.bootstrap(); err != nil {
		_ = app.release()
		return nil, err
	}
	return app, nil
}

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap() error {
	cfg, err := app.loader.Load(app.opts.ConfigPath)
	if err != nil {
		return NewComponentError("config", "load", err)
	}
	app.cfg = cfg

	if err := app.setupLogger(); err != nil {
		return NewComponentError("logger", "open", err)
	}
	for _, name := range app.loader.UnknownEnv() {
		app.logger.Warn("ignoring %s: no such setting", name)
	}

	if app.opts.Screen != nil {
		app.term = backend.NewTerminalWithScreen(app.opts.Screen)
	} else {
		term, err := backend.NewTerminal()
		if err != nil {
			return NewComponentError("terminal", "create", err)
		}
		app.term = term
	}

	// Sized on the first resize in Run.
	app.area = host.New(app.opts.Text, core.Sz(0, 0))
	app.baseRevision = app.area.Revision()
	app.status.SetFilename(app.opts.Filename)

	if err := app.buildManager(); err != nil {
		return err
	}

	if app.opts.ConfigPath != "" {
		w, err := config.NewWatcher(app.opts.ConfigPath, app.loader)
		if err != nil {
			app.logger.Warn("%v", NewOperationError("watch config", app.opts.ConfigPath, err).
				WithContext("live reload disabled"))
		} else {
			app.watcher = w
		}
	}

	app.logger.Info("started policy=%s theme=%s backend=%s",
		app.manager.Policy(), app.manager.Theme(), app.cfg.Render.Backend)
	return nil
}

func (app *Application) setupLogger() error {
	level := ParseLogLevel(app.cfg.Log.Level)
	if app.opts.LogLevel != "" {
		level = ParseLogLevel(app.opts.LogLevel)
	}
	if app.opts.Debug {
		level = LogLevelDebug
	}

	switch {
	case app.opts.LogOutput != nil:
		cfg := DefaultLoggerConfig()
		cfg.Level = level
		cfg.Output = app.opts.LogOutput
		app.logger = NewLogger(cfg)
	case app.cfg.Log.File != "":
		l, closer, err := OpenLogFile(app.cfg.Log.File, level)
		if err != nil {
			return err
		}
		app.logger, app.logCloser = l, closer
	default:
		cfg := DefaultLoggerConfig()
		cfg.Level = level
		cfg.Output = io.Discard
		app.logger = NewLogger(cfg)
	}
	return nil
}

// buildManager creates the renderer, the optional async worker pool and
// the overlay manager from the current settings, replacing any previous
// ones.
func (app *Application) buildManager() error {
	renderer, base, err := newRenderer(app.cfg.Render)
	if err != nil {
		return NewComponentError("renderer", "build", err)
	}
	policy, err := overlay.ParsePolicy(app.cfg.Overlay.Policy)
	if err != nil {
		return NewComponentError("overlay", "policy", err)
	}
	theme, err := overlay.ParseTheme(app.cfg.Render.Theme)
	if err != nil {
		return NewComponentError("overlay", "theme", err)
	}

	if app.manager != nil {
		app.manager.Dispose()
	}
	if app.async != nil {
		app.async.Close()
		app.async = nil
	}

	opts := []overlay.Option{
		overlay.WithPolicy(policy),
		overlay.WithTheme(theme),
		overlay.WithLimits(app.cfg.Overlay.Limits(base)),
		overlay.WithReuse(app.cfg.Overlay.Reuse),
		overlay.WithEnabled(app.cfg.Overlay.Enabled),
		overlay.WithDebug(app.opts.Debug || app.cfg.Overlay.Debug),
		overlay.WithLogger(app.logger.WithComponent("overlay")),
	}
	if app.cfg.Render.Async {
		app.async = mathrender.NewAsync(renderer, app.cfg.Render.Workers)
		opts = append(opts, overlay.WithAsync(app.async))
	}

	app.manager = overlay.NewManager(app.area, renderer, opts...)
	return nil
}

// newRenderer returns the renderer named by cfg.Backend and the overlay
// limits suited to its output.
func newRenderer(cfg config.RenderConfig) (overlay.Renderer, overlay.Limits, error) {
	switch cfg.Backend {
	case config.BackendTerminal, "":
		var opts []mathrender.TerminalOption
		if cfg.WordWrap > 0 {
			opts = append(opts, mathrender.WithWordWrap(cfg.WordWrap))
		}
		return mathrender.NewTerminal(opts...), overlay.TerminalLimits(), nil

	case config.BackendHTML:
		var opts []mathrender.HTMLOption
		switch {
		case cfg.LocalKaTeX != "":
			opts = append(opts, mathrender.WithLocalKaTeX(cfg.LocalKaTeX))
		case cfg.KaTeXURL != "":
			opts = append(opts, mathrender.WithKaTeXURL(cfg.KaTeXURL))
		}
		return mathrender.NewHTML(opts...), overlay.DefaultLimits(), nil

	default:
		return nil, overlay.Limits{}, fmt.Errorf("%w %q", ErrUnknownBackend, cfg.Backend)
	}
}

// Config returns the active settings.
func (app *Application) Config() *config.Config {
	return app.cfg
}

// Manager returns the overlay manager.
func (app *Application) Manager() *overlay.Manager {
	return app.manager
}

// TextArea returns the edited text area.
func (app *Application) TextArea() *host.TextArea {
	return app.area
}

// Logger returns the application's logger.
func (app *Application) Logger() *Logger {
	return app.logger
}

// Status returns the current status message.
func (app *Application) Status() string {
	msg, _ := app.status.Message()
	return msg
}

// IsRunning reports whether Run is active.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Shutdown asks a running event loop to return. It is safe to call from
// any goroutine and more than once.
func (app *Application) Shutdown() {
	app.closeOnce.Do(func() {
		close(app.done)
	})
}

// Close stops the application and releases every component. It must not
// be called while Run is still executing on another goroutine.
func (app *Application) Close() error {
	app.Shutdown()
	if !app.closed.CompareAndSwap(false, true) {
		return nil
	}
	return app.release()
}

// release tears components down in reverse initialization order.
func (app *Application) release() error {
	var errs []error
	if app.watcher != nil {
		if err := app.watcher.Close(); err != nil {
			errs = append(errs, NewComponentError("config", "stop watcher", err))
		}
	}
	if app.manager != nil {
		app.manager.Dispose()
	}
	if app.async != nil {
		app.async.Close()
	}
	if app.logCloser != nil {
		if err := app.logCloser.Close(); err != nil {
			errs = append(errs, NewComponentError("logger", "close", err))
		}
	}
	return errors.Join(errs...)
}
