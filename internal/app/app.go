package app

import (
	"context"
	"errors"
	"io"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/dshills/delegator/internal/config"
	"github.com/dshills/delegator/internal/delegate"
	"github.com/dshills/delegator/internal/element"
	"github.com/dshills/delegator/internal/metrics"
	"github.com/dshills/delegator/internal/script"
	"github.com/dshills/delegator/internal/term"
)

// MetricsNamespace prefixes exported metric names.
const MetricsNamespace = "delegator"

// Application connects the terminal to the element tree and its
// delegation dispatchers.
type Application struct {
	cfg      *config.Config
	logger   *logrus.Logger
	closeLog func() error

	doc        *element.Document
	translator *term.Translator
	theme      term.Theme

	dispatcher       *delegate.Dispatcher[*delegate.Context]
	scripts          *script.Runtime
	scriptDispatcher *delegate.Dispatcher[*script.Runtime]

	collector *metrics.Collector
	registry  *prometheus.Registry

	running atomic.Bool
	opts    Options
}

// Options configures the application.
type Options struct {
	// ConfigPath is the configuration file. Empty uses the defaults.
	ConfigPath string

	// Config, when set, is used instead of loading ConfigPath.
	Config *config.Config

	// ScriptPath overrides the configured Lua script.
	ScriptPath string

	// LogLevel overrides the configured log level.
	LogLevel string

	// LogOutput receives logs when no log file is configured. Nil discards.
	LogOutput io.Writer

	// Screen overrides the terminal, e.g. with a simulation screen.
	Screen tcell.Screen
}

// New creates an application and builds every component except the terminal.
func New(ctx context.Context, opts Options) (*Application, error) {
	app := &Application{
		opts:  opts,
		theme: term.DefaultTheme(),
	}
	if err := app.bootstrap(ctx); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

// bootstrap initializes components in dependency order.
func (app *Application) bootstrap(ctx context.Context) error {
	// 1. Config
	cfg := app.opts.Config
	if cfg == nil {
		var err error
		if cfg, err = config.Load(ctx, app.opts.ConfigPath); err != nil {
			return &InitError{Component: "config", Err: err}
		}
	}
	if app.opts.ScriptPath != "" {
		cfg.Script.Path = app.opts.ScriptPath
	}
	if app.opts.LogLevel != "" {
		cfg.Log.Level = app.opts.LogLevel
	}
	app.cfg = cfg

	// 2. Logging
	logger, closeLog, err := NewLogger(cfg.Log, app.opts.LogOutput)
	if err != nil {
		return &InitError{Component: "logging", Err: err}
	}
	app.logger, app.closeLog = logger, closeLog

	// 3. Document
	if app.doc, err = BuildDocument(cfg.Elements); err != nil {
		return &InitError{Component: "document", Err: err}
	}
	app.translator = term.NewTranslator(app.doc)

	// 4. Metrics
	app.collector = metrics.NewCollector(MetricsNamespace)
	app.registry = prometheus.NewRegistry()
	if err := app.registry.Register(app.collector); err != nil {
		return &InitError{Component: "metrics", Err: err}
	}

	// 5. Configured bindings
	decl, err := bindingsDeclaration(cfg.Bindings, newActions(logger.WithField("component", "actions")))
	if err != nil {
		return &InitError{Component: "bindings", Err: err}
	}
	app.dispatcher, err = delegate.NewFromID(app.doc, cfg.Root, delegate.NewContext(), decl,
		delegate.WithLogger(logger.WithField("dispatcher", "config")),
		delegate.WithObserver(app.collector.Observer("config")),
	)
	if err != nil {
		return &InitError{Component: "bindings", Err: err}
	}

	// 6. Lua script
	if cfg.Script.Path != "" {
		if err := app.loadScript(cfg); err != nil {
			return &InitError{Component: "script", Err: err}
		}
	}

	logger.WithFields(logrus.Fields{
		"root":     cfg.Root,
		"bindings": app.dispatcher.Registry().Total(),
		"script":   cfg.Script.Path,
	}).Info("application initialized")
	return nil
}

func (app *Application) loadScript(cfg *config.Config) error {
	timeout, err := cfg.Script.TimeoutDuration()
	if err != nil {
		return err
	}
	app.scripts = script.New(
		script.WithLogger(app.logger.WithField("script", cfg.Script.Path)),
		script.WithTimeout(timeout),
	)
	decl, err := app.scripts.LoadFile(cfg.Script.Path)
	if err != nil {
		return err
	}
	app.scriptDispatcher, err = delegate.NewFromID(app.doc, cfg.Root, app.scripts, decl,
		delegate.WithLogger(app.logger.WithField("dispatcher", "script")),
		delegate.WithObserver(app.collector.Observer("script")),
	)
	return err
}

// Run initializes the terminal and processes events until the user quits or
// ctx is done.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	screen, err := app.newScreen()
	if err != nil {
		return &InitError{Component: "terminal", Err: err}
	}
	if err := screen.Init(); err != nil {
		return &InitError{Component: "terminal", Err: err}
	}
	defer screen.Shutdown()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if app.cfg.Metrics.Enabled {
		go func() {
			if err := metrics.Serve(ctx, app.cfg.Metrics.Address, app.registry); err != nil {
				app.logger.WithError(err).Error("metrics server stopped")
			}
		}()
	}

	return app.eventLoop(ctx, screen)
}

func (app *Application) newScreen() (*term.Screen, error) {
	if app.opts.Screen != nil {
		return term.NewScreenFrom(app.opts.Screen), nil
	}
	return term.NewScreen()
}

// eventLoop is the main application loop.
func (app *Application) eventLoop(ctx context.Context, screen *term.Screen) error {
	app.render(screen.Raw())

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-screen.Events():
			if !ok {
				return nil
			}
			if err := app.HandleEvent(ev); err != nil {
				if errors.Is(err, ErrQuit) {
					return nil
				}
				return err
			}
			if _, ok := ev.(*tcell.EventResize); ok {
				screen.Raw().Sync()
			}
			app.render(screen.Raw())
		}
	}
}

// HandleEvent translates a terminal event and delivers the resulting element
// events. Returns ErrQuit for Esc and Ctrl-C. A panicking handler aborts only
// the delivery of its own event; the failure is logged and counted.
func (app *Application) HandleEvent(ev tcell.Event) error {
	if key, ok := ev.(*tcell.EventKey); ok {
		switch key.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return ErrQuit
		}
	}

	for _, e := range app.translator.Translate(ev) {
		if err := app.deliver(e); err != nil {
			app.logger.WithError(err).Error("event delivery failed")
		}
	}
	return nil
}

// deliver dispatches e through the tree, recovering handler panics.
func (app *Application) deliver(e *element.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			app.collector.RecordPanic(e.Type())
			err = &DeliveryError{EventType: e.Type(), Target: e.Element().ID(), Value: r}
		}
	}()

	app.logger.WithFields(logrus.Fields{
		"event":  e.Type(),
		"target": e.Element().ID(),
	}).Trace("deliver")
	element.Dispatch(e)
	return nil
}

func (app *Application) render(screen tcell.Screen) {
	term.Render(screen, app.doc, app.Status(), app.theme)
}

// Status returns the status line text.
func (app *Application) Status() string {
	status := app.dispatcher.Context().String(KeyStatus)
	if app.scripts != nil {
		if s, ok := app.scripts.Get(KeyStatus).(string); ok && s != "" {
			if status == "" {
				return s
			}
			return status + " | " + s
		}
	}
	return status
}

// Close releases the Lua runtime and the log file.
func (app *Application) Close() {
	if app.scripts != nil {
		app.scripts.Close()
	}
	if app.closeLog != nil {
		_ = app.closeLog()
	}
}

// Config returns the effective configuration.
func (app *Application) Config() *config.Config {
	return app.cfg
}

// Document returns the element tree.
func (app *Application) Document() *element.Document {
	return app.doc
}

// Context returns the execution context shared by configured bindings.
func (app *Application) Context() *delegate.Context {
	return app.dispatcher.Context()
}

// Dispatcher returns the dispatcher for configured bindings.
func (app *Application) Dispatcher() *delegate.Dispatcher[*delegate.Context] {
	return app.dispatcher
}

// Script returns the Lua runtime, or nil without a script.
func (app *Application) Script() *script.Runtime {
	return app.scripts
}

// ScriptDispatcher returns the dispatcher for Lua bindings, or nil.
func (app *Application) ScriptDispatcher() *delegate.Dispatcher[*script.Runtime] {
	return app.scriptDispatcher
}

// Translator returns the terminal event translator.
func (app *Application) Translator() *term.Translator {
	return app.translator
}

// Gatherer returns the metrics registry.
func (app *Application) Gatherer() prometheus.Gatherer {
	return app.registry
}

// Logger returns the application logger.
func (app *Application) Logger() *logrus.Logger {
	return app.logger
}
