// Package app wires the editing engine into a host: open documents that
// share registers, the host ex commands (:w, :q, :e, :bn), logging and
// configuration reload.
package app

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/dshills/vimcore/internal/config"
	"github.com/dshills/vimcore/internal/config/watcher"
	"github.com/dshills/vimcore/internal/input"
	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/input/vim"
)

// Application is the coordinator for open documents and the state they
// share.
type Application struct {
	mu sync.Mutex

	config    *config.Config
	logger    *Logger
	registers *vim.RegisterStore
	metrics   *input.Metrics
	documents *DocumentManager
	watcher   *watcher.Watcher

	// deferred runs after the current key, once the engine lock is free.
	deferred []func()

	quit atomic.Bool
}

// Options configures the application.
type Options struct {
	// Config is the initial configuration. Nil uses config.Default.
	Config *config.Config

	// Logger receives diagnostics. Nil discards them.
	Logger *Logger

	// Clipboard backs the + and * registers. Nil uses the system
	// clipboard when one is available.
	Clipboard vim.ClipboardProvider
}

// New creates an Application with no documents open.
func New(opts Options) *Application {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = NullLogger
	}

	regs := vim.NewRegisterStore()
	clip := opts.Clipboard
	if clip == nil {
		clip = vim.NewSystemClipboard()
	}
	regs.SetClipboard(clip)
	regs.SetClipboardMode(cfg.Editor.Clipboard)

	return &Application{
		config:    cfg,
		logger:    logger,
		registers: regs,
		metrics:   input.NewMetrics(),
		documents: NewDocumentManager(),
	}
}

// Open opens path, or activates it when it is already open.
func (app *Application) Open(path string) (*Document, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if doc, ok := app.documents.Find(absPath); ok {
		_ = app.documents.SetActive(doc)
		return doc, nil
	}

	var doc *Document
	doc, err = OpenDocument(absPath, app.documentOptions(func(line string) error {
		return app.runEx(doc, line)
	}))
	if err != nil {
		return nil, err
	}
	app.documents.Add(doc)
	return doc, nil
}

// OpenScratch opens an unnamed document holding content.
func (app *Application) OpenScratch(content string) (*Document, error) {
	var doc *Document
	opts := app.documentOptions(func(line string) error {
		return app.runEx(doc, line)
	})
	opts.Content = content

	doc, err := NewDocument(opts)
	if err != nil {
		return nil, err
	}
	app.documents.Add(doc)
	return doc, nil
}

func (app *Application) documentOptions(fallback func(string) error) DocumentOptions {
	return DocumentOptions{
		Config:    app.Config(),
		Logger:    app.logger,
		Registers: app.registers,
		Metrics:   app.metrics,
		Fallback:  fallback,
	}
}

// HandleKey sends a key to the active document.
func (app *Application) HandleKey(ev key.Event) input.Result {
	doc := app.documents.Active()
	if doc == nil {
		return input.Result{Err: ErrNoActiveDocument}
	}
	res := doc.HandleKey(ev)
	app.runDeferred()
	return res
}

// deferAfterKey queues fn to run after the current key.
func (app *Application) deferAfterKey(fn func()) {
	app.mu.Lock()
	defer app.mu.Unlock()
	app.deferred = append(app.deferred, fn)
}

func (app *Application) runDeferred() {
	app.mu.Lock()
	fns := app.deferred
	app.deferred = nil
	app.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Active returns the active document.
func (app *Application) Active() *Document {
	return app.documents.Active()
}

// Documents returns the document manager.
func (app *Application) Documents() *DocumentManager {
	return app.documents
}

// Registers returns the register bank shared by all documents.
func (app *Application) Registers() *vim.RegisterStore {
	return app.registers
}

// Metrics returns key handling metrics across documents.
func (app *Application) Metrics() *input.Metrics {
	return app.metrics
}

// Logger returns the application logger.
func (app *Application) Logger() *Logger {
	return app.logger
}

// QuitRequested reports whether an ex command asked the host to exit.
func (app *Application) QuitRequested() bool {
	return app.quit.Load()
}

// Config returns the current configuration.
func (app *Application) Config() *config.Config {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.config
}

// ApplyConfig switches to cfg. Editing options, the clipboard mode and the
// log level take effect at once; the rest applies to documents opened
// later.
func (app *Application) ApplyConfig(cfg *config.Config) {
	app.mu.Lock()
	app.config = cfg
	app.mu.Unlock()

	app.registers.SetClipboardMode(cfg.Editor.Clipboard)
	if app.logger != NullLogger {
		app.logger.SetLevel(ParseLogLevel(cfg.Logging.Level))
	}
	for _, doc := range app.documents.All() {
		doc.applyConfig(cfg)
	}
	app.logger.Info("configuration applied")
}

// WatchConfig reloads the configuration whenever one of paths changes.
// Paths whose directory does not exist are skipped.
func (app *Application) WatchConfig(paths []string) error {
	var watched []string
	for _, path := range paths {
		if info, err := os.Stat(filepath.Dir(path)); err == nil && info.IsDir() {
			watched = append(watched, path)
		}
	}
	if len(watched) == 0 {
		return nil
	}

	w, err := config.Watch(watched, func(cfg *config.Config, err error) {
		if err != nil {
			app.logger.Warn("config reload failed: %v", err)
			return
		}
		app.ApplyConfig(cfg)
	}, watcher.WithErrorHandler(func(err error) {
		app.logger.Warn("config watcher: %v", err)
	}))
	if err != nil {
		return err
	}

	app.mu.Lock()
	app.watcher = w
	app.mu.Unlock()
	return nil
}

// Close stops the config watcher and closes every document.
func (app *Application) Close() error {
	app.mu.Lock()
	w := app.watcher
	app.watcher = nil
	app.mu.Unlock()

	var errs []error
	if w != nil {
		errs = append(errs, w.Close())
	}
	for _, doc := range app.documents.All() {
		errs = append(errs, doc.Close())
		_ = app.documents.Remove(doc)
	}
	return errors.Join(errs...)
}
