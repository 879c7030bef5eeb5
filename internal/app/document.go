package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/vimcore/internal/config"
	"github.com/dshills/vimcore/internal/dispatcher"
	"github.com/dshills/vimcore/internal/engine/history"
	"github.com/dshills/vimcore/internal/engine/text"
	"github.com/dshills/vimcore/internal/input"
	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/input/vim"
	"github.com/dshills/vimcore/internal/plugin/lua"
)

// Document is an open file with its own modal editing engine.
type Document struct {
	// ID identifies the document in logs.
	ID uuid.UUID

	mu   sync.RWMutex
	path string
	name string
	// eol records whether the file ended with a newline.
	eol bool

	text    *text.MemoryBuffer
	history *history.History

	// Handler is the editing engine. Hosts feed it keys through
	// Document.HandleKey so Insert mode text lands in the buffer.
	Handler *input.Handler

	lua    *lua.State
	logger *Logger

	savedRevision atomic.Uint64
}

// DocumentOptions configures a new Document.
type DocumentOptions struct {
	// Path is the file path. Empty creates a scratch document.
	Path    string
	Content string

	Config    *config.Config
	Logger    *Logger
	Registers *vim.RegisterStore
	Metrics   *input.Metrics

	// Fallback runs ex commands the engine does not know.
	Fallback dispatcher.ExFallback
}

// NewDocument creates a document and its engine.
func NewDocument(opts DocumentOptions) (*Document, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = NullLogger
	}

	content, eol := strings.CutSuffix(opts.Content, "\n")
	buf := text.NewMemoryBuffer(content)
	hist := history.New(buf, cfg.Editor.HistorySize)

	doc := &Document{
		ID:      uuid.New(),
		eol:     eol || opts.Content == "",
		text:    buf,
		history: hist,
	}
	doc.setPath(opts.Path)
	doc.logger = logger.WithComponent("document").WithField("doc", doc.ID.String())
	doc.savedRevision.Store(buf.Revision())

	doc.Handler = input.NewWithConfig(hist, input.Options{
		StartMode: startMode(cfg.Editor.StartMode),
		History:   hist,
		Logger:    doc.logger,
		Metrics:   opts.Metrics,
	}, dispatcher.DefaultConfig().WithMetrics())
	doc.Handler.SetEditorOptions(editorOptions(cfg.Editor))
	if opts.Registers != nil {
		doc.Handler.WithRegisters(opts.Registers)
	}
	if opts.Fallback != nil {
		doc.Handler.SetFallback(opts.Fallback)
	}

	if cfg.Plugins.Enabled {
		if err := doc.startLua(cfg.Plugins); err != nil {
			return nil, err
		}
	}

	doc.logger.Debug("opened %s (%d lines)", doc.Name(), buf.Snapshot().LineCount())
	return doc, nil
}

// OpenDocument reads path and creates a document for it. A missing file
// opens as an empty document that will be created on save.
func OpenDocument(path string, opts DocumentOptions) (*Document, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(absPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, &FileError{Op: "open", Path: absPath, Err: err}
	}
	opts.Path = absPath
	opts.Content = string(data)
	return NewDocument(opts)
}

// startLua creates the Lua runtime behind :lua and runs the init file.
// The engine is not shared yet, so the init file may drive it directly.
func (d *Document) startLua(cfg config.PluginsConfig) error {
	state, err := lua.NewState(lua.WithExecutionTimeout(cfg.TimeoutDuration()))
	if err != nil {
		return fmt.Errorf("starting lua: %w", err)
	}
	state.Bind(d.Handler.LuaHost())
	d.Handler.SetLua(state)
	d.lua = state

	if cfg.Init == "" {
		return nil
	}
	initFile := expandHome(cfg.Init)
	if _, err := os.Stat(initFile); err != nil {
		d.logger.Warn("lua init %s: %v", initFile, err)
		return nil
	}
	if err := state.DoFile(initFile); err != nil {
		d.logger.Warn("lua init %s failed: %v", initFile, err)
	}
	return nil
}

// HandleKey feeds one key to the engine and inserts the text of keys the
// engine leaves to the host in Insert mode.
func (d *Document) HandleKey(ev key.Event) input.Result {
	res := d.Handler.HandleKey(ev)
	if res.Consumed || d.Handler.Mode() != mode.Insert {
		return res
	}
	if err := d.insertKey(ev); err != nil {
		d.logger.Warn("insert %s: %v", ev.VimString(), err)
		res.Err = err
	}
	return res
}

// insertKey applies an Insert mode key at the cursor.
func (d *Document) insertKey(ev key.Event) error {
	cur := d.Handler.Cursor()
	snap := d.history.Snapshot()
	pos := snap.PositionAt(cur.Line, cur.Column)

	switch ev.Key {
	case key.KeyBackspace:
		if pos.Offset == 0 {
			return nil
		}
		prev := snap.PositionFromOffset(pos.Offset - 1)
		if err := d.history.DeleteRange(prev, pos); err != nil {
			return err
		}
		d.Handler.SetCursor(prev)
		return nil
	case key.KeyLeft:
		d.Handler.SetCursor(text.Position{Line: cur.Line, Column: max(cur.Column-1, 0)})
		return nil
	case key.KeyRight:
		d.Handler.SetCursor(text.Position{Line: cur.Line, Column: cur.Column + 1})
		return nil
	case key.KeyUp:
		d.Handler.SetCursor(text.Position{Line: max(cur.Line-1, 0), Column: cur.Column})
		return nil
	case key.KeyDown:
		d.Handler.SetCursor(text.Position{Line: cur.Line + 1, Column: cur.Column})
		return nil
	}

	s := ev.Text()
	if s == "" {
		return nil
	}
	if s == "\t" {
		if opts := d.Handler.EditorOptions(); opts.ExpandTab {
			s = strings.Repeat(" ", opts.ShiftWidth)
		}
	}
	if err := d.history.Insert(pos, s); err != nil {
		return err
	}
	d.Handler.SetCursor(d.history.Snapshot().PositionFromOffset(pos.Offset + text.GraphemeCount(s)))
	return nil
}

// Path returns the absolute file path, empty for scratch documents.
func (d *Document) Path() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.path
}

// Name returns the display name.
func (d *Document) Name() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.name
}

func (d *Document) setPath(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.path = path
	d.name = filepath.Base(path)
	if path == "" {
		d.name = "[No Name]"
	}
}

// IsScratch returns true if this is a scratch buffer (no file path).
func (d *Document) IsScratch() bool {
	return d.Path() == ""
}

// IsModified returns true if the document changed since it was loaded or
// saved.
func (d *Document) IsModified() bool {
	return d.text.Revision() != d.savedRevision.Load()
}

// Content returns the full document content as it would be saved. An
// empty document saves as an empty file.
func (d *Document) Content() string {
	d.mu.RLock()
	eol := d.eol
	d.mu.RUnlock()
	content := d.text.Text()
	if eol && content != "" {
		return content + "\n"
	}
	return content
}

// Lines returns the document lines.
func (d *Document) Lines() []string {
	return d.text.Lines()
}

// Snapshot returns the current view of the text.
func (d *Document) Snapshot() *text.Snapshot {
	return d.text.Snapshot()
}

// Save writes the document to its path.
func (d *Document) Save() error {
	path := d.Path()
	if path == "" {
		return ErrNoFilePath
	}
	return d.SaveAs(path)
}

// SaveAs writes the document to path and makes path its file.
func (d *Document) SaveAs(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	rev := d.text.Revision()
	if err := os.WriteFile(absPath, []byte(d.Content()), 0o644); err != nil {
		return &FileError{Op: "write", Path: absPath, Err: err}
	}
	d.savedRevision.Store(rev)
	d.setPath(absPath)
	d.logger.Info("wrote %s", absPath)
	return nil
}

// Reload replaces the text with the file contents, dropping undo history.
// Callers must not hold the Handler, so ex commands defer it.
func (d *Document) Reload() error {
	path := d.Path()
	if path == "" {
		return ErrNoFilePath
	}
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return &FileError{Op: "read", Path: path, Err: err}
	}

	content, eol := strings.CutSuffix(string(data), "\n")
	d.mu.Lock()
	d.eol = eol || len(data) == 0
	d.mu.Unlock()

	d.text.SetText(content)
	d.history.Clear()
	d.savedRevision.Store(d.text.Revision())
	d.Handler.ResetDocumentState()
	d.Handler.SetCursor(text.Position{})
	return nil
}

// applyConfig updates the options that can change while a document is
// open.
func (d *Document) applyConfig(cfg *config.Config) {
	d.Handler.SetEditorOptions(editorOptions(cfg.Editor))
}

// Close releases the Lua runtime.
func (d *Document) Close() error {
	if d.lua == nil {
		return nil
	}
	return d.lua.Close()
}

func editorOptions(c config.EditorConfig) dispatcher.Options {
	return dispatcher.Options{
		ShiftWidth: c.ShiftWidth,
		ExpandTab:  c.ExpandTab,
		WrapScan:   c.WrapScan,
	}
}

func startMode(s string) mode.Mode {
	if s == config.StartInsert {
		return mode.Insert
	}
	return mode.Normal
}

func expandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}

// DocumentManager tracks the open documents in the order they were
// opened.
type DocumentManager struct {
	mu     sync.RWMutex
	order  []*Document
	active *Document
}

// NewDocumentManager creates a new document manager.
func NewDocumentManager() *DocumentManager {
	return &DocumentManager{}
}

// Add appends a document and makes it active.
func (dm *DocumentManager) Add(doc *Document) {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	dm.order = append(dm.order, doc)
	dm.active = doc
}

// Find returns the open document for an absolute path.
func (dm *DocumentManager) Find(path string) (*Document, bool) {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	for _, doc := range dm.order {
		if path != "" && doc.Path() == path {
			return doc, true
		}
	}
	return nil, false
}

// Remove drops a document. The next document, or the previous one when
// it was last, becomes active.
func (dm *DocumentManager) Remove(doc *Document) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	idx := dm.indexLocked(doc)
	if idx < 0 {
		return ErrDocumentNotFound
	}
	dm.order = append(dm.order[:idx], dm.order[idx+1:]...)

	if dm.active == doc {
		dm.active = nil
		if len(dm.order) > 0 {
			dm.active = dm.order[min(idx, len(dm.order)-1)]
		}
	}
	return nil
}

// Active returns the currently active document.
func (dm *DocumentManager) Active() *Document {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.active
}

// SetActive makes an open document active.
func (dm *DocumentManager) SetActive(doc *Document) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	if dm.indexLocked(doc) < 0 {
		return ErrDocumentNotFound
	}
	dm.active = doc
	return nil
}

// All returns all open documents.
func (dm *DocumentManager) All() []*Document {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return append([]*Document(nil), dm.order...)
}

// Count returns the number of open documents.
func (dm *DocumentManager) Count() int {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return len(dm.order)
}

// HasDirty returns true if any document has unsaved changes.
func (dm *DocumentManager) HasDirty() bool {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	for _, doc := range dm.order {
		if doc.IsModified() {
			return true
		}
	}
	return false
}

// Next activates and returns the next document, wrapping around.
func (dm *DocumentManager) Next() *Document {
	return dm.step(1)
}

// Previous activates and returns the previous document, wrapping around.
func (dm *DocumentManager) Previous() *Document {
	return dm.step(-1)
}

func (dm *DocumentManager) step(delta int) *Document {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	idx := dm.indexLocked(dm.active)
	if idx < 0 {
		return dm.active
	}
	n := len(dm.order)
	dm.active = dm.order[((idx+delta)%n+n)%n]
	return dm.active
}

func (dm *DocumentManager) indexLocked(doc *Document) int {
	for i, d := range dm.order {
		if d == doc {
			return i
		}
	}
	return -1
}
