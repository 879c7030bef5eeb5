package input

import (
	"sync"
	"time"

	"github.com/dshills/vimcore/internal/dispatcher"
	"github.com/dshills/vimcore/internal/dispatcher/handler"
	"github.com/dshills/vimcore/internal/engine/text"
	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/input/vim"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}

// Handler is the modal editing engine for one document. It turns key
// events into commands and runs them against the buffer.
type Handler struct {
	mu sync.Mutex

	buf     text.Buffer
	d       *dispatcher.Dispatcher
	machine *mode.Machine
	parser  *vim.Parser
	hooks   *HookManager

	opts    Options
	grouper Grouper
	line    LineEditor
	builtin *LineBuffer
	logger  Logger

	// inGroup is set while an undo group is open.
	inGroup bool
}

// state is what the host callbacks report on.
type state struct {
	mode      mode.Mode
	cursor    text.Position
	selection mode.Selection
}

// New creates a handler editing buf with the default dispatcher config.
func New(buf text.Buffer, opts Options) *Handler {
	return NewWithConfig(buf, opts, dispatcher.DefaultConfig())
}

// NewWithConfig creates a handler with an explicit dispatcher config.
func NewWithConfig(buf text.Buffer, opts Options, config dispatcher.Config) *Handler {
	h := &Handler{
		buf:     buf,
		machine: mode.NewMachine(),
		parser:  vim.NewParser(),
		hooks:   NewHookManager(),
		opts:    opts,
		logger:  opts.Logger,
	}
	if h.logger == nil {
		h.logger = nopLogger{}
	}

	h.d = dispatcher.New(buf, h.machine, nil, config)
	h.d.SetLogger(h.logger)
	if opts.Logger != nil {
		logHook := dispatcher.NewLoggingHook(h.logger.Debug)
		h.d.RegisterPreHook(logHook)
		h.d.RegisterPostHook(logHook)
	}
	if opts.History != nil {
		h.d.SetHistory(opts.History)
		h.grouper, _ = opts.History.(Grouper)
	}

	h.line = opts.LineEditor
	if h.line == nil {
		h.builtin = &LineBuffer{}
		h.line = h.builtin
	}

	h.machine.OnChange(func(from, to mode.Mode) {
		h.logger.Debug("mode %s -> %s", from, to)
	})
	if opts.StartMode == mode.Insert {
		h.machine.EnterInsert(mode.LastOperation{}, false)
	}
	return h
}

// WithRegisters shares a register bank with other handlers.
func (h *Handler) WithRegisters(regs *vim.RegisterStore) *Handler {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.d.SetRegisters(regs)
	return h
}

// HandleKey processes one key event.
func (h *Handler) HandleKey(ev key.Event) Result {
	start := time.Now()

	h.mu.Lock()
	before := h.observe()
	var res Result
	if h.hooks.RunPre(&ev) {
		res = Result{Consumed: true}
		if h.opts.Metrics != nil {
			h.opts.Metrics.RecordHookConsumption()
		}
	} else {
		res = h.handleKey(ev)
		h.hooks.RunPost(ev, &res)
	}
	after := h.observe()
	h.mu.Unlock()

	if h.opts.Metrics != nil {
		h.opts.Metrics.RecordKey(time.Since(start), res)
	}
	h.notify(before, after)
	return res
}

func (h *Handler) handleKey(ev key.Event) Result {
	switch h.machine.Mode() {
	case mode.Insert:
		return h.handleInsert(ev)
	case mode.CommandLine:
		return h.handleCommandLine(ev)
	}
	return h.handleCommand(ev)
}

// handleInsert records typed text for repeat. The host inserts it.
func (h *Handler) handleInsert(ev key.Event) Result {
	if ev.IsEscape() {
		h.d.LeaveInsert()
		h.endGroup()
		return Result{Consumed: true}
	}
	h.machine.RecordInsert(ev)
	return Result{}
}

func (h *Handler) handleCommandLine(ev key.Event) Result {
	switch {
	case ev.IsEscape():
		h.line.Clear()
		h.machine.SetMode(mode.Normal)
		return Result{Consumed: true}

	case ev.IsEnter():
		line := h.line.Text()
		h.line.Clear()
		h.beginGroup()
		r := h.d.ExecuteCommandLine(line)
		if !h.machine.Is(mode.Insert) {
			h.endGroup()
		}
		return h.result(r)
	}

	if h.builtin == nil {
		return Result{}
	}
	// Backspace on an empty line abandons it.
	if ev.Key == key.KeyBackspace && h.builtin.Len() == 0 {
		h.machine.SetMode(mode.Normal)
		return Result{Consumed: true}
	}
	return Result{Consumed: h.builtin.HandleKey(ev)}
}

// handleCommand feeds the parser in Normal and visual modes.
func (h *Handler) handleCommand(ev key.Event) Result {
	if ev.IsEscape() {
		h.parser.Reset()
		h.machine.ClearKeys()
		if h.machine.Mode().IsVisual() {
			h.machine.SetMode(mode.Normal)
		}
		return Result{Consumed: true}
	}

	if visual := h.machine.Mode().IsVisual(); h.parser.Visual() != visual {
		h.parser.SetVisual(visual)
	}

	pr := h.parser.Feed(ev)
	switch pr.Status {
	case vim.StatusPending:
		h.machine.AddKey(ev)
		return Result{Consumed: true}
	case vim.StatusInvalid:
		h.machine.ClearKeys()
		return Result{Status: handler.StatusNoOp}
	}
	h.machine.ClearKeys()

	if h.opts.Metrics != nil {
		h.opts.Metrics.RecordCommand()
	}
	h.beginGroup()
	r := h.d.Dispatch(pr.Command)
	if !h.machine.Is(mode.Insert) {
		h.endGroup()
	}
	if r.IsError() {
		h.parser.Reset()
	}
	return h.result(r)
}

func (h *Handler) result(r handler.Result) Result {
	return Result{
		Consumed: true,
		Status:   r.Status,
		Err:      r.Error,
		Message:  h.d.Message(),
	}
}

func (h *Handler) beginGroup() {
	if h.grouper == nil || h.inGroup {
		return
	}
	h.grouper.BeginGroup(h.d.Cursor())
	h.inGroup = true
}

func (h *Handler) endGroup() {
	if !h.inGroup {
		return
	}
	h.grouper.EndGroup()
	h.inGroup = false
}

func (h *Handler) observe() state {
	return state{
		mode:      h.machine.Mode(),
		cursor:    h.d.Cursor(),
		selection: h.machine.Selection(),
	}
}

// notify runs the host callbacks for what changed.
func (h *Handler) notify(before, after state) {
	if before.mode != after.mode && h.opts.OnModeChange != nil {
		h.opts.OnModeChange(before.mode, after.mode)
	}
	if before.cursor != after.cursor && h.opts.OnCursor != nil {
		h.opts.OnCursor(after.cursor)
	}
	if before.selection != after.selection && h.opts.OnSelection != nil {
		h.opts.OnSelection(after.selection)
	}
}

// SetCursor moves the cursor, for hosts that edit the buffer themselves.
func (h *Handler) SetCursor(pos text.Position) {
	h.mu.Lock()
	before := h.observe()
	h.d.SetCursor(pos)
	after := h.observe()
	h.mu.Unlock()
	h.notify(before, after)
}

// Cursor returns the cursor.
func (h *Handler) Cursor() text.Position {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.d.Cursor()
}

// Mode returns the current mode.
func (h *Handler) Mode() mode.Mode {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.machine.Mode()
}

// CommandLineKind returns how the open command line was started.
func (h *Handler) CommandLineKind() mode.CommandLineKind {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.machine.CommandLineKind()
}

// CommandLine returns the text typed on the command line.
func (h *Handler) CommandLine() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.line.Text()
}

// Selection returns the visual selection.
func (h *Handler) Selection() mode.Selection {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.machine.Selection()
}

// PendingKeys returns the keys of the unfinished command.
func (h *Handler) PendingKeys() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.parser.PendingKeys()
}

// Message returns the status message of the last command.
func (h *Handler) Message() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.d.Message()
}

// Highlight reports whether search matches should be highlighted.
func (h *Handler) Highlight() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.d.Highlight()
}

// LastSearch returns the last search pattern, if any.
func (h *Handler) LastSearch() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.d.LastSearch().Get()
	return s.Pattern, ok
}

// Registers returns the register bank.
func (h *Handler) Registers() *vim.RegisterStore {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.d.Registers()
}

// SetEditorOptions replaces shiftwidth, expandtab and wrapscan.
func (h *Handler) SetEditorOptions(opts dispatcher.Options) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.d.SetOptions(opts)
}

// EditorOptions returns the editor options.
func (h *Handler) EditorOptions() dispatcher.Options {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.d.Options()
}

// SetFallback sets the handler for ex commands the engine does not know.
func (h *Handler) SetFallback(fn dispatcher.ExFallback) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.d.SetFallback(fn)
}

// SetLua attaches the runtime used by :lua.
func (h *Handler) SetLua(lua dispatcher.LuaRunner) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.d.SetLua(lua)
}

// LuaHost returns the view of this engine exposed to Lua. Its methods must
// only be called from Lua code run by :lua.
func (h *Handler) LuaHost() *dispatcher.LuaHost {
	return dispatcher.NewLuaHost(h.d)
}

// Hooks returns the key hook manager.
func (h *Handler) Hooks() *HookManager {
	return h.hooks
}

// DispatcherMetrics returns per-command metrics, if enabled.
func (h *Handler) DispatcherMetrics() *dispatcher.Metrics {
	return h.d.Metrics()
}

// ResetDocumentState clears state tied to the document contents, for
// hosts that replace the whole buffer: pending keys, the selection, the
// last operation, find and search repeat.
func (h *Handler) ResetDocumentState() {
	h.mu.Lock()
	before := h.observe()
	h.endGroup()
	h.parser.Reset()
	h.line.Clear()
	h.d.ResetDocumentState()
	after := h.observe()
	h.mu.Unlock()
	h.notify(before, after)
}
