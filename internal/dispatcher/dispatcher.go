package dispatcher

import (
	"fmt"
	"runtime"
	"time"

	"github.com/samber/mo"

	"github.com/dshills/vimcore/internal/dispatcher/execctx"
	"github.com/dshills/vimcore/internal/dispatcher/handler"
	"github.com/dshills/vimcore/internal/engine/motion"
	"github.com/dshills/vimcore/internal/engine/text"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/input/vim"
)

// History is the host undo store.
type History interface {
	// Undo reverts the most recent change and returns where the cursor goes.
	Undo() (text.Position, bool)

	// Redo reapplies the most recently undone change.
	Redo() (text.Position, bool)
}

// Logger receives dispatcher diagnostics.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

// ExFallback runs ex commands the dispatcher does not know (":w", ":q").
type ExFallback func(line string) error

// LuaRunner executes Lua source for the :lua command.
type LuaRunner interface {
	Exec(code string) error
}

// Search is the last search pattern and its direction.
type Search struct {
	Pattern string
	Forward bool
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}

// Dispatcher executes commands for one document. It is not safe for
// concurrent use; the owning input.Handler serializes calls.
type Dispatcher struct {
	buf       text.Buffer
	machine   *mode.Machine
	registers *vim.RegisterStore
	history   History
	fallback  ExFallback
	lua       LuaRunner
	logger    Logger

	config  Config
	options Options
	metrics *Metrics
	ex      *Registry

	preHooks  []PreDispatchHook
	postHooks []PostDispatchHook

	cursor     text.Position
	lastFind   mo.Option[motion.Find]
	lastSearch mo.Option[Search]
	highlight  bool
	repeating  bool
	inLua      bool
	message    string
}

// New creates a dispatcher editing buf. A nil machine or register store is
// replaced with a fresh one.
func New(buf text.Buffer, machine *mode.Machine, registers *vim.RegisterStore, config Config) *Dispatcher {
	if machine == nil {
		machine = mode.NewMachine()
	}
	if registers == nil {
		registers = vim.NewRegisterStore()
	}
	d := &Dispatcher{
		buf:       buf,
		machine:   machine,
		registers: registers,
		logger:    nopLogger{},
		config:    config,
		options:   DefaultOptions(),
		ex:        NewRegistry(),
	}
	if config.EnableMetrics {
		d.metrics = NewMetrics()
	}
	d.registerExCommands()
	return d
}

// SetHistory sets the undo store used by u and Ctrl-r.
func (d *Dispatcher) SetHistory(h History) {
	d.history = h
}

// SetFallback sets the handler for unknown ex commands.
func (d *Dispatcher) SetFallback(fn ExFallback) {
	d.fallback = fn
}

// SetLua attaches the runtime used by :lua.
func (d *Dispatcher) SetLua(lua LuaRunner) {
	d.lua = lua
}

// SetLogger sets the diagnostics logger. nil discards output.
func (d *Dispatcher) SetLogger(l Logger) {
	if l == nil {
		l = nopLogger{}
	}
	d.logger = l
}

// SetOptions replaces the editor options.
func (d *Dispatcher) SetOptions(opts Options) {
	d.options = opts
}

// Options returns the editor options.
func (d *Dispatcher) Options() Options {
	return d.options
}

// SetRegisters replaces the register bank, for hosts sharing one bank
// between documents.
func (d *Dispatcher) SetRegisters(regs *vim.RegisterStore) {
	if regs != nil {
		d.registers = regs
	}
}

// Registers returns the register bank.
func (d *Dispatcher) Registers() *vim.RegisterStore {
	return d.registers
}

// Machine returns the mode state machine.
func (d *Dispatcher) Machine() *mode.Machine {
	return d.machine
}

// Buffer returns the document buffer.
func (d *Dispatcher) Buffer() text.Buffer {
	return d.buf
}

// Cursor returns the cursor.
func (d *Dispatcher) Cursor() text.Position {
	return d.cursor
}

// SetCursor moves the cursor. Outside Insert mode the cursor is kept on an
// existing character; in visual mode the selection follows it.
func (d *Dispatcher) SetCursor(pos text.Position) {
	snap := d.buf.Snapshot()
	if d.machine.Is(mode.Insert, mode.CommandLine) {
		d.cursor = snap.PositionAt(pos.Line, pos.Column)
	} else {
		d.cursor = snap.CursorAt(pos.Line, pos.Column)
	}
	if d.machine.Mode().IsVisual() {
		d.machine.MoveSelection(d.cursor)
	}
}

// Message returns the status message left by the last command.
func (d *Dispatcher) Message() string {
	return d.message
}

// Highlight reports whether search matches should be highlighted.
func (d *Dispatcher) Highlight() bool {
	return d.highlight
}

// LastFind returns the last f/F/t/T search.
func (d *Dispatcher) LastFind() mo.Option[motion.Find] {
	return d.lastFind
}

// LastSearch returns the last / or ? search.
func (d *Dispatcher) LastSearch() mo.Option[Search] {
	return d.lastSearch
}

// ResetDocumentState clears per-document state: find and search repeat,
// the last operation and any pending input.
func (d *Dispatcher) ResetDocumentState() {
	d.lastFind = mo.None[motion.Find]()
	d.lastSearch = mo.None[Search]()
	d.highlight = false
	d.message = ""
	d.machine.ResetDocument()
	d.cursor = d.buf.Snapshot().CursorAt(d.cursor.Line, d.cursor.Column)
}

// Metrics returns the metrics collector (nil if disabled).
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}

// Config returns the dispatcher configuration.
func (d *Dispatcher) Config() Config {
	return d.config
}

// ExCommands returns the ex command registry.
func (d *Dispatcher) ExCommands() *Registry {
	return d.ex
}

// RegisterPreHook registers a pre-dispatch hook.
func (d *Dispatcher) RegisterPreHook(hook PreDispatchHook) {
	d.preHooks = append(d.preHooks, hook)
}

// RegisterPostHook registers a post-dispatch hook.
func (d *Dispatcher) RegisterPostHook(hook PostDispatchHook) {
	d.postHooks = append(d.postHooks, hook)
}

// Dispatch executes a completed command.
func (d *Dispatcher) Dispatch(cmd *vim.Command) handler.Result {
	startTime := time.Now()
	d.message = ""

	for _, h := range d.preHooks {
		if !h.PreDispatch(cmd) {
			result := handler.NoOpWithMessage(ErrActionCancelled.Error())
			d.finish(commandName(cmd), result)
			return result
		}
	}
	if limit := d.config.MaxRepeatCount; limit > 0 && cmd.Count > limit {
		cmd.Count = limit
	}

	var result handler.Result
	if d.config.RecoverFromPanic {
		result = d.executeWithRecovery(cmd)
	} else {
		result = d.execute(cmd)
	}

	for _, h := range d.postHooks {
		h.PostDispatch(cmd, &result)
	}

	d.finish(commandName(cmd), result)
	if d.metrics != nil {
		d.metrics.RecordDispatch(commandName(cmd), time.Since(startTime), result.Status)
	}
	return result
}

// finish records the message and logs failures.
func (d *Dispatcher) finish(name string, result handler.Result) {
	if result.Message != "" {
		d.message = result.Message
	}
	if result.IsError() {
		d.logger.Warn("%s failed: %v", name, result.Error)
		if d.message == "" && result.Error != nil {
			d.message = result.Error.Error()
		}
	}
}

// executeWithRecovery executes a command with panic recovery.
func (d *Dispatcher) executeWithRecovery(cmd *vim.Command) (result handler.Result) {
	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			n := runtime.Stack(stack, false)

			result = handler.Error(fmt.Errorf("%w: %s: %v\n%s", ErrPanic, commandName(cmd), r, stack[:n]))
			d.repeating = false
			d.machine.ClearKeys()

			if d.metrics != nil {
				d.metrics.RecordPanic(commandName(cmd))
			}
		}
	}()

	return d.execute(cmd)
}

func (d *Dispatcher) execute(cmd *vim.Command) handler.Result {
	switch cmd.Kind {
	case vim.KindMotion:
		return d.runMotion(cmd)
	case vim.KindOperator:
		return d.runOperator(cmd)
	case vim.KindTextObject:
		return d.runVisualTextObject(cmd)
	case vim.KindSpecial:
		return d.runSpecial(cmd)
	}
	return handler.Errorf("unknown command kind %s", cmd.Kind)
}

// context builds the execution context for an operator run.
func (d *Dispatcher) context(reg rune, count int) *execctx.ExecutionContext {
	return execctx.New().
		WithBuffer(d.buf).
		WithCursor(d.cursor).
		WithRegisters(d.registers).
		WithRegister(reg).
		WithCount(count).
		WithOptions(d.options.exec())
}

// apply moves the cursor to the result cursor, if any.
func (d *Dispatcher) apply(result handler.Result) {
	if pos, ok := result.Cursor.Get(); ok {
		d.cursor = pos
	}
}

// leaveVisual returns to Normal when a visual command finished.
func (d *Dispatcher) leaveVisual() {
	if d.machine.Mode().IsVisual() {
		d.machine.SetMode(mode.Normal)
	}
}

func commandName(cmd *vim.Command) string {
	switch cmd.Kind {
	case vim.KindMotion:
		if cmd.Motion != nil {
			return "motion:" + cmd.Motion.Name
		}
	case vim.KindOperator:
		if cmd.Operator != nil {
			return "operator:" + cmd.Operator.Name
		}
	case vim.KindTextObject:
		return "textObject:" + string(cmd.TextObject)
	case vim.KindSpecial:
		return "special:" + string(cmd.Special)
	}
	return cmd.Kind.String()
}
