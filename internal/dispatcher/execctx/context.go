// Package execctx provides the execution context for operators and ex commands.
package execctx

import (
	"github.com/samber/mo"

	"github.com/dshills/vimcore/internal/engine/text"
	"github.com/dshills/vimcore/internal/input/vim"
)

// Registers is the register bank surface operators use.
type Registers interface {
	Get(name rune) vim.Register
	Yank(name rune, reg vim.Register)
	Delete(name rune, reg vim.Register, small bool)
}

// Options are the editor options operators consult.
type Options struct {
	// ShiftWidth is the indent width for > and <.
	ShiftWidth int

	// ExpandTab indents with spaces instead of tabs.
	ExpandTab bool
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{ShiftWidth: 4, ExpandTab: true}
}

// ExecutionContext carries what a single command execution needs.
type ExecutionContext struct {
	// Buffer is the document being edited.
	Buffer text.Buffer

	// Snapshot is the document before the command ran.
	Snapshot *text.Snapshot

	// Cursor is the cursor before the command ran.
	Cursor text.Position

	// Registers is the register bank.
	Registers Registers

	// Register is the register named for this command (0 means default).
	Register rune

	// Count is the repeat count (1 if not specified).
	Count int

	// Char is the character argument of r.
	Char string

	// Content overrides the register read by paste.
	Content mo.Option[vim.Register]

	// Args is the argument text of an ex command.
	Args string

	// FirstLine and LastLine are the line range of an ex command.
	FirstLine, LastLine int

	// Options are the editor options.
	Options Options
}

// New creates a new execution context.
func New() *ExecutionContext {
	return &ExecutionContext{
		Count:   1,
		Options: DefaultOptions(),
	}
}

// WithBuffer returns the context with the buffer set. The snapshot is
// refreshed from the buffer.
func (ctx *ExecutionContext) WithBuffer(buf text.Buffer) *ExecutionContext {
	ctx.Buffer = buf
	if buf != nil {
		ctx.Snapshot = buf.Snapshot()
	}
	return ctx
}

// WithCursor returns the context with the cursor set.
func (ctx *ExecutionContext) WithCursor(cur text.Position) *ExecutionContext {
	ctx.Cursor = cur
	return ctx
}

// WithRegisters returns the context with the register bank set.
func (ctx *ExecutionContext) WithRegisters(regs Registers) *ExecutionContext {
	ctx.Registers = regs
	return ctx
}

// WithRegister returns the context with the named register set.
func (ctx *ExecutionContext) WithRegister(name rune) *ExecutionContext {
	ctx.Register = name
	return ctx
}

// WithCount returns the context with repeat count set.
func (ctx *ExecutionContext) WithCount(count int) *ExecutionContext {
	if count > 0 {
		ctx.Count = count
	}
	return ctx
}

// WithChar returns the context with the character argument set.
func (ctx *ExecutionContext) WithChar(ch string) *ExecutionContext {
	ctx.Char = ch
	return ctx
}

// WithContent returns the context with a paste override set.
func (ctx *ExecutionContext) WithContent(reg vim.Register) *ExecutionContext {
	ctx.Content = mo.Some(reg)
	return ctx
}

// WithLines returns the context with an ex line range set.
func (ctx *ExecutionContext) WithLines(first, last int) *ExecutionContext {
	ctx.FirstLine, ctx.LastLine = first, last
	return ctx
}

// WithArgs returns the context with ex command arguments set.
func (ctx *ExecutionContext) WithArgs(args string) *ExecutionContext {
	ctx.Args = args
	return ctx
}

// WithOptions returns the context with editor options set.
func (ctx *ExecutionContext) WithOptions(opts Options) *ExecutionContext {
	ctx.Options = opts
	return ctx
}

// GetCount returns the repeat count, defaulting to 1.
func (ctx *ExecutionContext) GetCount() int {
	if ctx.Count <= 0 {
		return 1
	}
	return ctx.Count
}

// Refresh re-reads the snapshot after an edit.
func (ctx *ExecutionContext) Refresh() *text.Snapshot {
	if ctx.Buffer != nil {
		ctx.Snapshot = ctx.Buffer.Snapshot()
	}
	return ctx.Snapshot
}

// Validate checks that the context has all required components.
func (ctx *ExecutionContext) Validate() error {
	if ctx.Buffer == nil || ctx.Snapshot == nil {
		return ErrMissingBuffer
	}
	return nil
}

// ValidateForRegisters checks that the context can read and write registers.
func (ctx *ExecutionContext) ValidateForRegisters() error {
	if err := ctx.Validate(); err != nil {
		return err
	}
	if ctx.Registers == nil {
		return ErrMissingRegisters
	}
	return nil
}
