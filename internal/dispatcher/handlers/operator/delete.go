package operator

import (
	"strings"

	"github.com/dshills/vimcore/internal/dispatcher/execctx"
	"github.com/dshills/vimcore/internal/dispatcher/handler"
	"github.com/dshills/vimcore/internal/engine/motion"
	"github.com/dshills/vimcore/internal/input/vim"
)

// Delete removes the range and stores it in a register.
type Delete struct{}

// Name implements Operator.
func (Delete) Name() string { return vim.OpDelete }

// Repeatable implements Operator.
func (Delete) Repeatable() bool { return true }

// EntersInsert implements Operator.
func (Delete) EntersInsert() bool { return false }

// Execute implements Operator.
func (Delete) Execute(r motion.Range, ctx *execctx.ExecutionContext) handler.Result {
	if err := ctx.ValidateForRegisters(); err != nil {
		return handler.Error(err)
	}
	snap := ctx.Snapshot
	s := resolve(r, snap)
	if !s.linewise && s.start.Compare(s.end) == 0 {
		return handler.NoOp()
	}

	reg := s.register(snap)
	edit, err := replace(ctx, s.start, s.end, "")
	if err != nil {
		return handler.Error(err)
	}
	small := !s.linewise && !strings.Contains(reg.Content, "\n")
	ctx.Registers.Delete(ctx.Register, reg, small)
	after := ctx.Refresh()

	if s.linewise {
		return handler.Success().
			WithEdit(edit).
			WithCursor(firstNonBlank(after, min(s.first, after.LastLine())))
	}
	return handler.Success().
		WithEdit(edit).
		WithCursor(after.CursorAt(s.start.Line, s.start.Column))
}

// Change deletes the range and enters insert mode. A linewise change keeps
// one empty line to type into.
type Change struct{}

// Name implements Operator.
func (Change) Name() string { return vim.OpChange }

// Repeatable implements Operator.
func (Change) Repeatable() bool { return true }

// EntersInsert implements Operator.
func (Change) EntersInsert() bool { return true }

// Execute implements Operator.
func (Change) Execute(r motion.Range, ctx *execctx.ExecutionContext) handler.Result {
	if err := ctx.ValidateForRegisters(); err != nil {
		return handler.Error(err)
	}
	snap := ctx.Snapshot
	s := resolve(r, snap)

	reg := s.register(snap)
	start, end := s.start, s.end
	if s.linewise {
		start, end = s.lineBounds(snap)
	}
	if start.Compare(end) == 0 {
		// Nothing to remove; still enter insert at the start.
		return handler.Success().WithCursor(start).WithInsert()
	}

	edit, err := replace(ctx, start, end, "")
	if err != nil {
		return handler.Error(err)
	}
	small := !s.linewise && !strings.Contains(reg.Content, "\n")
	ctx.Registers.Delete(ctx.Register, reg, small)
	after := ctx.Refresh()
	return handler.Success().
		WithEdit(edit).
		WithCursor(after.PositionAt(start.Line, start.Column)).
		WithInsert()
}

// Yank copies the range into a register.
type Yank struct{}

// Name implements Operator.
func (Yank) Name() string { return vim.OpYank }

// Repeatable implements Operator.
func (Yank) Repeatable() bool { return false }

// EntersInsert implements Operator.
func (Yank) EntersInsert() bool { return false }

// Execute implements Operator.
func (Yank) Execute(r motion.Range, ctx *execctx.ExecutionContext) handler.Result {
	if err := ctx.ValidateForRegisters(); err != nil {
		return handler.Error(err)
	}
	snap := ctx.Snapshot
	s := resolve(r, snap)
	if !s.linewise && s.start.Compare(s.end) == 0 {
		return handler.NoOp()
	}

	reg := s.register(snap)
	ctx.Registers.Yank(ctx.Register, reg)

	return handler.Success().WithCursor(restingCursor(snap, s, ctx.Cursor))
}
