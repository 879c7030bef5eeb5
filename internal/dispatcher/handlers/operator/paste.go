package operator

import (
	"strings"

	"github.com/dshills/vimcore/internal/dispatcher/execctx"
	"github.com/dshills/vimcore/internal/dispatcher/handler"
	"github.com/dshills/vimcore/internal/engine/motion"
	"github.com/dshills/vimcore/internal/engine/text"
	"github.com/dshills/vimcore/internal/input/vim"
)

// Paste inserts register content count times relative to the cursor.
// The range argument is ignored; paste always works from ctx.Cursor.
type Paste struct {
	// Before pastes above the cursor line or before the cursor column.
	Before bool
}

// Name implements Operator.
func (o Paste) Name() string {
	if o.Before {
		return NamePasteBefore
	}
	return NamePasteAfter
}

// Repeatable implements Operator.
func (Paste) Repeatable() bool { return true }

// EntersInsert implements Operator.
func (Paste) EntersInsert() bool { return false }

// Execute implements Operator.
func (o Paste) Execute(_ motion.Range, ctx *execctx.ExecutionContext) handler.Result {
	if err := ctx.Validate(); err != nil {
		return handler.Error(err)
	}
	reg, ok := ctx.Content.Get()
	if !ok {
		if ctx.Registers == nil {
			return handler.Error(execctx.ErrMissingRegisters)
		}
		reg = ctx.Registers.Get(ctx.Register)
	}
	if reg.IsEmpty() {
		return handler.NoOpWithMessage("register is empty")
	}

	if reg.IsLinewise() {
		return o.pasteLines(reg, ctx)
	}
	return o.pasteChars(reg, ctx)
}

func (o Paste) pasteLines(reg vim.Register, ctx *execctx.ExecutionContext) handler.Result {
	snap := ctx.Snapshot
	cur := snap.CursorAt(ctx.Cursor.Line, ctx.Cursor.Column)

	var lines []string
	for range ctx.GetCount() {
		lines = append(lines, reg.Lines()...)
	}
	block := strings.Join(lines, "\n")

	var at text.Position
	var insert string
	target := cur.Line
	switch {
	case o.Before:
		at, insert = snap.PositionAt(cur.Line, 0), block+"\n"
	case cur.Line == snap.LastLine():
		at, insert = snap.LineEnd(cur.Line), "\n"+block
		target = cur.Line + 1
	default:
		at, insert = snap.PositionAt(cur.Line+1, 0), block+"\n"
		target = cur.Line + 1
	}

	edit, err := replace(ctx, at, at, insert)
	if err != nil {
		return handler.Error(err)
	}
	return handler.Success().
		WithEdit(edit).
		WithCursor(firstNonBlank(ctx.Refresh(), target))
}

func (o Paste) pasteChars(reg vim.Register, ctx *execctx.ExecutionContext) handler.Result {
	snap := ctx.Snapshot
	cur := snap.CursorAt(ctx.Cursor.Line, ctx.Cursor.Column)

	content := strings.Repeat(reg.Content, ctx.GetCount())
	at := cur
	if !o.Before && snap.LineLen(cur.Line) > 0 {
		at = snap.PositionAt(cur.Line, cur.Column+1)
	}

	edit, err := replace(ctx, at, at, content)
	if err != nil {
		return handler.Error(err)
	}
	after := ctx.Refresh()
	if strings.Contains(content, "\n") {
		return handler.Success().WithEdit(edit).WithCursor(after.CursorAt(at.Line, at.Column))
	}
	return handler.Success().
		WithEdit(edit).
		WithCursor(after.CursorAt(at.Line, at.Column+text.GraphemeCount(content)-1))
}
