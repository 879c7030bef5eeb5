package dispatcher

import (
	"fmt"

	"github.com/dshills/vimcore/internal/dispatcher/handler"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/input/vim"
)

func (d *Dispatcher) runSpecial(cmd *vim.Command) handler.Result {
	switch cmd.Special {
	case vim.SpecialInsert, vim.SpecialAppend, vim.SpecialAppendEOL,
		vim.SpecialInsertBOL, vim.SpecialOpenBelow, vim.SpecialOpenAbove:
		return d.runInsert(cmd)
	case vim.SpecialVisualChar:
		return d.toggleVisual(mode.Visual)
	case vim.SpecialVisualLine:
		return d.toggleVisual(mode.VisualLine)
	case vim.SpecialVisualSwap:
		head, ok := d.machine.SwapSelection()
		if !ok {
			return handler.NoOp()
		}
		d.cursor = head
		return handler.Success().WithCursor(head)
	case vim.SpecialJoin:
		return d.runJoin(cmd)
	case vim.SpecialPasteAfter:
		return d.runPaste(cmd, false)
	case vim.SpecialPasteBefore:
		return d.runPaste(cmd, true)
	case vim.SpecialUndo:
		return d.runHistory(cmd, true)
	case vim.SpecialRedo:
		return d.runHistory(cmd, false)
	case vim.SpecialRepeat:
		return d.runRepeat(cmd)
	case vim.SpecialReplace:
		return d.runReplace(cmd)
	case vim.SpecialCommandLine:
		d.machine.EnterCommandLine(mode.CommandEx)
		return handler.Success()
	case vim.SpecialSearchForward:
		d.machine.EnterCommandLine(mode.CommandSearchForward)
		return handler.Success()
	case vim.SpecialSearchBackward:
		d.machine.EnterCommandLine(mode.CommandSearchBackward)
		return handler.Success()
	}
	return handler.Error(fmt.Errorf("%w: %s", ErrUnknownSpecial, cmd.Special))
}

// runInsert handles i a A I o O. Counts are ignored.
func (d *Dispatcher) runInsert(cmd *vim.Command) handler.Result {
	snap := d.buf.Snapshot()
	cur := snap.CursorAt(d.cursor.Line, d.cursor.Column)
	result := handler.Success()

	switch cmd.Special {
	case vim.SpecialOpenBelow:
		at := snap.LineEnd(cur.Line)
		if err := d.buf.Insert(at, "\n"); err != nil {
			return handler.Error(err)
		}
		result = result.WithEdit(handler.Edit{Start: at, End: at, NewText: "\n"})
		d.cursor = d.buf.Snapshot().PositionAt(cur.Line+1, 0)
	case vim.SpecialOpenAbove:
		at := snap.PositionAt(cur.Line, 0)
		if err := d.buf.Insert(at, "\n"); err != nil {
			return handler.Error(err)
		}
		result = result.WithEdit(handler.Edit{Start: at, End: at, NewText: "\n"})
		d.cursor = d.buf.Snapshot().PositionAt(cur.Line, 0)
	default:
		d.cursor = insertAt(cmd.Special, snap, cur)
	}

	last := mode.LastOperation{Keys: repeatKeys(cmd)}
	d.machine.EnterInsert(last, !d.repeating)
	return result.WithCursor(d.cursor).WithInsert()
}

// toggleVisual enters a visual mode, switches between the two visual modes,
// or leaves visual mode when already in the requested one.
func (d *Dispatcher) toggleVisual(to mode.Mode) handler.Result {
	switch {
	case d.machine.Is(to):
		d.machine.SetMode(mode.Normal)
	case d.machine.Mode().IsVisual():
		d.machine.SetMode(to)
	default:
		d.machine.EnterVisual(to, d.cursor)
	}
	return handler.Success().WithCursor(d.cursor)
}

// runHistory undoes or redoes count changes.
func (d *Dispatcher) runHistory(cmd *vim.Command, undo bool) handler.Result {
	if d.history == nil {
		return handler.NoOpWithMessage("undo is not available")
	}

	step := d.history.Redo
	if undo {
		step = d.history.Undo
	}
	pos := d.cursor
	changed := false
	for range cmd.GetCount() {
		p, ok := step()
		if !ok {
			break
		}
		pos, changed = p, true
	}
	if !changed {
		if undo {
			return handler.NoOpWithMessage("Already at oldest change")
		}
		return handler.NoOpWithMessage("Already at newest change")
	}

	d.cursor = d.buf.Snapshot().CursorAt(pos.Line, pos.Column)
	return handler.Success().WithCursor(d.cursor)
}
