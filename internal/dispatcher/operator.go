package dispatcher

import (
	"fmt"

	"github.com/dshills/vimcore/internal/dispatcher/handler"
	"github.com/dshills/vimcore/internal/dispatcher/handlers/operator"
	"github.com/dshills/vimcore/internal/engine/motion"
	"github.com/dshills/vimcore/internal/engine/text"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/input/vim"
)

// runOperator resolves the range of an operator command and executes it.
func (d *Dispatcher) runOperator(cmd *vim.Command) handler.Result {
	op, ok := operator.Lookup(cmd.Operator.Name)
	if !ok {
		return handler.Error(fmt.Errorf("%w: %s", ErrUnknownOperator, cmd.Operator.Name))
	}

	if d.machine.Mode().IsVisual() {
		return d.runVisualOperator(cmd, op)
	}

	snap := d.buf.Snapshot()
	cur := snap.CursorAt(d.cursor.Line, d.cursor.Column)
	d.cursor = cur

	r, ok := d.operatorRange(cmd, op, snap, cur)
	if !ok {
		if !op.EntersInsert() || snap.LineLen(cur.Line) > 0 {
			return handler.NoOp()
		}
		// Change on an empty line still starts an insert.
		r = motion.Range{Start: cur, End: cur}
	}

	ctx := d.context(cmd.Register, cmd.GetCount())
	result := op.Execute(r, ctx)
	if result.IsError() {
		return result
	}
	d.apply(result)

	last := mode.LastOperation{Keys: repeatKeys(cmd), Count: cmd.Count}
	d.afterOperator(op, result, last)
	return result
}

// operatorRange computes the range an operator acts on outside visual mode.
func (d *Dispatcher) operatorRange(cmd *vim.Command, op operator.Operator, snap *text.Snapshot, cur text.Position) (motion.Range, bool) {
	count := cmd.GetCount()
	switch {
	case cmd.Linewise:
		last := min(cur.Line+count-1, snap.LastLine())
		return motion.Range{
			Start:    snap.PositionAt(cur.Line, 0),
			End:      snap.PositionAt(last, 0),
			Linewise: true,
		}, true

	case cmd.TextObject != 0:
		return motion.TextObject(snap, cur, count, cmd.TextObject, cmd.Inner)

	case cmd.Motion != nil:
		name := cmd.Motion.Name
		if op.Name() == vim.OpChange && onNonBlank(snap, cur) &&
			(name == motion.NameWordForward || name == motion.NameBigWordForward) {
			return changeWordRange(snap, cur, count, name == motion.NameBigWordForward)
		}
		return d.resolveMotion(cmd, snap, cur, true)
	}
	return motion.Range{Start: cur, End: cur}, false
}

// runVisualOperator applies an operator to the selection and leaves visual
// mode.
func (d *Dispatcher) runVisualOperator(cmd *vim.Command, op operator.Operator) handler.Result {
	linewise := d.machine.Is(mode.VisualLine) || cmd.Linewise
	r, ok := d.machine.Selection().Range(linewise)
	if !ok {
		d.leaveVisual()
		return handler.NoOp()
	}

	ctx := d.context(cmd.Register, 1)
	result := op.Execute(r, ctx)
	if result.IsError() {
		d.leaveVisual()
		return result
	}
	d.apply(result)
	if !result.EnterInsert {
		d.leaveVisual()
	}

	keys, count := visualRepeat(cmd.Register, cmd.Operator, r)
	d.afterOperator(op, result, mode.LastOperation{Keys: keys, Count: count})
	return result
}

// afterOperator enters Insert or records the operation for repeat.
func (d *Dispatcher) afterOperator(op operator.Operator, result handler.Result, last mode.LastOperation) {
	repeatable := op.Repeatable() && !d.repeating
	if result.EnterInsert {
		d.machine.EnterInsert(last, repeatable)
		return
	}
	if repeatable && result.IsOK() {
		d.machine.SetLastOperation(last)
	}
}

// runReplace handles r<char>: count characters from the cursor, or the
// whole selection in visual mode.
func (d *Dispatcher) runReplace(cmd *vim.Command) handler.Result {
	op, _ := operator.Lookup(operator.NameReplace)
	snap := d.buf.Snapshot()

	var r motion.Range
	var last mode.LastOperation
	visual := d.machine.Mode().IsVisual()
	if visual {
		sel, ok := d.machine.Selection().Range(d.machine.Is(mode.VisualLine))
		d.leaveVisual()
		if !ok {
			return handler.NoOp()
		}
		r = sel
		if !sel.Linewise && sel.Start.Line == sel.End.Line {
			last = mode.LastOperation{
				Keys:  keysOf(registerPrefix(cmd.Register) + "r" + cmd.Char),
				Count: sel.End.Column - sel.Start.Column + 1,
			}
		}
	} else {
		cur := snap.CursorAt(d.cursor.Line, d.cursor.Column)
		n := cmd.GetCount()
		if cur.Column+n > snap.LineLen(cur.Line) {
			return handler.NoOp()
		}
		r = motion.Range{Start: cur, End: snap.PositionAt(cur.Line, cur.Column+n-1), Inclusive: true}
		last = mode.LastOperation{Keys: repeatKeys(cmd), Count: cmd.Count}
	}

	ctx := d.context(cmd.Register, cmd.GetCount()).WithChar(cmd.Char)
	result := op.Execute(r, ctx)
	if result.IsError() {
		return result
	}
	d.apply(result)
	if len(last.Keys) > 0 {
		d.afterOperator(op, result, last)
	}
	return result
}

// runJoin handles J: count lines (at least two) from the cursor, or the
// selected lines in visual mode.
func (d *Dispatcher) runJoin(cmd *vim.Command) handler.Result {
	op, _ := operator.Lookup(operator.NameJoin)
	snap := d.buf.Snapshot()

	var first, last int
	if sel, ok := d.machine.Selection().Range(true); ok && d.machine.Mode().IsVisual() {
		first, last = sel.Lines()
		d.leaveVisual()
	} else {
		first = d.cursor.Line
		last = first + max(cmd.GetCount(), 2) - 1
	}
	if first == last {
		last++
	}
	last = min(last, snap.LastLine())

	r := motion.Range{Start: snap.PositionAt(first, 0), End: snap.PositionAt(last, 0), Linewise: true}
	result := op.Execute(r, d.context(0, 1))
	if result.IsError() {
		return result
	}
	d.apply(result)
	d.afterOperator(op, result, mode.LastOperation{Keys: keysOf("J"), Count: last - first + 1})
	return result
}

// runPaste handles p and P. In visual mode the selection is replaced by the
// register content.
func (d *Dispatcher) runPaste(cmd *vim.Command, before bool) handler.Result {
	if d.machine.Mode().IsVisual() {
		return d.runVisualPaste(cmd)
	}

	name := operator.NamePasteAfter
	if before {
		name = operator.NamePasteBefore
	}
	op, _ := operator.Lookup(name)
	result := op.Execute(motion.Range{}, d.context(cmd.Register, cmd.GetCount()))
	if result.IsError() {
		return result
	}
	d.apply(result)
	d.afterOperator(op, result, mode.LastOperation{Keys: repeatKeys(cmd), Count: cmd.Count})
	return result
}

func (d *Dispatcher) runVisualPaste(cmd *vim.Command) handler.Result {
	reg := d.registers.Get(cmd.Register)
	linewiseSel := d.machine.Is(mode.VisualLine)
	sel, ok := d.machine.Selection().Range(linewiseSel)
	d.leaveVisual()
	if !ok || reg.IsEmpty() {
		return handler.NoOp()
	}

	del, _ := operator.Lookup(vim.OpDelete)
	deleted := del.Execute(sel, d.context(0, 1))
	if deleted.IsError() {
		return deleted
	}
	d.apply(deleted)

	snap := d.buf.Snapshot()
	content := reg
	if linewiseSel && !reg.IsLinewise() {
		content = vim.Register{Content: reg.Content + "\n", Kind: vim.Linewise}
	}

	before := true
	at := d.cursor
	first, _ := sel.Lines()
	switch {
	case content.IsLinewise() && linewiseSel:
		if first > snap.LastLine() {
			before = false
			at = snap.PositionAt(snap.LastLine(), 0)
		} else {
			at = snap.PositionAt(first, 0)
		}
	case content.IsLinewise():
		before = false
	default:
		start := sel.Ordered().Start
		if n := snap.LineLen(start.Line); n > 0 && start.Column >= n {
			before = false
			at = snap.CursorAt(start.Line, n-1)
		} else {
			at = snap.PositionAt(start.Line, start.Column)
		}
	}

	paste := operator.Paste{Before: before}
	ctx := d.context(0, cmd.GetCount()).WithCursor(at).WithContent(content)
	result := paste.Execute(motion.Range{}, ctx)
	if result.IsError() {
		return result
	}
	d.apply(result)
	result.Edits = append(deleted.Edits, result.Edits...)
	return result
}
