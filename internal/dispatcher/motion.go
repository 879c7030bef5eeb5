package dispatcher

import (
	"github.com/samber/mo"

	"github.com/dshills/vimcore/internal/dispatcher/handler"
	"github.com/dshills/vimcore/internal/engine/motion"
	"github.com/dshills/vimcore/internal/engine/text"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/input/vim"
)

// runMotion moves the cursor, extending the selection in visual mode.
func (d *Dispatcher) runMotion(cmd *vim.Command) handler.Result {
	snap := d.buf.Snapshot()
	r, ok := d.resolveMotion(cmd, snap, d.cursor, false)
	if !ok {
		return handler.NoOp()
	}

	d.cursor = snap.CursorAt(r.End.Line, r.End.Column)
	if d.machine.Mode().IsVisual() {
		d.machine.MoveSelection(d.cursor)
	}
	return handler.Success().WithCursor(d.cursor)
}

// resolveMotion computes the range of the command's motion from cur.
// Motions that depend on document state (";", ",", "n", "N") are resolved
// here; all others come from the motion library.
func (d *Dispatcher) resolveMotion(cmd *vim.Command, snap *text.Snapshot, cur text.Position, pending bool) (motion.Range, bool) {
	cur = snap.PositionAt(cur.Line, cur.Column)
	m := cmd.Motion
	count := cmd.GetCount()

	switch m.Name {
	case vim.MotionRepeatFind, vim.MotionRepeatFindReverse:
		f, ok := d.lastFind.Get()
		if !ok {
			return motion.Range{Start: cur, End: cur}, false
		}
		if m.Name == vim.MotionRepeatFindReverse {
			f = f.Reversed()
		}
		return motion.FindChar(snap, cur, count, f, true)

	case vim.MotionSearchNext, vim.MotionSearchPrev:
		return d.searchMotion(snap, cur, count, m.Name == vim.MotionSearchPrev)

	case motion.NameFind:
		f := m.Find
		f.Char = cmd.Char
		d.lastFind = mo.Some(f)
		return motion.Apply(m.Name, snap, cur, count, motion.Args{Pending: pending, Explicit: cmd.HasCount(), Find: f})
	}

	return motion.Apply(m.Name, snap, cur, count, motion.Args{Pending: pending, Explicit: cmd.HasCount()})
}

// changeWordRange is the range of cw and cW on a non-blank: like ce, except
// that a cursor already on the last character of a word changes only the
// remaining words.
func changeWordRange(snap *text.Snapshot, cur text.Position, count int, big bool) (motion.Range, bool) {
	classOf := motion.Classify
	if big {
		classOf = motion.ClassifyBig
	}
	clusters := snap.Clusters(cur.Line)
	if len(clusters) == 0 {
		return motion.Range{Start: cur, End: cur}, true
	}
	atEnd := cur.Column+1 >= len(clusters) ||
		classOf(clusters[cur.Column+1]) != classOf(clusters[cur.Column])
	if atEnd {
		if count == 1 {
			return motion.Range{Start: cur, End: cur, Inclusive: true}, true
		}
		count--
	}
	r, ok := motion.WordEnd(snap, cur, count, big)
	r.Start = cur
	return r, ok
}

// onNonBlank reports whether the cursor rests on a non-blank character.
func onNonBlank(snap *text.Snapshot, cur text.Position) bool {
	if cur.Column >= snap.LineLen(cur.Line) {
		return false
	}
	return motion.Classify(snap.Cluster(cur.Line, cur.Column)) != motion.ClassWhitespace
}

// runVisualTextObject sets the selection to a text object.
func (d *Dispatcher) runVisualTextObject(cmd *vim.Command) handler.Result {
	snap := d.buf.Snapshot()
	r, ok := motion.TextObject(snap, d.cursor, cmd.GetCount(), cmd.TextObject, cmd.Inner)
	if !ok {
		return handler.NoOp()
	}
	r = r.Ordered()

	start, head := r.Start, r.End
	if !r.Inclusive && !r.Linewise && head.Compare(start) > 0 {
		head = snap.PositionFromOffset(head.Offset - 1)
	}
	if r.Linewise && d.machine.Is(mode.Visual) {
		d.machine.SetMode(mode.VisualLine)
	}
	d.machine.SetSelection(mode.Selection{Start: mo.Some(start), End: mo.Some(head)})
	d.cursor = snap.CursorAt(head.Line, head.Column)
	return handler.Success().WithCursor(d.cursor)
}
