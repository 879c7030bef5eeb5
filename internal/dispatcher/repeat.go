package dispatcher

import (
	"fmt"
	"strconv"

	"github.com/dshills/vimcore/internal/dispatcher/handler"
	"github.com/dshills/vimcore/internal/engine/motion"
	"github.com/dshills/vimcore/internal/engine/text"
	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/input/vim"
)

// specialKeys are the keys recorded for repeatable specials.
var specialKeys = map[vim.Special]string{
	vim.SpecialInsert:      "i",
	vim.SpecialAppend:      "a",
	vim.SpecialAppendEOL:   "A",
	vim.SpecialInsertBOL:   "I",
	vim.SpecialOpenBelow:   "o",
	vim.SpecialOpenAbove:   "O",
	vim.SpecialJoin:        "J",
	vim.SpecialPasteAfter:  "p",
	vim.SpecialPasteBefore: "P",
	vim.SpecialReplace:     "r",
}

// keysOf converts plain text into key events. Line breaks and tabs become
// their special keys.
func keysOf(s string) []key.Event {
	out := make([]key.Event, 0, len(s))
	for _, r := range s {
		switch r {
		case '\n':
			out = append(out, key.NewSpecialEvent(key.KeyEnter, 0))
		case '\t':
			out = append(out, key.NewSpecialEvent(key.KeyTab, 0))
		default:
			out = append(out, key.Char(r))
		}
	}
	return out
}

func registerPrefix(reg rune) string {
	if reg == 0 {
		return ""
	}
	return `"` + string(reg)
}

// repeatKeys returns the canonical keys of a command without its count.
// Shorthands are spelled out ("x" becomes "dl") so they replay through the
// normal grammar.
func repeatKeys(cmd *vim.Command) []key.Event {
	s := registerPrefix(cmd.Register)
	switch cmd.Kind {
	case vim.KindOperator:
		s += cmd.Operator.Keys
		switch {
		case cmd.Linewise:
			s += string(cmd.Operator.Double)
		case cmd.TextObject != 0:
			if cmd.Inner {
				s += "i"
			} else {
				s += "a"
			}
			s += string(cmd.TextObject)
		case cmd.Motion != nil:
			s += cmd.Motion.Keys + cmd.Char
		}
	case vim.KindSpecial:
		s += specialKeys[cmd.Special] + cmd.Char
	default:
		return nil
	}
	return keysOf(s)
}

// visualRepeat returns the keys and count that repeat a visual operator
// from the cursor: a charwise selection on one line repeats over the same
// number of characters, anything else over the same number of lines.
func visualRepeat(reg rune, op *vim.Operator, r motion.Range) ([]key.Event, int) {
	prefix := registerPrefix(reg) + op.Keys
	if !r.Linewise && r.Start.Line == r.End.Line {
		return keysOf(prefix + "l"), r.End.Column - r.Start.Column + 1
	}
	first, last := r.Lines()
	return keysOf(prefix + string(op.Double)), last - first + 1
}

// runRepeat replays the last repeatable change. A count replaces the
// original count.
func (d *Dispatcher) runRepeat(cmd *vim.Command) handler.Result {
	last, ok := d.machine.LastOperation().Get()
	if !ok || len(last.Keys) == 0 {
		return handler.NoOp()
	}

	count := last.Count
	if cmd.HasCount() {
		count = cmd.Count
	}
	keys := last.Keys
	if count > 0 {
		keys = append(keysOf(strconv.Itoa(count)), last.Keys...)
	}

	parsed := vim.ParseKeys(keys, false)
	if parsed.Status != vim.StatusComplete {
		return handler.Error(fmt.Errorf("%w: cannot repeat %q", ErrUnknownCommand, last.String()))
	}

	d.repeating = true
	result := d.execute(parsed.Command)
	if d.machine.Is(mode.Insert) {
		d.replayInsert(last.Inserted)
	}
	d.repeating = false

	if result.IsError() {
		return result
	}
	d.machine.SetLastOperation(mode.LastOperation{Keys: last.Keys, Count: count, Inserted: last.Inserted})
	return result
}

// replayInsert types text at the cursor and leaves Insert mode, as if the
// user had typed it.
func (d *Dispatcher) replayInsert(inserted string) {
	if inserted != "" {
		pos := d.buf.Snapshot().PositionAt(d.cursor.Line, d.cursor.Column)
		if err := d.buf.Insert(pos, inserted); err != nil {
			d.logger.Warn("repeat insert failed: %v", err)
		} else {
			d.cursor = d.buf.Snapshot().PositionFromOffset(pos.Offset + text.GraphemeCount(inserted))
		}
	}
	d.LeaveInsert()
}

// LeaveInsert ends an insert session: the typed text becomes the "."
// register and the cursor steps back onto the last inserted character.
func (d *Dispatcher) LeaveInsert() string {
	typed := d.machine.LeaveInsert()
	if typed != "" {
		d.registers.SetLastInserted(typed)
	}
	if d.cursor.Column > 0 {
		d.cursor = d.buf.Snapshot().CursorAt(d.cursor.Line, d.cursor.Column-1)
	} else {
		d.cursor = d.buf.Snapshot().CursorAt(d.cursor.Line, 0)
	}
	return typed
}

// insertAt returns where an insert special places the cursor.
func insertAt(sp vim.Special, snap *text.Snapshot, cur text.Position) text.Position {
	switch sp {
	case vim.SpecialAppend:
		if snap.LineLen(cur.Line) > 0 {
			return snap.PositionAt(cur.Line, cur.Column+1)
		}
	case vim.SpecialAppendEOL:
		return snap.LineEnd(cur.Line)
	case vim.SpecialInsertBOL:
		return snap.PositionAt(cur.Line, motion.FirstNonBlank(snap.Clusters(cur.Line)))
	}
	return cur
}
