package dispatcher

import (
	"fmt"
	"strings"

	"github.com/dshills/vimcore/internal/engine/motion"
	"github.com/dshills/vimcore/internal/engine/text"
	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/input/vim"
)

// LuaHost exposes a dispatcher to the Lua runtime's vim module.
type LuaHost struct {
	d *Dispatcher
}

// NewLuaHost returns the Lua host view of d.
func NewLuaHost(d *Dispatcher) *LuaHost {
	return &LuaHost{d: d}
}

// Lines returns the document lines.
func (h *LuaHost) Lines() []string {
	return h.d.buf.Snapshot().Lines()
}

// SetLines replaces lines [first, last) with lines.
func (h *LuaHost) SetLines(first, last int, lines []string) error {
	snap := h.d.buf.Snapshot()
	n := snap.LineCount()
	if first < 0 || last < first || last > n {
		return fmt.Errorf("%w: lines %d-%d of %d", ErrInvalidRange, first, last, n)
	}

	block := strings.Join(lines, "\n")
	var err error
	switch {
	case first == last && len(lines) == 0:
		return nil
	case first == last && first < n:
		err = h.d.buf.Insert(snap.PositionAt(first, 0), block+"\n")
	case first == last:
		err = h.d.buf.Insert(snap.LineEnd(n-1), "\n"+block)
	case len(lines) > 0:
		err = h.d.buf.ReplaceRange(snap.PositionAt(first, 0), snap.LineEnd(last-1), block)
	default:
		r := motion.Range{Start: snap.PositionAt(first, 0), End: snap.PositionAt(last-1, 0), Linewise: true}
		start, end := r.Bounds(snap)
		err = h.d.buf.DeleteRange(start, end)
	}
	if err != nil {
		return err
	}
	h.d.cursor = h.d.buf.Snapshot().CursorAt(h.d.cursor.Line, h.d.cursor.Column)
	return nil
}

// Cursor returns the cursor line and column.
func (h *LuaHost) Cursor() (int, int) {
	return h.d.cursor.Line, h.d.cursor.Column
}

// SetCursor moves the cursor.
func (h *LuaHost) SetCursor(line, col int) {
	h.d.SetCursor(text.Position{Line: line, Column: col})
}

// Register returns a register's content and whether it is linewise.
func (h *LuaHost) Register(name rune) (string, bool) {
	reg := h.d.registers.Get(name)
	return reg.Content, reg.IsLinewise()
}

// SetRegister writes a register.
func (h *LuaHost) SetRegister(name rune, content string, linewise bool) error {
	if !vim.IsWritableRegister(name) {
		return fmt.Errorf("%w: register %q is read-only", ErrInvalidArgument, name)
	}
	reg := vim.Register{Content: content, Kind: vim.Charwise}
	if linewise {
		reg.Kind = vim.Linewise
		if !strings.HasSuffix(content, "\n") {
			reg.Content += "\n"
		}
	}
	h.d.registers.Set(name, reg)
	return nil
}

// Mode returns the current mode name.
func (h *LuaHost) Mode() string {
	return h.d.machine.Mode().String()
}

// Message sets the status message.
func (h *LuaHost) Message(msg string) {
	h.d.message = msg
}

// Normal runs keys as if typed. Text typed in Insert mode is inserted at
// the cursor; a command line is executed on Enter. An insert session still
// open at the end is closed.
func (h *LuaHost) Normal(keys string) error {
	seq, err := key.ParseSequence(keys)
	if err != nil {
		return err
	}

	d := h.d
	p := vim.NewParser()
	var cmdline []rune
	for _, ev := range seq.Events {
		switch {
		case d.machine.Is(mode.Insert):
			h.typeKey(ev)

		case d.machine.Is(mode.CommandLine):
			switch {
			case ev.IsEscape():
				d.machine.SetMode(mode.Normal)
				cmdline = cmdline[:0]
			case ev.IsEnter():
				result := d.ExecuteCommandLine(string(cmdline))
				cmdline = cmdline[:0]
				if result.IsError() {
					return result.Error
				}
			case ev.Key == key.KeyBackspace:
				if len(cmdline) > 0 {
					cmdline = cmdline[:len(cmdline)-1]
				}
			case ev.IsChar():
				cmdline = append(cmdline, ev.Rune)
			}

		case ev.IsEscape():
			p.Reset()
			d.leaveVisual()

		default:
			if visual := d.machine.Mode().IsVisual(); p.Visual() != visual {
				p.SetVisual(visual)
			}
			res := p.Feed(ev)
			if res.Status != vim.StatusComplete {
				continue
			}
			if result := d.Dispatch(res.Command); result.IsError() {
				return result.Error
			}
		}
	}

	if d.machine.Is(mode.Insert) {
		d.LeaveInsert()
	}
	return nil
}

// typeKey handles one key typed in Insert mode.
func (h *LuaHost) typeKey(ev key.Event) {
	d := h.d
	if ev.IsEscape() {
		d.LeaveInsert()
		return
	}
	t := ev.Text()
	if t == "" {
		return
	}
	snap := d.buf.Snapshot()
	pos := snap.PositionAt(d.cursor.Line, d.cursor.Column)
	if err := d.buf.Insert(pos, t); err != nil {
		d.logger.Warn("lua normal insert failed: %v", err)
		return
	}
	d.machine.RecordInsert(ev)
	d.cursor = d.buf.Snapshot().PositionFromOffset(pos.Offset + text.GraphemeCount(t))
}
