package operator

import (
	"strings"

	"github.com/dshills/vimcore/internal/dispatcher/execctx"
	"github.com/dshills/vimcore/internal/dispatcher/handler"
	"github.com/dshills/vimcore/internal/engine/motion"
	"github.com/dshills/vimcore/internal/input/vim"
)

// Indent shifts every line of the range by one shiftwidth.
// Empty lines are left alone.
type Indent struct {
	// Left shifts toward column zero.
	Left bool
}

// Name implements Operator.
func (o Indent) Name() string {
	if o.Left {
		return vim.OpIndentLeft
	}
	return vim.OpIndentRight
}

// Repeatable implements Operator.
func (Indent) Repeatable() bool { return true }

// EntersInsert implements Operator.
func (Indent) EntersInsert() bool { return false }

// Execute implements Operator.
func (o Indent) Execute(r motion.Range, ctx *execctx.ExecutionContext) handler.Result {
	if err := ctx.Validate(); err != nil {
		return handler.Error(err)
	}
	snap := ctx.Snapshot
	s := resolve(r, snap)

	unit := indentUnit(ctx.Options)
	lines := snap.Lines()[s.first : s.last+1]
	shifted := make([]string, len(lines))
	changed := false
	for i, line := range lines {
		if o.Left {
			shifted[i] = outdent(line, ctx.Options.ShiftWidth)
		} else if line != "" {
			shifted[i] = unit + line
		} else {
			shifted[i] = line
		}
		changed = changed || shifted[i] != line
	}
	if !changed {
		return handler.NoOp()
	}

	start, end := s.lineBounds(snap)
	edit, err := replace(ctx, start, end, strings.Join(shifted, "\n"))
	if err != nil {
		return handler.Error(err)
	}
	return handler.Success().
		WithEdit(edit).
		WithCursor(firstNonBlank(ctx.Refresh(), s.first))
}

func indentUnit(opts execctx.Options) string {
	if !opts.ExpandTab {
		return "\t"
	}
	return strings.Repeat(" ", max(opts.ShiftWidth, 1))
}

// outdent removes one tab or up to width leading spaces.
func outdent(line string, width int) string {
	if strings.HasPrefix(line, "\t") {
		return line[1:]
	}
	n := 0
	for n < len(line) && n < max(width, 1) && line[n] == ' ' {
		n++
	}
	return line[n:]
}
