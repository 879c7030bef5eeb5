package operator

import (
	"strings"
	"unicode"

	"github.com/dshills/vimcore/internal/dispatcher/execctx"
	"github.com/dshills/vimcore/internal/dispatcher/handler"
	"github.com/dshills/vimcore/internal/engine/motion"
	"github.com/dshills/vimcore/internal/engine/text"
	"github.com/dshills/vimcore/internal/input/vim"
)

// Case rewrites the letters of the range.
type Case struct {
	// Mode is one of vim.OpToggleCase, vim.OpLowerCase or vim.OpUpperCase.
	Mode string
}

// Name implements Operator.
func (o Case) Name() string { return o.Mode }

// Repeatable implements Operator.
func (Case) Repeatable() bool { return true }

// EntersInsert implements Operator.
func (Case) EntersInsert() bool { return false }

// Execute implements Operator.
func (o Case) Execute(r motion.Range, ctx *execctx.ExecutionContext) handler.Result {
	if err := ctx.Validate(); err != nil {
		return handler.Error(err)
	}
	snap := ctx.Snapshot
	s := resolve(r, snap)

	start, end := s.start, s.end
	if s.linewise {
		start, end = s.lineBounds(snap)
	}
	old := snap.Slice(start, end)
	updated := strings.Map(o.transform(), old)
	if updated == old {
		return handler.NoOp().WithCursor(restingCursor(snap, s, ctx.Cursor))
	}

	edit, err := replace(ctx, start, end, updated)
	if err != nil {
		return handler.Error(err)
	}
	return handler.Success().
		WithEdit(edit).
		WithCursor(restingCursor(ctx.Refresh(), s, ctx.Cursor))
}

func (o Case) transform() func(rune) rune {
	switch o.Mode {
	case vim.OpLowerCase:
		return unicode.ToLower
	case vim.OpUpperCase:
		return unicode.ToUpper
	default:
		return func(r rune) rune {
			switch {
			case unicode.IsUpper(r):
				return unicode.ToLower(r)
			case unicode.IsLower(r):
				return unicode.ToUpper(r)
			}
			return r
		}
	}
}

// Replace overwrites every character of the range with ctx.Char.
// Line breaks inside the range are kept. Replacing with "\n" swaps the
// whole range for a single line break.
type Replace struct{}

// Name implements Operator.
func (Replace) Name() string { return NameReplace }

// Repeatable implements Operator.
func (Replace) Repeatable() bool { return true }

// EntersInsert implements Operator.
func (Replace) EntersInsert() bool { return false }

// Execute implements Operator.
func (Replace) Execute(r motion.Range, ctx *execctx.ExecutionContext) handler.Result {
	if err := ctx.Validate(); err != nil {
		return handler.Error(err)
	}
	if ctx.Char == "" {
		return handler.Error(execctx.ErrMissingChar)
	}
	snap := ctx.Snapshot
	s := resolve(r, snap)
	start, end := s.start, s.end
	if s.linewise {
		start, end = s.lineBounds(snap)
	}
	if start.Compare(end) == 0 {
		return handler.NoOp()
	}

	if ctx.Char == "\n" {
		edit, err := replace(ctx, start, end, "\n")
		if err != nil {
			return handler.Error(err)
		}
		return handler.Success().
			WithEdit(edit).
			WithCursor(ctx.Refresh().CursorAt(start.Line+1, 0))
	}

	var sb strings.Builder
	last := start
	line, col := start.Line, start.Column
	for _, cluster := range text.SplitGraphemes(snap.Slice(start, end)) {
		if cluster == "\n" || cluster == "\r\n" {
			sb.WriteString(cluster)
			line, col = line+1, 0
			continue
		}
		sb.WriteString(ctx.Char)
		last = text.Position{Line: line, Column: col}
		col++
	}

	edit, err := replace(ctx, start, end, sb.String())
	if err != nil {
		return handler.Error(err)
	}
	cursor := last
	if s.linewise || r.Ordered().Start.Line != r.Ordered().End.Line {
		cursor = start
	}
	return handler.Success().
		WithEdit(edit).
		WithCursor(ctx.Refresh().CursorAt(cursor.Line, cursor.Column))
}

// Join joins the lines of the range into one. Leading whitespace of each
// joined line is removed and a single space separates the parts unless
// the joined line is empty, the text so far ends in whitespace or is
// empty, or the joined line starts with ')'.
type Join struct{}

// Name implements Operator.
func (Join) Name() string { return NameJoin }

// Repeatable implements Operator.
func (Join) Repeatable() bool { return true }

// EntersInsert implements Operator.
func (Join) EntersInsert() bool { return false }

// Execute implements Operator.
func (Join) Execute(r motion.Range, ctx *execctx.ExecutionContext) handler.Result {
	if err := ctx.Validate(); err != nil {
		return handler.Error(err)
	}
	snap := ctx.Snapshot
	s := resolve(r, snap)
	if s.first == s.last {
		return handler.NoOp()
	}

	lines := snap.Lines()[s.first : s.last+1]
	joined := lines[0]
	joinCol := 0
	for _, next := range lines[1:] {
		trimmed := strings.TrimLeft(next, " \t")
		sep := " "
		switch {
		case trimmed == "",
			joined == "",
			strings.HasSuffix(joined, " "),
			strings.HasSuffix(joined, "\t"),
			strings.HasPrefix(trimmed, ")"):
			sep = ""
		}
		joinCol = text.GraphemeCount(joined)
		joined += sep + trimmed
	}

	start, end := s.lineBounds(snap)
	edit, err := replace(ctx, start, end, joined)
	if err != nil {
		return handler.Error(err)
	}
	return handler.Success().
		WithEdit(edit).
		WithCursor(ctx.Refresh().CursorAt(s.first, joinCol))
}
