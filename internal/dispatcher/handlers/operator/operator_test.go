package operator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/vimcore/internal/dispatcher/execctx"
	"github.com/dshills/vimcore/internal/dispatcher/handler"
	"github.com/dshills/vimcore/internal/engine/motion"
	"github.com/dshills/vimcore/internal/engine/text"
	"github.com/dshills/vimcore/internal/input/vim"
)

func setup(lines ...string) (*execctx.ExecutionContext, *text.MemoryBuffer, *vim.RegisterStore) {
	buf := text.NewMemoryBufferFromLines(lines)
	regs := vim.NewRegisterStore()
	ctx := execctx.New().WithBuffer(buf).WithRegisters(regs)
	return ctx, buf, regs
}

func pos(ctx *execctx.ExecutionContext, line, col int) text.Position {
	return ctx.Snapshot.PositionAt(line, col)
}

func lineRange(ctx *execctx.ExecutionContext, first, last int) motion.Range {
	return motion.Range{Start: pos(ctx, first, 0), End: pos(ctx, last, 0), Linewise: true}
}

func charRange(ctx *execctx.ExecutionContext, line, from, to int) motion.Range {
	return motion.Range{Start: pos(ctx, line, from), End: pos(ctx, line, to), Inclusive: true}
}

func mustRun(t *testing.T, name string, r motion.Range, ctx *execctx.ExecutionContext) handler.Result {
	t.Helper()
	op, ok := Lookup(name)
	require.True(t, ok, "operator %q not registered", name)
	return op.Execute(r, ctx)
}

func cursorOf(t *testing.T, res handler.Result) (int, int) {
	t.Helper()
	cur, ok := res.Cursor.Get()
	require.True(t, ok, "result has no cursor")
	return cur.Line, cur.Column
}

func TestLookup(t *testing.T) {
	for _, name := range []string{
		vim.OpDelete, vim.OpYank, vim.OpChange,
		vim.OpIndentRight, vim.OpIndentLeft,
		vim.OpToggleCase, vim.OpLowerCase, vim.OpUpperCase,
		NameReplace, NamePasteAfter, NamePasteBefore, NameJoin,
	} {
		op, ok := Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, name, op.Name())
	}

	_, ok := Lookup("format")
	assert.False(t, ok)
	assert.Contains(t, Names(), NameJoin)
}

func TestOperatorFlags(t *testing.T) {
	change, _ := Lookup(vim.OpChange)
	assert.True(t, change.EntersInsert())
	assert.True(t, change.Repeatable())

	yank, _ := Lookup(vim.OpYank)
	assert.False(t, yank.Repeatable())
	assert.False(t, yank.EntersInsert())
}

func TestDeleteLinewise(t *testing.T) {
	ctx, buf, regs := setup("a", "b", "c")
	ctx.WithCursor(pos(ctx, 1, 0))

	res := mustRun(t, vim.OpDelete, lineRange(ctx, 1, 1), ctx)
	require.True(t, res.IsOK())

	assert.Equal(t, []string{"a", "c"}, buf.Lines())
	reg := regs.Get(0)
	assert.Equal(t, "b\n", reg.Content)
	assert.True(t, reg.IsLinewise())
	assert.Equal(t, "b\n", regs.Get('1').Content)

	line, col := cursorOf(t, res)
	assert.Equal(t, 1, line)
	assert.Equal(t, 0, col)
}

func TestDeleteReadOnlyKeepsRegisters(t *testing.T) {
	ctx, buf, regs := setup("a", "b", "c")
	require.True(t, mustRun(t, vim.OpYank, lineRange(ctx, 0, 0), ctx).IsOK())

	buf.SetReadOnly(true)
	ctx.Refresh()
	for _, name := range []string{vim.OpDelete, vim.OpChange} {
		res := mustRun(t, name, lineRange(ctx, 1, 1), ctx)
		require.True(t, res.IsError(), name)
		assert.ErrorIs(t, res.Error, text.ErrReadOnly, name)
	}
	res := mustRun(t, vim.OpDelete, charRange(ctx, 2, 0, 0), ctx)
	assert.ErrorIs(t, res.Error, text.ErrReadOnly)

	assert.Equal(t, []string{"a", "b", "c"}, buf.Lines())
	assert.Equal(t, "a\n", regs.Get(0).Content)
	assert.Equal(t, "a\n", regs.Get('0').Content)
	assert.Empty(t, regs.Get('1').Content)
	assert.Empty(t, regs.Get('-').Content)
}

func TestDeleteLastLine(t *testing.T) {
	ctx, buf, _ := setup("a", "  b")
	res := mustRun(t, vim.OpDelete, lineRange(ctx, 1, 1), ctx)
	require.True(t, res.IsOK())
	assert.Equal(t, []string{"a"}, buf.Lines())

	line, _ := cursorOf(t, res)
	assert.Equal(t, 0, line)
}

func TestDeleteAllLines(t *testing.T) {
	ctx, buf, regs := setup("a", "b")
	res := mustRun(t, vim.OpDelete, lineRange(ctx, 0, 1), ctx)
	require.True(t, res.IsOK())
	assert.Equal(t, []string{""}, buf.Lines())
	assert.Equal(t, "a\nb\n", regs.Get(0).Content)
}

func TestDeleteWordIsSmallDelete(t *testing.T) {
	ctx, buf, regs := setup("foo bar")
	r, ok := motion.Apply(motion.NameWordForward, ctx.Snapshot, pos(ctx, 0, 0), 1, motion.Args{Pending: true})
	require.True(t, ok)

	res := mustRun(t, vim.OpDelete, r, ctx)
	require.True(t, res.IsOK())
	assert.Equal(t, "bar", buf.Text())
	assert.Equal(t, "foo ", regs.Get('-').Content)
	assert.Equal(t, "foo ", regs.Get(0).Content)
	assert.True(t, regs.Get('1').IsEmpty())
	require.Len(t, res.Edits, 1)
	assert.Equal(t, "foo ", res.Edits[0].OldText)
}

func TestDeleteEmptyRange(t *testing.T) {
	ctx, buf, _ := setup("abc")
	r := motion.Range{Start: pos(ctx, 0, 1), End: pos(ctx, 0, 1)}
	res := mustRun(t, vim.OpDelete, r, ctx)
	assert.True(t, res.IsNoOp())
	assert.Equal(t, "abc", buf.Text())
}

func TestDeleteNamedRegister(t *testing.T) {
	ctx, _, regs := setup("one", "two")
	ctx.WithRegister('a')
	mustRun(t, vim.OpDelete, lineRange(ctx, 0, 0), ctx)
	assert.Equal(t, "one\n", regs.Get('a').Content)
	assert.True(t, regs.Get('1').IsEmpty())
}

func TestDeleteBlackHole(t *testing.T) {
	ctx, buf, regs := setup("one", "two")
	regs.Set('"', vim.Register{Content: "keep"})
	ctx.WithRegister('_')
	mustRun(t, vim.OpDelete, lineRange(ctx, 0, 0), ctx)
	assert.Equal(t, []string{"two"}, buf.Lines())
	assert.Equal(t, "keep", regs.Get(0).Content)
}

func TestDeleteMissingBuffer(t *testing.T) {
	op, _ := Lookup(vim.OpDelete)
	res := op.Execute(motion.Range{}, execctx.New())
	require.True(t, res.IsError())
	assert.ErrorIs(t, res.Error, execctx.ErrMissingBuffer)
}

func TestYankLeavesBuffer(t *testing.T) {
	ctx, buf, regs := setup("foo bar")
	r, ok := motion.Apply(motion.NameWordForward, ctx.Snapshot, pos(ctx, 0, 0), 1, motion.Args{Pending: true})
	require.True(t, ok)

	res := mustRun(t, vim.OpYank, r, ctx)
	require.True(t, res.IsOK())
	assert.Equal(t, "foo bar", buf.Text())
	assert.Equal(t, "foo ", regs.Get('0').Content)
	assert.Empty(t, res.Edits)
}

func TestYankBackwardMovesCursorToStart(t *testing.T) {
	ctx, _, regs := setup("foo bar")
	ctx.WithCursor(pos(ctx, 0, 4))
	r, ok := motion.Apply(motion.NameWordBackward, ctx.Snapshot, ctx.Cursor, 1, motion.Args{Pending: true})
	require.True(t, ok)

	res := mustRun(t, vim.OpYank, r, ctx)
	assert.Equal(t, "foo ", regs.Get(0).Content)
	_, col := cursorOf(t, res)
	assert.Equal(t, 0, col)
}

func TestYankLinewiseKeepsCursor(t *testing.T) {
	ctx, _, regs := setup("alpha", "beta")
	ctx.WithCursor(pos(ctx, 0, 3))
	res := mustRun(t, vim.OpYank, lineRange(ctx, 0, 1), ctx)
	assert.Equal(t, "alpha\nbeta\n", regs.Get(0).Content)
	line, col := cursorOf(t, res)
	assert.Equal(t, 0, line)
	assert.Equal(t, 3, col)
}

func TestChangeLinewiseKeepsEmptyLine(t *testing.T) {
	ctx, buf, regs := setup("  a", "b", "c")
	res := mustRun(t, vim.OpChange, lineRange(ctx, 0, 1), ctx)
	require.True(t, res.IsOK())
	assert.True(t, res.EnterInsert)
	assert.Equal(t, []string{"", "c"}, buf.Lines())
	assert.Equal(t, "  a\nb\n", regs.Get(0).Content)

	line, col := cursorOf(t, res)
	assert.Equal(t, 0, line)
	assert.Equal(t, 0, col)
}

func TestChangeCharwise(t *testing.T) {
	ctx, buf, _ := setup("foo bar")
	res := mustRun(t, vim.OpChange, charRange(ctx, 0, 0, 2), ctx)
	require.True(t, res.IsOK())
	assert.True(t, res.EnterInsert)
	assert.Equal(t, " bar", buf.Text())
}

func TestChangeEmptyLineEntersInsert(t *testing.T) {
	ctx, buf, _ := setup("")
	res := mustRun(t, vim.OpChange, motion.Range{}, ctx)
	require.True(t, res.IsOK())
	assert.True(t, res.EnterInsert)
	assert.Equal(t, "", buf.Text())
}

func TestIndent(t *testing.T) {
	ctx, buf, _ := setup("a", "", "b")
	ctx.WithOptions(execctx.Options{ShiftWidth: 2, ExpandTab: true})
	res := mustRun(t, vim.OpIndentRight, lineRange(ctx, 0, 2), ctx)
	require.True(t, res.IsOK())
	assert.Equal(t, []string{"  a", "", "  b"}, buf.Lines())

	line, col := cursorOf(t, res)
	assert.Equal(t, 0, line)
	assert.Equal(t, 2, col)
}

func TestIndentWithTabs(t *testing.T) {
	ctx, buf, _ := setup("a")
	ctx.WithOptions(execctx.Options{ShiftWidth: 8, ExpandTab: false})
	mustRun(t, vim.OpIndentRight, lineRange(ctx, 0, 0), ctx)
	assert.Equal(t, "\ta", buf.Text())
}

func TestOutdent(t *testing.T) {
	ctx, buf, _ := setup("\ta", "   b", "c")
	ctx.WithOptions(execctx.Options{ShiftWidth: 2, ExpandTab: true})
	res := mustRun(t, vim.OpIndentLeft, lineRange(ctx, 0, 2), ctx)
	require.True(t, res.IsOK())
	assert.Equal(t, []string{"a", " b", "c"}, buf.Lines())

	ctx.Refresh()
	res = mustRun(t, vim.OpIndentLeft, lineRange(ctx, 2, 2), ctx)
	assert.True(t, res.IsNoOp())
}

func TestCaseOperators(t *testing.T) {
	tests := []struct {
		name string
		op   string
		want string
	}{
		{"toggle", vim.OpToggleCase, "hELLO world"},
		{"lower", vim.OpLowerCase, "hello world"},
		{"upper", vim.OpUpperCase, "HELLO world"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, buf, _ := setup("Hello world")
			mustRun(t, tt.op, charRange(ctx, 0, 0, 4), ctx)
			assert.Equal(t, tt.want, buf.Text())
		})
	}
}

func TestCaseLinewise(t *testing.T) {
	ctx, buf, _ := setup("ab", "cd", "ef")
	mustRun(t, vim.OpUpperCase, lineRange(ctx, 0, 1), ctx)
	assert.Equal(t, []string{"AB", "CD", "ef"}, buf.Lines())
}

func TestCaseUnchangedIsNoOp(t *testing.T) {
	ctx, _, _ := setup("123")
	res := mustRun(t, vim.OpUpperCase, charRange(ctx, 0, 0, 2), ctx)
	assert.True(t, res.IsNoOp())
}

func TestReplace(t *testing.T) {
	ctx, buf, _ := setup("abcd")
	ctx.WithChar("x")
	res := mustRun(t, NameReplace, charRange(ctx, 0, 0, 2), ctx)
	require.True(t, res.IsOK())
	assert.Equal(t, "xxxd", buf.Text())

	_, col := cursorOf(t, res)
	assert.Equal(t, 2, col)
}

func TestReplaceWithLineBreak(t *testing.T) {
	ctx, buf, _ := setup("abcd")
	ctx.WithChar("\n")
	res := mustRun(t, NameReplace, charRange(ctx, 0, 1, 2), ctx)
	require.True(t, res.IsOK())
	assert.Equal(t, []string{"a", "d"}, buf.Lines())

	line, col := cursorOf(t, res)
	assert.Equal(t, 1, line)
	assert.Equal(t, 0, col)
}

func TestReplaceKeepsLineBreaks(t *testing.T) {
	ctx, buf, _ := setup("ab", "cd")
	ctx.WithChar("-")
	r := motion.Range{Start: pos(ctx, 0, 1), End: pos(ctx, 1, 0), Inclusive: true}
	mustRun(t, NameReplace, r, ctx)
	assert.Equal(t, []string{"a-", "-d"}, buf.Lines())
}

func TestReplaceRequiresChar(t *testing.T) {
	ctx, _, _ := setup("abc")
	res := mustRun(t, NameReplace, charRange(ctx, 0, 0, 0), ctx)
	require.True(t, res.IsError())
	assert.ErrorIs(t, res.Error, execctx.ErrMissingChar)
}

func TestPasteCharwise(t *testing.T) {
	ctx, buf, regs := setup("ac")
	regs.Yank(0, vim.Register{Content: "b"})

	res := mustRun(t, NamePasteAfter, motion.Range{}, ctx)
	require.True(t, res.IsOK())
	assert.Equal(t, "abc", buf.Text())
	_, col := cursorOf(t, res)
	assert.Equal(t, 1, col)
}

func TestPasteCharwiseBeforeWithCount(t *testing.T) {
	ctx, buf, regs := setup("ab")
	regs.Yank(0, vim.Register{Content: "xy"})
	ctx.WithCursor(pos(ctx, 0, 1)).WithCount(2)

	res := mustRun(t, NamePasteBefore, motion.Range{}, ctx)
	require.True(t, res.IsOK())
	assert.Equal(t, "axyxyb", buf.Text())
	_, col := cursorOf(t, res)
	assert.Equal(t, 4, col)
}

func TestPasteLinewise(t *testing.T) {
	tests := []struct {
		name     string
		op       string
		line     int
		want     []string
		wantLine int
	}{
		{"after middle", NamePasteAfter, 0, []string{"a", "  new", "b"}, 1},
		{"after last", NamePasteAfter, 1, []string{"a", "b", "  new"}, 2},
		{"before", NamePasteBefore, 1, []string{"a", "  new", "b"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, buf, regs := setup("a", "b")
			regs.Yank(0, vim.Register{Content: "  new\n", Kind: vim.Linewise})
			ctx.WithCursor(pos(ctx, tt.line, 0))

			res := mustRun(t, tt.op, motion.Range{}, ctx)
			require.True(t, res.IsOK())
			assert.Equal(t, tt.want, buf.Lines())

			line, col := cursorOf(t, res)
			assert.Equal(t, tt.wantLine, line)
			assert.Equal(t, 2, col)
		})
	}
}

func TestPasteEmptyRegister(t *testing.T) {
	ctx, buf, _ := setup("abc")
	res := mustRun(t, NamePasteAfter, motion.Range{}, ctx)
	assert.True(t, res.IsNoOp())
	assert.Equal(t, "abc", buf.Text())
}

func TestPasteContentOverride(t *testing.T) {
	ctx, buf, regs := setup("ab")
	regs.Yank(0, vim.Register{Content: "zzz"})
	ctx.WithContent(vim.Register{Content: "X"})

	mustRun(t, NamePasteBefore, motion.Range{}, ctx)
	assert.Equal(t, "Xab", buf.Text())
}

func TestJoin(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
		col   int
	}{
		{"simple", []string{"foo", "  bar"}, "foo bar", 3},
		{"trailing space", []string{"foo ", "bar"}, "foo bar", 4},
		{"closing paren", []string{"f(x", "  )"}, "f(x)", 3},
		{"empty next", []string{"foo", ""}, "foo", 2},
		{"empty first", []string{"", "bar"}, "bar", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, buf, _ := setup(tt.lines...)
			res := mustRun(t, NameJoin, lineRange(ctx, 0, 1), ctx)
			require.True(t, res.IsOK())
			assert.Equal(t, tt.want, buf.Text())
			_, col := cursorOf(t, res)
			assert.Equal(t, tt.col, col)
		})
	}
}

func TestJoinSingleLineIsNoOp(t *testing.T) {
	ctx, _, _ := setup("only")
	res := mustRun(t, NameJoin, lineRange(ctx, 0, 0), ctx)
	assert.True(t, res.IsNoOp())
}

func TestJoinManyLines(t *testing.T) {
	ctx, buf, _ := setup("a", "b", "c", "d")
	mustRun(t, NameJoin, lineRange(ctx, 0, 2), ctx)
	assert.Equal(t, []string{"a b c", "d"}, buf.Lines())
}
