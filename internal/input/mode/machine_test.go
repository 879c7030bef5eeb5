package mode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/vimcore/internal/engine/text"
	"github.com/dshills/vimcore/internal/input/key"
)

func pos(line, col int) text.Position {
	return text.Position{Line: line, Column: col}
}

func TestModeStrings(t *testing.T) {
	assert.Equal(t, "visual-line", VisualLine.String())
	assert.Equal(t, "VISUAL LINE", VisualLine.DisplayName())
	assert.Equal(t, CursorBar, Insert.CursorStyle())
	assert.Equal(t, CursorBlock, Visual.CursorStyle())
	assert.True(t, Visual.IsVisual())
	assert.False(t, CommandLine.IsVisual())

	m, err := ParseMode("Insert")
	require.NoError(t, err)
	assert.Equal(t, Insert, m)
	_, err = ParseMode("replace")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestMachineModeChangeClearsKeys(t *testing.T) {
	m := NewMachine()
	assert.Equal(t, Normal, m.Mode())

	m.AddKey(key.Char('2'))
	m.AddKey(key.Char('d'))
	m.SetRegister('a')
	assert.Equal(t, "2d", m.PendingKeys())

	m.EnterCommandLine(CommandSearchBackward)
	assert.Equal(t, CommandLine, m.Mode())
	assert.Equal(t, '?', m.CommandLineKind().Prompt())
	assert.True(t, m.CommandLineKind().IsSearch())
	assert.Empty(t, m.Keys())
	assert.Zero(t, m.Register())
}

func TestMachineVisualSelection(t *testing.T) {
	m := NewMachine()
	m.EnterVisual(Visual, pos(1, 4))
	require.True(t, m.Selection().Active())

	m.MoveSelection(pos(0, 2))
	r, ok := m.Selection().Range(false)
	require.True(t, ok)
	assert.Equal(t, pos(0, 2), r.Start)
	assert.Equal(t, pos(1, 4), r.End)
	assert.True(t, r.Inclusive)

	// Switching visual kinds keeps the selection.
	m.EnterVisual(VisualLine, pos(5, 5))
	assert.Equal(t, VisualLine, m.Mode())
	anchor, head, ok := m.Selection().Bounds()
	require.True(t, ok)
	assert.Equal(t, pos(1, 4), anchor)
	assert.Equal(t, pos(0, 2), head)
	r, _ = m.Selection().Range(true)
	assert.True(t, r.Linewise)

	head, ok = m.SwapSelection()
	require.True(t, ok)
	assert.Equal(t, pos(1, 4), head)

	m.SetMode(Normal)
	assert.False(t, m.Selection().Active())
	_, ok = m.Selection().Range(false)
	assert.False(t, ok)
}

func TestMachineInsertSession(t *testing.T) {
	m := NewMachine()
	assert.True(t, m.LastOperation().IsAbsent())

	m.EnterInsert(LastOperation{Keys: key.MustParseSequence("cw").Events, Count: 2}, true)
	assert.Equal(t, Insert, m.Mode())
	for _, ev := range key.MustParseSequence("fox<BS>o<CR>").Events {
		m.RecordInsert(ev)
	}
	typed := m.LeaveInsert()
	assert.Equal(t, "foo\n", typed)
	assert.Equal(t, Normal, m.Mode())

	op, ok := m.LastOperation().Get()
	require.True(t, ok)
	assert.Equal(t, "cw", op.String())
	assert.Equal(t, 2, op.Count)
	assert.Equal(t, "foo\n", op.Inserted)

	m.EnterInsert(LastOperation{}, false)
	m.RecordInsert(key.Char('z'))
	assert.Equal(t, "z", m.LeaveInsert())
	op = m.LastOperation().MustGet()
	assert.Equal(t, "foo\n", op.Inserted, "non-repeatable session keeps the old record")

	m.ResetDocument()
	assert.True(t, m.LastOperation().IsAbsent())
}

func TestMachineOnChange(t *testing.T) {
	m := NewMachine()
	var got [][2]Mode
	unregister := m.OnChange(func(from, to Mode) {
		got = append(got, [2]Mode{from, to})
	})

	m.EnterVisual(Visual, pos(0, 0))
	m.SetMode(Visual)
	m.Reset()
	unregister()
	m.SetMode(Insert)

	assert.Equal(t, [][2]Mode{{Normal, Visual}, {Visual, Normal}}, got)
}
