package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/vimcore/internal/engine/text"
)

func TestUndoRedo(t *testing.T) {
	buf := text.NewMemoryBuffer("hello")
	h := New(buf, 10)

	snap := h.Snapshot()
	require.NoError(t, h.Insert(snap.PositionAt(0, 5), " world"))
	assert.Equal(t, "hello world", buf.Text())

	cur, ok := h.Undo()
	require.True(t, ok)
	assert.Equal(t, "hello", buf.Text())
	assert.Equal(t, 4, cur.Column, "cursor is clamped to the restored line")

	_, ok = h.Redo()
	require.True(t, ok)
	assert.Equal(t, "hello world", buf.Text())

	_, ok = h.Redo()
	assert.False(t, ok)
}

func TestGroupedChangesUndoTogether(t *testing.T) {
	buf := text.NewMemoryBuffer("abc")
	h := New(buf, 10)

	h.BeginGroup(text.Position{Column: 1})
	require.NoError(t, h.Insert(text.Position{Column: 3}, "d"))
	h.BeginGroup(text.Position{})
	require.NoError(t, h.Insert(text.Position{Column: 4}, "e"))
	h.EndGroup()
	h.EndGroup()

	assert.Equal(t, "abcde", buf.Text())
	assert.Equal(t, 1, h.UndoCount())

	cur, ok := h.Undo()
	require.True(t, ok)
	assert.Equal(t, "abc", buf.Text())
	assert.Equal(t, 1, cur.Column)
}

func TestFailedMutationIsNotRecorded(t *testing.T) {
	buf := text.NewMemoryBuffer("abc")
	h := New(buf, 10)
	buf.SetReadOnly(true)

	err := h.Insert(text.Position{}, "x")
	assert.ErrorIs(t, err, text.ErrReadOnly)
	assert.False(t, h.CanUndo())
}

func TestNewChangeClearsRedo(t *testing.T) {
	buf := text.NewMemoryBuffer("a")
	h := New(buf, 10)

	require.NoError(t, h.Insert(text.Position{}, "x"))
	_, _ = h.Undo()
	require.True(t, h.CanRedo())

	require.NoError(t, h.Insert(text.Position{}, "y"))
	assert.False(t, h.CanRedo())
}

func TestMaxEntries(t *testing.T) {
	buf := text.NewMemoryBuffer("")
	h := New(buf, 3)
	for i := 0; i < 5; i++ {
		require.NoError(t, h.Insert(text.Position{}, "x"))
	}
	assert.Equal(t, 3, h.UndoCount())
}
