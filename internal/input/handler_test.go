package input

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/dshills/vimcore/internal/dispatcher/handler"
	"github.com/dshills/vimcore/internal/engine/history"
	"github.com/dshills/vimcore/internal/engine/text"
	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/input/vim"
)

type recordingLogger struct {
	mu     sync.Mutex
	debugs []string
	warns  []string
}

func (l *recordingLogger) Debug(msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debugs = append(l.debugs, fmt.Sprintf(msg, args...))
}

func (l *recordingLogger) Warn(msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, fmt.Sprintf(msg, args...))
}

func newTestHandler(opts Options, lines ...string) (*Handler, *text.MemoryBuffer) {
	buf := text.NewMemoryBufferFromLines(lines)
	hist := history.New(buf, 100)
	opts.History = hist
	return New(hist, opts), buf
}

// typeKeys sends keys the way a host would, inserting unconsumed text in
// Insert mode.
func typeKeys(t require.TestingT, h *Handler, keys string) []Result {
	seq, err := key.ParseSequence(keys)
	require.NoError(t, err)

	var results []Result
	for _, ev := range seq.Events {
		res := h.HandleKey(ev)
		results = append(results, res)
		if res.Consumed || h.Mode() != mode.Insert || ev.Text() == "" {
			continue
		}
		buf := h.d.Buffer()
		snap := buf.Snapshot()
		cur := h.Cursor()
		pos := snap.PositionAt(cur.Line, cur.Column)
		require.NoError(t, buf.Insert(pos, ev.Text()))
		h.SetCursor(buf.Snapshot().PositionFromOffset(pos.Offset + text.GraphemeCount(ev.Text())))
	}
	return results
}

func TestHandleKeyCommand(t *testing.T) {
	h, buf := newTestHandler(Options{}, "a", "b", "c")

	res := h.HandleKey(key.Char('d'))
	assert.True(t, res.Consumed)
	assert.Equal(t, "d", h.PendingKeys())

	res = h.HandleKey(key.Char('d'))
	assert.True(t, res.Consumed)
	assert.Equal(t, handler.StatusOK, res.Status)
	assert.NoError(t, res.Err)
	assert.Empty(t, h.PendingKeys())
	assert.Equal(t, []string{"b", "c"}, buf.Lines())
	assert.Equal(t, "a\n", h.Registers().Get('"').Content)
}

func TestHandleKeyInvalidFallsThrough(t *testing.T) {
	h, buf := newTestHandler(Options{}, "abc")

	results := typeKeys(t, h, "2dZ")
	require.Len(t, results, 3)
	assert.True(t, results[1].Consumed)
	assert.False(t, results[2].Consumed)
	assert.Equal(t, handler.StatusNoOp, results[2].Status)
	assert.Empty(t, h.PendingKeys())

	// The parser starts over after an invalid key.
	typeKeys(t, h, "x")
	assert.Equal(t, []string{"bc"}, buf.Lines())
}

func TestHandleKeyInsertPassthrough(t *testing.T) {
	h, buf := newTestHandler(Options{}, "ac")
	h.SetCursor(text.Position{Column: 1})

	assert.True(t, h.HandleKey(key.Char('i')).Consumed)
	assert.Equal(t, mode.Insert, h.Mode())

	results := typeKeys(t, h, "b")
	assert.False(t, results[0].Consumed)
	assert.Equal(t, []string{"abc"}, buf.Lines())

	res := h.HandleKey(key.NewSpecialEvent(key.KeyEscape, 0))
	assert.True(t, res.Consumed)
	assert.Equal(t, mode.Normal, h.Mode())
	assert.Equal(t, 1, h.Cursor().Column)
	assert.Equal(t, "b", h.Registers().Get('.').Content)
}

func TestHandleKeyEscapeAliases(t *testing.T) {
	for _, esc := range []key.Event{key.Ctrl('['), key.Ctrl('c')} {
		h, _ := newTestHandler(Options{}, "abc")
		typeKeys(t, h, "i")
		require.Equal(t, mode.Insert, h.Mode())
		assert.True(t, h.HandleKey(esc).Consumed)
		assert.Equal(t, mode.Normal, h.Mode())
	}
}

func TestHandleKeyUndoGroups(t *testing.T) {
	h, buf := newTestHandler(Options{}, "abc def")

	typeKeys(t, h, "cwfoo<Esc>")
	assert.Equal(t, []string{"foo def"}, buf.Lines())

	typeKeys(t, h, "u")
	assert.Equal(t, []string{"abc def"}, buf.Lines(), "change and typed text undo together")

	typeKeys(t, h, "Ahello<Esc>")
	assert.Equal(t, []string{"abc defhello"}, buf.Lines())
	typeKeys(t, h, "u")
	assert.Equal(t, []string{"abc def"}, buf.Lines())

	typeKeys(t, h, "<C-r>")
	assert.Equal(t, []string{"abc defhello"}, buf.Lines())
}

func TestHandleKeyEscapeCancels(t *testing.T) {
	h, buf := newTestHandler(Options{}, "abc", "def")

	typeKeys(t, h, "2d<Esc>j")
	assert.Equal(t, []string{"abc", "def"}, buf.Lines())
	assert.Equal(t, 1, h.Cursor().Line)

	typeKeys(t, h, "r<Esc>")
	assert.Equal(t, []string{"abc", "def"}, buf.Lines())

	typeKeys(t, h, "vl")
	assert.Equal(t, mode.Visual, h.Mode())
	typeKeys(t, h, "<Esc>")
	assert.Equal(t, mode.Normal, h.Mode())
	assert.False(t, h.Selection().Active())
}

func TestHandleKeyCommandLine(t *testing.T) {
	h, _ := newTestHandler(Options{}, "a", "b", "c")

	typeKeys(t, h, ":")
	assert.Equal(t, mode.CommandLine, h.Mode())
	assert.Equal(t, mode.CommandEx, h.CommandLineKind())

	results := typeKeys(t, h, "34<BS>")
	for _, r := range results {
		assert.True(t, r.Consumed)
	}
	assert.Equal(t, "3", h.CommandLine())

	res := h.HandleKey(key.NewSpecialEvent(key.KeyEnter, 0))
	assert.True(t, res.Consumed)
	assert.Equal(t, mode.Normal, h.Mode())
	assert.Equal(t, 2, h.Cursor().Line)
	assert.Empty(t, h.CommandLine())

	typeKeys(t, h, ":<BS>")
	assert.Equal(t, mode.Normal, h.Mode(), "backspace on an empty line leaves")

	typeKeys(t, h, ":1<Esc>")
	assert.Equal(t, mode.Normal, h.Mode())
	assert.Equal(t, 2, h.Cursor().Line)
}

func TestHandleKeyExternalLineEditor(t *testing.T) {
	line := &LineBuffer{}
	h, buf := newTestHandler(Options{LineEditor: line}, "foo", "bar")

	typeKeys(t, h, "/")
	assert.Equal(t, mode.CommandLine, h.Mode())
	assert.Equal(t, mode.CommandSearchForward, h.CommandLineKind())

	res := h.HandleKey(key.Char('b'))
	assert.False(t, res.Consumed)
	line.HandleKey(key.Char('b'))
	line.HandleKey(key.Char('a'))

	res = h.HandleKey(key.NewSpecialEvent(key.KeyEnter, 0))
	assert.True(t, res.Consumed)
	assert.Equal(t, text.Position{Line: 1, Column: 0, Offset: 4}, h.Cursor())
	pattern, ok := h.LastSearch()
	assert.True(t, ok)
	assert.Equal(t, "ba", pattern)
	assert.True(t, h.Highlight())
	assert.Equal(t, []string{"foo", "bar"}, buf.Lines())
	assert.Zero(t, line.Len())
}

func TestHandleKeyFallback(t *testing.T) {
	h, _ := newTestHandler(Options{}, "a")
	var got string
	h.SetFallback(func(line string) error {
		got = line
		return nil
	})

	typeKeys(t, h, ":w out.txt<CR>")
	assert.Equal(t, "w out.txt", got)
}

func TestHandleKeyCallbacks(t *testing.T) {
	var modes [][2]mode.Mode
	var cursors []text.Position
	var selections int

	var h *Handler
	h, _ = newTestHandler(Options{
		OnModeChange: func(from, to mode.Mode) {
			modes = append(modes, [2]mode.Mode{from, to})
			_ = h.Mode() // callbacks may call back in
		},
		OnCursor:    func(pos text.Position) { cursors = append(cursors, pos) },
		OnSelection: func(mode.Selection) { selections++ },
	}, "abc")

	typeKeys(t, h, "vl<Esc>")

	assert.Equal(t, [][2]mode.Mode{{mode.Normal, mode.Visual}, {mode.Visual, mode.Normal}}, modes)
	require.Len(t, cursors, 1)
	assert.Equal(t, 1, cursors[0].Column)
	assert.Equal(t, 3, selections)

	h.SetCursor(text.Position{Column: 2})
	assert.Len(t, cursors, 2)
}

func TestHandleKeyHooks(t *testing.T) {
	metrics := NewMetrics()
	h, buf := newTestHandler(Options{Metrics: metrics}, "abc")

	blockX := &blockHook{r: 'x'}
	id := h.Hooks().Register(blockX, "block-x", HookPriorityHigh)
	var seen []handler.ResultStatus
	h.Hooks().Register(HookFunc(func(ev key.Event, res *Result) {
		seen = append(seen, res.Status)
	}), "observe", HookPriorityNormal)
	assert.Equal(t, []string{"block-x", "observe"}, h.Hooks().Names())

	typeKeys(t, h, "xl")
	assert.Equal(t, []string{"abc"}, buf.Lines())
	assert.Equal(t, []handler.ResultStatus{handler.StatusOK}, seen)

	assert.True(t, h.Hooks().Unregister(id))
	typeKeys(t, h, "x")
	assert.Equal(t, []string{"ac"}, buf.Lines())

	snap := metrics.Snapshot()
	assert.Equal(t, uint64(3), snap.Keys)
	assert.Equal(t, uint64(1), snap.HookConsumptions)
	assert.Equal(t, uint64(2), snap.Commands)
	assert.GreaterOrEqual(t, snap.PeakLatency, snap.AvgLatency)

	metrics.Reset()
	assert.Zero(t, metrics.Snapshot().Keys)
}

type blockHook struct {
	r rune
}

func (b *blockHook) PreKey(ev *key.Event) bool { return ev.IsCharKey(b.r) }

func (b *blockHook) PostKey(key.Event, *Result) {}

func TestHandleKeyExecutionError(t *testing.T) {
	logger := &recordingLogger{}
	buf := text.NewMemoryBufferFromLines([]string{"abc"})
	buf.SetReadOnly(true)
	h := New(buf, Options{Logger: logger})

	res := h.HandleKey(key.Char('x'))
	assert.True(t, res.Consumed)
	assert.Equal(t, handler.StatusError, res.Status)
	assert.ErrorIs(t, res.Err, text.ErrReadOnly)
	assert.NotEmpty(t, logger.warns)
	assert.Empty(t, h.PendingKeys())
	assert.Equal(t, mode.Normal, h.Mode())
}

func TestHandleKeyReadOnlyDeleteKeepsRegisters(t *testing.T) {
	h, buf := newTestHandler(Options{}, "a", "b", "c")
	typeKeys(t, h, "yy")
	buf.SetReadOnly(true)

	results := typeKeys(t, h, "jdd")
	assert.ErrorIs(t, results[len(results)-1].Err, text.ErrReadOnly)
	assert.Equal(t, []string{"a", "b", "c"}, buf.Lines())
	assert.Equal(t, "a\n", h.Registers().Get('"').Content)
	assert.Empty(t, h.Registers().Get('1').Content)
}

func TestHandleKeyVisualDeleteEmptyLine(t *testing.T) {
	tests := []struct {
		keys string
		want []string
	}{
		{"jvd", []string{"a", "c"}},
		{"vjd", []string{"c"}},
		{"jvy", []string{"a", "", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.keys, func(t *testing.T) {
			h, buf := newTestHandler(Options{}, "a", "", "c")
			typeKeys(t, h, tt.keys)
			assert.Equal(t, tt.want, buf.Lines())
			assert.Equal(t, mode.Normal, h.Mode())
		})
	}

	h, _ := newTestHandler(Options{}, "a", "", "c")
	typeKeys(t, h, "jvy")
	assert.Equal(t, "\n", h.Registers().Get('"').Content)
}

func TestHandleKeyLineEndOnEmptyLine(t *testing.T) {
	h, buf := newTestHandler(Options{}, "a", "", "c")
	typeKeys(t, h, "jD")
	assert.Equal(t, []string{"a", "", "c"}, buf.Lines())

	typeKeys(t, h, "Cx<Esc>")
	assert.Equal(t, []string{"a", "x", "c"}, buf.Lines())
}

func TestHandleKeyLogsDispatches(t *testing.T) {
	logger := &recordingLogger{}
	h, _ := newTestHandler(Options{Logger: logger}, "abc")
	typeKeys(t, h, "2x")

	joined := strings.Join(logger.debugs, "\n")
	assert.Contains(t, joined, "dispatching operator:")
	assert.Contains(t, joined, "(count=2)")
	assert.Contains(t, joined, "-> ok")
}

func TestHandlerStartMode(t *testing.T) {
	h, buf := newTestHandler(Options{StartMode: mode.Insert}, "")
	assert.Equal(t, mode.Insert, h.Mode())

	typeKeys(t, h, "hi<Esc>")
	assert.Equal(t, []string{"hi"}, buf.Lines())
	assert.Equal(t, mode.Normal, h.Mode())
}

func TestHandlerSharedRegisters(t *testing.T) {
	regs := vim.NewRegisterStore()
	a, _ := newTestHandler(Options{}, "one")
	b, bufB := newTestHandler(Options{}, "two")
	a.WithRegisters(regs)
	b.WithRegisters(regs)

	typeKeys(t, a, "yy")
	typeKeys(t, b, "p")
	assert.Equal(t, []string{"two", "one"}, bufB.Lines())
}

func TestHandlerResetDocumentState(t *testing.T) {
	h, buf := newTestHandler(Options{}, "abcdef")

	typeKeys(t, h, "x2d")
	require.Equal(t, "2d", h.PendingKeys())

	buf.SetText("new text")
	h.ResetDocumentState()
	assert.Empty(t, h.PendingKeys())

	typeKeys(t, h, ".")
	assert.Equal(t, []string{"new text"}, buf.Lines(), "no last operation after reset")
}

func TestHandlerConcurrentKeys(t *testing.T) {
	h, _ := newTestHandler(Options{}, "abcdef", "ghijkl")

	var wg sync.WaitGroup
	for _, r := range []rune{'l', 'h', 'j', 'k'} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				h.HandleKey(key.Char(r))
				_ = h.Cursor()
			}
		}()
	}
	wg.Wait()

	cur := h.Cursor()
	assert.LessOrEqual(t, cur.Line, 1)
	assert.LessOrEqual(t, cur.Column, 5)
}

func TestHandlerEscapeAlwaysReturnsToNormal(t *testing.T) {
	alphabet := []string{"d", "c", "y", "2", "i", "a", "v", "V", ":", "/", "r", "f", "g", "x", "w", "\"", "q", "<CR>", "<BS>"}
	rapid.Check(t, func(t *rapid.T) {
		h, _ := newTestHandler(Options{}, "abc def", "ghi")
		keys := rapid.SliceOfN(rapid.SampledFrom(alphabet), 0, 15).Draw(t, "keys")
		for _, k := range keys {
			typeKeys(t, h, k)
		}
		typeKeys(t, h, "<Esc>")

		assert.Equal(t, mode.Normal, h.Mode())
		assert.Empty(t, h.PendingKeys())
		assert.False(t, h.Selection().Active())
		assert.Empty(t, h.CommandLine())
	})
}

func TestLineBuffer(t *testing.T) {
	var b LineBuffer
	for _, ev := range key.MustParseSequence("s/foo bar/x<BS>").Events {
		assert.True(t, b.HandleKey(ev))
	}
	assert.Equal(t, "s/foo bar/", b.Text())

	assert.True(t, b.HandleKey(key.Ctrl('w')))
	assert.Equal(t, "s/foo ", b.Text())

	assert.False(t, b.HandleKey(key.NewSpecialEvent(key.KeyUp, 0)))

	assert.True(t, b.HandleKey(key.Ctrl('u')))
	assert.Zero(t, b.Len())
}
