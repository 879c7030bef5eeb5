package terminal

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/vimcore/internal/app"
	"github.com/dshills/vimcore/internal/config"
	"github.com/dshills/vimcore/internal/engine/text"
	"github.com/dshills/vimcore/internal/input/mode"
)

func newSimTerminal(t *testing.T, width, height int) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	term := NewTerminalWithScreen(sim)
	require.NoError(t, term.Init())
	sim.SetSize(width, height)
	t.Cleanup(term.Shutdown)
	return term, sim
}

// rowText returns row y of the displayed screen with trailing spaces
// trimmed.
func rowText(sim tcell.SimulationScreen, y int) string {
	cells, width, _ := sim.GetContents()
	var sb strings.Builder
	for x := range width {
		runes := cells[y*width+x].Runes
		if len(runes) == 0 {
			sb.WriteByte(' ')
			continue
		}
		sb.WriteString(string(runes))
	}
	return strings.TrimRight(sb.String(), " ")
}

type memClipboard struct{ content string }

func (c *memClipboard) Get() (string, error) { return c.content, nil }
func (c *memClipboard) Set(s string) error   { c.content = s; return nil }

func newTestHost(t *testing.T, content string) (*Host, tcell.SimulationScreen) {
	t.Helper()
	cfg := config.Default()
	cfg.Plugins.Enabled = false
	application := app.New(app.Options{Config: cfg, Clipboard: &memClipboard{}})
	t.Cleanup(func() { _ = application.Close() })
	_, err := application.OpenScratch(content)
	require.NoError(t, err)

	term, sim := newSimTerminal(t, 40, 8)
	return NewHost(application, term), sim
}

func typeRunes(h *Host, s string) bool {
	var quit bool
	for _, r := range s {
		quit = h.HandleEvent(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
	return quit
}

func pressKey(h *Host, k tcell.Key) bool {
	return h.HandleEvent(tcell.NewEventKey(k, 0, tcell.ModNone))
}

func TestView_Render(t *testing.T) {
	term, sim := newSimTerminal(t, 20, 5)
	var v View
	st := ViewState{Snapshot: text.SnapshotFromText("one\n\ttwo"), Cursor: text.Position{Line: 1, Column: 1}}

	cx, cy := v.Render(term, st, 4, 20)
	term.Show()

	assert.Equal(t, "one", rowText(sim, 0))
	assert.Equal(t, "        two", rowText(sim, 1))
	assert.Equal(t, "~", rowText(sim, 2))
	assert.Equal(t, 8, cx)
	assert.Equal(t, 1, cy)
}

func TestView_ScrollsToCursor(t *testing.T) {
	term, sim := newSimTerminal(t, 10, 5)
	lines := make([]string, 20)
	for i := range lines {
		lines[i] = strings.Repeat("x", i)
	}
	var v View
	st := ViewState{Snapshot: text.NewSnapshot(lines), Cursor: text.Position{Line: 12, Column: 11}}

	cx, cy := v.Render(term, st, 4, 10)
	term.Show()

	top, left := v.Scroll()
	assert.Equal(t, 9, top)
	assert.Equal(t, 2, left)
	assert.Equal(t, 3, cy)
	assert.Equal(t, 9, cx)
	assert.Equal(t, "xxxxxxx", rowText(sim, 0))

	st.Cursor = text.Position{Line: 0, Column: 0}
	v.Render(term, st, 4, 10)
	top, left = v.Scroll()
	assert.Zero(t, top)
	assert.Zero(t, left)
}

func TestView_HighlightsSelection(t *testing.T) {
	term, sim := newSimTerminal(t, 10, 3)
	var v View
	st := ViewState{
		Snapshot:  text.SnapshotFromText("abcdef"),
		Cursor:    text.Position{Column: 3},
		Mode:      mode.Visual,
		Selection: mode.Selection{Start: mo.Some(text.Position{Column: 1}), End: mo.Some(text.Position{Column: 3})},
	}

	v.Render(term, st, 2, 10)
	term.Show()

	cells, _, _ := sim.GetContents()
	for x, want := range []bool{false, true, true, true, false} {
		_, _, attrs := cells[x].Style.Decompose()
		assert.Equal(t, want, attrs&tcell.AttrReverse != 0, "cell %d", x)
	}
}

func TestCellColumn(t *testing.T) {
	clusters := text.SplitGraphemes("a\t日b")
	assert.Equal(t, 0, cellColumn(clusters, 0))
	assert.Equal(t, 1, cellColumn(clusters, 1))
	assert.Equal(t, 8, cellColumn(clusters, 2))
	assert.Equal(t, 10, cellColumn(clusters, 3))
	assert.Equal(t, 11, cellColumn(clusters, 10))
}

func TestSearchMatches(t *testing.T) {
	clusters := text.SplitGraphemes("foo bar foo")
	got := searchMatches(clusters, "foo")
	for _, i := range []int{0, 1, 2, 8, 9, 10} {
		assert.True(t, got[i], i)
	}
	assert.False(t, got[4])
	assert.Nil(t, searchMatches(clusters, ""))
}

func TestSelRange_Contains(t *testing.T) {
	r := selRange{start: text.Position{Line: 1, Column: 2}, end: text.Position{Line: 3, Column: 1}}
	assert.False(t, r.contains(0, 5))
	assert.False(t, r.contains(1, 1))
	assert.True(t, r.contains(1, 2))
	assert.True(t, r.contains(2, 99))
	assert.True(t, r.contains(3, 1))
	assert.False(t, r.contains(3, 2))

	r.linewise = true
	assert.True(t, r.contains(1, 0))
	assert.True(t, r.contains(3, 50))
}

func TestStatusLine_FormatPosition(t *testing.T) {
	s := NewStatusLine()
	tests := []struct {
		line, col, total int
		want             string
	}{
		{1, 1, 1, "1,1  All"},
		{1, 3, 10, "1,3  Top"},
		{10, 1, 10, "10,1  Bot"},
		{5, 2, 10, "5,2  50%"},
		{0, 0, 0, "1,1  All"},
	}
	for _, tt := range tests {
		s.SetPosition(tt.line, tt.col, tt.total)
		assert.Equal(t, tt.want, s.formatPosition())
	}
}

func TestHost_InsertAndStatus(t *testing.T) {
	h, sim := newTestHost(t, "")

	typeRunes(h, "ihello")
	h.Draw()
	assert.Equal(t, "hello", rowText(sim, 0))
	assert.Contains(t, rowText(sim, 6), "INSERT")

	pressKey(h, tcell.KeyEscape)
	h.Draw()
	status := rowText(sim, 6)
	assert.Contains(t, status, "NORMAL")
	assert.Contains(t, status, "[No Name] [+]")
	assert.Contains(t, status, "1,5")
}

func TestHost_CommandLine(t *testing.T) {
	h, sim := newTestHost(t, "text\n")

	typeRunes(h, ":w")
	h.Draw()
	assert.Equal(t, ":w", rowText(sim, 7))
	assert.Contains(t, rowText(sim, 6), "COMMAND")

	assert.False(t, pressKey(h, tcell.KeyEnter))
	h.Draw()
	assert.Contains(t, rowText(sim, 7), app.ErrNoFilePath.Error())

	typeRunes(h, ":q")
	assert.True(t, pressKey(h, tcell.KeyEnter))
}

func TestHost_PendingKeys(t *testing.T) {
	h, sim := newTestHost(t, "one two\n")

	typeRunes(h, "2d")
	h.Draw()
	assert.Contains(t, rowText(sim, 6), "2d")

	typeRunes(h, "w")
	h.Draw()
	assert.Equal(t, "", rowText(sim, 0))
}

func TestHost_RunStopsOnCancel(t *testing.T) {
	h, _ := newTestHost(t, "")
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- h.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
