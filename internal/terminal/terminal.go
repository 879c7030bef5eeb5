// Package terminal hosts the editing engine in a terminal: it draws the
// active document with a status line and feeds tcell key events to the
// application.
package terminal

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/vimcore/internal/input/mode"
)

// Terminal wraps a tcell screen. All drawing goes through it so the host
// loop and resize handling never race.
type Terminal struct {
	mu     sync.Mutex
	screen tcell.Screen
}

// NewTerminal creates a terminal on the controlling tty.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen}, nil
}

// NewTerminalWithScreen wraps an existing screen, such as a simulation
// screen in tests.
func NewTerminalWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

// Init takes over the terminal.
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.SetStyle(tcell.StyleDefault)
	t.screen.Clear()
	return nil
}

// Shutdown restores the terminal.
func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Fini()
}

// Size returns the terminal dimensions.
func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

// SetCell draws one grapheme cluster at x, y. Positions outside the screen
// are ignored.
func (t *Terminal) SetCell(x, y int, cluster string, style tcell.Style) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.setCellLocked(x, y, cluster, style)
}

func (t *Terminal) setCellLocked(x, y int, cluster string, style tcell.Style) {
	w, h := t.screen.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	runes := []rune(cluster)
	if len(runes) == 0 {
		runes = []rune{' '}
	}
	t.screen.SetContent(x, y, runes[0], runes[1:], style)
}

// FillRow paints row y with spaces in style.
func (t *Terminal) FillRow(y int, style tcell.Style) {
	t.mu.Lock()
	defer t.mu.Unlock()

	w, _ := t.screen.Size()
	for x := range w {
		t.setCellLocked(x, y, " ", style)
	}
}

// Clear clears the entire screen.
func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
}

// Show flushes drawing to the display.
func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Show()
}

// Sync redraws the whole display, after a resize for example.
func (t *Terminal) Sync() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Sync()
}

// ShowCursor positions and displays the cursor.
func (t *Terminal) ShowCursor(x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.ShowCursor(x, y)
}

// HideCursor hides the cursor.
func (t *Terminal) HideCursor() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.HideCursor()
}

// SetCursorStyle changes the cursor shape for a mode.
func (t *Terminal) SetCursorStyle(style mode.CursorStyle) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var cs tcell.CursorStyle
	switch style {
	case mode.CursorBar:
		cs = tcell.CursorStyleSteadyBar
	case mode.CursorUnderline:
		cs = tcell.CursorStyleSteadyUnderline
	default:
		cs = tcell.CursorStyleSteadyBlock
	}
	t.screen.SetCursorStyle(cs)
}

// PollEvent waits for the next terminal event. It returns nil once the
// screen is finalized.
func (t *Terminal) PollEvent() tcell.Event {
	return t.screen.PollEvent()
}

// Interrupt wakes PollEvent with an interrupt event.
func (t *Terminal) Interrupt() {
	_ = t.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

// Beep rings the terminal bell.
func (t *Terminal) Beep() {
	t.mu.Lock()
	defer t.mu.Unlock()

	_ = t.screen.Beep()
}
