package history

import (
	"errors"
	"sync"
	"time"

	"github.com/dshills/vimcore/internal/engine/text"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Restorable is a buffer whose whole contents can be replaced.
type Restorable interface {
	text.Buffer
	SetText(s string)
}

// undoEntry is the document state before a change.
type undoEntry struct {
	text      string
	cursor    text.Position
	timestamp time.Time
}

// History records buffer states and restores them on undo/redo.
// It implements text.Buffer by delegating to the wrapped buffer.
type History struct {
	mu sync.Mutex

	buf Restorable

	undoStack []*undoEntry
	redoStack []*undoEntry

	// Grouping state
	groupDepth    int
	groupCursor   text.Position
	groupRecorded bool

	maxEntries int
}

// New creates a history over buf keeping at most maxEntries undo states.
func New(buf Restorable, maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	return &History{buf: buf, maxEntries: maxEntries}
}

// Snapshot returns the current view of the wrapped buffer.
func (h *History) Snapshot() *text.Snapshot {
	return h.buf.Snapshot()
}

// Insert records the current state and inserts text.
func (h *History) Insert(at text.Position, s string) error {
	return h.mutate(at, func() error { return h.buf.Insert(at, s) })
}

// DeleteRange records the current state and deletes a range.
func (h *History) DeleteRange(start, end text.Position) error {
	return h.mutate(start, func() error { return h.buf.DeleteRange(start, end) })
}

// ReplaceRange records the current state and replaces a range.
func (h *History) ReplaceRange(start, end text.Position, s string) error {
	return h.mutate(start, func() error { return h.buf.ReplaceRange(start, end, s) })
}

func (h *History) mutate(at text.Position, fn func() error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	before := h.buf.Snapshot().Text()
	if err := fn(); err != nil {
		return err
	}
	if h.groupDepth > 0 {
		if h.groupRecorded {
			return nil
		}
		h.groupRecorded = true
		at = h.groupCursor
	}
	h.pushLocked(&undoEntry{text: before, cursor: at, timestamp: time.Now()})
	return nil
}

// pushLocked adds an entry without acquiring the lock.
func (h *History) pushLocked(e *undoEntry) {
	h.undoStack = append(h.undoStack, e)
	h.redoStack = nil

	if len(h.undoStack) > h.maxEntries {
		excess := len(h.undoStack) - h.maxEntries
		h.undoStack = h.undoStack[excess:]
	}
}

// Undo restores the state before the last change.
// It returns the cursor recorded with that change.
func (h *History) Undo() (text.Position, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undoStack) == 0 {
		return text.Position{}, false
	}
	entry := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]

	h.redoStack = append(h.redoStack, &undoEntry{
		text:      h.buf.Snapshot().Text(),
		cursor:    entry.cursor,
		timestamp: time.Now(),
	})
	h.buf.SetText(entry.text)
	return h.cursorLocked(entry.cursor), true
}

// Redo reapplies the last undone change.
func (h *History) Redo() (text.Position, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redoStack) == 0 {
		return text.Position{}, false
	}
	entry := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]

	h.undoStack = append(h.undoStack, &undoEntry{
		text:      h.buf.Snapshot().Text(),
		cursor:    entry.cursor,
		timestamp: time.Now(),
	})
	h.buf.SetText(entry.text)
	return h.cursorLocked(entry.cursor), true
}

// cursorLocked recomputes a recorded cursor against the restored text.
func (h *History) cursorLocked(p text.Position) text.Position {
	return h.buf.Snapshot().CursorAt(p.Line, p.Column)
}

// BeginGroup starts a group of changes undone as a unit.
// Nested calls are counted; only the outermost pair delimits the group.
func (h *History) BeginGroup(cursor text.Position) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.groupDepth++
	if h.groupDepth == 1 {
		h.groupCursor = cursor
		h.groupRecorded = false
	}
}

// EndGroup finishes the current group.
func (h *History) EndGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.groupDepth > 0 {
		h.groupDepth--
	}
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo states available.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// Clear drops all recorded states.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undoStack = nil
	h.redoStack = nil
	h.groupDepth = 0
}
