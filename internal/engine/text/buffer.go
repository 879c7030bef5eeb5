package text

import (
	"fmt"
	"strings"
	"sync"
)

// Buffer is the mutation surface the engine edits through.
// Positions are interpreted by Line and Column; Offset is ignored.
// Ranges are end-exclusive.
type Buffer interface {
	// Snapshot returns the current immutable view of the document.
	Snapshot() *Snapshot

	// Insert inserts text at the given position.
	Insert(at Position, text string) error

	// DeleteRange removes the text between start and end.
	DeleteRange(start, end Position) error

	// ReplaceRange replaces the text between start and end.
	ReplaceRange(start, end Position, text string) error
}

// MemoryBuffer is a thread-safe in-memory Buffer.
type MemoryBuffer struct {
	mu       sync.RWMutex
	lines    []string
	snap     *Snapshot
	readOnly bool
	revision uint64
}

// NewMemoryBuffer creates a buffer holding text.
func NewMemoryBuffer(text string) *MemoryBuffer {
	return &MemoryBuffer{lines: strings.Split(text, "\n")}
}

// NewMemoryBufferFromLines creates a buffer holding lines.
func NewMemoryBufferFromLines(lines []string) *MemoryBuffer {
	b := &MemoryBuffer{lines: make([]string, len(lines))}
	copy(b.lines, lines)
	if len(b.lines) == 0 {
		b.lines = []string{""}
	}
	return b
}

// Snapshot returns the current view of the buffer.
func (b *MemoryBuffer) Snapshot() *Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.snap == nil {
		b.snap = NewSnapshot(b.lines)
	}
	return b.snap
}

// Text returns the buffer contents.
func (b *MemoryBuffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return strings.Join(b.lines, "\n")
}

// Lines returns a copy of the buffer lines.
func (b *MemoryBuffer) Lines() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// Revision returns a counter incremented by every successful mutation.
func (b *MemoryBuffer) Revision() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revision
}

// SetReadOnly controls whether mutations are rejected.
func (b *MemoryBuffer) SetReadOnly(ro bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.readOnly = ro
}

// SetText replaces the whole buffer contents.
func (b *MemoryBuffer) SetText(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = strings.Split(text, "\n")
	b.snap = nil
	b.revision++
}

// Insert inserts text at the given position.
func (b *MemoryBuffer) Insert(at Position, text string) error {
	return b.ReplaceRange(at, at, text)
}

// DeleteRange removes the text between start and end.
func (b *MemoryBuffer) DeleteRange(start, end Position) error {
	return b.ReplaceRange(start, end, "")
}

// ReplaceRange replaces the text between start and end.
func (b *MemoryBuffer) ReplaceRange(start, end Position, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.readOnly {
		return ErrReadOnly
	}
	if end.Before(start) {
		return fmt.Errorf("%w: %s before %s", ErrInvalidRange, end, start)
	}
	if err := b.checkLocked(start); err != nil {
		return err
	}
	if err := b.checkLocked(end); err != nil {
		return err
	}

	first := b.lines[start.Line]
	last := b.lines[end.Line]
	prefix := first[:GraphemeToByteOffset(first, start.Column)]
	suffix := last[GraphemeToByteOffset(last, end.Column):]
	replacement := strings.Split(prefix+text+suffix, "\n")

	lines := make([]string, 0, len(b.lines)-(end.Line-start.Line)+len(replacement)-1)
	lines = append(lines, b.lines[:start.Line]...)
	lines = append(lines, replacement...)
	lines = append(lines, b.lines[end.Line+1:]...)
	b.lines = lines
	b.snap = nil
	b.revision++
	return nil
}

func (b *MemoryBuffer) checkLocked(p Position) error {
	if p.Line < 0 || p.Line >= len(b.lines) {
		return fmt.Errorf("%w: line %d", ErrOutOfRange, p.Line)
	}
	if p.Column < 0 || p.Column > GraphemeCount(b.lines[p.Line]) {
		return fmt.Errorf("%w: column %d on line %d", ErrOutOfRange, p.Column, p.Line)
	}
	return nil
}
