// Package history provides an in-memory undo/redo store for a text buffer.
//
// History wraps a Restorable buffer and records a snapshot of the document
// before each mutation. Mutations made between BeginGroup and EndGroup are
// undone as one unit, which is how a modal editor turns "3dw" or a whole
// insert session into a single undo step.
//
// Basic usage:
//
//	buf := text.NewMemoryBuffer("hello")
//	h := history.New(buf, 100)
//	h.Insert(pos, "x")        // recorded
//	cursor, ok := h.Undo()    // restores "hello"
package history
