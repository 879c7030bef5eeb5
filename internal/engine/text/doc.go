// Package text provides the line-oriented text model the modal engine reads
// and edits.
//
// A Snapshot is an immutable view of a document as an ordered list of lines.
// Positions are expressed in three mutually consistent coordinates:
//
//   - Line: 0-indexed line number
//   - Column: 0-indexed grapheme cluster within the line
//   - Offset: flattened document offset in grapheme clusters, where every
//     line break counts as one unit
//
// Positions are always produced by a Snapshot (PositionAt, PositionFromOffset)
// and are never adjusted in place. After an edit, take a new Snapshot and
// recompute.
//
// Buffer is the mutation surface a host editor implements. MemoryBuffer is a
// simple slice-of-lines implementation used by tests and the bundled host.
package text
