package text

import "strings"

// Snapshot is an immutable view of a document.
// A Snapshot always has at least one (possibly empty) line.
type Snapshot struct {
	lines    []string
	clusters [][]string
	starts   []int
}

// NewSnapshot creates a snapshot from lines. The slice is copied.
func NewSnapshot(lines []string) *Snapshot {
	if len(lines) == 0 {
		lines = []string{""}
	}
	s := &Snapshot{
		lines:    make([]string, len(lines)),
		clusters: make([][]string, len(lines)),
		starts:   make([]int, len(lines)),
	}
	copy(s.lines, lines)
	off := 0
	for i, l := range s.lines {
		s.clusters[i] = SplitGraphemes(l)
		s.starts[i] = off
		off += len(s.clusters[i]) + 1
	}
	return s
}

// SnapshotFromText creates a snapshot by splitting text on line breaks.
func SnapshotFromText(text string) *Snapshot {
	return NewSnapshot(strings.Split(text, "\n"))
}

// LineCount returns the number of lines.
func (s *Snapshot) LineCount() int {
	return len(s.lines)
}

// LastLine returns the index of the last line.
func (s *Snapshot) LastLine() int {
	return len(s.lines) - 1
}

// Line returns line i, or "" when i is out of range.
func (s *Snapshot) Line(i int) string {
	if i < 0 || i >= len(s.lines) {
		return ""
	}
	return s.lines[i]
}

// Lines returns a copy of all lines.
func (s *Snapshot) Lines() []string {
	out := make([]string, len(s.lines))
	copy(out, s.lines)
	return out
}

// LineLen returns the number of grapheme clusters on line i.
func (s *Snapshot) LineLen(i int) int {
	if i < 0 || i >= len(s.lines) {
		return 0
	}
	return len(s.clusters[i])
}

// Clusters returns the grapheme clusters of line i.
// The returned slice is shared and must not be modified.
func (s *Snapshot) Clusters(i int) []string {
	if i < 0 || i >= len(s.lines) {
		return nil
	}
	return s.clusters[i]
}

// Cluster returns the grapheme cluster at line, col, or "" when there is none.
func (s *Snapshot) Cluster(line, col int) string {
	cl := s.Clusters(line)
	if col < 0 || col >= len(cl) {
		return ""
	}
	return cl[col]
}

// Text returns the document joined with line breaks.
func (s *Snapshot) Text() string {
	return strings.Join(s.lines, "\n")
}

// Len returns the flattened length of the document.
func (s *Snapshot) Len() int {
	last := s.LastLine()
	return s.starts[last] + len(s.clusters[last])
}

// PositionAt returns the position at line, col.
// The line is clamped to the document and the column to [0, LineLen].
func (s *Snapshot) PositionAt(line, col int) Position {
	line = clamp(line, 0, s.LastLine())
	col = clamp(col, 0, len(s.clusters[line]))
	return Position{Line: line, Column: col, Offset: s.starts[line] + col}
}

// CursorAt is like PositionAt but keeps the column on an existing cluster,
// which is where a normal-mode cursor may rest.
func (s *Snapshot) CursorAt(line, col int) Position {
	line = clamp(line, 0, s.LastLine())
	return s.PositionAt(line, clamp(col, 0, max(len(s.clusters[line])-1, 0)))
}

// PositionFromOffset returns the position for a flattened offset.
// Offsets are clamped to [0, Len].
func (s *Snapshot) PositionFromOffset(offset int) Position {
	offset = clamp(offset, 0, s.Len())
	lo, hi := 0, s.LastLine()
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if s.starts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return s.PositionAt(lo, offset-s.starts[lo])
}

// Start returns the first position in the document.
func (s *Snapshot) Start() Position {
	return Position{}
}

// End returns the position just past the last cluster of the last line.
func (s *Snapshot) End() Position {
	last := s.LastLine()
	return s.PositionAt(last, len(s.clusters[last]))
}

// LineEnd returns the position just past the last cluster of line i.
func (s *Snapshot) LineEnd(i int) Position {
	return s.PositionAt(i, s.LineLen(i))
}

// Valid reports whether p lies inside the document and its fields agree.
func (s *Snapshot) Valid(p Position) bool {
	if p.Line < 0 || p.Line > s.LastLine() {
		return false
	}
	if p.Column < 0 || p.Column > len(s.clusters[p.Line]) {
		return false
	}
	return p.Offset == s.starts[p.Line]+p.Column
}

// Slice returns the text between two positions, end exclusive.
// The positions may be given in either order.
func (s *Snapshot) Slice(a, b Position) string {
	start, end := Order(a, b)
	start = s.PositionAt(start.Line, start.Column)
	end = s.PositionAt(end.Line, end.Column)
	if start.Line == end.Line {
		return strings.Join(s.clusters[start.Line][start.Column:end.Column], "")
	}
	var sb strings.Builder
	sb.WriteString(strings.Join(s.clusters[start.Line][start.Column:], ""))
	for l := start.Line + 1; l < end.Line; l++ {
		sb.WriteByte('\n')
		sb.WriteString(s.lines[l])
	}
	sb.WriteByte('\n')
	sb.WriteString(strings.Join(s.clusters[end.Line][:end.Column], ""))
	return sb.String()
}

// ByteColumn converts a grapheme column on line to a byte index into Line(line).
func (s *Snapshot) ByteColumn(line, col int) int {
	return GraphemeToByteOffset(s.Line(line), col)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
