package text

import "fmt"

// Position is a location in a Snapshot.
// Column counts grapheme clusters; Offset counts grapheme clusters across the
// whole document with each line break counted as one.
type Position struct {
	Line   int
	Column int
	Offset int
}

// String returns a human-readable representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
// Only Line and Column are compared.
func (p Position) Compare(other Position) int {
	switch {
	case p.Line < other.Line:
		return -1
	case p.Line > other.Line:
		return 1
	case p.Column < other.Column:
		return -1
	case p.Column > other.Column:
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p Position) Before(other Position) bool {
	return p.Compare(other) < 0
}

// After returns true if p comes after other.
func (p Position) After(other Position) bool {
	return p.Compare(other) > 0
}

// Order returns a and b sorted so the first is not after the second.
func Order(a, b Position) (Position, Position) {
	if b.Before(a) {
		return b, a
	}
	return a, b
}
