package motion

import "github.com/dshills/vimcore/internal/engine/text"

// Find describes a character search on the current line (f, F, t, T).
type Find struct {
	// Char is the grapheme cluster searched for.
	Char string

	// Forward searches right of the cursor.
	Forward bool

	// Till stops one cluster short of the match.
	Till bool
}

// Reversed returns the same search in the other direction (for ",").
func (f Find) Reversed() Find {
	f.Forward = !f.Forward
	return f
}

// Key returns the key that starts this search.
func (f Find) Key() rune {
	switch {
	case f.Forward && !f.Till:
		return 'f'
	case !f.Forward && !f.Till:
		return 'F'
	case f.Forward:
		return 't'
	default:
		return 'T'
	}
}

// FindChar searches the current line for the count-th occurrence of f.Char.
// Forward searches are inclusive, backward searches exclusive. When repeat is
// set a till search skips a match adjacent to the cursor so ";" makes
// progress.
func FindChar(snap *text.Snapshot, cur text.Position, count int, f Find, repeat bool) (Range, bool) {
	clusters := snap.Clusters(cur.Line)
	if f.Char == "" || len(clusters) == 0 {
		return Range{Start: cur, End: cur}, false
	}

	step := 1
	if !f.Forward {
		step = -1
	}
	col := cur.Column + step
	if repeat && f.Till {
		col += step
	}

	found := -1
	for n := 0; col >= 0 && col < len(clusters); col += step {
		if clusters[col] == f.Char {
			n++
			if n == count {
				found = col
				break
			}
		}
	}
	if found < 0 {
		return Range{Start: cur, End: cur}, false
	}
	if f.Till {
		found -= step
	}
	end := snap.PositionAt(cur.Line, found)
	return Range{Start: cur, End: end, Inclusive: f.Forward}, true
}
