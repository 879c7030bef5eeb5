package motion

import "github.com/dshills/vimcore/internal/engine/text"

var bracketPairs = map[string]string{
	"(": ")",
	"[": "]",
	"{": "}",
	"<": ">",
}

var closingBrackets = map[string]string{
	")": "(",
	"]": "[",
	"}": "{",
	">": "<",
}

// MatchBracket jumps to the bracket matching the first bracket at or after
// the cursor on the current line (%). The range is inclusive.
func MatchBracket(snap *text.Snapshot, cur text.Position) (Range, bool) {
	clusters := snap.Clusters(cur.Line)
	for col := cur.Column; col < len(clusters); col++ {
		c := clusters[col]
		if c == "<" || c == ">" {
			continue
		}
		if closeB, ok := bracketPairs[c]; ok {
			if p, found := scanForward(snap, snap.PositionAt(cur.Line, col), c, closeB); found {
				return Range{Start: cur, End: p, Inclusive: true}, true
			}
			return Range{Start: cur, End: cur}, false
		}
		if openB, ok := closingBrackets[c]; ok {
			if p, found := scanBackward(snap, snap.PositionAt(cur.Line, col), openB, c); found {
				return Range{Start: cur, End: p, Inclusive: true}, true
			}
			return Range{Start: cur, End: cur}, false
		}
	}
	return Range{Start: cur, End: cur}, false
}

// scanForward finds the close bracket balancing an open bracket at from.
func scanForward(snap *text.Snapshot, from text.Position, open, close string) (text.Position, bool) {
	w := newWalker(snap, from, false)
	depth := 0
	for {
		switch snap.Cluster(w.line, w.col) {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return w.pos(), true
			}
		}
		if !w.next() {
			return from, false
		}
	}
}

// scanBackward finds the open bracket balancing a close bracket at from.
func scanBackward(snap *text.Snapshot, from text.Position, open, close string) (text.Position, bool) {
	w := newWalker(snap, from, false)
	depth := 0
	for {
		switch snap.Cluster(w.line, w.col) {
		case close:
			depth++
		case open:
			depth--
			if depth == 0 {
				return w.pos(), true
			}
		}
		if !w.prev() {
			return from, false
		}
	}
}
