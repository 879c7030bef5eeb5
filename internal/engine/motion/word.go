package motion

import "github.com/dshills/vimcore/internal/engine/text"

// WordForward moves to the start of the count-th next word (w, W).
//
// With pending set the target may be the end of the document, and a target
// at or before the first non-blank of a later line is pulled back to the end
// of the last non-blank line moved over, so "dw" on the last word of a line
// keeps the line break.
func WordForward(snap *text.Snapshot, cur text.Position, count int, big, pending bool) (Range, bool) {
	w := newWalker(snap, cur, big)
	for i := 0; i < count; i++ {
		if cls := w.class(); cls != ClassWhitespace {
			for w.class() == cls && w.next() {
			}
		}
		for w.class() == ClassWhitespace && w.next() {
		}
		if w.atEnd() {
			break
		}
	}

	end := w.pos()
	if !pending {
		end = snap.CursorAt(end.Line, end.Column)
		return Range{Start: cur, End: end}, end.Compare(cur) != 0
	}

	if end.Line > cur.Line && end.Column <= FirstNonBlank(snap.Clusters(end.Line)) {
		line := end.Line - 1
		for line > cur.Line && IsBlankLine(snap.Clusters(line)) {
			line--
		}
		end = snap.LineEnd(line)
		if end.Compare(cur) < 0 {
			end = cur
		}
	}
	return Range{Start: cur, End: end}, end.Compare(cur) != 0
}

// WordBackward moves to the start of the count-th previous word (b, B).
func WordBackward(snap *text.Snapshot, cur text.Position, count int, big bool) (Range, bool) {
	w := newWalker(snap, cur, big)
	for i := 0; i < count; i++ {
		if !w.prev() {
			break
		}
		for w.class() == ClassWhitespace && w.prev() {
		}
		cls := w.class()
		for w.col > 0 && w.classAt(w.col-1) == cls {
			w.col--
		}
	}
	end := w.pos()
	if w.class() == ClassWhitespace {
		end = snap.CursorAt(end.Line, end.Column)
	}
	return Range{Start: cur, End: end}, end.Compare(cur) != 0
}

// WordEnd moves to the end of the count-th word (e, E). The range is inclusive.
func WordEnd(snap *text.Snapshot, cur text.Position, count int, big bool) (Range, bool) {
	w := newWalker(snap, cur, big)
	for i := 0; i < count; i++ {
		if !w.next() {
			break
		}
		for w.class() == ClassWhitespace && w.next() {
		}
		cls := w.class()
		if cls == ClassWhitespace {
			break
		}
		for w.col+1 < snap.LineLen(w.line) && w.classAt(w.col+1) == cls {
			w.col++
		}
	}
	end := w.pos()
	end = snap.CursorAt(end.Line, end.Column)
	return Range{Start: cur, End: end, Inclusive: true}, end.Compare(cur) != 0
}

// WordEndBackward moves to the end of the count-th previous word (ge, gE).
// The range is inclusive.
func WordEndBackward(snap *text.Snapshot, cur text.Position, count int, big bool) (Range, bool) {
	w := newWalker(snap, cur, big)
	for i := 0; i < count; i++ {
		if cls := w.class(); cls != ClassWhitespace {
			for w.class() == cls && w.prev() {
			}
			if w.line == 0 && w.col == 0 && w.class() == cls {
				break
			}
		}
		for w.class() == ClassWhitespace && w.prev() {
		}
	}
	end := snap.CursorAt(w.line, w.col)
	return Range{Start: cur, End: end, Inclusive: true}, end.Compare(cur) != 0
}
