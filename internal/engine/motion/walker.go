package motion

import "github.com/dshills/vimcore/internal/engine/text"

// walker steps through a snapshot one cluster at a time. Column LineLen(line)
// is the line break (or the end of the document on the last line) and is
// classified as whitespace.
type walker struct {
	snap *text.Snapshot
	line int
	col  int
	big  bool
}

func newWalker(snap *text.Snapshot, p text.Position, big bool) *walker {
	p = snap.PositionAt(p.Line, p.Column)
	return &walker{snap: snap, line: p.Line, col: p.Column, big: big}
}

func (w *walker) class() Class {
	return w.classAt(w.col)
}

func (w *walker) classAt(col int) Class {
	c := w.snap.Cluster(w.line, col)
	if w.big {
		return ClassifyBig(c)
	}
	return Classify(c)
}

func (w *walker) next() bool {
	if w.col < w.snap.LineLen(w.line) {
		w.col++
		return true
	}
	if w.line < w.snap.LastLine() {
		w.line++
		w.col = 0
		return true
	}
	return false
}

func (w *walker) prev() bool {
	if w.col > 0 {
		w.col--
		return true
	}
	if w.line > 0 {
		w.line--
		w.col = w.snap.LineLen(w.line)
		return true
	}
	return false
}

func (w *walker) atEnd() bool {
	return w.line == w.snap.LastLine() && w.col >= w.snap.LineLen(w.line)
}

func (w *walker) pos() text.Position {
	return w.snap.PositionAt(w.line, w.col)
}
