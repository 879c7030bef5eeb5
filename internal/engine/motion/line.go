package motion

import "github.com/dshills/vimcore/internal/engine/text"

// LineStart moves to column 0 (0).
func LineStart(snap *text.Snapshot, cur text.Position) (Range, bool) {
	return Range{Start: cur, End: snap.PositionAt(cur.Line, 0)}, true
}

// FirstNonBlankCol moves to the first non-blank cluster of the line (^).
func FirstNonBlankCol(snap *text.Snapshot, cur text.Position) (Range, bool) {
	col := FirstNonBlank(snap.Clusters(cur.Line))
	return Range{Start: cur, End: snap.PositionAt(cur.Line, col)}, true
}

// FirstNonBlankDown moves count-1 lines down to the first non-blank (_).
// The range is linewise.
func FirstNonBlankDown(snap *text.Snapshot, cur text.Position, count int) (Range, bool) {
	line := clampLine(snap, cur.Line+count-1)
	col := FirstNonBlank(snap.Clusters(line))
	return Range{Start: cur, End: snap.PositionAt(line, col), Linewise: true}, true
}

// LineEnd moves to the last cluster of the line count-1 lines below ($).
// The range is inclusive.
func LineEnd(snap *text.Snapshot, cur text.Position, count int) (Range, bool) {
	line := clampLine(snap, cur.Line+count-1)
	end := snap.CursorAt(line, snap.LineLen(line)-1)
	if snap.LineLen(line) == 0 {
		return Range{Start: cur, End: end}, true
	}
	return Range{Start: cur, End: end, Inclusive: true}, true
}

// GotoLine moves to the first non-blank of a 0-indexed line, clamped to the
// document (gg, G). The range is linewise.
func GotoLine(snap *text.Snapshot, cur text.Position, line int) (Range, bool) {
	line = clampLine(snap, line)
	col := FirstNonBlank(snap.Clusters(line))
	return Range{Start: cur, End: snap.PositionAt(line, col), Linewise: true}, true
}

// ParagraphForward moves past count paragraphs to the next blank line (}).
// With no blank line below it stops at the end of the document.
func ParagraphForward(snap *text.Snapshot, cur text.Position, count int) (Range, bool) {
	line := cur.Line
	last := snap.LastLine()
	for i := 0; i < count && line < last; i++ {
		for line < last && IsBlankLine(snap.Clusters(line)) {
			line++
		}
		for line < last && !IsBlankLine(snap.Clusters(line)) {
			line++
		}
	}
	end := snap.PositionAt(line, 0)
	if line == last && !IsBlankLine(snap.Clusters(line)) {
		end = snap.LineEnd(line)
	}
	return Range{Start: cur, End: end}, end.Compare(cur) != 0
}

// ParagraphBackward moves back past count paragraphs to the previous blank
// line ({).
func ParagraphBackward(snap *text.Snapshot, cur text.Position, count int) (Range, bool) {
	line := cur.Line
	for i := 0; i < count && line > 0; i++ {
		for line > 0 && IsBlankLine(snap.Clusters(line)) {
			line--
		}
		for line > 0 && !IsBlankLine(snap.Clusters(line)) {
			line--
		}
	}
	end := snap.PositionAt(line, 0)
	return Range{Start: cur, End: end}, end.Compare(cur) != 0
}
