package motion

import (
	"fmt"

	"github.com/dshills/vimcore/internal/engine/text"
)

// Range is the result of a motion or text object.
type Range struct {
	// Start is where the motion began (the cursor for motions).
	Start text.Position

	// End is the motion target.
	End text.Position

	// Inclusive means the cluster at the far end is part of the range.
	Inclusive bool

	// Linewise means operators act on whole lines.
	Linewise bool
}

// String returns a compact description of the range.
func (r Range) String() string {
	flags := ""
	if r.Inclusive {
		flags += " inclusive"
	}
	if r.Linewise {
		flags += " linewise"
	}
	return fmt.Sprintf("[%s %s%s]", r.Start, r.End, flags)
}

// Ordered returns the range with Start not after End.
func (r Range) Ordered() Range {
	r.Start, r.End = text.Order(r.Start, r.End)
	return r
}

// Empty reports whether the range covers nothing. Linewise and inclusive
// ranges always cover at least one line or cluster.
func (r Range) Empty() bool {
	return !r.Linewise && !r.Inclusive && r.Start.Compare(r.End) == 0
}

// Bounds converts the range to end-exclusive document positions against snap.
// Linewise ranges are widened to whole lines including one line break; when
// the range reaches the last line that break is the one before the range.
// An inclusive end on an empty line or past the last cluster covers the
// line break.
func (r Range) Bounds(snap *text.Snapshot) (start, end text.Position) {
	o := r.Ordered()
	if o.Linewise {
		first := clampLine(snap, o.Start.Line)
		last := clampLine(snap, o.End.Line)
		if last < snap.LastLine() {
			return snap.PositionAt(first, 0), snap.PositionAt(last+1, 0)
		}
		if first > 0 {
			return snap.LineEnd(first - 1), snap.LineEnd(last)
		}
		return snap.PositionAt(0, 0), snap.LineEnd(last)
	}
	start = snap.PositionAt(o.Start.Line, o.Start.Column)
	end = snap.PositionAt(o.End.Line, o.End.Column)
	if o.Inclusive {
		switch {
		case snap.LineLen(end.Line) > end.Column:
			end = snap.PositionAt(end.Line, end.Column+1)
		case end.Line < snap.LastLine():
			// past the last cluster the line break is the included character
			end = snap.PositionAt(end.Line+1, 0)
		}
	}
	return start, end
}

// Lines returns the first and last line covered by the range.
func (r Range) Lines() (int, int) {
	o := r.Ordered()
	return o.Start.Line, o.End.Line
}

func clampLine(snap *text.Snapshot, line int) int {
	return min(max(line, 0), snap.LastLine())
}
