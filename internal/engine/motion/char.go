package motion

import "github.com/dshills/vimcore/internal/engine/text"

// Left moves count clusters left, stopping at column 0.
func Left(snap *text.Snapshot, cur text.Position, count int) (Range, bool) {
	col := max(cur.Column-count, 0)
	end := snap.PositionAt(cur.Line, col)
	return Range{Start: cur, End: end}, col != cur.Column
}

// Right moves count clusters right. The cursor stops on the last cluster;
// with pending set it may reach the line end so an operator covers the last
// cluster.
func Right(snap *text.Snapshot, cur text.Position, count int, pending bool) (Range, bool) {
	limit := snap.LineLen(cur.Line)
	if !pending {
		limit = max(limit-1, 0)
	}
	col := min(cur.Column+count, limit)
	if col < cur.Column {
		col = cur.Column
	}
	end := snap.PositionAt(cur.Line, col)
	return Range{Start: cur, End: end}, col != cur.Column
}

// Down moves count lines down. The column is kept when the destination line
// is long enough. A count above one makes the range linewise.
func Down(snap *text.Snapshot, cur text.Position, count int) (Range, bool) {
	return vertical(snap, cur, count, count)
}

// Up moves count lines up. A count above one makes the range linewise.
func Up(snap *text.Snapshot, cur text.Position, count int) (Range, bool) {
	return vertical(snap, cur, -count, count)
}

func vertical(snap *text.Snapshot, cur text.Position, delta, count int) (Range, bool) {
	line := clampLine(snap, cur.Line+delta)
	end := snap.CursorAt(line, cur.Column)
	return Range{Start: cur, End: end, Linewise: count > 1}, line != cur.Line
}
