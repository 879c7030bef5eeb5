package motion

import "github.com/dshills/vimcore/internal/engine/text"

// TextObject selects the object named by key around the cursor.
// Supported keys: w W (words), " ' ` (quotes), ( ) b [ ] { } B < > (blocks)
// and p (paragraph). Inner selects the contents only; otherwise the
// surrounding whitespace, quotes or brackets are included.
func TextObject(snap *text.Snapshot, cur text.Position, count int, key rune, inner bool) (Range, bool) {
	if count < 1 {
		count = 1
	}
	switch key {
	case 'w':
		return wordObject(snap, cur, count, inner, false)
	case 'W':
		return wordObject(snap, cur, count, inner, true)
	case '"', '\'', '`':
		return quoteObject(snap, cur, string(key), inner)
	case '(', ')', 'b':
		return blockObject(snap, cur, count, "(", ")", inner)
	case '[', ']':
		return blockObject(snap, cur, count, "[", "]", inner)
	case '{', '}', 'B':
		return blockObject(snap, cur, count, "{", "}", inner)
	case '<', '>':
		return blockObject(snap, cur, count, "<", ">", inner)
	case 'p':
		return paragraphObject(snap, cur, count, inner)
	}
	return Range{Start: cur, End: cur}, false
}

// IsTextObjectKey reports whether key names a text object.
func IsTextObjectKey(key rune) bool {
	switch key {
	case 'w', 'W', '"', '\'', '`', '(', ')', 'b', '[', ']', '{', '}', 'B', '<', '>', 'p':
		return true
	}
	return false
}

func wordObject(snap *text.Snapshot, cur text.Position, count int, inner, big bool) (Range, bool) {
	clusters := snap.Clusters(cur.Line)
	if len(clusters) == 0 {
		return Range{Start: cur, End: cur}, false
	}
	classOf := func(col int) Class {
		if big {
			return ClassifyBig(clusters[col])
		}
		return Classify(clusters[col])
	}
	// run returns the last column of the run of equal class starting at col.
	run := func(col int) int {
		cls := classOf(col)
		for col+1 < len(clusters) && classOf(col+1) == cls {
			col++
		}
		return col
	}

	col := min(cur.Column, len(clusters)-1)
	start := col
	for start > 0 && classOf(start-1) == classOf(col) {
		start--
	}
	startedOnBlank := classOf(col) == ClassWhitespace
	end := col

	for i := 0; i < count; i++ {
		if i > 0 {
			if end+1 >= len(clusters) {
				break
			}
			end++
		}
		end = run(end)
		if !inner {
			// a word takes its trailing blanks; blanks take the following word
			if end+1 < len(clusters) {
				next := end + 1
				if startedOnBlank != (classOf(next) == ClassWhitespace) {
					end = run(next)
				}
			}
		}
	}

	if !inner && !startedOnBlank {
		trailing := classOf(end) == ClassWhitespace
		if !trailing {
			for start > 0 && classOf(start-1) == ClassWhitespace {
				start--
			}
		}
	}
	return Range{
		Start:     snap.PositionAt(cur.Line, start),
		End:       snap.PositionAt(cur.Line, end),
		Inclusive: true,
	}, true
}

func quoteObject(snap *text.Snapshot, cur text.Position, quote string, inner bool) (Range, bool) {
	clusters := snap.Clusters(cur.Line)
	var quotes []int
	for i, c := range clusters {
		if c == quote && (i == 0 || clusters[i-1] != `\`) {
			quotes = append(quotes, i)
		}
	}

	open, closeQ := -1, -1
	for i := 0; i+1 < len(quotes); i += 2 {
		if cur.Column <= quotes[i+1] {
			open, closeQ = quotes[i], quotes[i+1]
			break
		}
	}
	if open < 0 {
		return Range{Start: cur, End: cur}, false
	}

	if inner {
		return Range{
			Start: snap.PositionAt(cur.Line, open+1),
			End:   snap.PositionAt(cur.Line, closeQ),
		}, true
	}

	start, end := open, closeQ
	if end+1 < len(clusters) && Classify(clusters[end+1]) == ClassWhitespace {
		for end+1 < len(clusters) && Classify(clusters[end+1]) == ClassWhitespace {
			end++
		}
	} else {
		for start > 0 && Classify(clusters[start-1]) == ClassWhitespace {
			start--
		}
	}
	return Range{
		Start:     snap.PositionAt(cur.Line, start),
		End:       snap.PositionAt(cur.Line, end),
		Inclusive: true,
	}, true
}

func blockObject(snap *text.Snapshot, cur text.Position, count int, open, close string, inner bool) (Range, bool) {
	from := cur
	var openPos, closePos text.Position
	for i := 0; i < count; i++ {
		var ok bool
		openPos, ok = enclosingOpen(snap, from, open, close, i == 0)
		if !ok {
			return Range{Start: cur, End: cur}, false
		}
		closePos, ok = scanForward(snap, openPos, open, close)
		if !ok {
			return Range{Start: cur, End: cur}, false
		}
		// step outside this pair for the next level
		w := newWalker(snap, openPos, false)
		if !w.prev() && i+1 < count {
			return Range{Start: cur, End: cur}, false
		}
		from = w.pos()
	}

	if !inner {
		return Range{Start: openPos, End: closePos, Inclusive: true}, true
	}

	start := snap.PositionAt(openPos.Line, openPos.Column+1)
	if start.Column == snap.LineLen(start.Line) && closePos.Line > start.Line {
		start = snap.PositionAt(start.Line+1, 0)
	}
	end := closePos
	if end.Line > start.Line && IsBlankLine(snap.Clusters(end.Line)[:end.Column]) {
		end = snap.LineEnd(end.Line - 1)
	}
	if end.Before(start) {
		end = start
	}
	return Range{Start: start, End: end}, true
}

// enclosingOpen finds the unbalanced open bracket at or before from. When
// onBracket is set a bracket under the cursor counts as enclosing.
func enclosingOpen(snap *text.Snapshot, from text.Position, open, close string, onBracket bool) (text.Position, bool) {
	under := snap.Cluster(from.Line, from.Column)
	if onBracket && under == open {
		return from, true
	}
	if onBracket && under == close {
		return scanBackward(snap, from, open, close)
	}
	w := newWalker(snap, from, false)
	depth := 0
	for {
		switch snap.Cluster(w.line, w.col) {
		case close:
			depth++
		case open:
			if depth == 0 {
				return w.pos(), true
			}
			depth--
		}
		if !w.prev() {
			return from, false
		}
	}
}

func paragraphObject(snap *text.Snapshot, cur text.Position, count int, inner bool) (Range, bool) {
	blank := func(l int) bool { return IsBlankLine(snap.Clusters(l)) }
	last := snap.LastLine()

	start := cur.Line
	for start > 0 && blank(start-1) == blank(cur.Line) {
		start--
	}
	end := cur.Line
	for i := 0; i < count; i++ {
		if i > 0 {
			if end >= last {
				break
			}
			end++
		}
		kind := blank(end)
		for end < last && blank(end+1) == kind {
			end++
		}
		if !inner && end < last {
			end++
			for end < last && blank(end+1) != kind {
				end++
			}
		}
	}

	if !inner && !blank(cur.Line) && !blank(end) {
		for start > 0 && blank(start-1) {
			start--
		}
	}
	return Range{
		Start:    snap.PositionAt(start, 0),
		End:      snap.PositionAt(end, 0),
		Linewise: true,
	}, true
}
