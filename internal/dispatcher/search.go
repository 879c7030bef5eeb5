package dispatcher

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/samber/mo"

	"github.com/dshills/vimcore/internal/dispatcher/handler"
	"github.com/dshills/vimcore/internal/engine/motion"
	"github.com/dshills/vimcore/internal/engine/text"
)

// matchColumns returns the grapheme columns where pattern starts on a line.
// Matches may overlap.
func matchColumns(line, pattern string) []int {
	if pattern == "" {
		return nil
	}
	var cols []int
	for from := 0; from < len(line); {
		i := strings.Index(line[from:], pattern)
		if i < 0 {
			break
		}
		at := from + i
		cols = append(cols, text.GraphemeCount(line[:at]))
		_, size := utf8.DecodeRuneInString(line[at:])
		from = at + size
	}
	return cols
}

// findMatch searches for the count-th occurrence of pattern from cur.
// Matches are literal. The search wraps around the document when wrap is
// set.
func findMatch(snap *text.Snapshot, cur text.Position, pattern string, forward bool, count int, wrap bool) (text.Position, bool) {
	pos := cur
	for range max(count, 1) {
		next, ok := findOne(snap, pos, pattern, forward, wrap)
		if !ok {
			return cur, false
		}
		pos = next
	}
	return pos, true
}

func findOne(snap *text.Snapshot, cur text.Position, pattern string, forward bool, wrap bool) (text.Position, bool) {
	n := snap.LineCount()
	for i := 0; i <= n; i++ {
		var line int
		if forward {
			line = cur.Line + i
		} else {
			line = cur.Line - i
		}
		if line < 0 || line >= n {
			if !wrap {
				return cur, false
			}
			line = ((line % n) + n) % n
		}

		cols := matchColumns(snap.Line(line), pattern)
		if forward {
			for _, c := range cols {
				if i > 0 || c > cur.Column {
					return snap.PositionAt(line, c), true
				}
			}
		} else {
			for j := len(cols) - 1; j >= 0; j-- {
				if i > 0 || cols[j] < cur.Column {
					return snap.PositionAt(line, cols[j]), true
				}
			}
		}
	}
	return cur, false
}

// searchMotion resolves n and N against the last search.
func (d *Dispatcher) searchMotion(snap *text.Snapshot, cur text.Position, count int, reverse bool) (motion.Range, bool) {
	s, ok := d.lastSearch.Get()
	if !ok {
		d.message = ErrNoPreviousPattern.Error()
		return motion.Range{Start: cur, End: cur}, false
	}
	forward := s.Forward != reverse
	pos, ok := findMatch(snap, cur, s.Pattern, forward, count, d.options.WrapScan)
	if !ok {
		d.message = fmt.Sprintf("%v: %s", ErrPatternNotFound, s.Pattern)
		return motion.Range{Start: cur, End: cur}, false
	}
	d.highlight = true
	return motion.Range{Start: cur, End: pos}, true
}

// runSearch executes a / or ? command line. An empty pattern repeats the
// last search in the new direction.
func (d *Dispatcher) runSearch(pattern string, forward bool) handler.Result {
	if pattern == "" {
		last, ok := d.lastSearch.Get()
		if !ok {
			return handler.Error(ErrNoPreviousPattern)
		}
		pattern = last.Pattern
	}

	d.lastSearch = mo.Some(Search{Pattern: pattern, Forward: forward})
	d.registers.SetLastSearch(pattern)
	d.highlight = true

	snap := d.buf.Snapshot()
	pos, ok := findMatch(snap, d.cursor, pattern, forward, 1, d.options.WrapScan)
	if !ok {
		return handler.Error(fmt.Errorf("%w: %s", ErrPatternNotFound, pattern))
	}
	d.cursor = snap.CursorAt(pos.Line, pos.Column)
	return handler.Success().WithCursor(d.cursor)
}
