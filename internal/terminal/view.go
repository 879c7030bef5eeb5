package terminal

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/vimcore/internal/engine/text"
	"github.com/dshills/vimcore/internal/input/mode"
)

var (
	selectionStyle = tcell.StyleDefault.Reverse(true)
	searchStyle    = tcell.StyleDefault.Background(tcell.ColorYellow).Foreground(tcell.ColorBlack)
	tildeStyle     = tcell.StyleDefault.Foreground(tcell.ColorBlue)
)

// tabWidth is how many cells a tab occupies.
const tabWidth = 8

// ViewState is what the view needs from the engine for one frame.
type ViewState struct {
	Snapshot  *text.Snapshot
	Cursor    text.Position
	Mode      mode.Mode
	Selection mode.Selection
	// Search is the pattern to highlight, empty for none.
	Search string
}

// View draws document text and keeps the cursor on screen by scrolling.
type View struct {
	top  int // first visible line
	left int // first visible cell column
}

// Scroll returns the first visible line and cell column.
func (v *View) Scroll() (top, left int) {
	return v.top, v.left
}

// Render draws the text area of rows by width cells and returns the screen
// position of the cursor.
func (v *View) Render(t *Terminal, st ViewState, rows, width int) (cx, cy int) {
	snap := st.Snapshot
	cursorCell := cellColumn(snap.Clusters(st.Cursor.Line), st.Cursor.Column)
	v.scrollTo(st.Cursor.Line, cursorCell, rows, width)

	sel, hasSel := selectionRange(st)
	for y := range rows {
		t.FillRow(y, tcell.StyleDefault)
		line := v.top + y
		if line >= snap.LineCount() {
			t.SetCell(0, y, "~", tildeStyle)
			continue
		}

		clusters := snap.Clusters(line)
		matches := searchMatches(clusters, st.Search)
		cell := 0
		for col, cluster := range clusters {
			w := clusterWidth(cluster, cell)
			style := tcell.StyleDefault
			if matches[col] {
				style = searchStyle
			}
			if hasSel && sel.contains(line, col) {
				style = selectionStyle
			}

			x := cell - v.left
			switch {
			case x < 0:
			case x+w > width:
			case cluster == "\t":
				for i := range w {
					t.SetCell(x+i, y, " ", style)
				}
			default:
				t.SetCell(x, y, cluster, style)
			}
			cell += w
		}
		// An empty selected line still shows one selected cell.
		if hasSel && len(clusters) == 0 && sel.contains(line, 0) && v.left == 0 {
			t.SetCell(0, y, " ", selectionStyle)
		}
	}
	return cursorCell - v.left, st.Cursor.Line - v.top
}

func (v *View) scrollTo(line, cell, rows, width int) {
	if rows > 0 {
		if line < v.top {
			v.top = line
		} else if line >= v.top+rows {
			v.top = line - rows + 1
		}
	}
	if width > 0 {
		if cell < v.left {
			v.left = cell
		} else if cell >= v.left+width {
			v.left = cell - width + 1
		}
	}
}

// cellColumn returns the screen cell where grapheme col starts.
func cellColumn(clusters []string, col int) int {
	cell := 0
	for i := 0; i < col && i < len(clusters); i++ {
		cell += clusterWidth(clusters[i], cell)
	}
	return cell
}

// clusterWidth is the cell width of cluster drawn at cell. Tabs run to the
// next tab stop.
func clusterWidth(cluster string, cell int) int {
	if cluster == "\t" {
		return tabWidth - cell%tabWidth
	}
	return max(uniseg.StringWidth(cluster), 1)
}

// searchMatches marks the clusters covered by literal occurrences of
// pattern.
func searchMatches(clusters []string, pattern string) map[int]bool {
	if pattern == "" {
		return nil
	}
	want := text.SplitGraphemes(pattern)
	matches := make(map[int]bool)
	for i := 0; i+len(want) <= len(clusters); i++ {
		if equalClusters(clusters[i:i+len(want)], want) {
			for j := range want {
				matches[i+j] = true
			}
		}
	}
	return matches
}

func equalClusters(a, b []string) bool {
	return strings.Join(a, "") == strings.Join(b, "")
}

type selRange struct {
	start, end text.Position
	linewise   bool
}

func selectionRange(st ViewState) (selRange, bool) {
	if !st.Mode.IsVisual() {
		return selRange{}, false
	}
	anchor, head, ok := st.Selection.Bounds()
	if !ok {
		return selRange{}, false
	}
	start, end := text.Order(anchor, head)
	return selRange{start: start, end: end, linewise: st.Mode == mode.VisualLine}, true
}

func (r selRange) contains(line, col int) bool {
	if line < r.start.Line || line > r.end.Line {
		return false
	}
	if r.linewise {
		return true
	}
	if line == r.start.Line && col < r.start.Column {
		return false
	}
	if line == r.end.Line && col > r.end.Column {
		return false
	}
	return true
}
