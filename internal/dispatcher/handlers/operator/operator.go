package operator

import (
	"sort"
	"strings"
	"sync"

	"github.com/dshills/vimcore/internal/dispatcher/execctx"
	"github.com/dshills/vimcore/internal/dispatcher/handler"
	"github.com/dshills/vimcore/internal/engine/motion"
	"github.com/dshills/vimcore/internal/engine/text"
	"github.com/dshills/vimcore/internal/input/vim"
)

// Names of operators that are not part of the operator grammar.
const (
	NameReplace     = "replace"
	NamePasteAfter  = "pasteAfter"
	NamePasteBefore = "pasteBefore"
	NameJoin        = "join"
)

// Operator acts on a resolved range.
type Operator interface {
	// Name returns the registry name.
	Name() string

	// Repeatable reports whether the command is recorded for dot repeat.
	Repeatable() bool

	// EntersInsert reports whether a successful run leaves insert mode active.
	EntersInsert() bool

	// Execute applies the operator to r.
	Execute(r motion.Range, ctx *execctx.ExecutionContext) handler.Result
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Operator{}
)

func init() {
	for _, op := range []Operator{
		Delete{},
		Yank{},
		Change{},
		Indent{Left: false},
		Indent{Left: true},
		Case{Mode: vim.OpToggleCase},
		Case{Mode: vim.OpLowerCase},
		Case{Mode: vim.OpUpperCase},
		Replace{},
		Paste{Before: false},
		Paste{Before: true},
		Join{},
	} {
		Register(op)
	}
}

// Register adds op to the library, replacing any operator with the same name.
func Register(op Operator) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[op.Name()] = op
}

// Lookup returns the operator registered under name.
func Lookup(name string) (Operator, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	op, ok := registry[name]
	return op, ok
}

// Names returns all registered operator names in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// span is a range resolved against a snapshot.
type span struct {
	start, end  text.Position
	first, last int
	linewise    bool
}

func resolve(r motion.Range, snap *text.Snapshot) span {
	start, end := r.Bounds(snap)
	first, last := r.Lines()
	first = min(max(first, 0), snap.LastLine())
	last = min(max(last, 0), snap.LastLine())
	return span{start: start, end: end, first: first, last: last, linewise: r.Linewise}
}

// register returns the span content as register text.
func (s span) register(snap *text.Snapshot) vim.Register {
	if s.linewise {
		lines := snap.Lines()[s.first : s.last+1]
		return vim.Register{Content: strings.Join(lines, "\n") + "\n", Kind: vim.Linewise}
	}
	return vim.Register{Content: snap.Slice(s.start, s.end), Kind: vim.Charwise}
}

// lineBounds covers whole lines first..last without any line break.
func (s span) lineBounds(snap *text.Snapshot) (text.Position, text.Position) {
	return snap.PositionAt(s.first, 0), snap.LineEnd(s.last)
}

// replace rewrites [start, end) and reports the edit.
func replace(ctx *execctx.ExecutionContext, start, end text.Position, newText string) (handler.Edit, error) {
	edit := handler.Edit{
		Start:   start,
		End:     end,
		OldText: ctx.Snapshot.Slice(start, end),
		NewText: newText,
	}
	if err := ctx.Buffer.ReplaceRange(start, end, newText); err != nil {
		return handler.Edit{}, err
	}
	return edit, nil
}

// firstNonBlank returns the cursor position on the first non-blank of line.
func firstNonBlank(snap *text.Snapshot, line int) text.Position {
	line = min(max(line, 0), snap.LastLine())
	return snap.CursorAt(line, motion.FirstNonBlank(snap.Clusters(line)))
}

// restingCursor is where non-destructive operators leave the cursor: the
// start of a charwise range, or the cursor column on the first line.
func restingCursor(snap *text.Snapshot, s span, cur text.Position) text.Position {
	if s.linewise {
		if cur.Line == s.first {
			return snap.CursorAt(cur.Line, cur.Column)
		}
		return firstNonBlank(snap, s.first)
	}
	return snap.CursorAt(s.start.Line, s.start.Column)
}
