package motion

import (
	"sort"

	"github.com/dshills/vimcore/internal/engine/text"
)

// Args carries what a motion needs beyond the cursor and count.
type Args struct {
	// Pending is set when an operator waits for the motion.
	Pending bool

	// Explicit is set when the count was typed rather than defaulted.
	Explicit bool

	// Find is the search for find motions.
	Find Find

	// Repeat is set when a find motion is replayed with ";" or ",".
	Repeat bool
}

// Func computes a motion. count is at least 1.
type Func func(snap *text.Snapshot, cur text.Position, count int, args Args) (Range, bool)

// Motion names.
const (
	NameLeft              = "left"
	NameRight             = "right"
	NameDown              = "down"
	NameUp                = "up"
	NameWordForward       = "wordForward"
	NameWordBackward      = "wordBackward"
	NameWordEnd           = "wordEnd"
	NameWordEndBackward   = "wordEndBackward"
	NameBigWordForward    = "WORDForward"
	NameBigWordBackward   = "WORDBackward"
	NameBigWordEnd        = "WORDEnd"
	NameBigWordEndBack    = "WORDEndBackward"
	NameLineStart         = "lineStart"
	NameFirstNonBlank     = "firstNonBlank"
	NameFirstNonBlankDown = "firstNonBlankDown"
	NameLineEnd           = "lineEnd"
	NameFileStart         = "fileStart"
	NameFileEnd           = "fileEnd"
	NameParagraphForward  = "paragraphForward"
	NameParagraphBackward = "paragraphBackward"
	NameMatchBracket      = "matchBracket"
	NameFind              = "find"
)

var registry = map[string]Func{
	NameLeft: func(s *text.Snapshot, c text.Position, n int, _ Args) (Range, bool) {
		return Left(s, c, n)
	},
	NameRight: func(s *text.Snapshot, c text.Position, n int, a Args) (Range, bool) {
		return Right(s, c, n, a.Pending)
	},
	NameDown: func(s *text.Snapshot, c text.Position, n int, _ Args) (Range, bool) {
		return Down(s, c, n)
	},
	NameUp: func(s *text.Snapshot, c text.Position, n int, _ Args) (Range, bool) {
		return Up(s, c, n)
	},
	NameWordForward: func(s *text.Snapshot, c text.Position, n int, a Args) (Range, bool) {
		return WordForward(s, c, n, false, a.Pending)
	},
	NameBigWordForward: func(s *text.Snapshot, c text.Position, n int, a Args) (Range, bool) {
		return WordForward(s, c, n, true, a.Pending)
	},
	NameWordBackward: func(s *text.Snapshot, c text.Position, n int, _ Args) (Range, bool) {
		return WordBackward(s, c, n, false)
	},
	NameBigWordBackward: func(s *text.Snapshot, c text.Position, n int, _ Args) (Range, bool) {
		return WordBackward(s, c, n, true)
	},
	NameWordEnd: func(s *text.Snapshot, c text.Position, n int, _ Args) (Range, bool) {
		return WordEnd(s, c, n, false)
	},
	NameBigWordEnd: func(s *text.Snapshot, c text.Position, n int, _ Args) (Range, bool) {
		return WordEnd(s, c, n, true)
	},
	NameWordEndBackward: func(s *text.Snapshot, c text.Position, n int, _ Args) (Range, bool) {
		return WordEndBackward(s, c, n, false)
	},
	NameBigWordEndBack: func(s *text.Snapshot, c text.Position, n int, _ Args) (Range, bool) {
		return WordEndBackward(s, c, n, true)
	},
	NameLineStart: func(s *text.Snapshot, c text.Position, _ int, _ Args) (Range, bool) {
		return LineStart(s, c)
	},
	NameFirstNonBlank: func(s *text.Snapshot, c text.Position, _ int, _ Args) (Range, bool) {
		return FirstNonBlankCol(s, c)
	},
	NameFirstNonBlankDown: func(s *text.Snapshot, c text.Position, n int, _ Args) (Range, bool) {
		return FirstNonBlankDown(s, c, n)
	},
	NameLineEnd: func(s *text.Snapshot, c text.Position, n int, _ Args) (Range, bool) {
		return LineEnd(s, c, n)
	},
	NameFileStart: func(s *text.Snapshot, c text.Position, n int, a Args) (Range, bool) {
		line := 0
		if a.Explicit {
			line = n - 1
		}
		return GotoLine(s, c, line)
	},
	NameFileEnd: func(s *text.Snapshot, c text.Position, n int, a Args) (Range, bool) {
		line := s.LastLine()
		if a.Explicit {
			line = n - 1
		}
		return GotoLine(s, c, line)
	},
	NameParagraphForward: func(s *text.Snapshot, c text.Position, n int, _ Args) (Range, bool) {
		return ParagraphForward(s, c, n)
	},
	NameParagraphBackward: func(s *text.Snapshot, c text.Position, n int, _ Args) (Range, bool) {
		return ParagraphBackward(s, c, n)
	},
	NameMatchBracket: func(s *text.Snapshot, c text.Position, _ int, _ Args) (Range, bool) {
		return MatchBracket(s, c)
	},
	NameFind: func(s *text.Snapshot, c text.Position, n int, a Args) (Range, bool) {
		return FindChar(s, c, n, a.Find, a.Repeat)
	},
}

// Lookup returns the motion registered under name.
func Lookup(name string) (Func, bool) {
	fn, ok := registry[name]
	return fn, ok
}

// Names returns all registered motion names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply looks up and runs a motion. Counts below one are treated as one.
// Unknown names report ok=false.
func Apply(name string, snap *text.Snapshot, cur text.Position, count int, args Args) (Range, bool) {
	fn, ok := registry[name]
	if !ok {
		return Range{Start: cur, End: cur}, false
	}
	if count < 1 {
		count = 1
	}
	cur = snap.PositionAt(cur.Line, cur.Column)
	return fn(snap, cur, count, args)
}
