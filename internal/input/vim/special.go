package vim

// Special names a command that bypasses the operator grammar.
type Special string

// Special commands.
const (
	SpecialInsert         Special = "insert"         // i
	SpecialAppend         Special = "append"         // a
	SpecialAppendEOL      Special = "appendEOL"      // A
	SpecialInsertBOL      Special = "insertBOL"      // I
	SpecialOpenBelow      Special = "openBelow"      // o
	SpecialOpenAbove      Special = "openAbove"      // O
	SpecialVisualChar     Special = "visualChar"     // v
	SpecialVisualLine     Special = "visualLine"     // V
	SpecialVisualSwap     Special = "visualSwap"     // o in visual mode
	SpecialJoin           Special = "join"           // J
	SpecialPasteAfter     Special = "pasteAfter"     // p
	SpecialPasteBefore    Special = "pasteBefore"    // P
	SpecialUndo           Special = "undo"           // u
	SpecialRedo           Special = "redo"           // Ctrl-r
	SpecialRepeat         Special = "repeat"         // .
	SpecialCommandLine    Special = "commandLine"    // :
	SpecialSearchForward  Special = "searchForward"  // /
	SpecialSearchBackward Special = "searchBackward" // ?
	SpecialReplace        Special = "replace"        // r<char>
)

var normalSpecials = map[rune]Special{
	'i': SpecialInsert,
	'a': SpecialAppend,
	'A': SpecialAppendEOL,
	'I': SpecialInsertBOL,
	'o': SpecialOpenBelow,
	'O': SpecialOpenAbove,
	'v': SpecialVisualChar,
	'V': SpecialVisualLine,
	'J': SpecialJoin,
	'p': SpecialPasteAfter,
	'P': SpecialPasteBefore,
	'u': SpecialUndo,
	'.': SpecialRepeat,
	':': SpecialCommandLine,
	'/': SpecialSearchForward,
	'?': SpecialSearchBackward,
}

var visualSpecials = map[rune]Special{
	'o': SpecialVisualSwap,
	'O': SpecialVisualSwap,
	'v': SpecialVisualChar,
	'V': SpecialVisualLine,
	'J': SpecialJoin,
	'p': SpecialPasteAfter,
	'P': SpecialPasteAfter,
	':': SpecialCommandLine,
}

// shorthand describes a key that expands to an operator command.
type shorthand struct {
	op       rune // operator key in the operators table
	gop      rune // or g-operator key
	motion   rune // motion key, 0 for the doubled (linewise) form
	linewise bool
}

// normalShorthands are the single keys that abbreviate an operator command.
var normalShorthands = map[rune]shorthand{
	'x': {op: 'd', motion: 'l'},
	'X': {op: 'd', motion: 'h'},
	's': {op: 'c', motion: 'l'},
	'S': {op: 'c', linewise: true},
	'D': {op: 'd', motion: '$'},
	'C': {op: 'c', motion: '$'},
	'Y': {op: 'y', linewise: true},
}

// visualShorthands are operator aliases that act on the selection.
var visualShorthands = map[rune]shorthand{
	'x': {op: 'd'},
	'X': {op: 'd', linewise: true},
	'D': {op: 'd', linewise: true},
	's': {op: 'c'},
	'S': {op: 'c', linewise: true},
	'C': {op: 'c', linewise: true},
	'R': {op: 'c', linewise: true},
	'Y': {op: 'y', linewise: true},
	'~': {gop: '~'},
	'u': {gop: 'u'},
	'U': {gop: 'U'},
}

func (s shorthand) operator() *Operator {
	if s.gop != 0 {
		return gOperators[s.gop]
	}
	return operators[s.op]
}
