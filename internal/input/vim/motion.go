package vim

import (
	"github.com/dshills/vimcore/internal/engine/motion"
	"github.com/dshills/vimcore/internal/input/key"
)

// Motion names resolved by the dispatcher rather than the motion library,
// because they depend on per-document state.
const (
	MotionRepeatFind        = "repeatFind"
	MotionRepeatFindReverse = "repeatFindReverse"
	MotionSearchNext        = "searchNext"
	MotionSearchPrev        = "searchPrev"
)

// Motion is a grammar entry for a cursor motion.
type Motion struct {
	// Name is the motion identifier (see the motion package names).
	Name string

	// Keys is the key sequence that triggers this motion.
	Keys string

	// NeedsChar is set for f/F/t/T which take a character argument.
	NeedsChar bool

	// Find is the search template for f/F/t/T.
	Find motion.Find
}

var motions = map[rune]*Motion{
	'h': {Name: motion.NameLeft, Keys: "h"},
	'l': {Name: motion.NameRight, Keys: "l"},
	'j': {Name: motion.NameDown, Keys: "j"},
	'k': {Name: motion.NameUp, Keys: "k"},
	'w': {Name: motion.NameWordForward, Keys: "w"},
	'b': {Name: motion.NameWordBackward, Keys: "b"},
	'e': {Name: motion.NameWordEnd, Keys: "e"},
	'W': {Name: motion.NameBigWordForward, Keys: "W"},
	'B': {Name: motion.NameBigWordBackward, Keys: "B"},
	'E': {Name: motion.NameBigWordEnd, Keys: "E"},
	'0': {Name: motion.NameLineStart, Keys: "0"},
	'^': {Name: motion.NameFirstNonBlank, Keys: "^"},
	'_': {Name: motion.NameFirstNonBlankDown, Keys: "_"},
	'$': {Name: motion.NameLineEnd, Keys: "$"},
	'G': {Name: motion.NameFileEnd, Keys: "G"},
	'{': {Name: motion.NameParagraphBackward, Keys: "{"},
	'}': {Name: motion.NameParagraphForward, Keys: "}"},
	'%': {Name: motion.NameMatchBracket, Keys: "%"},
	';': {Name: MotionRepeatFind, Keys: ";"},
	',': {Name: MotionRepeatFindReverse, Keys: ","},
	'n': {Name: MotionSearchNext, Keys: "n"},
	'N': {Name: MotionSearchPrev, Keys: "N"},
	'f': {Name: motion.NameFind, Keys: "f", NeedsChar: true, Find: motion.Find{Forward: true}},
	'F': {Name: motion.NameFind, Keys: "F", NeedsChar: true, Find: motion.Find{}},
	't': {Name: motion.NameFind, Keys: "t", NeedsChar: true, Find: motion.Find{Forward: true, Till: true}},
	'T': {Name: motion.NameFind, Keys: "T", NeedsChar: true, Find: motion.Find{Till: true}},
}

var gMotions = map[rune]*Motion{
	'g': {Name: motion.NameFileStart, Keys: "gg"},
	'e': {Name: motion.NameWordEndBackward, Keys: "ge"},
	'E': {Name: motion.NameBigWordEndBack, Keys: "gE"},
}

// specialKeyMotions maps navigation keys to motions.
var specialKeyMotions = map[key.Key]*Motion{
	key.KeyLeft:      motions['h'],
	key.KeyRight:     motions['l'],
	key.KeyUp:        motions['k'],
	key.KeyDown:      motions['j'],
	key.KeyHome:      motions['0'],
	key.KeyEnd:       motions['$'],
	key.KeyBackspace: motions['h'],
}

// GetMotion returns the motion for a single key, or nil.
func GetMotion(r rune) *Motion {
	return motions[r]
}

// GetGMotion returns the motion for g followed by r, or nil.
func GetGMotion(r rune) *Motion {
	return gMotions[r]
}

// motionForEvent returns the motion bound to a non-character key, or nil.
func motionForEvent(e key.Event) *Motion {
	if e.IsModified() {
		return nil
	}
	return specialKeyMotions[e.Key]
}
