package mode

import (
	"github.com/samber/mo"

	"github.com/dshills/vimcore/internal/engine/motion"
	"github.com/dshills/vimcore/internal/engine/text"
)

// Selection is the visual selection. Start is the anchor, End follows the
// cursor. The zero value is no selection.
type Selection struct {
	Start mo.Option[text.Position]
	End   mo.Option[text.Position]
}

// NewSelection creates a selection anchored and ending at pos.
func NewSelection(pos text.Position) Selection {
	return Selection{Start: mo.Some(pos), End: mo.Some(pos)}
}

// Active reports whether the selection exists.
func (s Selection) Active() bool {
	return s.Start.IsPresent() && s.End.IsPresent()
}

// Bounds returns the anchor and head. ok is false without a selection.
func (s Selection) Bounds() (anchor, head text.Position, ok bool) {
	anchor, ok1 := s.Start.Get()
	head, ok2 := s.End.Get()
	return anchor, head, ok1 && ok2
}

// Swapped returns the selection with anchor and head exchanged.
func (s Selection) Swapped() Selection {
	return Selection{Start: s.End, End: s.Start}
}

// Range converts the selection into an operator range. Charwise selections
// are inclusive of both ends; linewise selections cover whole lines.
func (s Selection) Range(linewise bool) (motion.Range, bool) {
	anchor, head, ok := s.Bounds()
	if !ok {
		return motion.Range{}, false
	}
	start, end := text.Order(anchor, head)
	return motion.Range{Start: start, End: end, Inclusive: !linewise, Linewise: linewise}, true
}
