package key

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
)

var tcellKeys = map[tcell.Key]Key{
	tcell.KeyEscape:    KeyEscape,
	tcell.KeyEnter:     KeyEnter,
	tcell.KeyTab:       KeyTab,
	tcell.KeyBackspace: KeyBackspace,
	tcell.KeyDelete:    KeyDelete,
	tcell.KeyInsert:    KeyInsert,
	tcell.KeyHome:      KeyHome,
	tcell.KeyEnd:       KeyEnd,
	tcell.KeyPgUp:      KeyPageUp,
	tcell.KeyPgDn:      KeyPageDown,
	tcell.KeyUp:        KeyUp,
	tcell.KeyDown:      KeyDown,
	tcell.KeyLeft:      KeyLeft,
	tcell.KeyRight:     KeyRight,
	tcell.KeyF1:        KeyF1,
	tcell.KeyF2:        KeyF2,
	tcell.KeyF3:        KeyF3,
	tcell.KeyF4:        KeyF4,
	tcell.KeyF5:        KeyF5,
	tcell.KeyF6:        KeyF6,
	tcell.KeyF7:        KeyF7,
	tcell.KeyF8:        KeyF8,
	tcell.KeyF9:        KeyF9,
	tcell.KeyF10:       KeyF10,
	tcell.KeyF11:       KeyF11,
	tcell.KeyF12:       KeyF12,
}

// FromTcell converts a terminal key event. Control characters reported by
// the terminal (Ctrl-R arrives as tcell.KeyCtrlR) become Ctrl+rune events,
// except the ones terminals use for Tab, Enter, Backspace and Escape.
func FromTcell(ev *tcell.EventKey) Event {
	var mods Modifier
	m := ev.Modifiers()
	if m&tcell.ModAlt != 0 {
		mods = mods.With(ModAlt)
	}
	if m&tcell.ModMeta != 0 {
		mods = mods.With(ModMeta)
	}

	switch k := ev.Key(); {
	case k == tcell.KeyRune:
		if m&tcell.ModCtrl != 0 {
			mods = mods.With(ModCtrl)
		}
		return NewRuneEvent(ev.Rune(), mods)
	case k == tcell.KeyBackspace2:
		return NewSpecialEvent(KeyBackspace, mods)
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		if mapped, ok := tcellKeys[k]; ok {
			return NewSpecialEvent(mapped, mods)
		}
		return NewRuneEvent(rune('a'+(k-tcell.KeyCtrlA)), mods.With(ModCtrl))
	case k == tcell.KeyCtrlLeftSq:
		return NewSpecialEvent(KeyEscape, mods)
	default:
		if mapped, ok := tcellKeys[k]; ok {
			if m&tcell.ModShift != 0 {
				mods = mods.With(ModShift)
			}
			if m&tcell.ModCtrl != 0 {
				mods = mods.With(ModCtrl)
			}
			return NewSpecialEvent(mapped, mods)
		}
		if r := ev.Rune(); r != 0 && unicode.IsPrint(r) {
			return NewRuneEvent(r, mods)
		}
		return NewSpecialEvent(KeyNone, mods)
	}
}
