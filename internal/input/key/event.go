package key

import (
	"fmt"
	"strings"
	"unicode"
)

// Event represents a single key press.
type Event struct {
	// Key identifies the key pressed.
	Key Key

	// Rune is the character for KeyRune events.
	Rune rune

	// Modifiers contains the active modifier keys.
	Modifiers Modifier
}

// NewRuneEvent creates an event for a character.
func NewRuneEvent(r rune, mods Modifier) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: mods}
}

// NewSpecialEvent creates an event for a special key.
func NewSpecialEvent(k Key, mods Modifier) Event {
	return Event{Key: k, Modifiers: mods}
}

// Char creates an unmodified character event.
func Char(r rune) Event {
	return NewRuneEvent(r, ModNone)
}

// Ctrl creates a Ctrl+character event.
func Ctrl(r rune) Event {
	return NewRuneEvent(unicode.ToLower(r), ModCtrl)
}

// IsRune returns true if this is a character key event.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// IsModified returns true if Ctrl, Alt or Meta is pressed. Shift alone does
// not count for characters since it is part of the character itself.
func (e Event) IsModified() bool {
	if e.IsRune() {
		return e.Modifiers&(ModCtrl|ModAlt|ModMeta) != 0
	}
	return e.Modifiers != ModNone
}

// IsChar returns true if this is an unmodified printable character.
func (e Event) IsChar() bool {
	return e.IsRune() && !e.IsModified() && unicode.IsPrint(e.Rune)
}

// IsCharKey reports whether e is the unmodified character r.
func (e Event) IsCharKey(r rune) bool {
	return e.IsRune() && !e.IsModified() && e.Rune == r
}

// IsCtrlKey reports whether e is Ctrl+r.
func (e Event) IsCtrlKey(r rune) bool {
	return e.IsRune() && e.Modifiers == ModCtrl && unicode.ToLower(e.Rune) == r
}

// IsDigit reports whether e is an unmodified digit.
func (e Event) IsDigit() bool {
	return e.IsRune() && !e.IsModified() && e.Rune >= '0' && e.Rune <= '9'
}

// IsEscape returns true for Escape and its aliases Ctrl-[ and Ctrl-c.
func (e Event) IsEscape() bool {
	return (e.Key == KeyEscape && e.Modifiers == ModNone) || e.IsCtrlKey('[') || e.IsCtrlKey('c')
}

// IsEnter returns true if this is Enter with no modifiers.
func (e Event) IsEnter() bool {
	return e.Key == KeyEnter && e.Modifiers == ModNone
}

// IsTab returns true if this is Tab with no modifiers.
func (e Event) IsTab() bool {
	return e.Key == KeyTab && e.Modifiers == ModNone
}

// Text returns the text the key would insert, or "" for keys that insert
// nothing.
func (e Event) Text() string {
	switch {
	case e.IsChar():
		return string(e.Rune)
	case e.IsEnter():
		return "\n"
	case e.IsTab():
		return "\t"
	}
	return ""
}

// Equals returns true if two events represent the same key press.
func (e Event) Equals(other Event) bool {
	return e == other
}

// VimString returns a Vim-style representation.
// Examples: "a", "<Esc>", "<C-r>", "<CR>", "<lt>"
func (e Event) VimString() string {
	if e.IsRune() && !e.IsModified() {
		switch e.Rune {
		case '<':
			return "<lt>"
		case ' ':
			return " "
		}
		return string(e.Rune)
	}

	var parts []string
	if e.Modifiers.HasCtrl() {
		parts = append(parts, "C")
	}
	if e.Modifiers.HasAlt() {
		parts = append(parts, "A")
	}
	if e.Modifiers.HasMeta() {
		parts = append(parts, "D")
	}
	if e.Modifiers.HasShift() && !e.IsRune() {
		parts = append(parts, "S")
	}

	var name string
	switch e.Key {
	case KeyRune:
		name = string(e.Rune)
	case KeyEscape:
		name = "Esc"
	case KeyEnter:
		name = "CR"
	case KeyBackspace:
		name = "BS"
	case KeyDelete:
		name = "Del"
	default:
		name = e.Key.String()
	}
	parts = append(parts, name)
	return "<" + strings.Join(parts, "-") + ">"
}

// String returns the Vim-style representation.
func (e Event) String() string {
	return e.VimString()
}

// GoString implements fmt.GoStringer for debugging.
func (e Event) GoString() string {
	return fmt.Sprintf("Event{Key: %s, Rune: %q, Modifiers: %s}", e.Key, e.Rune, e.Modifiers)
}
