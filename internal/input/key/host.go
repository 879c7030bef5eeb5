package key

import (
	"fmt"
	"unicode/utf8"
)

// HostKey is the plain key record a host editor delivers: the key name or
// character plus modifier flags.
type HostKey struct {
	Key   string
	Ctrl  bool
	Alt   bool
	Shift bool
	Meta  bool
}

// FromHost converts a host key record into an Event. Key is either a single
// character ("a", "A", " ") or a key name ("Escape", "Enter", "ArrowUp").
func FromHost(hk HostKey) (Event, error) {
	var mods Modifier
	if hk.Ctrl {
		mods = mods.With(ModCtrl)
	}
	if hk.Alt {
		mods = mods.With(ModAlt)
	}
	if hk.Meta {
		mods = mods.With(ModMeta)
	}

	if utf8.RuneCountInString(hk.Key) == 1 {
		// Shift is already folded into the character.
		return parseKeyWithModifiers(hk.Key, mods)
	}
	if hk.Shift {
		mods = mods.With(ModShift)
	}

	name := hk.Key
	switch name {
	case "ArrowUp":
		name = "Up"
	case "ArrowDown":
		name = "Down"
	case "ArrowLeft":
		name = "Left"
	case "ArrowRight":
		name = "Right"
	case "Spacebar":
		name = "Space"
	}
	ev, err := parseKeyWithModifiers(name, mods)
	if err != nil {
		return Event{}, fmt.Errorf("host key %q: %w", hk.Key, err)
	}
	return ev, nil
}
