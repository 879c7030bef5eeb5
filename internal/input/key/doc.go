// Package key provides the key event type consumed by the modal engine and
// the parsers that build events from specifications and host input.
//
//   - Key: identifies a special key, or KeyRune for characters
//   - Modifier: Ctrl, Alt, Shift and Meta flags
//   - Event: a single key press
//   - Sequence: an ordered run of events, used as the pending key buffer
//
// # Key Specifications
//
// Keys can be written as:
//
//   - Simple keys: "a", "A", "1", "Enter", "Escape"
//   - With modifiers: "Ctrl+R", "Alt+F4"
//   - Vim-style: "<C-r>", "<Esc>", "<CR>", "<Tab>", "<lt>"
//
// ParseSequence reads a continuous Vim-style string such as "3dw" or
// "cwnew<Esc>" where every character outside <...> is one key.
//
// # Host Input
//
// FromHost converts the plain {key, ctrl, alt, shift, meta} record a host
// editor delivers, and FromTcell converts terminal events.
package key
