// Package mode provides the modal editing state machine for vimcore.
//
// A Machine owns the state that survives between keystrokes:
//   - the current Mode (Normal, Insert, Visual, VisualLine, CommandLine)
//   - the key buffer of the command being typed
//   - the visual selection
//   - the command-line kind (ex command or search)
//   - the last repeatable operation, for "."
//
// # Transitions
//
//	Normal ──i a A I o O c──▶ Insert ──Esc──▶ Normal
//	Normal ──v V──▶ Visual/VisualLine ──Esc or operator──▶ Normal
//	Normal ──: / ?──▶ CommandLine ──Enter or Esc──▶ Normal
//
// Every mode change clears the key buffer. Leaving visual mode destroys the
// selection; switching between Visual and VisualLine keeps it.
//
// The Machine is not safe for concurrent use; the input Handler serialises
// access to it.
package mode
