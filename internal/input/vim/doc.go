// Package vim implements the command grammar of the modal engine: the
// motion, operator and special-key tables, the incremental key parser and the
// register bank.
//
// # Grammar
//
//	command  := count? register? (operator count? target | motion | special)
//	target   := motion | textobject | <operator key again>
//	count    := [1-9][0-9]*          "0" alone is the line-start motion
//	register := '"' name
//
// Counts before and after the operator multiply: "2d3w" deletes six words.
// Doubled operators ("dd", "yy", "cc", ">>", "g~~", "gUU") act linewise on
// count lines.
//
// # Incremental Parsing
//
// Parser.Feed consumes one key at a time and reports StatusPending while the
// keys so far are a prefix of some valid command, StatusComplete with the
// parsed Command once a command is whole, or StatusInvalid as soon as no
// extension can be valid. Every proper prefix of a complete command is
// Pending, so a host can clear its key buffer on Invalid and fall back to
// default handling.
//
// # Registers
//
// RegisterStore holds the unnamed register ("), the yank register (0), the
// delete ring (1-9), the small-delete register (-), the black hole (_),
// named registers (a-z, A-Z appends), clipboard registers (+, *) and the
// read-only registers ., : and /.
package vim
