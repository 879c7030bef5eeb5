// Package operator provides the operator library: the commands that act
// on a range of text produced by a motion, a text object, a visual
// selection or a doubled operator key.
//
// Operators are composable. The dispatcher resolves the range and the
// operator only decides what to do with it, so "dw", "d3j", "diw" and a
// visual "d" all run the same Delete.
//
// # Operators
//
//   - delete (d): remove the range and store it in a register
//   - change (c): like delete, then enter insert mode
//   - yank (y): store the range in a register without changing the buffer
//   - indentRight (>) and indentLeft (<): shift lines by shiftwidth
//   - toggleCase (g~), lowerCase (gu), upperCase (gU): rewrite case
//   - replace (r): overwrite every character with one character
//   - pasteAfter (p) and pasteBefore (P): insert register content
//   - join (J): join lines
//
// # Registers
//
// Delete, change and yank write through execctx.Registers, which applies
// the numbered ring, small delete and black hole rules. Paste reads the
// register named in the context unless ctx.Content overrides it.
//
// # Usage
//
//	op, ok := operator.Lookup(vim.OpDelete)
//	if !ok {
//	    return handler.Error(dispatcher.ErrUnknownOperator)
//	}
//	result := op.Execute(rng, ctx)
package operator
