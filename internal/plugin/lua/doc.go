// Package lua provides the Lua runtime behind the :lua ex command.
//
// This package wraps the gopher-lua library to provide:
//   - Sandboxed Lua state management
//   - A "vim" module bound to an editor Host
//   - Execution timeouts
//
// # State
//
// The State type manages a Lua runtime with sandboxing:
//
//	state, err := lua.NewState(
//	    lua.WithExecutionTimeout(2 * time.Second),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer state.Close()
//
//	state.Bind(host)
//	if err := state.Exec(`vim.set_lines(0, 1, {"hello"})`); err != nil {
//	    log.Fatal(err)
//	}
//
// # The vim module
//
// Bind installs a global "vim" table. Lines are zero-based and ranges are
// end-exclusive, as in Neovim's buffer API:
//
//	vim.line_count()               -- number of lines
//	vim.line(n)                    -- text of line n
//	vim.lines([first [, last]])    -- table of lines
//	vim.set_lines(first, last, t)  -- replace lines [first, last) with t
//	vim.cursor()                   -- line, column
//	vim.set_cursor(line, col)
//	vim.register(name)             -- content, "c" or "l"
//	vim.set_register(name, text [, "l"])
//	vim.mode()                     -- "normal", "insert", ...
//	vim.normal(keys)               -- run keys as if typed ("dd", "3x<Esc>")
//	vim.message(text)              -- set the status message
//
// print writes to the status message as well.
//
// # Sandbox
//
// The Sandbox restricts Lua code execution by:
//   - Opening only the base, table, string and math libraries
//   - Removing dofile, loadfile, load and loadstring
//   - Cancelling runs that exceed the execution timeout
package lua
