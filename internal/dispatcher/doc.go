// Package dispatcher runs parsed commands against a document.
//
// The dispatcher is the hub between the command parser and the editing
// primitives. It receives complete vim.Command values and resolves them
// into motion ranges, operator executions, mode transitions and history
// calls.
//
// # Command Execution
//
// When a command is dispatched:
//
//  1. Pre-dispatch hooks are called (can modify or cancel the command)
//  2. The count is clamped to Config.MaxRepeatCount
//  3. The command runs by kind: motion, operator, text object or special
//     (with optional panic recovery)
//  4. Post-dispatch hooks are called
//  5. The status message is recorded and failures are logged
//  6. Metrics are recorded (if enabled)
//
// Operators are looked up in the operator package and receive an
// ExecutionContext carrying the buffer, cursor, register bank, count and
// editor options. A failed motion makes the operator a no-op; a change on
// an empty line still enters Insert mode.
//
// # Repeat
//
// Repeatable changes are recorded on the mode machine as canonical keys
// ("x" is recorded as "dl") plus the count. The "." command re-parses those
// keys, executes them and, when the change entered Insert mode, re-types
// the text inserted the first time. Visual operators record an equivalent
// normal-mode command over the same number of characters or lines.
//
// # Command Line
//
// ExecuteCommandLine runs what was typed after ':', '/' or '?'. Searches
// are literal and honour Options.WrapScan. Ex commands are resolved by the
// Registry, which accepts Vim-style abbreviations:
//
//	:[range]d[elete] [x] [count]
//	:[range]y[ank] [x] [count]
//	:[range]s[ubstitute]/pat/rep/[g]
//	:reg[isters]
//	:noh[lsearch]
//	:se[t] sw=N et noet ws nows
//	:lua {code}
//	:N
//
// Unknown commands go to the host's ExFallback (":w", ":q").
//
// # Hooks
//
// Pre-dispatch hooks can modify or cancel commands. LoggingHook serves as
// both kinds:
//
//	logHook := dispatcher.NewLoggingHook(logger.Debug)
//	d.RegisterPreHook(logHook)
//	d.RegisterPostHook(logHook)
//
// Post-dispatch hooks can inspect or modify results:
//
//	d.RegisterPostHook(dispatcher.PostDispatchFunc(func(cmd *vim.Command, r *handler.Result) {
//	    log.Printf("%s -> %s", cmd, r.Status)
//	}))
//
// # Thread Safety
//
// A Dispatcher is not safe for concurrent use. The input.Handler that owns
// it serializes every call behind its mutex.
package dispatcher
