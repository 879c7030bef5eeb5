package dispatcher

import "errors"

// Dispatcher errors.
var (
	// ErrUnknownCommand indicates an ex command with no handler and no fallback.
	ErrUnknownCommand = errors.New("dispatcher: unknown command")

	// ErrUnknownOperator indicates a command names an operator that is not registered.
	ErrUnknownOperator = errors.New("dispatcher: unknown operator")

	// ErrUnknownSpecial indicates a special command the dispatcher cannot run.
	ErrUnknownSpecial = errors.New("dispatcher: unknown special command")

	// ErrInvalidRange indicates an ex command line range that cannot be parsed.
	ErrInvalidRange = errors.New("dispatcher: invalid range")

	// ErrInvalidArgument indicates malformed ex command arguments.
	ErrInvalidArgument = errors.New("dispatcher: invalid argument")

	// ErrPatternNotFound indicates a search found no match.
	ErrPatternNotFound = errors.New("dispatcher: pattern not found")

	// ErrNoPreviousPattern indicates n or N without an earlier search.
	ErrNoPreviousPattern = errors.New("dispatcher: no previous search pattern")

	// ErrNoLua indicates :lua without a Lua runtime attached.
	ErrNoLua = errors.New("dispatcher: lua runtime not available")

	// ErrActionCancelled indicates a command was cancelled by a hook.
	ErrActionCancelled = errors.New("dispatcher: command cancelled by hook")

	// ErrPanic indicates a command panicked.
	ErrPanic = errors.New("dispatcher: command panic")
)
