package execctx

import "errors"

// Context validation errors.
var (
	// ErrMissingBuffer indicates the buffer is required but not set.
	ErrMissingBuffer = errors.New("execution context: buffer is required")

	// ErrMissingRegisters indicates the register store is required but not set.
	ErrMissingRegisters = errors.New("execution context: registers are required")

	// ErrMissingChar indicates an operator needs a character argument.
	ErrMissingChar = errors.New("execution context: character argument is required")
)
