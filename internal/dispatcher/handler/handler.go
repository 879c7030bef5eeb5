// Package handler provides the handler interface and result type for
// command execution.
package handler

import (
	"github.com/dshills/vimcore/internal/dispatcher/execctx"
)

// Handler executes one named command, such as an ex command.
type Handler interface {
	// Handle executes the command and returns a result.
	Handle(ctx *execctx.ExecutionContext) Result
}

// HandlerFunc is a function adapter for the Handler interface.
type HandlerFunc func(ctx *execctx.ExecutionContext) Result

// Handle implements Handler.Handle.
func (f HandlerFunc) Handle(ctx *execctx.ExecutionContext) Result {
	if f == nil {
		return Errorf("handler function is nil")
	}
	return f(ctx)
}
