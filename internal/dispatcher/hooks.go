package dispatcher

import (
	"github.com/dshills/vimcore/internal/dispatcher/handler"
	"github.com/dshills/vimcore/internal/input/vim"
)

// PreDispatchHook is called before a command is dispatched.
// Returning false cancels the dispatch.
type PreDispatchHook interface {
	// PreDispatch may modify the command. Returns false to cancel it.
	PreDispatch(cmd *vim.Command) bool
}

// PostDispatchHook is called after a command is dispatched.
type PostDispatchHook interface {
	// PostDispatch may inspect or modify the result.
	PostDispatch(cmd *vim.Command, result *handler.Result)
}

// PreDispatchFunc is a function adapter for PreDispatchHook.
type PreDispatchFunc func(cmd *vim.Command) bool

// PreDispatch implements PreDispatchHook.
func (f PreDispatchFunc) PreDispatch(cmd *vim.Command) bool {
	return f(cmd)
}

// PostDispatchFunc is a function adapter for PostDispatchHook.
type PostDispatchFunc func(cmd *vim.Command, result *handler.Result)

// PostDispatch implements PostDispatchHook.
func (f PostDispatchFunc) PostDispatch(cmd *vim.Command, result *handler.Result) {
	f(cmd, result)
}

// LoggingHook logs every dispatched command and its outcome.
type LoggingHook struct {
	// LogFunc is called with log messages.
	LogFunc func(format string, args ...any)
}

// NewLoggingHook creates a new logging hook.
func NewLoggingHook(logFunc func(format string, args ...any)) *LoggingHook {
	return &LoggingHook{LogFunc: logFunc}
}

// PreDispatch logs the command being dispatched.
func (h *LoggingHook) PreDispatch(cmd *vim.Command) bool {
	if h.LogFunc != nil {
		h.LogFunc("dispatching %s: %q (count=%d)", cmd.Kind, cmd.String(), cmd.Count)
	}
	return true
}

// PostDispatch logs the dispatch result.
func (h *LoggingHook) PostDispatch(cmd *vim.Command, result *handler.Result) {
	if h.LogFunc != nil {
		h.LogFunc("dispatch complete: %q -> %s", cmd.String(), result.Status)
	}
}
