package input

import (
	"github.com/dshills/vimcore/internal/dispatcher/handler"
	"github.com/dshills/vimcore/internal/engine/text"
	"github.com/dshills/vimcore/internal/input/mode"
)

// Result is the outcome of one key event.
type Result struct {
	// Consumed is false when the host should handle the key itself: text
	// typed in Insert mode, command-line editing, keys no command accepts.
	Consumed bool

	// Status is the outcome of the command the key completed, if any.
	Status handler.ResultStatus

	// Err is set when a command failed.
	Err error

	// Message is the status message left by the command.
	Message string
}

// History is the host undo store driven by u and Ctrl-r.
type History interface {
	Undo() (text.Position, bool)
	Redo() (text.Position, bool)
}

// Grouper is implemented by histories that can undo several edits as one
// step. A command and the insert session it starts form one group.
type Grouper interface {
	BeginGroup(cursor text.Position)
	EndGroup()
}

// LineEditor holds the text typed on the command line. The host edits it
// with the keys HandleKey does not consume; the engine reads it on Enter.
type LineEditor interface {
	Text() string
	Clear()
}

// Logger receives engine diagnostics.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Options configure a Handler. Callbacks run after HandleKey has released
// the handler lock, so they may call back into the Handler.
type Options struct {
	// StartMode is Normal or Insert.
	StartMode mode.Mode

	// History serves u and Ctrl-r. If it implements Grouper, every command
	// is recorded as one undo step.
	History History

	// LineEditor holds command-line text. Without one, HandleKey edits an
	// internal LineBuffer and consumes command-line keys itself.
	LineEditor LineEditor

	Logger  Logger
	Metrics *Metrics

	OnCursor     func(pos text.Position)
	OnSelection  func(sel mode.Selection)
	OnModeChange func(from, to mode.Mode)
}
