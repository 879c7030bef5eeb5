package mode

import (
	"fmt"
	"strings"
)

// Mode is the editing mode. Exactly one mode is active at a time.
type Mode uint8

const (
	// Normal interprets keys as commands.
	Normal Mode = iota

	// Insert passes text keys through to the host.
	Insert

	// Visual selects characters.
	Visual

	// VisualLine selects whole lines.
	VisualLine

	// CommandLine captures an ex command or search pattern.
	CommandLine
)

// String returns the mode identifier.
func (m Mode) String() string {
	switch m {
	case Normal:
		return "normal"
	case Insert:
		return "insert"
	case Visual:
		return "visual"
	case VisualLine:
		return "visual-line"
	case CommandLine:
		return "command-line"
	default:
		return "unknown"
	}
}

// DisplayName returns the human-readable mode name for a status line.
func (m Mode) DisplayName() string {
	switch m {
	case Normal:
		return "NORMAL"
	case Insert:
		return "INSERT"
	case Visual:
		return "VISUAL"
	case VisualLine:
		return "VISUAL LINE"
	case CommandLine:
		return "COMMAND"
	default:
		return "UNKNOWN"
	}
}

// CursorStyle returns the cursor style for this mode.
func (m Mode) CursorStyle() CursorStyle {
	switch m {
	case Insert, CommandLine:
		return CursorBar
	default:
		return CursorBlock
	}
}

// IsVisual reports whether m is a visual mode.
func (m Mode) IsVisual() bool {
	return m == Visual || m == VisualLine
}

// ParseMode converts a mode name (as written in configuration) to a Mode.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "normal":
		return Normal, nil
	case "insert":
		return Insert, nil
	case "visual":
		return Visual, nil
	case "visual-line", "visualline":
		return VisualLine, nil
	case "command-line", "command":
		return CommandLine, nil
	}
	return Normal, fmt.Errorf("%w: %q", ErrUnknownMode, name)
}

// CursorStyle defines the visual appearance of the cursor.
type CursorStyle uint8

const (
	// CursorBlock is a full-cell block cursor (normal mode).
	CursorBlock CursorStyle = iota

	// CursorBar is a thin vertical bar cursor (insert mode).
	CursorBar

	// CursorUnderline is an underline cursor.
	CursorUnderline
)

// String returns a human-readable cursor style name.
func (c CursorStyle) String() string {
	switch c {
	case CursorBlock:
		return "block"
	case CursorBar:
		return "bar"
	case CursorUnderline:
		return "underline"
	default:
		return "unknown"
	}
}

// CommandLineKind tells what the command line is capturing.
type CommandLineKind uint8

const (
	// CommandEx is an ex command typed after ':'.
	CommandEx CommandLineKind = iota

	// CommandSearchForward is a pattern typed after '/'.
	CommandSearchForward

	// CommandSearchBackward is a pattern typed after '?'.
	CommandSearchBackward
)

// Prompt returns the prompt character shown before the command line.
func (k CommandLineKind) Prompt() rune {
	switch k {
	case CommandSearchForward:
		return '/'
	case CommandSearchBackward:
		return '?'
	default:
		return ':'
	}
}

// IsSearch reports whether the command line holds a search pattern.
func (k CommandLineKind) IsSearch() bool {
	return k == CommandSearchForward || k == CommandSearchBackward
}
