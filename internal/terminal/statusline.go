package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/vimcore/internal/input/mode"
)

// MessageType tells how the message row is styled.
type MessageType int

const (
	MessageNone MessageType = iota
	MessageInfo
	MessageError
)

// StatusLine renders the two bottom rows: the status bar and the row that
// shows either the command line or the last message.
type StatusLine struct {
	mode       mode.Mode
	filename   string
	modified   bool
	pending    string
	line       int // 1-based
	col        int // 1-based
	totalLines int

	commandActive bool
	commandPrompt rune
	commandBuffer string

	message     string
	messageType MessageType

	modeStyles map[mode.Mode]tcell.Style
}

// NewStatusLine creates a status line.
func NewStatusLine() *StatusLine {
	return &StatusLine{
		commandPrompt: ':',
		modeStyles:    defaultModeStyles(),
	}
}

func defaultModeStyles() map[mode.Mode]tcell.Style {
	bold := tcell.StyleDefault.Bold(true)
	return map[mode.Mode]tcell.Style{
		mode.Normal:      bold.Background(tcell.ColorBlue).Foreground(tcell.ColorWhite),
		mode.Insert:      bold.Background(tcell.ColorGreen).Foreground(tcell.ColorBlack),
		mode.Visual:      bold.Background(tcell.ColorPurple).Foreground(tcell.ColorWhite),
		mode.VisualLine:  bold.Background(tcell.ColorPurple).Foreground(tcell.ColorWhite),
		mode.CommandLine: bold.Background(tcell.ColorYellow).Foreground(tcell.ColorBlack),
	}
}

// SetMode updates the displayed mode.
func (s *StatusLine) SetMode(m mode.Mode) { s.mode = m }

// SetFilename updates the displayed file name.
func (s *StatusLine) SetFilename(name string, modified bool) {
	s.filename = name
	s.modified = modified
}

// SetPending shows keys of an unfinished command.
func (s *StatusLine) SetPending(keys string) { s.pending = keys }

// SetPosition updates the 1-based cursor position and line count.
func (s *StatusLine) SetPosition(line, col, total int) {
	s.line, s.col, s.totalLines = line, col, total
}

// SetCommandLine shows or hides the command line.
func (s *StatusLine) SetCommandLine(active bool, prompt rune, buffer string) {
	s.commandActive = active
	s.commandPrompt = prompt
	s.commandBuffer = buffer
}

// SetMessage displays a message on the bottom row.
func (s *StatusLine) SetMessage(msg string, msgType MessageType) {
	s.message = msg
	s.messageType = msgType
}

// ClearMessage clears the message.
func (s *StatusLine) ClearMessage() {
	s.message = ""
	s.messageType = MessageNone
}

// Height returns the number of rows the status line uses.
func (s *StatusLine) Height() int { return 2 }

// Render draws the status bar at row and the command or message row below
// it. It returns the command line cursor column, or -1 when the command
// line is not active.
func (s *StatusLine) Render(t *Terminal, row, width int) int {
	s.renderStatusBar(t, row, width)
	if s.commandActive {
		return s.renderCommandLine(t, row+1, width)
	}
	s.renderMessage(t, row+1, width)
	return -1
}

func (s *StatusLine) renderStatusBar(t *Terminal, row, width int) {
	modeStyle, ok := s.modeStyles[s.mode]
	if !ok {
		modeStyle = tcell.StyleDefault.Bold(true).Background(tcell.ColorGray)
	}
	barStyle := tcell.StyleDefault.Background(tcell.ColorGray).Foreground(tcell.ColorWhite)
	t.FillRow(row, barStyle)

	col := drawString(t, 0, row, width, " "+s.mode.DisplayName()+" ", modeStyle)
	col++

	name := s.filename
	if s.modified {
		name += " [+]"
	}
	pos := s.formatPosition()
	right := width - uniseg.StringWidth(pos) - 1
	col = drawString(t, col, row, right-1, name, barStyle)

	if s.pending != "" {
		drawString(t, col+2, row, right-1, s.pending, barStyle)
	}
	if right > col {
		drawString(t, right, row, width, pos, barStyle)
	}
}

func (s *StatusLine) renderCommandLine(t *Terminal, row, width int) int {
	style := tcell.StyleDefault
	t.FillRow(row, style)
	t.SetCell(0, row, string(s.commandPrompt), style)
	return drawString(t, 1, row, width, s.commandBuffer, style)
}

func (s *StatusLine) renderMessage(t *Terminal, row, width int) {
	style := tcell.StyleDefault
	if s.messageType == MessageError {
		style = style.Foreground(tcell.ColorRed).Bold(true)
	}
	t.FillRow(row, tcell.StyleDefault)
	drawString(t, 0, row, width, s.message, style)
}

// formatPosition renders "12,5  40%" the way Vim's ruler does.
func (s *StatusLine) formatPosition() string {
	line, col := max(s.line, 1), max(s.col, 1)
	where := "All"
	switch {
	case s.totalLines <= 1:
	case line == 1:
		where = "Top"
	case line >= s.totalLines:
		where = "Bot"
	default:
		where = fmt.Sprintf("%d%%", line*100/s.totalLines)
	}
	return fmt.Sprintf("%d,%d  %s", line, col, where)
}

// drawString draws s from column x up to limit and returns the column
// after the last cell drawn.
func drawString(t *Terminal, x, y, limit int, s string, style tcell.Style) int {
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w := g.Width()
		if x+w > limit {
			break
		}
		t.SetCell(x, y, g.Str(), style)
		x += max(w, 1)
	}
	return x
}
