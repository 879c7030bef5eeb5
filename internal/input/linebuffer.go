package input

import (
	"strings"
	"unicode"

	"github.com/dshills/vimcore/internal/input/key"
)

// LineBuffer is a minimal command-line editor: characters append,
// Backspace deletes one character, Ctrl-u clears and Ctrl-w deletes the
// previous word.
type LineBuffer struct {
	text []rune
}

// Text returns the typed text.
func (b *LineBuffer) Text() string {
	return string(b.text)
}

// Clear empties the buffer.
func (b *LineBuffer) Clear() {
	b.text = b.text[:0]
}

// Len returns the number of typed characters.
func (b *LineBuffer) Len() int {
	return len(b.text)
}

// HandleKey applies an editing key. It returns false for keys that do not
// edit the line.
func (b *LineBuffer) HandleKey(ev key.Event) bool {
	switch {
	case ev.Key == key.KeyBackspace:
		if n := len(b.text); n > 0 {
			b.text = b.text[:n-1]
		}
	case ev.IsCtrlKey('u'):
		b.Clear()
	case ev.IsCtrlKey('w'):
		s := strings.TrimRightFunc(string(b.text), unicode.IsSpace)
		i := strings.LastIndexFunc(s, unicode.IsSpace)
		b.text = []rune(s[:i+1])
	case ev.IsChar(), ev.IsTab():
		b.text = append(b.text, []rune(ev.Text())...)
	default:
		return false
	}
	return true
}
