package mode

import (
	"github.com/dshills/vimcore/internal/input/key"
)

// LastOperation records the most recent repeatable command for ".".
type LastOperation struct {
	// Keys are the command keys without their count.
	Keys []key.Event

	// Count is the count the command ran with (0 means none).
	Count int

	// Inserted is the text typed in the insert session the command started.
	Inserted string
}

// String returns the command keys in Vim notation.
func (op LastOperation) String() string {
	return key.Format(op.Keys)
}

// insertSession collects text typed between entering and leaving Insert.
type insertSession struct {
	active  bool
	repeat  bool // the command that started the session is repeatable
	op      LastOperation
	written []rune
}

func (s *insertSession) record(ev key.Event) {
	switch {
	case ev.Key == key.KeyBackspace && !ev.IsModified():
		if n := len(s.written); n > 0 {
			s.written = s.written[:n-1]
		}
	default:
		if t := ev.Text(); t != "" {
			s.written = append(s.written, []rune(t)...)
		}
	}
}
