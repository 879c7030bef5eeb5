package key

import (
	"strings"
	"unicode/utf8"
)

// Sequence is an ordered run of key events.
type Sequence struct {
	// Events contains the key events in order.
	Events []Event
}

// NewSequence creates an empty key sequence.
func NewSequence() *Sequence {
	return &Sequence{Events: make([]Event, 0, 4)}
}

// NewSequenceFrom creates a sequence holding a copy of events.
func NewSequenceFrom(events ...Event) *Sequence {
	s := &Sequence{Events: make([]Event, len(events))}
	copy(s.Events, events)
	return s
}

// Len returns the number of events in the sequence.
func (s *Sequence) Len() int {
	return len(s.Events)
}

// IsEmpty returns true if the sequence has no events.
func (s *Sequence) IsEmpty() bool {
	return len(s.Events) == 0
}

// Add appends an event to the sequence.
func (s *Sequence) Add(event Event) {
	s.Events = append(s.Events, event)
}

// Clear removes all events from the sequence.
func (s *Sequence) Clear() {
	s.Events = s.Events[:0]
}

// Clone returns an independent copy of the sequence.
func (s *Sequence) Clone() *Sequence {
	return NewSequenceFrom(s.Events...)
}

// Equals reports whether both sequences hold the same events.
func (s *Sequence) Equals(other *Sequence) bool {
	if s.Len() != other.Len() {
		return false
	}
	for i, e := range s.Events {
		if !e.Equals(other.Events[i]) {
			return false
		}
	}
	return true
}

// String returns the sequence in Vim notation, e.g. "3dw" or "cwx<Esc>".
func (s *Sequence) String() string {
	return Format(s.Events)
}

// Format renders events in Vim notation. The result parses back with
// ParseSequence.
func Format(events []Event) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(e.VimString())
	}
	return sb.String()
}

// ParseSequence parses a continuous Vim-style key string.
// Every character outside <...> is one key; "<" without a closing ">" is a
// literal "<", and "<lt>" always is. Examples: "dd", "3dw", "ciwnew<Esc>", "<C-r>".
func ParseSequence(s string) (*Sequence, error) {
	seq := NewSequence()
	for len(s) > 0 {
		if s[0] == '<' {
			if end := strings.IndexByte(s, '>'); end > 1 {
				event, err := Parse(s[:end+1])
				if err != nil {
					return nil, err
				}
				seq.Add(event)
				s = s[end+1:]
				continue
			}
		}
		r, size := utf8.DecodeRuneInString(s)
		seq.Add(NewRuneEvent(r, ModNone))
		s = s[size:]
	}
	return seq, nil
}

// MustParseSequence parses a sequence string and panics on error.
// Use only for known-valid sequences in tests and initialization code.
func MustParseSequence(s string) *Sequence {
	seq, err := ParseSequence(s)
	if err != nil {
		panic("invalid key sequence: " + s + ": " + err.Error())
	}
	return seq
}
