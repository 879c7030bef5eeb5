package vim

import "github.com/dshills/vimcore/internal/engine/motion"

// TextObjectPrefix is 'i' (inner) or 'a' (around).
type TextObjectPrefix uint8

const (
	// PrefixNone means no text object prefix.
	PrefixNone TextObjectPrefix = iota

	// PrefixInner selects the object contents ('i').
	PrefixInner

	// PrefixAround selects the object with its delimiters or spacing ('a').
	PrefixAround
)

// GetTextObjectPrefix converts a key to its prefix.
func GetTextObjectPrefix(r rune) TextObjectPrefix {
	switch r {
	case 'i':
		return PrefixInner
	case 'a':
		return PrefixAround
	}
	return PrefixNone
}

// IsTextObjectKey reports whether r names a text object.
func IsTextObjectKey(r rune) bool {
	return motion.IsTextObjectKey(r)
}
