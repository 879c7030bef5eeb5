package motion

import (
	"unicode"
	"unicode/utf8"
)

// Class is the character class used for word boundaries.
type Class uint8

const (
	// ClassWhitespace is space, tab, line break or other unicode space.
	ClassWhitespace Class = iota

	// ClassWord is an ASCII letter, digit or underscore.
	ClassWord

	// ClassPunct is any other printable character.
	ClassPunct

	// ClassOther is a non-printable control character.
	ClassOther

	// ClassNonBlank is the single non-whitespace class used by WORD motions.
	ClassNonBlank
)

// String returns the class name.
func (c Class) String() string {
	switch c {
	case ClassWhitespace:
		return "whitespace"
	case ClassWord:
		return "word"
	case ClassPunct:
		return "punct"
	case ClassOther:
		return "other"
	case ClassNonBlank:
		return "nonblank"
	default:
		return "unknown"
	}
}

// Classify returns the class of a grapheme cluster. The first rune decides;
// the empty cluster is whitespace.
func Classify(cluster string) Class {
	r, _ := utf8.DecodeRuneInString(cluster)
	return classifyRune(r, cluster == "")
}

// ClassifyBig returns the WORD class of a grapheme cluster: ClassWhitespace
// or ClassNonBlank. Both classifiers share the same whitespace predicate.
func ClassifyBig(cluster string) Class {
	if Classify(cluster) == ClassWhitespace {
		return ClassWhitespace
	}
	return ClassNonBlank
}

func classifyRune(r rune, empty bool) Class {
	switch {
	case empty || isBlank(r):
		return ClassWhitespace
	case isWordRune(r):
		return ClassWord
	case unicode.IsPrint(r) || unicode.IsGraphic(r):
		return ClassPunct
	default:
		return ClassOther
	}
}

// isWordRune reports whether r is in [A-Za-z0-9_]. Letters and digits
// outside ASCII classify as punctuation.
func isWordRune(r rune) bool {
	return r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9')
}

func isBlank(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || unicode.IsSpace(r)
}

// IsBlankLine reports whether a line holds only whitespace.
func IsBlankLine(clusters []string) bool {
	for _, c := range clusters {
		if Classify(c) != ClassWhitespace {
			return false
		}
	}
	return true
}

// FirstNonBlank returns the column of the first non-whitespace cluster, or the
// last column when the line is all whitespace.
func FirstNonBlank(clusters []string) int {
	for i, c := range clusters {
		if Classify(c) != ClassWhitespace {
			return i
		}
	}
	return max(len(clusters)-1, 0)
}
