package text

import "github.com/rivo/uniseg"

// SplitGraphemes splits s into its grapheme clusters.
func SplitGraphemes(s string) []string {
	if s == "" {
		return nil
	}
	out := make([]string, 0, len(s))
	state := -1
	for len(s) > 0 {
		var cluster string
		cluster, s, _, state = uniseg.StepString(s, state)
		out = append(out, cluster)
	}
	return out
}

// GraphemeCount returns the number of grapheme clusters in s.
func GraphemeCount(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// GraphemeToByteOffset converts a grapheme index within s to a byte offset.
// Indexes past the end map to len(s).
func GraphemeToByteOffset(s string, idx int) int {
	if idx <= 0 {
		return 0
	}
	n := 0
	state := -1
	rest := s
	for len(rest) > 0 {
		_, rest, _, state = uniseg.StepString(rest, state)
		n++
		if n == idx {
			return len(s) - len(rest)
		}
	}
	return len(s)
}
