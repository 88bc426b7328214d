package resolve

import (
	"github.com/pmezard/go-difflib/difflib"
)

// Similarity returns the Ratcliff/Obershelp gestalt similarity of two
// normalized strings: 2*M / T where M is the number of characters in the
// recursively found longest common blocks and T the combined length.
//
// An empty side scores 0 and identical strings score exactly 1.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}
	if a == b {
		return 1.0
	}

	// autojunk would discard frequent characters in strings of 200+ runes,
	// which is not part of the gestalt measure.
	m := difflib.NewMatcherWithJunk(splitRunes(a), splitRunes(b), false, nil)
	return m.Ratio()
}

// splitRunes turns s into one element per rune so lengths count characters,
// not bytes.
func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
