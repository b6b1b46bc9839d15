package answer

import (
	"math"
	"sort"
	"strings"
)

// Ratio scores two strings 0-100 from their Levenshtein edit distance:
// identical strings score 100, fully disjoint strings score 0.
func Ratio(a, b string) int {
	lenSum := len(a) + len(b)
	if lenSum == 0 {
		return 100
	}
	dist := levenshtein(a, b)
	return int(math.Round(float64(lenSum-dist) / float64(lenSum) * 100))
}

// TokenSortRatio scores the same strings with their whitespace tokens sorted
// first, making the comparison insensitive to word order.
func TokenSortRatio(a, b string) int {
	return Ratio(sortTokens(a), sortTokens(b))
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// levenshtein computes the edit distance between a and b using two rolling
// rows.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
