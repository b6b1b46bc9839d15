package answer

import (
	"regexp"
	"strings"
)

var (
	stripPrefixes = regexp.MustCompile(`(?i)^(what|who|where|when)\s+(is|are|was|were)\s+`)
	stripArticles = regexp.MustCompile(`(?i)^(the|a|an)\s+`)
	parenAlt      = regexp.MustCompile(`\((?:or\s+)?(.+?)\)`)
	punctuation   = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
	multiSpace    = regexp.MustCompile(`\s+`)
)

// Normalize canonicalizes free text into a comparison key: the leading
// interrogative prefix ("what is", "who are", ...) and one leading article
// are stripped, punctuation is removed, whitespace is collapsed and the
// result is lowercased. Idempotent.
func Normalize(text string) string {
	text = stripPrefixes.ReplaceAllString(text, "")
	text = stripArticles.ReplaceAllString(text, "")
	text = punctuation.ReplaceAllString(text, "")
	text = multiSpace.ReplaceAllString(text, " ")
	return strings.ToLower(strings.TrimSpace(text))
}

// ExtractAlternates expands an expected answer with parenthetical alternates
// like "Tokyo (or Edo)" into every acceptable literal form. The first element
// is the display form with all parentheticals removed; the parenthetical
// contents follow. All elements are equally valid matches.
func ExtractAlternates(expected string) []string {
	var alts []string
	for _, m := range parenAlt.FindAllStringSubmatch(expected, -1) {
		alts = append(alts, m[1])
	}
	base := strings.TrimSpace(parenAlt.ReplaceAllString(expected, ""))

	results := make([]string, 0, len(alts)+1)
	results = append(results, base)
	results = append(results, alts...)
	return results
}

// CheckAnswer is the plain fuzzy check used by the non-audited answer route:
// the response matches when any alternate scores at or above threshold on
// either similarity metric. Returns the expected display form alongside the
// verdict.
func CheckAnswer(userResponse, expected string, threshold int) (bool, string) {
	userNorm := Normalize(userResponse)
	for _, alt := range ExtractAlternates(expected) {
		altNorm := Normalize(alt)
		if Ratio(userNorm, altNorm) >= threshold || TokenSortRatio(userNorm, altNorm) >= threshold {
			return true, expected
		}
	}
	return false, expected
}
