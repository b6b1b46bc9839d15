package answer

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"
)

var (
	parenOr     = regexp.MustCompile(`(?i)\(\s*or\b`)
	parenGroup  = regexp.MustCompile(`\(.*?\)`)
	tokenRe     = regexp.MustCompile(`[a-z0-9]+`)
	numericList = regexp.MustCompile(`^\s*\d+(?:\s*[,/-]\s*\d+)+\s*$`)
	digitRuns   = regexp.MustCompile(`\d+`)
)

// Lexical cues that a clue is asking about a person.
var personIndicators = []string{
	" he ", " she ", " his ", " her ",
	"actor", "author", "poet", "scientist", "president",
	"king", "queen", "emperor", "composer", "inventor",
}

var honorifics = map[string]bool{
	"mr": true, "mrs": true, "ms": true, "miss": true,
	"dr": true, "sir": true, "st": true, "saint": true,
}

var nameSuffixes = map[string]bool{
	"jr": true, "sr": true, "ii": true, "iii": true, "iv": true, "v": true,
}

// HasParentheticalOr reports whether the expected answer carries an "(or ...)"
// alternate group.
func HasParentheticalOr(expected string) bool {
	return parenOr.MatchString(expected)
}

// LooksLikePersonClue checks the clue text for person cues (pronouns or role
// nouns).
func LooksLikePersonClue(clueText string) bool {
	text := " " + strings.ToLower(clueText) + " "
	for _, indicator := range personIndicators {
		if strings.Contains(text, indicator) {
			return true
		}
	}
	return false
}

// LooksLikePersonName reports whether any alternate of the expected answer
// reads like a multi-word proper name: at least two words, each containing a
// letter.
func LooksLikePersonName(expected string) bool {
	for _, alt := range ExtractAlternates(expected) {
		words := strings.Fields(strings.TrimSpace(alt))
		if len(words) < 2 {
			continue
		}
		allAlpha := true
		for _, w := range words {
			if !strings.ContainsFunc(w, unicode.IsLetter) {
				allAlpha = false
				break
			}
		}
		if allAlpha {
			return true
		}
	}
	return false
}

// ExpectedLastName strips honorifics and generational suffixes from an
// expected name and returns the remaining last token, or "" when the name has
// fewer than two tokens left.
func ExpectedLastName(expected string) string {
	cleaned := strings.NewReplacer(",", " ", ".", " ").Replace(expected)
	var tokens []string
	for _, t := range strings.Fields(cleaned) {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || honorifics[t] {
			continue
		}
		tokens = append(tokens, t)
	}
	for len(tokens) > 0 && nameSuffixes[tokens[len(tokens)-1]] {
		tokens = tokens[:len(tokens)-1]
	}
	if len(tokens) < 2 {
		return ""
	}
	return tokens[len(tokens)-1]
}

// SingleToken reduces a response to its sole meaningful token: either the
// response is one word, or an honorific followed by one word. Returns "" for
// anything longer.
func SingleToken(text string) string {
	parts := strings.Fields(Normalize(text))
	switch {
	case len(parts) == 2 && honorifics[parts[0]]:
		return parts[1]
	case len(parts) == 1:
		return parts[0]
	default:
		return ""
	}
}

// TokenOverlapScore measures the 0-1 overlap between the token sets of two
// normalized strings, scaled by the larger set.
func TokenOverlapScore(a, b string) float64 {
	aTokens := tokenSet(a)
	bTokens := tokenSet(b)
	if len(aTokens) == 0 || len(bTokens) == 0 {
		return 0
	}
	overlap := 0
	for t := range aTokens {
		if bTokens[t] {
			overlap++
		}
	}
	return float64(overlap) / float64(max(len(aTokens), len(bTokens)))
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, t := range tokenRe.FindAllString(s, -1) {
		set[t] = true
	}
	return set
}

// SimilarityScore is the 0-1 diagnostic similarity of a normalized response
// against the best-scoring alternate of the expected answer.
func SimilarityScore(userNorm, expected string) float64 {
	best := 0.0
	for _, alt := range ExtractAlternates(expected) {
		altNorm := Normalize(alt)
		if altNorm == "" {
			continue
		}
		best = math.Max(best, float64(Ratio(userNorm, altNorm))/100)
		best = math.Max(best, float64(TokenSortRatio(userNorm, altNorm))/100)
	}
	return best
}

// ParseNumericList splits a response like "18/15/12" or "12, 15, 18" into its
// sorted digit runs, or returns nil when the text is not a pure numeric list.
func ParseNumericList(text string) []string {
	if !numericList.MatchString(text) {
		return nil
	}
	nums := digitRuns.FindAllString(text, -1)
	sort.Strings(nums)
	return nums
}

// StripParentheticals removes every "(...)" group from the expected answer.
func StripParentheticals(expected string) string {
	return parenGroup.ReplaceAllString(expected, "")
}
