package judge

import (
	"fmt"
	"strings"
)

const systemPrompt = "You are a strict Jeopardy answer-appeal judge. " +
	"Decide if the user likely knew the same intended entity. " +
	"Return only valid JSON matching the schema."

const policyAndExamples = `Policy:
1) Last-name-only is usually acceptable for person clues.
2) Minor typos should be accepted only when they clearly indicate the same entity.
3) Deny when the response could plausibly indicate a different valid entity.
4) Subset-only responses for non-person entities should be denied.
5) Allow clear aliases and equivalent forms.
6) Be conservative when uncertain.

Examples:
- Expected: Warren Buffett | User: Buffet => Accept (minor_typo)
- Expected: Stephen Hawking | User: Hawkins => Accept (minor_typo)
- Expected: Marlon Brando | User: Brendan => Deny (no_match)`

// userPrompt renders the enumerated policy, worked examples and the four
// concrete fields of one request.
func userPrompt(req Request) string {
	justification := req.Justification
	if justification == "" {
		justification = "(none)"
	}
	return fmt.Sprintf("%s\n\nClue: %s\nExpected: %s\nUser response: %s\nUser appeal note: %s",
		policyAndExamples,
		req.ClueText,
		req.ExpectedResponse,
		req.UserResponse,
		justification,
	)
}

// TrimJustification normalizes an optional free-text justification: trims
// surrounding whitespace and truncates to MaxJustificationChars. The second
// return reports whether truncation occurred, so the caller can record the
// justification_truncated guardrail flag.
func TrimJustification(justification string) (string, bool) {
	trimmed := strings.TrimSpace(justification)
	if cut := truncateRunes(trimmed, MaxJustificationChars); cut != trimmed {
		return cut, true
	}
	return trimmed, false
}

// truncateRunes cuts s to at most n runes. Limits are character counts, and
// cutting on a byte index could split a multi-byte sequence.
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
