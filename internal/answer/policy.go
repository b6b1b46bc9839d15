package answer

import "strings"

// Stage identifies which deterministic comparison settled a response.
type Stage string

const (
	StageExact      Stage = "exact"
	StageNormalized Stage = "normalized"
	StageVariant    Stage = "variant"
	StageNone       Stage = "none"
)

// Decision is the deterministic matcher's three-way outcome.
type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionReject Decision = "reject"
	DecisionDefer  Decision = "defer_to_llm"
)

// Reason codes attached to deterministic decisions. They share the
// vocabulary enforced on judge verdicts.
const (
	ReasonExactMatch       = "exact_match"
	ReasonLastNameMatch    = "last_name_match"
	ReasonStrongFuzzyMatch = "strong_fuzzy_match"
	ReasonEmptyResponse    = "empty_response"
	ReasonUnderspecified   = "insufficient_specificity"
	ReasonNoMatch          = "no_match"
)

const (
	// StrictThreshold is the fuzzy acceptance floor for first-pass grading.
	StrictThreshold = 80
	// PermissiveThreshold is the higher floor the legacy appeal policy used,
	// since its other heuristics already widen acceptance.
	PermissiveThreshold = 88
)

// Policy is one versioned matching policy. Two named variants exist: Strict
// is the first-pass grading matcher; Permissive is the historical appeal
// matcher, which additionally accepts last-name-only responses for person
// clues and rejects single-word responses to multi-word answers. Both
// variants live here so the divergence stays visible in one place.
type Policy struct {
	Name                   string
	Threshold              int
	LastNameForPersonClues bool
	RejectUnderspecified   bool
}

func Strict() Policy {
	return Policy{Name: "strict", Threshold: StrictThreshold}
}

func Permissive() Policy {
	return Policy{
		Name:                   "permissive",
		Threshold:              PermissiveThreshold,
		LastNameForPersonClues: true,
		RejectUnderspecified:   true,
	}
}

// MatchResult is the deterministic matcher's verdict. Decision is final for
// accept/reject; defer_to_llm routes the response to the external judge.
type MatchResult struct {
	Correct    bool
	Stage      Stage
	Decision   Decision
	ReasonCode string
}

// Match classifies a raw response against the expected answer without side
// effects. Stages run in order: empty check, exact match, numeric-variant
// match, (permissive only) last-name and specificity heuristics, fuzzy
// similarity, defer.
func (p Policy) Match(clueText, userResponse, expected string) MatchResult {
	userNorm := Normalize(userResponse)
	if userNorm == "" {
		return MatchResult{Stage: StageNone, Decision: DecisionReject, ReasonCode: ReasonEmptyResponse}
	}

	alternates := ExtractAlternates(expected)
	for _, alt := range alternates {
		if userNorm == Normalize(alt) {
			return MatchResult{Correct: true, Stage: StageExact, Decision: DecisionAccept, ReasonCode: ReasonExactMatch}
		}
	}

	// Numeric lists compare as order-independent sets. The separators are
	// stripped by Normalize, so this stage reads the raw forms.
	if userNums := ParseNumericList(strings.TrimSpace(userResponse)); userNums != nil {
		for _, alt := range alternates {
			if altNums := ParseNumericList(strings.TrimSpace(alt)); altNums != nil && equalStrings(userNums, altNums) {
				return MatchResult{Correct: true, Stage: StageVariant, Decision: DecisionAccept, ReasonCode: ReasonExactMatch}
			}
		}
	}

	if p.LastNameForPersonClues && LooksLikePersonClue(clueText) {
		if userLast := SingleToken(userResponse); userLast != "" {
			for _, alt := range alternates {
				if last := ExpectedLastName(alt); last != "" && last == userLast {
					return MatchResult{Correct: true, Stage: StageNormalized, Decision: DecisionAccept, ReasonCode: ReasonLastNameMatch}
				}
			}
		}
	}

	if p.RejectUnderspecified {
		expectedNorm := Normalize(StripParentheticals(expected))
		if len(strings.Fields(userNorm)) == 1 && len(strings.Fields(expectedNorm)) > 1 {
			return MatchResult{Stage: StageNone, Decision: DecisionReject, ReasonCode: ReasonUnderspecified}
		}
	}

	best := 0
	for _, alt := range alternates {
		altNorm := Normalize(alt)
		best = max(best, Ratio(userNorm, altNorm))
		best = max(best, TokenSortRatio(userNorm, altNorm))
	}
	if best >= p.Threshold {
		return MatchResult{Correct: true, Stage: StageNormalized, Decision: DecisionAccept, ReasonCode: ReasonStrongFuzzyMatch}
	}

	return MatchResult{Stage: StageNone, Decision: DecisionDefer}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
