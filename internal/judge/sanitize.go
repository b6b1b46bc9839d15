package judge

import (
	"log/slog"
	"strconv"
)

const (
	deniedReason   = "Appeal denied: response does not meet matching policy."
	acceptedReason = "Appeal accepted: response matches the same intended entity."
)

// Sanitize turns a raw judge payload into a Decision that is safe to apply
// to game state. Guardrails are fail-conservative: any ambiguity about
// confidence drives toward rejection, never acceptance. After Sanitize,
// FinalCorrect == Overturn always holds and ReasonCode is drawn from the
// accept set when accepting and the reject set when rejecting.
func Sanitize(raw *RawResult) Decision {
	payload := raw.Payload

	confidence := coerceUnitInterval(payload["confidence"])
	sameEntity := coerceUnitInterval(payload["same_entity_likelihood"])

	reasonCode, _ := payload["reason_code"].(string)
	if !allowedReasonCodes[reasonCode] {
		reasonCode = ReasonNoMatch
	}
	matchType, _ := payload["match_type"].(string)
	if !allowedMatchTypes[matchType] {
		matchType = "no_match"
	}

	reason := "Appeal judged."
	if text, ok := payload["reason"].(string); ok && text != "" {
		reason = text
	}
	reason = truncateRunes(reason, MaxReasonChars)

	var flags []string
	rawOverturn, _ := payload["overturn"].(bool)
	rawFinalCorrect, _ := payload["final_correct"].(bool)

	// Either flag saying "accept" makes this a positive candidate before
	// guardrails; disagreement between the two is recorded.
	overturn := rawOverturn || rawFinalCorrect
	if overturn && rawOverturn != rawFinalCorrect {
		flags = append(flags, FlagAcceptFlagConsistency)
	}

	if overturn && confidence < ConfidenceThreshold {
		flags = append(flags, FlagLowConfidence)
		overturn = false
		reasonCode = ReasonNoMatch
		slog.Warn("judge guardrail applied", "flag", FlagLowConfidence, "confidence", confidence)
	}
	if overturn && sameEntity < SameEntityThreshold {
		flags = append(flags, FlagLowSameEntity)
		overturn = false
		reasonCode = ReasonNoMatch
		slog.Warn("judge guardrail applied", "flag", FlagLowSameEntity, "same_entity_likelihood", sameEntity)
	}

	// Storage consistency: an overturn is a correct answer and vice versa.
	finalCorrect := overturn
	if overturn {
		if !acceptReasonCodes[reasonCode] {
			reasonCode = acceptCodeForMatchType(matchType)
			flags = append(flags, FlagAcceptReasonCode)
		}
	} else if !rejectReasonCodes[reasonCode] {
		reasonCode = ReasonNoMatch
		flags = append(flags, FlagRejectReasonCode)
	}

	if canonical, rewritten := RewriteReason(flags); rewritten {
		reason = canonical
	}

	return Decision{
		Overturn:       overturn,
		FinalCorrect:   finalCorrect,
		ReasonCode:     reasonCode,
		Reason:         reason,
		Confidence:     confidence,
		GuardrailFlags: flags,
		Model:          raw.Model,
		PromptVersion:  PromptVersion,
		Usage:          raw.Usage,
		RawOutput: map[string]any{
			"provider":               "openai",
			"response_id":            raw.ResponseID,
			"parsed":                 payload,
			"match_type":             matchType,
			"same_entity_likelihood": sameEntity,
		},
	}
}

// RewriteReason maps the corrective guardrail flags to a canonical reason
// sentence, so a model rationale can never contradict the enforced outcome.
// It is a pure function of the flag set.
func RewriteReason(flags []string) (string, bool) {
	set := make(map[string]bool, len(flags))
	for _, f := range flags {
		set[f] = true
	}
	switch {
	case set[FlagLowConfidence] || set[FlagLowSameEntity] || set[FlagRejectReasonCode]:
		return deniedReason, true
	case set[FlagAcceptReasonCode]:
		return acceptedReason, true
	}
	return "", false
}

func acceptCodeForMatchType(matchType string) string {
	switch matchType {
	case "exact":
		return ReasonExactMatch
	case "alias":
		return ReasonSemanticEquivalence
	case "last_name":
		return ReasonLastNameMatch
	case "minor_typo":
		return ReasonMinorTypoMatch
	default:
		return ReasonSemanticEquivalence
	}
}

// coerceUnitInterval clamps a payload number into [0,1], accepting numeric
// strings and defaulting to 0.5 for anything unparseable.
func coerceUnitInterval(value any) float64 {
	var val float64
	switch v := value.(type) {
	case float64:
		val = v
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0.5
		}
		val = parsed
	default:
		return 0.5
	}
	if val < 0 {
		return 0
	}
	if val > 1 {
		return 1
	}
	return val
}
