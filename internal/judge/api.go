package judge

import "context"

const (
	AgentName     = "appeal_judge"
	AgentVersion  = "v4"
	PolicyVersion = "appeal_policy_v4"
	PromptVersion = "appeal_prompt_v2"

	// ConfidenceThreshold is the minimum judge confidence for an acceptance
	// to survive guardrails.
	ConfidenceThreshold = 0.85
	// SameEntityThreshold is the minimum same-entity likelihood for an
	// acceptance to survive guardrails.
	SameEntityThreshold = 0.90

	MaxJustificationChars = 280
	MaxReasonChars        = 600
)

// Reason codes the judge may emit. Accepted decisions must carry a code from
// the accept set, rejected decisions from the reject set; anything else is
// remapped by the guardrails.
const (
	ReasonAlreadyCorrect      = "already_correct"
	ReasonEmptyResponse       = "empty_response"
	ReasonExactMatch          = "exact_match"
	ReasonLastNameMatch       = "last_name_match"
	ReasonMinorTypoMatch      = "minor_typo_match"
	ReasonUnderspecified      = "insufficient_specificity"
	ReasonStrongFuzzyMatch    = "strong_fuzzy_match"
	ReasonNoMatch             = "no_match"
	ReasonSemanticEquivalence = "semantic_equivalence"
	ReasonLLMUnavailable      = "llm_unavailable_auto_reject"
)

// Guardrail flags recorded on judge runs to explain corrections applied to
// the raw model output.
const (
	FlagAcceptFlagConsistency  = "normalized_accept_flag_consistency"
	FlagLowConfidence          = "low_confidence_no_overturn"
	FlagLowSameEntity          = "low_same_entity_no_overturn"
	FlagAcceptReasonCode       = "normalized_accept_reason_code"
	FlagRejectReasonCode       = "normalized_reject_reason_code"
	FlagJustificationTruncated = "justification_truncated"
	FlagLLMFallback            = "llm_fallback"
	FlagAlreadyCorrect         = "already_correct_attempt"
	FlagLLMUnavailable         = "llm_unavailable_auto_reject"
)

// Failure kinds reported by the client. All collapse into one opaque
// judge-unavailable condition; the caller chooses the policy.
const (
	FailureMissingCredential = "missing_credential"
	FailureRequest           = "request_failed"
	FailureMalformedOutput   = "malformed_output"
)

var acceptReasonCodes = map[string]bool{
	ReasonExactMatch:          true,
	ReasonLastNameMatch:       true,
	ReasonMinorTypoMatch:      true,
	ReasonStrongFuzzyMatch:    true,
	ReasonSemanticEquivalence: true,
}

var rejectReasonCodes = map[string]bool{
	ReasonEmptyResponse:  true,
	ReasonUnderspecified: true,
	ReasonNoMatch:        true,
}

var allowedReasonCodes = map[string]bool{
	ReasonAlreadyCorrect:      true,
	ReasonEmptyResponse:       true,
	ReasonExactMatch:          true,
	ReasonLastNameMatch:       true,
	ReasonMinorTypoMatch:      true,
	ReasonUnderspecified:      true,
	ReasonStrongFuzzyMatch:    true,
	ReasonNoMatch:             true,
	ReasonSemanticEquivalence: true,
}

var allowedMatchTypes = map[string]bool{
	"exact":      true,
	"alias":      true,
	"last_name":  true,
	"minor_typo": true,
	"no_match":   true,
}

// Request carries the four concrete fields the judge sees. Justification is
// expected to be pre-trimmed with TrimJustification.
type Request struct {
	ClueText         string
	ExpectedResponse string
	UserResponse     string
	Justification    string
}

// RawResult is the judge's parsed but unsanitized output. It must pass
// through Sanitize before it can affect game state.
type RawResult struct {
	Payload    map[string]any
	Model      string
	ResponseID string
	Usage      Usage
}

// Usage is the token accounting of one model call.
type Usage struct {
	PromptTokens     int64
	CompletionTokens int64
	TotalTokens      int64
}

// Failure is the single opaque judge-unavailable condition: missing
// credential, transport error, timeout and malformed output all surface as
// this, never as a Go error.
type Failure struct {
	Kind    string
	Message string
}

// Decision is the sanitized outcome of one judge consultation. It is an
// ephemeral value: its fields are copied into grading_events and judge_runs
// rows but the value itself is never persisted.
type Decision struct {
	Overturn       bool
	FinalCorrect   bool
	ReasonCode     string
	Reason         string
	Confidence     float64
	GuardrailFlags []string
	Model          string
	PromptVersion  string
	Usage          Usage
	RawOutput      map[string]any
}

// Client is the judge I/O boundary. Implementations perform no policy
// interpretation and apply no guardrails.
type Client interface {
	Judge(ctx context.Context, req Request) (*RawResult, *Failure)
}

// AcceptReasonCode reports whether code belongs to the accept vocabulary.
func AcceptReasonCode(code string) bool {
	return acceptReasonCodes[code]
}

// RejectReasonCode reports whether code belongs to the reject vocabulary.
func RejectReasonCode(code string) bool {
	return rejectReasonCodes[code]
}
