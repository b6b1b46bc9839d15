// Package appeal retains the manual-appeal judging engine from the previous
// generation of the grading system. Its HTTP surface is withdrawn; the engine
// stays so historically recorded appeal decisions remain reproducible.
package appeal

import (
	"context"
	"log/slog"

	"github.com/aditprab/jeopardy/internal/answer"
	"github.com/aditprab/jeopardy/internal/judge"
)

// ModelDeterministic marks decisions that never reached a language model.
const ModelDeterministic = "deterministic_fallback"

// Input is one appeal. FuzzyCorrect reports whether the original grading
// already accepted the response.
type Input struct {
	ClueText      string
	Expected      string
	UserResponse  string
	FuzzyCorrect  bool
	Justification string
}

// Engine judges appeals with the permissive deterministic policy first and
// the external judge only for responses the policy cannot settle.
type Engine struct {
	judge  judge.Client
	policy answer.Policy
}

func NewEngine(client judge.Client) *Engine {
	return &Engine{judge: client, policy: answer.Permissive()}
}

// Judge resolves one appeal. Deterministic outcomes are final; a deferred
// response goes to the external judge under the usual guardrails, and a judge
// failure falls back to the deterministic verdict tagged llm_fallback plus
// the failure kind. It never errors: every appeal gets a decision.
func (e *Engine) Judge(ctx context.Context, in Input) judge.Decision {
	var flags []string
	justification, truncated := judge.TrimJustification(in.Justification)
	if truncated {
		flags = append(flags, judge.FlagJustificationTruncated)
	}

	if in.FuzzyCorrect {
		return e.deterministic(judge.ReasonAlreadyCorrect,
			"Original grading already marked this response correct.",
			true, 0.99, append(flags, judge.FlagAlreadyCorrect))
	}

	match := e.policy.Match(in.ClueText, in.UserResponse, in.Expected)
	if match.Decision != answer.DecisionDefer {
		return e.fromMatch(match, flags)
	}

	raw, failure := e.judge.Judge(ctx, judge.Request{
		ClueText:         in.ClueText,
		ExpectedResponse: in.Expected,
		UserResponse:     in.UserResponse,
		Justification:    justification,
	})
	if failure != nil {
		slog.Warn("appeal judge unavailable, deterministic fallback",
			"kind", failure.Kind)
		fallback := e.deterministic(judge.ReasonNoMatch,
			"Appeal denied: response does not meet matching policy.",
			false, 0.94, append(flags, judge.FlagLLMFallback, failure.Kind))
		fallback.RawOutput = map[string]any{
			"source":            "deterministic",
			"llm_error_type":    failure.Kind,
			"llm_error_message": failure.Message,
		}
		return fallback
	}

	decision := judge.Sanitize(raw)
	decision.GuardrailFlags = append(flags, decision.GuardrailFlags...)
	return decision
}

// fromMatch translates a conclusive deterministic verdict into an appeal
// decision, keeping the confidence levels recorded by the historical engine.
func (e *Engine) fromMatch(match answer.MatchResult, flags []string) judge.Decision {
	switch match.ReasonCode {
	case answer.ReasonEmptyResponse:
		return e.deterministic(judge.ReasonEmptyResponse,
			"Blank responses are not eligible for appeal.",
			false, 0.99, flags)
	case answer.ReasonExactMatch:
		return e.deterministic(judge.ReasonExactMatch,
			"Appeal accepted: response matches an expected answer form.",
			true, 0.99, flags)
	case answer.ReasonLastNameMatch:
		return e.deterministic(judge.ReasonLastNameMatch,
			"Appeal accepted: last-name-only response is accepted for person clues.",
			true, 0.91, flags)
	case answer.ReasonUnderspecified:
		return e.deterministic(judge.ReasonUnderspecified,
			"Appeal denied: response is less specific than the expected answer.",
			false, 0.95, flags)
	case answer.ReasonStrongFuzzyMatch:
		return e.deterministic(judge.ReasonStrongFuzzyMatch,
			"Appeal accepted based on strong textual similarity.",
			true, 0.85, flags)
	default:
		return e.deterministic(judge.ReasonNoMatch,
			"Appeal denied: response does not meet matching policy.",
			false, 0.94, flags)
	}
}

func (e *Engine) deterministic(reasonCode, reason string, correct bool, confidence float64, flags []string) judge.Decision {
	return judge.Decision{
		Overturn:       correct && reasonCode != judge.ReasonAlreadyCorrect,
		FinalCorrect:   correct,
		ReasonCode:     reasonCode,
		Reason:         reason,
		Confidence:     confidence,
		GuardrailFlags: flags,
		Model:          ModelDeterministic,
		PromptVersion:  judge.PromptVersion,
		RawOutput:      map[string]any{"source": "deterministic"},
	}
}
