package appeal

import (
	"context"
	"strings"
	"testing"

	"github.com/aditprab/jeopardy/internal/judge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubJudge struct {
	raw     *judge.RawResult
	failure *judge.Failure
	calls   int
}

func (s *stubJudge) Judge(ctx context.Context, req judge.Request) (*judge.RawResult, *judge.Failure) {
	s.calls++
	return s.raw, s.failure
}

func TestJudgeAlreadyCorrectShortCircuits(t *testing.T) {
	client := &stubJudge{}
	e := NewEngine(client)

	d := e.Judge(context.Background(), Input{
		ClueText:     "This author wrote Huckleberry Finn",
		Expected:     "Mark Twain",
		UserResponse: "Twain",
		FuzzyCorrect: true,
	})

	assert.True(t, d.FinalCorrect)
	assert.False(t, d.Overturn)
	assert.Equal(t, judge.ReasonAlreadyCorrect, d.ReasonCode)
	assert.InDelta(t, 0.99, d.Confidence, 1e-9)
	assert.Contains(t, d.GuardrailFlags, judge.FlagAlreadyCorrect)
	assert.Equal(t, ModelDeterministic, d.Model)
	assert.Equal(t, 0, client.calls)
}

func TestJudgeDeterministicVerdicts(t *testing.T) {
	tests := []struct {
		name       string
		in         Input
		correct    bool
		reasonCode string
		confidence float64
	}{
		{
			name: "blank response",
			in: Input{
				ClueText:     "This author wrote Huckleberry Finn",
				Expected:     "Mark Twain",
				UserResponse: "   ",
			},
			correct:    false,
			reasonCode: judge.ReasonEmptyResponse,
			confidence: 0.99,
		},
		{
			name: "exact match overturns",
			in: Input{
				ClueText:     "This author wrote Huckleberry Finn",
				Expected:     "Mark Twain",
				UserResponse: "who is mark twain?",
			},
			correct:    true,
			reasonCode: judge.ReasonExactMatch,
			confidence: 0.99,
		},
		{
			name: "last name for person clue",
			in: Input{
				ClueText:     "This author wrote Huckleberry Finn",
				Expected:     "Mark Twain",
				UserResponse: "Twain",
			},
			correct:    true,
			reasonCode: judge.ReasonLastNameMatch,
			confidence: 0.91,
		},
		{
			name: "single word for multi-word non-person answer",
			in: Input{
				ClueText:     "This mountain range separates Europe from Asia",
				Expected:     "the Ural Mountains",
				UserResponse: "Mountains",
			},
			correct:    false,
			reasonCode: judge.ReasonUnderspecified,
			confidence: 0.95,
		},
		{
			name: "strong fuzzy match",
			in: Input{
				ClueText:     "This city hosted the 1964 Summer Olympics",
				Expected:     "Tokyo Japan",
				UserResponse: "Tokyo Japna",
			},
			correct:    true,
			reasonCode: judge.ReasonStrongFuzzyMatch,
			confidence: 0.85,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &stubJudge{}
			d := NewEngine(client).Judge(context.Background(), tt.in)

			assert.Equal(t, tt.correct, d.FinalCorrect)
			assert.Equal(t, d.FinalCorrect, d.Overturn)
			assert.Equal(t, tt.reasonCode, d.ReasonCode)
			assert.InDelta(t, tt.confidence, d.Confidence, 1e-9)
			assert.Equal(t, ModelDeterministic, d.Model)
			assert.Equal(t, 0, client.calls, "deterministic verdicts must not call the judge")
		})
	}
}

func TestJudgeDefersUnsettledResponses(t *testing.T) {
	client := &stubJudge{
		raw: &judge.RawResult{
			Payload: map[string]any{
				"overturn":               true,
				"final_correct":          true,
				"reason_code":            "semantic_equivalence",
				"reason":                 "Samuel Clemens is Mark Twain's legal name.",
				"confidence":             0.96,
				"same_entity_likelihood": 0.97,
				"match_type":             "alias",
			},
			Model: "gpt-4.1-mini",
		},
	}
	e := NewEngine(client)

	d := e.Judge(context.Background(), Input{
		ClueText:     "This author wrote Huckleberry Finn",
		Expected:     "Mark Twain",
		UserResponse: "Samuel Clemens",
	})

	assert.Equal(t, 1, client.calls)
	assert.True(t, d.Overturn)
	assert.True(t, d.FinalCorrect)
	assert.Equal(t, judge.ReasonSemanticEquivalence, d.ReasonCode)
	assert.Equal(t, "gpt-4.1-mini", d.Model)
}

func TestJudgeFailureFallsBackDeterministically(t *testing.T) {
	client := &stubJudge{
		failure: &judge.Failure{Kind: judge.FailureRequest, Message: "connection refused"},
	}
	e := NewEngine(client)

	d := e.Judge(context.Background(), Input{
		ClueText:     "This playwright wrote Death of a Salesman",
		Expected:     "Arthur Miller",
		UserResponse: "Tennessee Williams",
	})

	assert.Equal(t, 1, client.calls)
	assert.False(t, d.Overturn)
	assert.False(t, d.FinalCorrect)
	assert.Equal(t, judge.ReasonNoMatch, d.ReasonCode)
	assert.InDelta(t, 0.94, d.Confidence, 1e-9)
	assert.Equal(t, ModelDeterministic, d.Model)
	assert.Contains(t, d.GuardrailFlags, judge.FlagLLMFallback)
	assert.Contains(t, d.GuardrailFlags, judge.FailureRequest)
	assert.Equal(t, "deterministic", d.RawOutput["source"])
	assert.Equal(t, judge.FailureRequest, d.RawOutput["llm_error_type"])
}

func TestJudgeTruncatesLongJustifications(t *testing.T) {
	client := &stubJudge{
		raw: &judge.RawResult{
			Payload: map[string]any{
				"overturn":               false,
				"final_correct":          false,
				"reason_code":            "no_match",
				"reason":                 "Different entity.",
				"confidence":             0.9,
				"same_entity_likelihood": 0.2,
				"match_type":             "no_match",
			},
			Model: "gpt-4.1-mini",
		},
	}
	e := NewEngine(client)

	d := e.Judge(context.Background(), Input{
		ClueText:      "This playwright wrote Death of a Salesman",
		Expected:      "Arthur Miller",
		UserResponse:  "Tennessee Williams",
		Justification: strings.Repeat("x", judge.MaxJustificationChars+50),
	})

	require.NotEmpty(t, d.GuardrailFlags)
	assert.Equal(t, judge.FlagJustificationTruncated, d.GuardrailFlags[0])
}
