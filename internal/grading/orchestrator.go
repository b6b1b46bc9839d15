// Package grading composes the deterministic matcher and the external judge
// into one auditable verdict per submission: exactly one immutable
// grading_events row is written per attempt, under the caller's transaction.
package grading

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aditprab/jeopardy/internal/agentrun"
	"github.com/aditprab/jeopardy/internal/answer"
	"github.com/aditprab/jeopardy/internal/apperr"
	"github.com/aditprab/jeopardy/internal/judge"
	"github.com/aditprab/jeopardy/internal/storage/pg"
	"github.com/google/uuid"
)

// Decision sources. Fail-closed rejections keep SourceDeterministic even
// though the judge was invoked; downstream consumers rely on that contract.
const (
	SourceDeterministic = "deterministic"
	SourceLLM           = "llm"
)

const (
	finalCorrectLabel   = "correct"
	finalIncorrectLabel = "incorrect"

	runTypeInitialAnswerJudge = "initial_answer_judge"
)

// Input is one grading request. ChallengeDate (YYYY-MM-DD) and PlayerToken
// are optional context for the daily-challenge workflows.
type Input struct {
	ClueID           int
	ClueText         string
	ExpectedResponse string
	UserResponse     string
	ChallengeDate    string
	PlayerToken      string
}

// Result is the caller-facing verdict. Expected carries the original,
// non-normalized display form.
type Result struct {
	EventID    int64
	TraceID    string
	Correct    bool
	Expected   string
	LLMInvoked bool
	ReasonCode string
	Reason     string
}

// Orchestrator grades responses with an injected judge client and matching
// policy. It opens no transactions and keeps no per-request state.
type Orchestrator struct {
	judge  judge.Client
	policy answer.Policy
}

func NewOrchestrator(client judge.Client, policy answer.Policy) *Orchestrator {
	return &Orchestrator{judge: client, policy: policy}
}

// GradeAndRecord grades one submission and persists the grading event plus
// any judge run records through q. Deterministic accept/reject is final;
// deferred responses go to the judge, whose unavailability fails closed.
func (o *Orchestrator) GradeAndRecord(ctx context.Context, q pg.Querier, in Input) (*Result, error) {
	if in.ClueID <= 0 {
		return nil, apperr.NewValidation("clue_id is required")
	}
	if strings.TrimSpace(in.ExpectedResponse) == "" {
		return nil, apperr.NewValidation("expected_response is required")
	}

	totalTimer := agentrun.NewRunTimer()
	traceID := uuid.NewString()

	userNorm := answer.Normalize(in.UserResponse)
	expectedNorm := answer.Normalize(in.ExpectedResponse)

	// Diagnostics are computed unconditionally for audit and threshold
	// tuning, even when the decision never looks at them.
	var similarity, overlap float64
	if userNorm != "" {
		similarity = answer.SimilarityScore(userNorm, in.ExpectedResponse)
		overlap = answer.TokenOverlapScore(userNorm, expectedNorm)
	}

	detTimer := agentrun.NewRunTimer()
	match := o.policy.Match(in.ClueText, in.UserResponse, in.ExpectedResponse)
	detLatencyMS := detTimer.ElapsedMS()

	finalCorrect := match.Correct
	decisionSource := SourceDeterministic
	llmInvoked := false
	var runID *int64
	var llmConfidence *float64
	var llmReasonCode, llmReasonText *string
	var llmLatencyMS *int64

	if match.Decision == answer.DecisionDefer {
		llmInvoked = true
		llmTimer := agentrun.NewRunTimer()

		id, err := agentrun.CreateRun(ctx, q, agentrun.RunParams{
			TraceID:       traceID,
			RunType:       runTypeInitialAnswerJudge,
			AgentName:     judge.AgentName,
			AgentVersion:  judge.AgentVersion,
			PolicyVersion: judge.PolicyVersion,
			InputPayload: map[string]any{
				"clue_id":           in.ClueID,
				"user_response":     in.UserResponse,
				"expected_response": in.ExpectedResponse,
			},
		})
		if err != nil {
			return nil, err
		}
		runID = &id

		err = agentrun.LogEvent(ctx, q, id, "initial_answer_received", "info",
			"Initial answer sent to judge after deterministic defer.",
			map[string]any{"clue_id": in.ClueID})
		if err != nil {
			return nil, err
		}

		raw, failure := o.judge.Judge(ctx, judge.Request{
			ClueText:         in.ClueText,
			ExpectedResponse: in.ExpectedResponse,
			UserResponse:     in.UserResponse,
		})
		elapsed := llmTimer.ElapsedMS()
		llmLatencyMS = &elapsed

		if failure == nil {
			decision := judge.Sanitize(raw)
			decisionSource = SourceLLM
			finalCorrect = decision.FinalCorrect
			llmConfidence = &decision.Confidence
			llmReasonCode = &decision.ReasonCode
			llmReasonText = &decision.Reason

			if err := o.recordJudgeSuccess(ctx, q, id, decision, elapsed); err != nil {
				return nil, err
			}
		} else {
			// Fail closed: an unavailable judge can never mark an answer
			// correct, and the decision source stays deterministic.
			decisionSource = SourceDeterministic
			finalCorrect = false
			zero := 0.0
			llmConfidence = &zero
			code := judge.ReasonLLMUnavailable
			llmReasonCode = &code
			text := fmt.Sprintf("LLM judge failed (%s); auto-rejected by caller policy.", failure.Kind)
			llmReasonText = &text

			slog.Warn("judge unavailable, failing closed",
				"trace_id", traceID, "kind", failure.Kind)
			if err := o.recordJudgeFailure(ctx, q, id, failure, code, text, elapsed); err != nil {
				return nil, err
			}
		}
	}

	finalDecision := finalIncorrectLabel
	if finalCorrect {
		finalDecision = finalCorrectLabel
	}

	var eventID int64
	err := q.QueryRow(ctx, `
		INSERT INTO grading_events (
			trace_id, challenge_date, player_token, clue_id,
			user_response_raw, expected_response_snapshot,
			user_response_normalized, expected_response_normalized,
			deterministic_stage, deterministic_decision,
			similarity_score, token_overlap_score,
			has_parenthetical_or, looks_like_person_name,
			llm_invoked, llm_run_id, llm_confidence,
			llm_reason_code, llm_reason_text,
			final_decision, decision_source,
			latency_ms_total, latency_ms_deterministic, latency_ms_llm
		)
		VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24
		)
		RETURNING id`,
		traceID,
		nullIfEmpty(in.ChallengeDate),
		nullIfEmpty(in.PlayerToken),
		in.ClueID,
		in.UserResponse,
		in.ExpectedResponse,
		userNorm,
		expectedNorm,
		string(match.Stage),
		string(match.Decision),
		similarity,
		overlap,
		answer.HasParentheticalOr(in.ExpectedResponse),
		answer.LooksLikePersonName(in.ExpectedResponse),
		llmInvoked,
		runID,
		llmConfidence,
		llmReasonCode,
		llmReasonText,
		finalDecision,
		decisionSource,
		totalTimer.ElapsedMS(),
		detLatencyMS,
		llmLatencyMS,
	).Scan(&eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert grading event: %w", err)
	}

	result := &Result{
		EventID:    eventID,
		TraceID:    traceID,
		Correct:    finalCorrect,
		Expected:   in.ExpectedResponse,
		LLMInvoked: llmInvoked,
	}
	if llmReasonCode != nil {
		result.ReasonCode = *llmReasonCode
	}
	if llmReasonText != nil {
		result.Reason = *llmReasonText
	}
	return result, nil
}

func (o *Orchestrator) recordJudgeSuccess(ctx context.Context, q pg.Querier, runID int64, decision judge.Decision, latencyMS int64) error {
	if err := agentrun.SetRunModel(ctx, q, runID, decision.Model, decision.PromptVersion); err != nil {
		return err
	}
	summary := map[string]any{
		"final_correct": decision.FinalCorrect,
		"reason_code":   decision.ReasonCode,
		"reason":        decision.Reason,
		"confidence":    decision.Confidence,
	}
	if err := agentrun.AddArtifact(ctx, q, runID, "decision", summary); err != nil {
		return err
	}
	if err := agentrun.AddArtifact(ctx, q, runID, "model_output", decision.RawOutput); err != nil {
		return err
	}
	return agentrun.FinishRun(ctx, q, runID, agentrun.FinishParams{
		Status:           agentrun.StatusCompleted,
		OutputPayload:    summary,
		GuardrailFlags:   decision.GuardrailFlags,
		PromptTokens:     decision.Usage.PromptTokens,
		CompletionTokens: decision.Usage.CompletionTokens,
		TotalTokens:      decision.Usage.TotalTokens,
		LatencyMS:        latencyMS,
	})
}

func (o *Orchestrator) recordJudgeFailure(ctx context.Context, q pg.Querier, runID int64, failure *judge.Failure, reasonCode, reasonText string, latencyMS int64) error {
	err := agentrun.LogEvent(ctx, q, runID, "initial_answer_llm_failed", "warn",
		"LLM judge failed; caller applied fail-closed rejection.",
		map[string]any{
			"error_type":    failure.Kind,
			"error_message": failure.Message,
		})
	if err != nil {
		return err
	}
	return agentrun.FinishRun(ctx, q, runID, agentrun.FinishParams{
		Status: agentrun.StatusFailed,
		OutputPayload: map[string]any{
			"final_correct": false,
			"reason_code":   reasonCode,
			"reason":        reasonText,
		},
		GuardrailFlags: []string{judge.FlagLLMUnavailable, failure.Kind},
		ErrorMessage:   failure.Message,
		LatencyMS:      latencyMS,
	})
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
