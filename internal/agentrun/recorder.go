// Package agentrun records the lifecycle of external-judge invocations:
// one judge_runs row per invocation, with ordered events and structured
// artifacts attached for audit and replay. Every write rides the caller's
// transaction.
package agentrun

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aditprab/jeopardy/internal/storage/pg"
)

// Run states. A run is terminal once completed or failed.
const (
	StatusStarted   = "started"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// RunParams describes a new judge run in the started state.
type RunParams struct {
	TraceID       string
	RunType       string
	AgentName     string
	AgentVersion  string
	PolicyVersion string
	Model         string
	PromptVersion string
	InputPayload  map[string]any
}

// CreateRun inserts a judge_runs row in the started state and returns its id.
func CreateRun(ctx context.Context, q pg.Querier, p RunParams) (int64, error) {
	payload, err := json.Marshal(p.InputPayload)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal run input payload: %w", err)
	}

	var id int64
	err = q.QueryRow(ctx, `
		INSERT INTO judge_runs (
			trace_id, run_type, agent_name, agent_version, policy_version,
			status, model, prompt_version, input_payload
		)
		VALUES ($1, $2, $3, $4, $5, 'started', $6, $7, $8)
		RETURNING id`,
		p.TraceID,
		p.RunType,
		p.AgentName,
		p.AgentVersion,
		p.PolicyVersion,
		nullIfEmpty(p.Model),
		nullIfEmpty(p.PromptVersion),
		payload,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert judge run: %w", err)
	}
	return id, nil
}

// SetRunModel fills in the model identity once the judge call resolved it.
func SetRunModel(ctx context.Context, q pg.Querier, runID int64, model, promptVersion string) error {
	_, err := q.Exec(ctx,
		`UPDATE judge_runs SET model = $1, prompt_version = $2 WHERE id = $3`,
		model, promptVersion, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to update judge run model: %w", err)
	}
	return nil
}

// LogEvent appends one diagnostic event to a run. Events are append-only and
// never read back into decisions.
func LogEvent(ctx context.Context, q pg.Querier, runID int64, eventType, level, message string, payload map[string]any) error {
	if payload == nil {
		payload = map[string]any{}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	_, err = q.Exec(ctx, `
		INSERT INTO judge_run_events (judge_run_id, event_type, level, message, payload)
		VALUES ($1, $2, $3, $4, $5)`,
		runID, eventType, level, message, raw,
	)
	if err != nil {
		return fmt.Errorf("failed to insert judge run event: %w", err)
	}
	return nil
}

// AddArtifact attaches a structured payload to a run, preserved verbatim for
// replay.
func AddArtifact(ctx context.Context, q pg.Querier, runID int64, artifactType string, content any) error {
	raw, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to marshal artifact content: %w", err)
	}

	_, err = q.Exec(ctx, `
		INSERT INTO judge_run_artifacts (judge_run_id, artifact_type, content)
		VALUES ($1, $2, $3)`,
		runID, artifactType, raw,
	)
	if err != nil {
		return fmt.Errorf("failed to insert judge run artifact: %w", err)
	}
	return nil
}

// FinishParams closes out a run with its terminal state.
type FinishParams struct {
	Status           string
	OutputPayload    map[string]any
	GuardrailFlags   []string
	ErrorMessage     string
	PromptTokens     int64
	CompletionTokens int64
	TotalTokens      int64
	LatencyMS        int64
}

// FinishRun marks a run terminal and records its output, guardrail flags,
// token usage and latency.
func FinishRun(ctx context.Context, q pg.Querier, runID int64, p FinishParams) error {
	var output []byte
	if p.OutputPayload != nil {
		raw, err := json.Marshal(p.OutputPayload)
		if err != nil {
			return fmt.Errorf("failed to marshal run output payload: %w", err)
		}
		output = raw
	}
	flags := p.GuardrailFlags
	if flags == nil {
		flags = []string{}
	}
	rawFlags, err := json.Marshal(flags)
	if err != nil {
		return fmt.Errorf("failed to marshal guardrail flags: %w", err)
	}

	_, err = q.Exec(ctx, `
		UPDATE judge_runs
		   SET status = $1,
		       output_payload = $2,
		       guardrail_flags = $3,
		       error_message = $4,
		       prompt_tokens = $5,
		       completion_tokens = $6,
		       total_tokens = $7,
		       latency_ms = $8,
		       finished_at = now()
		 WHERE id = $9`,
		p.Status,
		output,
		rawFlags,
		nullIfEmpty(p.ErrorMessage),
		p.PromptTokens,
		p.CompletionTokens,
		p.TotalTokens,
		p.LatencyMS,
		runID,
	)
	if err != nil {
		return fmt.Errorf("failed to finish judge run: %w", err)
	}
	return nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
