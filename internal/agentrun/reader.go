package agentrun

import (
	"context"
	"fmt"
	"time"

	"github.com/aditprab/jeopardy/pkg/pagination"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RunSummary is the read model for inspecting recorded judge runs.
type RunSummary struct {
	ID             int64      `json:"id"`
	TraceID        string     `json:"trace_id"`
	RunType        string     `json:"run_type"`
	AgentName      string     `json:"agent_name"`
	AgentVersion   string     `json:"agent_version"`
	PolicyVersion  string     `json:"policy_version"`
	Status         string     `json:"status"`
	Model          *string    `json:"model,omitempty"`
	PromptVersion  *string    `json:"prompt_version,omitempty"`
	GuardrailFlags []string   `json:"guardrail_flags"`
	ErrorMessage   *string    `json:"error_message,omitempty"`
	TotalTokens    *int64     `json:"total_tokens,omitempty"`
	LatencyMS      *int64     `json:"latency_ms,omitempty"`
	StartedAt      time.Time  `json:"started_at"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
}

// ListRuns returns recorded judge runs, newest first. Read-only, so it goes
// straight to the pool rather than a transaction.
func ListRuns(ctx context.Context, conn *pgxpool.Pool, req pagination.OffsetRequest) (*pagination.OffsetResult[RunSummary], error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var total int64
	if err := conn.QueryRow(ctx, "SELECT count(*) FROM judge_runs").Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count judge runs: %w", err)
	}

	rows, err := conn.Query(ctx, `
		SELECT id, trace_id, run_type, agent_name, agent_version, policy_version,
		       status, model, prompt_version, guardrail_flags, error_message,
		       total_tokens, latency_ms, started_at, finished_at
		  FROM judge_runs
		 ORDER BY started_at DESC, id DESC
		 LIMIT $1 OFFSET $2`,
		req.Size, (req.Page-1)*req.Size,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query judge runs: %w", err)
	}
	defer rows.Close()

	items := make([]RunSummary, 0, req.Size)
	for rows.Next() {
		var s RunSummary
		err := rows.Scan(
			&s.ID, &s.TraceID, &s.RunType, &s.AgentName, &s.AgentVersion,
			&s.PolicyVersion, &s.Status, &s.Model, &s.PromptVersion,
			&s.GuardrailFlags, &s.ErrorMessage, &s.TotalTokens, &s.LatencyMS,
			&s.StartedAt, &s.FinishedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan judge run: %w", err)
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read judge runs: %w", err)
	}

	return pagination.NewOffsetResult(items, total, req.Page, req.Size), nil
}
