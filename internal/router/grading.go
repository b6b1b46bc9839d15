package router

import (
	"net/http"

	"github.com/aditprab/jeopardy/internal/agentrun"
	"github.com/aditprab/jeopardy/internal/answer"
	"github.com/aditprab/jeopardy/internal/apperr"
	"github.com/aditprab/jeopardy/internal/grading"
	"github.com/aditprab/jeopardy/internal/storage/pg"
	"github.com/aditprab/jeopardy/pkg/pagination"
	"github.com/labstack/echo/v4"
)

// GradingRouter binds the grading endpoints. Each grade request runs under
// one transaction so the grading event and any judge run records commit or
// roll back together.
type GradingRouter struct {
	e            *echo.Echo
	pool         *pg.ConnectionPool
	orchestrator *grading.Orchestrator
	checkPolicy  answer.Policy
}

func NewGradingRouter(e *echo.Echo, pool *pg.ConnectionPool, orchestrator *grading.Orchestrator, checkPolicy answer.Policy) *GradingRouter {
	return &GradingRouter{
		e:            e,
		pool:         pool,
		orchestrator: orchestrator,
		checkPolicy:  checkPolicy,
	}
}

func (r *GradingRouter) Bind() {
	r.e.POST("/api/grade", r.gradeHandler)
	r.e.POST("/api/answer", r.answerHandler)
	r.e.POST("/api/appeal", r.appealHandler)
	r.e.GET("/api/judge-runs", r.judgeRunsHandler)
}

type gradeRequest struct {
	ClueID           int    `json:"clue_id"`
	ClueText         string `json:"clue_text"`
	ExpectedResponse string `json:"expected_response"`
	UserResponse     string `json:"user_response"`
	ChallengeDate    string `json:"challenge_date,omitempty"`
	PlayerToken      string `json:"player_token,omitempty"`
}

type gradeResponse struct {
	EventID    int64  `json:"event_id"`
	TraceID    string `json:"trace_id"`
	Correct    bool   `json:"correct"`
	Expected   string `json:"expected"`
	LLMInvoked bool   `json:"llm_invoked"`
	ReasonCode string `json:"reason_code,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

func (r *GradingRouter) gradeHandler(c echo.Context) error {
	var req gradeRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}

	ctx := c.Request().Context()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	result, err := r.orchestrator.GradeAndRecord(ctx, tx, grading.Input{
		ClueID:           req.ClueID,
		ClueText:         req.ClueText,
		ExpectedResponse: req.ExpectedResponse,
		UserResponse:     req.UserResponse,
		ChallengeDate:    req.ChallengeDate,
		PlayerToken:      req.PlayerToken,
	})
	if err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, gradeResponse{
		EventID:    result.EventID,
		TraceID:    result.TraceID,
		Correct:    result.Correct,
		Expected:   result.Expected,
		LLMInvoked: result.LLMInvoked,
		ReasonCode: result.ReasonCode,
		Reason:     result.Reason,
	})
}

type answerRequest struct {
	ClueID           int    `json:"clue_id"`
	ExpectedResponse string `json:"expected_response"`
	UserResponse     string `json:"user_response"`
}

type answerResponse struct {
	Correct   bool   `json:"correct"`
	Expected  string `json:"expected"`
	AttemptID int64  `json:"attempt_id"`
}

// answerHandler is the plain fuzzy check without judge escalation. Attempts
// are recorded so historical appeals stay auditable.
func (r *GradingRouter) answerHandler(c echo.Context) error {
	var req answerRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}
	if req.ClueID <= 0 {
		return apperr.NewValidation("clue_id is required")
	}
	if req.ExpectedResponse == "" {
		return apperr.NewValidation("expected_response is required")
	}

	correct, expected := answer.CheckAnswer(req.UserResponse, req.ExpectedResponse, r.checkPolicy.Threshold)

	ctx := c.Request().Context()
	var attemptID int64
	err := r.pool.GetConn().QueryRow(ctx, `
		INSERT INTO answer_attempts (clue_id, user_response, expected_response_snapshot, fuzzy_correct)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		req.ClueID, req.UserResponse, expected, correct,
	).Scan(&attemptID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, answerResponse{
		Correct:   correct,
		Expected:  expected,
		AttemptID: attemptID,
	})
}

// judgeRunsHandler lists recorded judge runs for audit, newest first.
func (r *GradingRouter) judgeRunsHandler(c echo.Context) error {
	var req pagination.OffsetRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid pagination parameters", err)
	}

	result, err := agentrun.ListRuns(c.Request().Context(), r.pool.GetConn(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

// appealHandler is the withdrawn manual-appeal surface. The engine behind it
// is retained for replaying recorded decisions only.
func (r *GradingRouter) appealHandler(c echo.Context) error {
	return c.JSON(http.StatusGone, map[string]string{
		"error": "the manual appeal endpoint has been withdrawn",
	})
}
