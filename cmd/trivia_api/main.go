package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aditprab/jeopardy/internal/answer"
	"github.com/aditprab/jeopardy/internal/grading"
	"github.com/aditprab/jeopardy/internal/judge"
	"github.com/aditprab/jeopardy/internal/router"
	"github.com/aditprab/jeopardy/internal/server"
	"github.com/aditprab/jeopardy/internal/storage/pg"
	pkgserver "github.com/aditprab/jeopardy/pkg/server"
	"github.com/labstack/echo/v4"
)

func main() {
	appSettings := NewAppConfig()
	cfg, err := appSettings.Load()
	if err != nil {
		slog.Error("Failed to load app configuration", "error", err)
		os.Exit(1)
	}

	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load server config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pg.NewConnectionPool(ctx, cfg.PoolConfig)
	if err != nil {
		slog.Error("Failed to create connection pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	e := echo.New()
	s := server.NewServer(e, sCfg)
	s.SetupHealthChecks("/health", pkgserver.NewPingHealthChecker(pool.Ping))

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(200, "Trivia grading API is running")
	})

	strict := answer.Strict()
	strict.Threshold = cfg.MatchThreshold

	judgeClient := judge.NewOpenAIClient(cfg.JudgeConfig)
	orchestrator := grading.NewOrchestrator(judgeClient, strict)

	gradingRouter := router.NewGradingRouter(s.Echo, pool, orchestrator, strict)
	gradingRouter.Bind()

	if err := s.Start(); err != nil {
		s.Echo.Logger.Error("Failed to start server: ", err)
		os.Exit(1)
	}
}
