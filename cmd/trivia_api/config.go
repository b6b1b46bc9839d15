package main

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/aditprab/jeopardy/internal/answer"
	"github.com/aditprab/jeopardy/internal/judge"
	"github.com/aditprab/jeopardy/internal/storage/pg"
	"github.com/aditprab/jeopardy/pkg/config/env"
)

type AppConfig struct {
	ENV string
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

type TriviaAPIConfig struct {
	PoolConfig     pg.PoolConfig
	JudgeConfig    *judge.Config
	MatchThreshold int
}

func (as *AppConfig) Load() (*TriviaAPIConfig, error) {

	err := env.LoadDotEnv(as.ENV, "cmd/trivia_api/.env")
	if err != nil {
		slog.Info("Failed to .env load environment variables, continuing with existing environment variables", "error", err)
	}

	threshold := answer.StrictThreshold
	if raw := os.Getenv("MATCH_THRESHOLD"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 || parsed > 100 {
			slog.Warn("Invalid MATCH_THRESHOLD, using default", "value", raw, "default", threshold)
		} else {
			threshold = parsed
		}
	}

	return &TriviaAPIConfig{
		PoolConfig:     pg.LoadPoolConfigFromEnv(),
		JudgeConfig:    judge.LoadConfigFromEnv(),
		MatchThreshold: threshold,
	}, nil
}
