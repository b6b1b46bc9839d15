package judge

import (
	"os"
	"strconv"
	"time"
)

const (
	DefaultModel     = "gpt-4.1-mini"
	DefaultTimeoutMS = 7000
)

type Config struct {
	// APIKey may be empty: every judged grading attempt then fails closed
	// instead of erroring at construction.
	APIKey  string
	Model   string
	Timeout time.Duration
}

func LoadConfigFromEnv() *Config {
	model := os.Getenv("JUDGE_MODEL")
	if model == "" {
		model = DefaultModel
	}

	timeoutMS := DefaultTimeoutMS
	if raw := os.Getenv("JUDGE_TIMEOUT_MS"); raw != "" {
		if val, err := strconv.Atoi(raw); err == nil && val > 0 {
			timeoutMS = val
		}
	}

	return &Config{
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		Model:   model,
		Timeout: time.Duration(timeoutMS) * time.Millisecond,
	}
}
