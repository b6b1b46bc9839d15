package judge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// OpenAIClient calls the external judgment model with a strict JSON-schema
// response format. It is stateless after construction and safe for reuse
// across concurrent requests.
type OpenAIClient struct {
	api    openai.Client
	apiKey string
	model  string
}

func NewOpenAIClient(cfg *Config) *OpenAIClient {
	client := &OpenAIClient{
		apiKey: cfg.APIKey,
		model:  cfg.Model,
	}
	if cfg.APIKey == "" {
		// Deferred grading attempts will fail closed instead.
		slog.Warn("judge client: OPENAI_API_KEY not configured")
		return client
	}

	client.api = openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(cfg.Timeout),
	)
	slog.Info("judge client initialized", "model", cfg.Model, "timeout", cfg.Timeout)
	return client
}

// Judge sends one request to the judgment model and parses its structured
// response. Every failure mode collapses into a Failure; no guardrails are
// applied here.
func (c *OpenAIClient) Judge(ctx context.Context, req Request) (*RawResult, *Failure) {
	if c.apiKey == "" {
		return nil, &Failure{Kind: FailureMissingCredential, Message: "OPENAI_API_KEY not configured"}
	}

	slog.Info("judge request started", "model", c.model)
	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt(req)),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   "appeal_decision",
					Strict: openai.Bool(true),
					Schema: VerdictSchema(),
				},
			},
		},
	})
	if err != nil {
		return nil, &Failure{Kind: FailureRequest, Message: err.Error()}
	}
	if len(resp.Choices) == 0 {
		return nil, &Failure{Kind: FailureMalformedOutput, Message: "model response has no choices"}
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &payload); err != nil {
		return nil, &Failure{
			Kind:    FailureMalformedOutput,
			Message: fmt.Sprintf("unmarshal model output: %v", err),
		}
	}

	slog.Info("judge request completed", "model", c.model)
	return &RawResult{
		Payload:    payload,
		Model:      c.model,
		ResponseID: resp.ID,
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}
