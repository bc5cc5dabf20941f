package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIClient provides access to OpenAI-compatible endpoints. Gemini is
// served by the same client through Google's OpenAI-compatible base URL.
type OpenAIClient struct {
	client   *openai.Client
	provider string
	model    string
	logger   *zap.Logger
}

// OpenAIConfig holds configuration for creating an OpenAI-compatible client.
type OpenAIConfig struct {
	BaseURL  string // Base URL, e.g., "https://api.openai.com/v1"
	Model    string // Model name, e.g., "gpt-4o-mini"
	APIKey   string
	Provider string // "openai" or "gemini"; defaults to "openai"
}

// NewOpenAIClient creates a new OpenAI-compatible client.
func NewOpenAIClient(cfg *OpenAIConfig, logger *zap.Logger) (*OpenAIClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	provider := cfg.Provider
	if provider == "" {
		provider = ProviderOpenAI
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")

	return &OpenAIClient{
		client:   openai.NewClientWithConfig(clientConfig),
		provider: provider,
		model:    cfg.Model,
		logger:   logger.Named("llm-" + provider),
	}, nil
}

// Generate produces a chat completion for the prompt.
func (c *OpenAIClient) Generate(ctx context.Context, prompt, systemPrompt string, opts GenerateOptions) (*GenerateResult, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	}

	c.logger.Debug("generation request",
		zap.String("model", c.model),
		zap.Int("prompt_len", len(prompt)),
		zap.Float64("temperature", opts.Temperature))

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: float32(opts.Temperature),
		MaxTokens:   opts.MaxTokens,
	})
	if err != nil {
		c.logger.Error("generation request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, c.classify(err)
	}

	if len(resp.Choices) == 0 {
		return nil, NewError(ErrorTypeUnknown, "no choices in response", false, nil)
	}

	c.logger.Info("generation request completed",
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("elapsed", time.Since(start)))

	return &GenerateResult{
		Content:          resp.Choices[0].Message.Content,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	}, nil
}

func (c *OpenAIClient) classify(err error) *Error {
	e := ClassifyError(err)
	e.Model = c.model

	// go-openai surfaces 429s as APIError with status code set.
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		e.StatusCode = apiErr.HTTPStatusCode
		if apiErr.HTTPStatusCode == 429 {
			e.Type = ErrorTypeRateLimit
			e.Retryable = true
		}
	}
	return e
}

// Model returns the configured model name.
func (c *OpenAIClient) Model() string { return c.model }

// Provider returns the provider name.
func (c *OpenAIClient) Provider() string { return c.provider }

// Ensure OpenAIClient implements TextGenerator at compile time.
var _ TextGenerator = (*OpenAIClient)(nil)
