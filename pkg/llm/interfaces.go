// Package llm provides multi-provider text generation for the advice and
// evidence caches.
package llm

import "context"

// GenerateOptions tunes a single generation call.
type GenerateOptions struct {
	Temperature float64
	MaxTokens   int
}

// GenerateResult holds generated content plus usage stats.
type GenerateResult struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
}

// TextGenerator defines the interface for text generation.
// Use this interface for dependency injection to enable mocking in tests.
type TextGenerator interface {
	// Generate produces a completion for the prompt.
	Generate(ctx context.Context, prompt, systemPrompt string, opts GenerateOptions) (*GenerateResult, error)

	// Model returns the configured model name.
	Model() string

	// Provider returns the provider name.
	Provider() string
}

// Provider name constants.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderBedrock   = "bedrock"
)

// defaultMaxTokens is used when callers leave MaxTokens unset; Anthropic
// and Bedrock require an explicit limit.
const defaultMaxTokens = 2048
