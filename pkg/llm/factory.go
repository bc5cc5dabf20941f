package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mspcompass/compass-engine/pkg/config"
)

// Factory creates text generators from server AI configuration.
type Factory struct {
	cfg    *config.AIConfig
	logger *zap.Logger
}

// NewFactory creates a new factory.
func NewFactory(cfg *config.AIConfig, logger *zap.Logger) *Factory {
	return &Factory{cfg: cfg, logger: logger}
}

// Create builds the generator for a provider name. An empty provider
// selects the configured default. Rate-limit retry is applied to every
// returned generator.
func (f *Factory) Create(ctx context.Context, provider string) (TextGenerator, error) {
	if provider == "" {
		provider = f.cfg.Provider
	}

	var (
		gen TextGenerator
		err error
	)
	switch provider {
	case ProviderOpenAI:
		gen, err = NewOpenAIClient(&OpenAIConfig{
			BaseURL:  f.cfg.OpenAI.BaseURL,
			Model:    f.cfg.OpenAI.Model,
			APIKey:   f.cfg.OpenAI.APIKey,
			Provider: ProviderOpenAI,
		}, f.logger)
	case ProviderGemini:
		gen, err = NewOpenAIClient(&OpenAIConfig{
			BaseURL:  f.cfg.Gemini.BaseURL,
			Model:    f.cfg.Gemini.Model,
			APIKey:   f.cfg.Gemini.APIKey,
			Provider: ProviderGemini,
		}, f.logger)
	case ProviderAnthropic:
		gen, err = NewAnthropicClient(&AnthropicConfig{
			APIKey: f.cfg.Anthropic.APIKey,
			Model:  f.cfg.Anthropic.Model,
		}, f.logger)
	case ProviderBedrock:
		gen, err = NewBedrockClient(ctx, &BedrockConfig{
			Region:  f.cfg.Bedrock.Region,
			ModelID: f.cfg.Bedrock.ModelID,
		}, f.logger)
	default:
		return nil, fmt.Errorf("unknown provider %q", provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", provider, err)
	}

	return WithRetry(gen, f.logger), nil
}
