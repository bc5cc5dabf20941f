package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mspcompass/compass-engine/pkg/config"
)

func testAIConfig() *config.AIConfig {
	return &config.AIConfig{
		Provider: ProviderOpenAI,
		OpenAI: config.OpenAIConfig{
			BaseURL: "https://api.openai.com/v1",
			Model:   "gpt-4o-mini",
			APIKey:  "test-key",
		},
		Gemini: config.GeminiConfig{
			BaseURL: "https://generativelanguage.googleapis.com/v1beta/openai",
			Model:   "gemini-2.0-flash",
			APIKey:  "test-key",
		},
	}
}

func TestFactoryCreateDefaultsToConfiguredProvider(t *testing.T) {
	f := NewFactory(testAIConfig(), zap.NewNop())

	gen, err := f.Create(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, gen.Provider())
	assert.Equal(t, "gpt-4o-mini", gen.Model())
}

func TestFactoryCreateGemini(t *testing.T) {
	f := NewFactory(testAIConfig(), zap.NewNop())

	gen, err := f.Create(context.Background(), ProviderGemini)
	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, gen.Provider())
}

func TestFactoryCreateUnknownProvider(t *testing.T) {
	f := NewFactory(testAIConfig(), zap.NewNop())

	_, err := f.Create(context.Background(), "smoke-signals")
	assert.Error(t, err)
}

func TestFactoryCreateMissingBaseURL(t *testing.T) {
	cfg := testAIConfig()
	cfg.OpenAI.BaseURL = ""
	f := NewFactory(cfg, zap.NewNop())

	_, err := f.Create(context.Background(), ProviderOpenAI)
	assert.Error(t, err)
}
