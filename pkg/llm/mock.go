package llm

import "context"

// MockGenerator is a configurable mock for testing generation flows.
// Set the function field to control behavior in tests.
type MockGenerator struct {
	// GenerateFunc is called when Generate is invoked.
	// If nil, returns an empty result and nil error.
	GenerateFunc func(ctx context.Context, prompt, systemPrompt string, opts GenerateOptions) (*GenerateResult, error)

	// ModelName is returned by Model. Defaults to "mock-model".
	ModelName string

	// ProviderName is returned by Provider. Defaults to "mock".
	ProviderName string

	// Call tracking for verification
	GenerateCalls int
	Prompts       []string
}

// NewMockGenerator creates a new mock with sensible defaults.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{
		ModelName:    "mock-model",
		ProviderName: "mock",
	}
}

// Generate implements TextGenerator.
func (m *MockGenerator) Generate(ctx context.Context, prompt, systemPrompt string, opts GenerateOptions) (*GenerateResult, error) {
	m.GenerateCalls++
	m.Prompts = append(m.Prompts, prompt)
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt, systemPrompt, opts)
	}
	return &GenerateResult{}, nil
}

// Model implements TextGenerator.
func (m *MockGenerator) Model() string { return m.ModelName }

// Provider implements TextGenerator.
func (m *MockGenerator) Provider() string { return m.ProviderName }

// Ensure MockGenerator implements TextGenerator at compile time.
var _ TextGenerator = (*MockGenerator)(nil)
