package llm

import (
	"context"

	"go.uber.org/zap"

	"github.com/mspcompass/compass-engine/pkg/retry"
)

// retryingGenerator wraps a TextGenerator with rate-limit backoff.
// Only errors the provider marks retryable (rate limits, transient server
// errors) are retried; a provider-suggested wait overrides the schedule.
type retryingGenerator struct {
	inner  TextGenerator
	logger *zap.Logger
}

// WithRetry wraps a generator so transient provider failures are retried
// with the capped rate-limit backoff.
func WithRetry(inner TextGenerator, logger *zap.Logger) TextGenerator {
	return &retryingGenerator{
		inner:  inner,
		logger: logger.Named("llm-retry"),
	}
}

func (r *retryingGenerator) Generate(ctx context.Context, prompt, systemPrompt string, opts GenerateOptions) (*GenerateResult, error) {
	var result *GenerateResult

	attempt := 0
	err := retry.DoIfRetryable(ctx, retry.RateLimitConfig(), func() error {
		attempt++
		if attempt > 1 {
			r.logger.Warn("retrying generation",
				zap.String("model", r.inner.Model()),
				zap.Int("attempt", attempt))
		}
		res, err := r.inner.Generate(ctx, prompt, systemPrompt, opts)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *retryingGenerator) Model() string { return r.inner.Model() }

func (r *retryingGenerator) Provider() string { return r.inner.Provider() }

var _ TextGenerator = (*retryingGenerator)(nil)
