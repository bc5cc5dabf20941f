package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantType      ErrorType
		wantRetryable bool
	}{
		{
			name:          "unauthorized",
			err:           errors.New("401 Unauthorized: invalid api key"),
			wantType:      ErrorTypeAuth,
			wantRetryable: false,
		},
		{
			name:          "model not found",
			err:           errors.New("model gpt-99 does not exist"),
			wantType:      ErrorTypeModel,
			wantRetryable: false,
		},
		{
			name:          "rate limited",
			err:           errors.New("429 Too Many Requests"),
			wantType:      ErrorTypeRateLimit,
			wantRetryable: true,
		},
		{
			name:          "throttled",
			err:           errors.New("ThrottlingException: request throttled"),
			wantType:      ErrorTypeRateLimit,
			wantRetryable: true,
		},
		{
			name:          "endpoint missing",
			err:           errors.New("404 page not found"),
			wantType:      ErrorTypeEndpoint,
			wantRetryable: false,
		},
		{
			name:          "connection refused",
			err:           errors.New("dial tcp: connection refused"),
			wantType:      ErrorTypeEndpoint,
			wantRetryable: true,
		},
		{
			name:          "timeout",
			err:           errors.New("context deadline exceeded"),
			wantType:      ErrorTypeEndpoint,
			wantRetryable: true,
		},
		{
			name:          "caller canceled",
			err:           context.Canceled,
			wantType:      ErrorTypeEndpoint,
			wantRetryable: false,
		},
		{
			name:          "wrapped cancellation",
			err:           fmt.Errorf("failed to call provider: %w", context.Canceled),
			wantType:      ErrorTypeEndpoint,
			wantRetryable: false,
		},
		{
			name:          "server overloaded",
			err:           errors.New("503 Service Unavailable: overloaded"),
			wantType:      ErrorTypeEndpoint,
			wantRetryable: true,
		},
		{
			name:          "unknown",
			err:           errors.New("something odd happened"),
			wantType:      ErrorTypeUnknown,
			wantRetryable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classified := ClassifyError(tt.err)
			require.NotNil(t, classified)
			assert.Equal(t, tt.wantType, classified.Type)
			assert.Equal(t, tt.wantRetryable, classified.Retryable)
		})
	}
}

func TestClassifyErrorNil(t *testing.T) {
	assert.Nil(t, ClassifyError(nil))
}

func TestClassifyErrorPassesThroughStructured(t *testing.T) {
	original := NewError(ErrorTypeRateLimit, "rate limited", true, nil)
	original.RetryAfter = 30 * time.Second

	classified := ClassifyError(original)
	assert.Same(t, original, classified)
}

func TestClassifyErrorUnwrapsWrapped(t *testing.T) {
	inner := NewError(ErrorTypeAuth, "authentication failed", false, nil)
	wrapped := errors.Join(errors.New("request failed"), inner)

	classified := ClassifyError(wrapped)
	assert.Equal(t, ErrorTypeAuth, classified.Type)
}

func TestErrorMessageIncludesContext(t *testing.T) {
	e := NewError(ErrorTypeRateLimit, "rate limited", true, errors.New("429"))
	e.StatusCode = 429
	e.Model = "gpt-4o-mini"

	msg := e.Error()
	assert.Contains(t, msg, "rate_limit")
	assert.Contains(t, msg, "HTTP 429")
	assert.Contains(t, msg, "model=gpt-4o-mini")
}

func TestGetErrorType(t *testing.T) {
	assert.Equal(t, ErrorTypeAuth, GetErrorType(NewError(ErrorTypeAuth, "no", false, nil)))
	assert.Equal(t, ErrorTypeUnknown, GetErrorType(errors.New("plain")))
}

func TestWithRetryRetriesRateLimits(t *testing.T) {
	mock := NewMockGenerator()
	mock.GenerateFunc = func(ctx context.Context, prompt, systemPrompt string, opts GenerateOptions) (*GenerateResult, error) {
		if mock.GenerateCalls == 1 {
			e := NewError(ErrorTypeRateLimit, "rate limited", true, nil)
			e.RetryAfter = time.Millisecond
			return nil, e
		}
		return &GenerateResult{Content: "ok"}, nil
	}

	gen := WithRetry(mock, zap.NewNop())
	result, err := gen.Generate(context.Background(), "prompt", "system", GenerateOptions{})

	require.NoError(t, err)
	assert.Equal(t, "ok", result.Content)
	assert.Equal(t, 2, mock.GenerateCalls)
}

func TestWithRetryStopsOnAuthError(t *testing.T) {
	mock := NewMockGenerator()
	mock.GenerateFunc = func(ctx context.Context, prompt, systemPrompt string, opts GenerateOptions) (*GenerateResult, error) {
		return nil, NewError(ErrorTypeAuth, "authentication failed", false, nil)
	}

	gen := WithRetry(mock, zap.NewNop())
	_, err := gen.Generate(context.Background(), "prompt", "system", GenerateOptions{})

	require.Error(t, err)
	assert.Equal(t, ErrorTypeAuth, GetErrorType(err))
	assert.Equal(t, 1, mock.GenerateCalls)
}
