package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/llm"
)

func TestFailoverUsesPrimaryWhenHealthy(t *testing.T) {
	reg := llm.NewRegistry(silentLog())
	reg.Register("openai", &llm.MockClient{
		ProviderName: "openai",
		CompleteFunc: func(ctx context.Context, req llm.Request) (*llm.Response, error) {
			return &llm.Response{Content: "from primary"}, nil
		},
	})
	reg.Register("ollama", &llm.MockClient{
		ProviderName: "ollama",
		CompleteFunc: func(ctx context.Context, req llm.Request) (*llm.Response, error) {
			return &llm.Response{Content: "from fallback"}, nil
		},
	})

	fc := NewFailoverClient(reg, "openai", []string{"ollama"}, silentLog())
	resp, err := fc.Complete(context.Background(), llm.Request{})
	require.NoError(t, err)
	assert.Equal(t, "from primary", resp.Content)
}

func TestFailoverFallsBackOnRetryableError(t *testing.T) {
	reg := llm.NewRegistry(silentLog())
	reg.Register("openai", &llm.MockClient{
		ProviderName: "openai",
		CompleteFunc: func(ctx context.Context, req llm.Request) (*llm.Response, error) {
			return nil, &llm.ProviderError{Provider: "openai", Message: "rate limited", Code: 429}
		},
	})
	reg.Register("ollama", &llm.MockClient{
		ProviderName: "ollama",
		CompleteFunc: func(ctx context.Context, req llm.Request) (*llm.Response, error) {
			return &llm.Response{Content: "from fallback"}, nil
		},
	})

	fc := NewFailoverClient(reg, "openai", []string{"ollama"}, silentLog())
	resp, err := fc.Complete(context.Background(), llm.Request{})
	require.NoError(t, err)
	assert.Equal(t, "from fallback", resp.Content)
}

func TestFailoverStopsOnNonRetryableError(t *testing.T) {
	bad := errors.New("malformed request")
	var fallbackCalled bool

	reg := llm.NewRegistry(silentLog())
	reg.Register("openai", &llm.MockClient{
		ProviderName: "openai",
		CompleteFunc: func(ctx context.Context, req llm.Request) (*llm.Response, error) {
			return nil, bad
		},
	})
	reg.Register("ollama", &llm.MockClient{
		ProviderName: "ollama",
		CompleteFunc: func(ctx context.Context, req llm.Request) (*llm.Response, error) {
			fallbackCalled = true
			return &llm.Response{Content: "never"}, nil
		},
	})

	fc := NewFailoverClient(reg, "openai", []string{"ollama"}, silentLog())
	_, err := fc.Complete(context.Background(), llm.Request{})
	require.ErrorIs(t, err, bad)
	assert.False(t, fallbackCalled)
}

func TestFailoverNeverCallsSameClientTwice(t *testing.T) {
	// "missing" is unregistered, so resolving it lands on the registry
	// fallback, which is the primary already tried once.
	calls := 0
	reg := llm.NewRegistry(silentLog())
	reg.Register("mock", &llm.MockClient{
		CompleteFunc: func(ctx context.Context, req llm.Request) (*llm.Response, error) {
			calls++
			return nil, &llm.ProviderError{Provider: "mock", Message: "down", Code: 503}
		},
	})
	reg.SetFallback("mock")

	fc := NewFailoverClient(reg, "mock", []string{"missing"}, silentLog())
	_, err := fc.Complete(context.Background(), llm.Request{})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestFailoverAllProvidersFail(t *testing.T) {
	reg := llm.NewRegistry(silentLog())
	reg.Register("openai", &llm.MockClient{
		ProviderName: "openai",
		CompleteFunc: func(ctx context.Context, req llm.Request) (*llm.Response, error) {
			return nil, &llm.ProviderError{Provider: "openai", Message: "overloaded", Code: 529}
		},
	})
	reg.Register("ollama", &llm.MockClient{
		ProviderName: "ollama",
		CompleteFunc: func(ctx context.Context, req llm.Request) (*llm.Response, error) {
			return nil, &llm.ProviderError{Provider: "ollama", Message: "down", Code: 503}
		},
	})

	fc := NewFailoverClient(reg, "openai", []string{"ollama"}, silentLog())
	_, err := fc.Complete(context.Background(), llm.Request{})
	require.Error(t, err)

	var perr *llm.ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "ollama", perr.Provider)
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"provider 429", &llm.ProviderError{Provider: "x", Code: 429}, true},
		{"provider 503", &llm.ProviderError{Provider: "x", Code: 503}, true},
		{"provider 400", &llm.ProviderError{Provider: "x", Code: 400, Message: "bad"}, false},
		{"deadline", context.DeadlineExceeded, true},
		{"timeout substring", errors.New("client timeout waiting for response"), true},
		{"rate limit substring", errors.New("provider rate limit hit"), true},
		{"plain error", errors.New("no such host"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryable(tt.err))
		})
	}
}
