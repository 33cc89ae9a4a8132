package agent

import (
	"context"
	"errors"
	"strings"

	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/llm"
	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/logging"
)

// FailoverClient wraps the provider registry to try fallback providers
// when the primary fails with a retryable error.
type FailoverClient struct {
	registry  *llm.Registry
	primary   string
	fallbacks []string
	log       *logging.Logger
}

// NewFailoverClient creates a client that tries the primary provider
// first, then falls back through the list on retryable errors
// (timeouts, 429, 5xx).
func NewFailoverClient(registry *llm.Registry, primary string, fallbacks []string, log *logging.Logger) *FailoverClient {
	return &FailoverClient{
		registry:  registry,
		primary:   primary,
		fallbacks: fallbacks,
		log:       log.Sub("failover"),
	}
}

// Complete tries the primary provider, falling back on retryable errors.
// An unknown fallback name resolves to the registry's default, so the
// same client is never called twice.
func (f *FailoverClient) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	providers := append([]string{f.primary}, f.fallbacks...)
	tried := make(map[string]bool, len(providers))

	var lastErr error
	for _, name := range providers {
		client, err := f.registry.Resolve(name)
		if err != nil {
			f.log.Debug().Str("provider", name).Err(err).Msg("provider unavailable, skipping")
			lastErr = err
			continue
		}
		if tried[client.Name()] {
			continue
		}
		tried[client.Name()] = true

		resp, err := client.Complete(ctx, req)
		if err == nil {
			return resp, nil
		}

		lastErr = err

		if isRetryable(err) {
			f.log.Warn().
				Str("provider", client.Name()).
				Err(err).
				Msg("retryable error, trying next provider")
			continue
		}

		// Non-retryable error — don't try more providers
		return nil, err
	}

	return nil, lastErr
}

// isRetryable checks if the error suggests trying another provider.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var provErr *llm.ProviderError
	if errors.As(err, &provErr) {
		switch provErr.Code {
		case 401, 403, 429, 500, 502, 503, 529:
			return true
		}
	}

	msg := err.Error()
	return strings.Contains(msg, "overloaded") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "capacity") ||
		strings.Contains(msg, "timeout")
}
