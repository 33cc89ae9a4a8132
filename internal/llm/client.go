// Package llm defines the reply generator interface and the pluggable
// provider clients behind it. Providers are plain HTTP API clients; the
// registry maps configured provider names to clients, and a failover
// wrapper in internal/agent walks the fallback chain on retryable errors.
package llm

import (
	"context"
	"time"
)

// Role constants for messages.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is a single turn in a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is the input to a Complete call. Model overrides the client's
// configured default when set.
type Request struct {
	Model       string    `json:"model,omitempty"`
	System      string    `json:"system,omitempty"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"maxTokens,omitempty"`
	Temperature *float64  `json:"temperature,omitempty"`
}

// Response is the result of a completion.
type Response struct {
	Content  string        `json:"content"`
	Model    string        `json:"model,omitempty"`
	Usage    Usage         `json:"usage"`
	Duration time.Duration `json:"duration,omitempty"`
}

// Usage tracks token consumption.
type Usage struct {
	InputTokens  int `json:"inputTokens"`
	OutputTokens int `json:"outputTokens"`
}

// Client is the interface all providers implement.
type Client interface {
	// Complete sends a request and returns the full response.
	Complete(ctx context.Context, req Request) (*Response, error)

	// Name returns the provider name (e.g. "openai", "ollama").
	Name() string
}
