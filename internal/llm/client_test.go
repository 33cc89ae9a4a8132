package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/config"
	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/logging"
)

func silentLog() *logging.Logger {
	return logging.New(nil, "silent")
}

func floatPtr(f float64) *float64 { return &f }

// --- Registry tests ---

func TestRegistryRegisterAndResolve(t *testing.T) {
	reg := NewRegistry(silentLog())

	mock := &MockClient{ProviderName: "test-provider"}
	reg.Register("test-provider", mock)

	client, err := reg.Resolve("test-provider")
	require.NoError(t, err)
	assert.Equal(t, "test-provider", client.Name())
}

func TestRegistryFallback(t *testing.T) {
	reg := NewRegistry(silentLog())
	reg.Register("mock", &MockClient{})
	reg.SetFallback("mock")

	client, err := reg.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "mock", client.Name())

	client, err = reg.Resolve("does-not-exist")
	require.NoError(t, err)
	assert.Equal(t, "mock", client.Name())
}

func TestRegistryResolveUnknown(t *testing.T) {
	reg := NewRegistry(silentLog())

	_, err := reg.Resolve("nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoProvider))
}

func TestRegistryList(t *testing.T) {
	reg := NewRegistry(silentLog())
	reg.Register("ollama", &MockClient{ProviderName: "ollama"})
	reg.Register("mock", &MockClient{})

	assert.Equal(t, []string{"mock", "ollama"}, reg.List())
}

func TestNewRegistryFromConfig(t *testing.T) {
	cfg := config.LLMConfig{
		Provider:       "openai",
		Model:          "gpt-4o-mini",
		APIKey:         "sk-test",
		TimeoutSeconds: 20,
	}

	reg := NewRegistryFromConfig(cfg, silentLog())
	assert.Equal(t, []string{"mock", "ollama", "openai"}, reg.List())

	client, err := reg.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "openai", client.Name())
}

func TestNewRegistryFromConfigWithoutKeySkipsOpenAI(t *testing.T) {
	cfg := config.LLMConfig{Provider: "mock"}

	reg := NewRegistryFromConfig(cfg, silentLog())
	assert.Equal(t, []string{"mock", "ollama"}, reg.List())
}

// --- ProviderError ---

func TestProviderErrorFormat(t *testing.T) {
	withCode := &ProviderError{Provider: "openai", Message: "rate limited", Code: 429}
	assert.Equal(t, "openai: 429 rate limited", withCode.Error())

	withoutCode := &ProviderError{Provider: "ollama", Message: "connection refused"}
	assert.Equal(t, "ollama: connection refused", withoutCode.Error())
}

// --- MockClient ---

func TestMockClientDefaults(t *testing.T) {
	m := &MockClient{}
	assert.Equal(t, "mock", m.Name())

	resp, err := m.Complete(context.Background(), Request{})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Content)
}

func TestMockClientCompleteFunc(t *testing.T) {
	m := &MockClient{
		CompleteFunc: func(ctx context.Context, req Request) (*Response, error) {
			return &Response{Content: "canned: " + req.Messages[0].Content}, nil
		},
	}

	resp, err := m.Complete(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "canned: hello", resp.Content)
}

// --- OpenAIClient ---

func TestOpenAIClientComplete(t *testing.T) {
	var gotAuth string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"model": "gpt-4o-mini",
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "Ok sir I am doing it."}},
			},
			"usage": map[string]int{"prompt_tokens": 42, "completion_tokens": 11},
		})
	}))
	defer srv.Close()

	c := NewOpenAIClient("sk-test", "gpt-4o-mini", srv.URL, 5*time.Second)
	resp, err := c.Complete(context.Background(), Request{
		System:      "persona",
		Messages:    []Message{{Role: RoleUser, Content: "prompt"}},
		MaxTokens:   60,
		Temperature: floatPtr(0.8),
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "gpt-4o-mini", gotBody["model"])
	assert.Equal(t, float64(60), gotBody["max_tokens"])
	assert.Equal(t, 0.8, gotBody["temperature"])

	// system prompt travels as the first chat message
	msgs, ok := gotBody["messages"].([]interface{})
	require.True(t, ok)
	require.Len(t, msgs, 2)
	first := msgs[0].(map[string]interface{})
	assert.Equal(t, "system", first["role"])
	assert.Equal(t, "persona", first["content"])

	assert.Equal(t, "Ok sir I am doing it.", resp.Content)
	assert.Equal(t, 42, resp.Usage.InputTokens)
	assert.Equal(t, 11, resp.Usage.OutputTokens)
	assert.Greater(t, resp.Duration, time.Duration(0))
}

func TestOpenAIClientErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("sk-test", "", srv.URL, 5*time.Second)
	_, err := c.Complete(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}})
	require.Error(t, err)

	var perr *ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 429, perr.Code)
	assert.Equal(t, "openai", perr.Provider)
}

func TestOpenAIClientEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("sk-test", "", srv.URL, 5*time.Second)
	_, err := c.Complete(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}})
	require.Error(t, err)

	var perr *ProviderError
	assert.True(t, errors.As(err, &perr))
}

// --- OllamaClient ---

func TestOllamaClientComplete(t *testing.T) {
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"model":    "llama3",
			"response": "Yes sir I will pay.",
			"done":     true,
		})
	}))
	defer srv.Close()

	c := NewOllamaClient(srv.URL, "llama3", 5*time.Second)
	resp, err := c.Complete(context.Background(), Request{
		System:   "persona",
		Messages: []Message{{Role: RoleUser, Content: "what next"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "llama3", gotBody["model"])
	assert.Equal(t, false, gotBody["stream"])

	prompt, ok := gotBody["prompt"].(string)
	require.True(t, ok)
	assert.Contains(t, prompt, "System: persona")
	assert.Contains(t, prompt, "what next")

	assert.Equal(t, "Yes sir I will pay.", resp.Content)
}

func TestOllamaClientErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("model not loaded"))
	}))
	defer srv.Close()

	c := NewOllamaClient(srv.URL, "llama3", 5*time.Second)
	_, err := c.Complete(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}})
	require.Error(t, err)

	var perr *ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 500, perr.Code)
}
