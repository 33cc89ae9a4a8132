package llm

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/config"
	"github.com/Keerthi1012/Agentic-HoneyPot-ScamDetection/internal/logging"
)

// ErrNoProvider is returned when a provider name resolves to nothing.
var ErrNoProvider = errors.New("no such llm provider")

// ProviderError is returned when a provider's API rejects or fails a call.
type ProviderError struct {
	Provider string
	Message  string
	Code     int // HTTP status code (401, 429, 500, ...), 0 when not HTTP
}

func (e *ProviderError) Error() string {
	if e.Code > 0 {
		return fmt.Sprintf("%s: %d %s", e.Provider, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

// Registry manages provider clients and resolves provider names to clients.
type Registry struct {
	mu       sync.RWMutex
	clients  map[string]Client
	fallback string // default provider when the name is empty or unknown
	log      *logging.Logger
}

// NewRegistry creates an empty provider registry.
func NewRegistry(log *logging.Logger) *Registry {
	return &Registry{
		clients: make(map[string]Client),
		log:     log.Sub("llm.registry"),
	}
}

// Register adds a client under the given provider name.
func (r *Registry) Register(name string, client Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[name] = client
	r.log.Info().Str("provider", name).Msg("registered LLM provider")
}

// SetFallback sets the provider used when no name matches.
func (r *Registry) SetFallback(provider string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = provider
}

// Resolve returns the client for the given provider name. An empty or
// unknown name resolves to the fallback provider when one is set.
func (r *Registry) Resolve(name string) (Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if c, ok := r.clients[name]; ok {
		return c, nil
	}
	if r.fallback != "" {
		if c, ok := r.clients[r.fallback]; ok {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNoProvider, name)
}

// List returns all registered provider names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.clients))
	for n := range r.clients {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// NewRegistryFromConfig builds a registry from the llm config block. The
// mock and ollama providers are always available; openai registers only
// when an API key is present. The configured model and endpoint apply to
// the primary provider, other providers keep their defaults so a failover
// hop never sends one provider's model name to another.
func NewRegistryFromConfig(cfg config.LLMConfig, log *logging.Logger) *Registry {
	reg := NewRegistry(log)
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second

	openAIModel, ollamaModel := "", ""
	openAIBase, ollamaBase := "", ""
	switch cfg.Provider {
	case "openai":
		openAIModel, openAIBase = cfg.Model, cfg.Endpoint
	case "ollama":
		ollamaModel, ollamaBase = cfg.Model, cfg.Endpoint
	}

	if cfg.APIKey != "" {
		reg.Register("openai", NewOpenAIClient(cfg.APIKey, openAIModel, openAIBase, timeout))
	}
	reg.Register("ollama", NewOllamaClient(ollamaBase, ollamaModel, timeout))
	reg.Register("mock", &MockClient{})

	reg.SetFallback(cfg.Provider)
	return reg
}
