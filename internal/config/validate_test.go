package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	cfg := Defaults()
	cfg.LLM.Provider = "mock"
	return cfg
}

func issuePaths(issues []ValidationIssue) []string {
	paths := make([]string, 0, len(issues))
	for _, i := range issues {
		paths = append(paths, i.Path)
	}
	return paths
}

func TestValidateDefaults(t *testing.T) {
	cfg := validConfig()
	assert.Empty(t, Validate(&cfg))
}

func TestValidatePortRange(t *testing.T) {
	cfg := validConfig()
	cfg.Gateway.Port = 70000
	assert.Contains(t, issuePaths(Validate(&cfg)), "gateway.port")

	cfg.Gateway.Port = -1
	assert.Contains(t, issuePaths(Validate(&cfg)), "gateway.port")
}

func TestValidateThresholds(t *testing.T) {
	cfg := validConfig()
	cfg.Detection.ScamThreshold = 1.5
	assert.Contains(t, issuePaths(Validate(&cfg)), "detection.scamThreshold")

	cfg = validConfig()
	cfg.Detection.UncertainThreshold = 0.9 // above scam threshold
	assert.Contains(t, issuePaths(Validate(&cfg)), "detection.uncertainThreshold")
}

func TestValidateEnsembleWeight(t *testing.T) {
	cfg := validConfig()
	cfg.Detection.Ensemble.Weight = 1.2
	assert.Contains(t, issuePaths(Validate(&cfg)), "detection.ensemble.weight")
}

func TestValidateCeilingOrdering(t *testing.T) {
	cfg := validConfig()
	cfg.Engagement.ContinueCeiling = 10
	cfg.Engagement.HardCeiling = 8
	assert.Contains(t, issuePaths(Validate(&cfg)), "engagement.hardCeiling")
}

func TestValidateLLMProvider(t *testing.T) {
	cfg := validConfig()
	cfg.LLM.Provider = "bard"
	assert.Contains(t, issuePaths(Validate(&cfg)), "llm.provider")
}

func TestValidateOpenAIRequiresKey(t *testing.T) {
	cfg := validConfig()
	cfg.LLM.Provider = "openai"
	cfg.LLM.APIKey = ""
	assert.Contains(t, issuePaths(Validate(&cfg)), "llm.apiKey")

	cfg.LLM.APIKey = "sk-test"
	assert.NotContains(t, issuePaths(Validate(&cfg)), "llm.apiKey")
}

func TestValidateOllamaRequiresEndpoint(t *testing.T) {
	cfg := validConfig()
	cfg.LLM.Provider = "ollama"
	cfg.LLM.Endpoint = ""
	assert.Contains(t, issuePaths(Validate(&cfg)), "llm.endpoint")
}

func TestValidateFallbackProviders(t *testing.T) {
	cfg := validConfig()
	cfg.LLM.Fallbacks = []string{"mock", "nonsense"}
	assert.Contains(t, issuePaths(Validate(&cfg)), "llm.fallbacks")
}

func TestValidateCallbackURL(t *testing.T) {
	cfg := validConfig()
	cfg.Callback.URL = "ftp://example.com"
	assert.Contains(t, issuePaths(Validate(&cfg)), "callback.url")

	cfg.Callback.URL = "https://example.com/report"
	assert.NotContains(t, issuePaths(Validate(&cfg)), "callback.url")

	cfg.Callback.URL = "" // disabled is fine
	assert.NotContains(t, issuePaths(Validate(&cfg)), "callback.url")
}

func TestValidateStoreBackend(t *testing.T) {
	cfg := validConfig()
	cfg.Store.Backend = "redis"
	assert.Contains(t, issuePaths(Validate(&cfg)), "store.backend")
}

func TestValidateLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "verbose"
	assert.Contains(t, issuePaths(Validate(&cfg)), "logging.level")
}

func TestValidationIssueString(t *testing.T) {
	issue := ValidationIssue{Path: "gateway.port", Message: "bad"}
	require.True(t, strings.HasPrefix(issue.String(), "gateway.port: "))
}
