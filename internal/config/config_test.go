package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, "127.0.0.1", cfg.Gateway.Host)
	assert.Equal(t, 8000, cfg.Gateway.Port)
	assert.Equal(t, 0.7, cfg.Detection.ScamThreshold)
	assert.Equal(t, 0.4, cfg.Detection.UncertainThreshold)
	assert.False(t, cfg.Detection.Ensemble.Enabled)
	assert.Equal(t, 8, cfg.Engagement.ContinueCeiling)
	assert.Equal(t, 14, cfg.Engagement.HardCeiling)
	assert.Equal(t, 5, cfg.Engagement.GoalWindow)
	assert.Equal(t, 3, cfg.Engagement.EngageWindow)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, 60, cfg.LLM.MaxTokens)
	require.NotNil(t, cfg.LLM.Temperature)
	assert.Equal(t, 0.8, *cfg.LLM.Temperature)
	assert.Equal(t, 5, cfg.Callback.TimeoutSeconds)
	assert.Equal(t, 3, cfg.Callback.Retries)
	assert.Equal(t, "memory", cfg.Store.Backend)
	assert.Equal(t, 1440, cfg.Session.TTLMinutes)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Gateway.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	yaml := `
gateway:
  host: 0.0.0.0
  port: 9999
  authToken: opsecret
detection:
  scamThreshold: 0.8
  ensemble:
    enabled: true
    weight: 0.25
engagement:
  continueCeiling: 6
  hardCeiling: 12
llm:
  provider: ollama
  endpoint: http://localhost:11434
  model: llama3
callback:
  url: https://example.com/report
store:
  backend: sqlite
  path: /tmp/honeypot.db
session:
  ttlMinutes: 120
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Gateway.Host)
	assert.Equal(t, 9999, cfg.Gateway.Port)
	assert.Equal(t, "opsecret", cfg.Gateway.AuthToken)
	assert.Equal(t, 0.8, cfg.Detection.ScamThreshold)
	assert.True(t, cfg.Detection.Ensemble.Enabled)
	assert.Equal(t, 0.25, cfg.Detection.Ensemble.Weight)
	assert.Equal(t, 6, cfg.Engagement.ContinueCeiling)
	assert.Equal(t, 12, cfg.Engagement.HardCeiling)
	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, "llama3", cfg.LLM.Model)
	assert.Equal(t, "https://example.com/report", cfg.Callback.URL)
	assert.Equal(t, "sqlite", cfg.Store.Backend)
	assert.Equal(t, "/tmp/honeypot.db", cfg.Store.Path)
	assert.Equal(t, 120, cfg.Session.TTLMinutes)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// omitted fields refilled with defaults
	assert.Equal(t, 0.4, cfg.Detection.UncertainThreshold)
	assert.Equal(t, 5, cfg.Engagement.GoalWindow)
	assert.Equal(t, 60, cfg.LLM.MaxTokens)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{{invalid yaml"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HONEYPOT_GATEWAY_PORT", "12345")
	t.Setenv("HONEYPOT_LOG_LEVEL", "TRACE")
	t.Setenv("HONEYPOT_LLM_PROVIDER", "mock")
	t.Setenv("HONEYPOT_CALLBACK_URL", "https://callbacks.example/final")

	cfg, err := Load("/nonexistent/config.yaml")
	require.NoError(t, err)

	assert.Equal(t, 12345, cfg.Gateway.Port)
	assert.Equal(t, "trace", cfg.Logging.Level)
	assert.Equal(t, "mock", cfg.LLM.Provider)
	assert.Equal(t, "https://callbacks.example/final", cfg.Callback.URL)
}

func TestOpenAIKeyFallback(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-fallback")

	cfg, err := Load("/nonexistent/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, "sk-fallback", cfg.LLM.APIKey)

	t.Setenv("HONEYPOT_LLM_API_KEY", "sk-explicit")
	cfg, err = Load("/nonexistent/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, "sk-explicit", cfg.LLM.APIKey)
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_HONEYPOT_SECRET", "s3cret")

	assert.Equal(t, "s3cret", expandEnvVars("${TEST_HONEYPOT_SECRET}"))
	assert.Equal(t, "prefix-s3cret", expandEnvVars("prefix-${TEST_HONEYPOT_SECRET}"))
	assert.Equal(t, "${UNSET_VAR_XYZ}", expandEnvVars("${UNSET_VAR_XYZ}"))
	assert.Equal(t, "plain", expandEnvVars("plain"))
}

func TestExpandSensitiveFields(t *testing.T) {
	t.Setenv("TEST_HONEYPOT_KEY", "sk-123")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
llm:
  provider: openai
  apiKey: ${TEST_HONEYPOT_KEY}
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-123", cfg.LLM.APIKey)
}

func TestLoadRawAndSaveRaw(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	raw := map[string]any{
		"gateway": map[string]any{"port": 9001},
	}
	require.NoError(t, SaveRaw(path, raw))

	back, err := LoadRaw(path)
	require.NoError(t, err)

	val, ok := GetValueAtPath(back, []string{"gateway", "port"})
	require.True(t, ok)
	assert.EqualValues(t, 9001, val)
}
