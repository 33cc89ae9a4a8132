package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationIssue describes a problem with a config value.
type ValidationIssue struct {
	Path    string
	Message string
}

func (v ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a Config for issues. Returns nil if valid.
func Validate(cfg *Config) []ValidationIssue {
	var issues []ValidationIssue

	if cfg.Gateway.Port < 0 || cfg.Gateway.Port > 65535 {
		issues = append(issues, ValidationIssue{
			Path:    "gateway.port",
			Message: fmt.Sprintf("port must be 0-65535, got %d", cfg.Gateway.Port),
		})
	}
	if cfg.Gateway.RateLimit < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "gateway.rateLimit",
			Message: fmt.Sprintf("must be >= 0, got %g", cfg.Gateway.RateLimit),
		})
	}

	if cfg.Detection.ScamThreshold < 0 || cfg.Detection.ScamThreshold > 1 {
		issues = append(issues, ValidationIssue{
			Path:    "detection.scamThreshold",
			Message: fmt.Sprintf("must be in [0,1], got %g", cfg.Detection.ScamThreshold),
		})
	}
	if cfg.Detection.UncertainThreshold < 0 || cfg.Detection.UncertainThreshold > 1 {
		issues = append(issues, ValidationIssue{
			Path:    "detection.uncertainThreshold",
			Message: fmt.Sprintf("must be in [0,1], got %g", cfg.Detection.UncertainThreshold),
		})
	}
	if cfg.Detection.UncertainThreshold > cfg.Detection.ScamThreshold {
		issues = append(issues, ValidationIssue{
			Path:    "detection.uncertainThreshold",
			Message: "must not exceed detection.scamThreshold",
		})
	}
	if cfg.Detection.Ensemble.Weight < 0 || cfg.Detection.Ensemble.Weight > 1 {
		issues = append(issues, ValidationIssue{
			Path:    "detection.ensemble.weight",
			Message: fmt.Sprintf("must be in [0,1], got %g", cfg.Detection.Ensemble.Weight),
		})
	}

	if cfg.Engagement.ContinueCeiling < 1 {
		issues = append(issues, ValidationIssue{
			Path:    "engagement.continueCeiling",
			Message: fmt.Sprintf("must be >= 1, got %d", cfg.Engagement.ContinueCeiling),
		})
	}
	if cfg.Engagement.HardCeiling < cfg.Engagement.ContinueCeiling {
		issues = append(issues, ValidationIssue{
			Path:    "engagement.hardCeiling",
			Message: "must be >= engagement.continueCeiling",
		})
	}
	if cfg.Engagement.GoalWindow < 1 {
		issues = append(issues, ValidationIssue{
			Path:    "engagement.goalWindow",
			Message: fmt.Sprintf("must be >= 1, got %d", cfg.Engagement.GoalWindow),
		})
	}
	if cfg.Engagement.EngageWindow < 1 {
		issues = append(issues, ValidationIssue{
			Path:    "engagement.engageWindow",
			Message: fmt.Sprintf("must be >= 1, got %d", cfg.Engagement.EngageWindow),
		})
	}

	validProviders := []string{"openai", "ollama", "mock"}
	if cfg.LLM.Provider != "" && !slices.Contains(validProviders, cfg.LLM.Provider) {
		issues = append(issues, ValidationIssue{
			Path:    "llm.provider",
			Message: fmt.Sprintf("must be one of %v, got %q", validProviders, cfg.LLM.Provider),
		})
	}
	if cfg.LLM.Provider == "openai" && cfg.LLM.APIKey == "" {
		issues = append(issues, ValidationIssue{
			Path:    "llm.apiKey",
			Message: "required for the openai provider (or set OPENAI_API_KEY)",
		})
	}
	if cfg.LLM.Provider == "ollama" && cfg.LLM.Endpoint == "" {
		issues = append(issues, ValidationIssue{
			Path:    "llm.endpoint",
			Message: "required for the ollama provider (e.g. http://localhost:11434)",
		})
	}
	for _, fb := range cfg.LLM.Fallbacks {
		if !slices.Contains(validProviders, fb) {
			issues = append(issues, ValidationIssue{
				Path:    "llm.fallbacks",
				Message: fmt.Sprintf("unknown provider %q", fb),
			})
		}
	}
	if cfg.LLM.Temperature != nil && (*cfg.LLM.Temperature < 0 || *cfg.LLM.Temperature > 2) {
		issues = append(issues, ValidationIssue{
			Path:    "llm.temperature",
			Message: fmt.Sprintf("must be in [0,2], got %g", *cfg.LLM.Temperature),
		})
	}

	if cfg.Callback.URL != "" && !strings.HasPrefix(cfg.Callback.URL, "http://") && !strings.HasPrefix(cfg.Callback.URL, "https://") {
		issues = append(issues, ValidationIssue{
			Path:    "callback.url",
			Message: "must be an http(s) URL",
		})
	}
	if cfg.Callback.Retries < 1 {
		issues = append(issues, ValidationIssue{
			Path:    "callback.retries",
			Message: fmt.Sprintf("must be >= 1, got %d", cfg.Callback.Retries),
		})
	}

	validBackends := []string{"memory", "sqlite"}
	if cfg.Store.Backend != "" && !slices.Contains(validBackends, cfg.Store.Backend) {
		issues = append(issues, ValidationIssue{
			Path:    "store.backend",
			Message: fmt.Sprintf("must be one of %v, got %q", validBackends, cfg.Store.Backend),
		})
	}

	if cfg.Session.TTLMinutes < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "session.ttlMinutes",
			Message: fmt.Sprintf("must be >= 0, got %d", cfg.Session.TTLMinutes),
		})
	}

	validLogLevels := []string{"silent", "fatal", "error", "warn", "info", "debug", "trace"}
	if cfg.Logging.Level != "" && !slices.Contains(validLogLevels, cfg.Logging.Level) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.level",
			Message: fmt.Sprintf("must be one of %v, got %q", validLogLevels, cfg.Logging.Level),
		})
	}

	return issues
}
