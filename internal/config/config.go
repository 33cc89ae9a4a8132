package config

import "fmt"

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

// Defaults returns a Config with sensible defaults applied.
func Defaults() Config {
	temp := 0.8
	return Config{
		Gateway: GatewayConfig{
			Host:      "127.0.0.1",
			Port:      8000,
			RateLimit: 25,
			RateBurst: 50,
		},
		Detection: DetectionConfig{
			ScamThreshold:      0.7,
			UncertainThreshold: 0.4,
			Ensemble: EnsembleConfig{
				Weight: 0.3,
			},
		},
		Engagement: EngagementConfig{
			ContinueCeiling: 8,
			HardCeiling:     14,
			GoalWindow:      5,
			EngageWindow:    3,
		},
		LLM: LLMConfig{
			Provider:       "openai",
			Model:          "gpt-4o-mini",
			MaxTokens:      60,
			Temperature:    &temp,
			TimeoutSeconds: 20,
		},
		Callback: CallbackConfig{
			TimeoutSeconds: 5,
			Retries:        3,
			BackoffMS:      500,
		},
		Store: StoreConfig{
			Backend: "memory",
		},
		Session: SessionConfig{
			TTLMinutes:           1440,
			SweepIntervalMinutes: 10,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
