package config

import (
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// envVarPattern matches ${VAR_NAME} patterns in strings.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnvVars replaces ${VAR} patterns with environment variable values.
// Unset variables are left unchanged.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}

// expandSensitiveFields processes environment variable references in
// credential fields so keys and tokens can be stored as ${ENV_VAR}.
func expandSensitiveFields(cfg *Config) {
	cfg.Gateway.AuthToken = expandEnvVars(cfg.Gateway.AuthToken)
	cfg.Gateway.IngestToken = expandEnvVars(cfg.Gateway.IngestToken)
	cfg.LLM.APIKey = expandEnvVars(cfg.LLM.APIKey)
	cfg.Callback.URL = expandEnvVars(cfg.Callback.URL)
}

// Load reads the config file, applies environment overrides, and returns
// a merged Config. Missing files produce defaults only. A .env file in the
// working directory is loaded first so local development can keep keys out
// of the config file.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(&cfg)
			expandSensitiveFields(&cfg)
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, &ConfigError{Message: "failed to parse config: " + err.Error()}
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	expandSensitiveFields(&cfg)
	return cfg, nil
}

// LoadRaw reads the config file into a generic map for path-based access.
func LoadRaw(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &ConfigError{Message: "failed to parse config: " + err.Error()}
	}
	return raw, nil
}

// SaveRaw writes a generic map back to a YAML config file.
func SaveRaw(path string, raw map[string]any) error {
	data, err := yaml.Marshal(raw)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// applyDefaults fills zero-value fields with sensible defaults. Unmarshal
// overwrites whole structs, so anything the file omitted is refilled here.
func applyDefaults(cfg *Config) {
	def := Defaults()
	if cfg.Gateway.Host == "" {
		cfg.Gateway.Host = def.Gateway.Host
	}
	if cfg.Gateway.Port == 0 {
		cfg.Gateway.Port = def.Gateway.Port
	}
	if cfg.Gateway.RateBurst == 0 {
		cfg.Gateway.RateBurst = def.Gateway.RateBurst
	}
	if cfg.Detection.ScamThreshold == 0 {
		cfg.Detection.ScamThreshold = def.Detection.ScamThreshold
	}
	if cfg.Detection.UncertainThreshold == 0 {
		cfg.Detection.UncertainThreshold = def.Detection.UncertainThreshold
	}
	if cfg.Detection.Ensemble.Weight == 0 {
		cfg.Detection.Ensemble.Weight = def.Detection.Ensemble.Weight
	}
	if cfg.Engagement.ContinueCeiling == 0 {
		cfg.Engagement.ContinueCeiling = def.Engagement.ContinueCeiling
	}
	if cfg.Engagement.HardCeiling == 0 {
		cfg.Engagement.HardCeiling = def.Engagement.HardCeiling
	}
	if cfg.Engagement.GoalWindow == 0 {
		cfg.Engagement.GoalWindow = def.Engagement.GoalWindow
	}
	if cfg.Engagement.EngageWindow == 0 {
		cfg.Engagement.EngageWindow = def.Engagement.EngageWindow
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = def.LLM.Provider
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = def.LLM.Model
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = def.LLM.MaxTokens
	}
	if cfg.LLM.Temperature == nil {
		cfg.LLM.Temperature = def.LLM.Temperature
	}
	if cfg.LLM.TimeoutSeconds == 0 {
		cfg.LLM.TimeoutSeconds = def.LLM.TimeoutSeconds
	}
	if cfg.Callback.TimeoutSeconds == 0 {
		cfg.Callback.TimeoutSeconds = def.Callback.TimeoutSeconds
	}
	if cfg.Callback.Retries == 0 {
		cfg.Callback.Retries = def.Callback.Retries
	}
	if cfg.Callback.BackoffMS == 0 {
		cfg.Callback.BackoffMS = def.Callback.BackoffMS
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = def.Store.Backend
	}
	if cfg.Session.SweepIntervalMinutes == 0 {
		cfg.Session.SweepIntervalMinutes = def.Session.SweepIntervalMinutes
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
}

// applyEnvOverrides reads HONEYPOT_* environment variables and overrides
// config values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HONEYPOT_GATEWAY_HOST"); v != "" {
		cfg.Gateway.Host = v
	}
	if v := os.Getenv("HONEYPOT_GATEWAY_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Gateway.Port = port
		}
	}
	if v := os.Getenv("HONEYPOT_GATEWAY_AUTH_TOKEN"); v != "" {
		cfg.Gateway.AuthToken = v
	}
	if v := os.Getenv("HONEYPOT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("HONEYPOT_LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("HONEYPOT_LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("HONEYPOT_LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("HONEYPOT_CALLBACK_URL"); v != "" {
		cfg.Callback.URL = v
	}
	if v := os.Getenv("HONEYPOT_STORE_BACKEND"); v != "" {
		cfg.Store.Backend = v
	}
	if v := os.Getenv("HONEYPOT_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
}
