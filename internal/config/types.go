package config

// Config is the root configuration for the honeypot service.
type Config struct {
	Gateway    GatewayConfig    `yaml:"gateway,omitempty"`
	Detection  DetectionConfig  `yaml:"detection,omitempty"`
	Engagement EngagementConfig `yaml:"engagement,omitempty"`
	LLM        LLMConfig        `yaml:"llm,omitempty"`
	Callback   CallbackConfig   `yaml:"callback,omitempty"`
	Store      StoreConfig      `yaml:"store,omitempty"`
	Session    SessionConfig    `yaml:"session,omitempty"`
	Logging    LoggingConfig    `yaml:"logging,omitempty"`
}

// GatewayConfig controls the HTTP/WebSocket server.
type GatewayConfig struct {
	Host           string   `yaml:"host,omitempty"`
	Port           int      `yaml:"port,omitempty"`
	AuthToken      string   `yaml:"authToken,omitempty"`   // operator endpoints + websocket feed
	IngestToken    string   `yaml:"ingestToken,omitempty"` // optional bearer token on /api/v1/ingest
	AllowedOrigins []string `yaml:"allowedOrigins,omitempty"`
	RateLimit      float64  `yaml:"rateLimit,omitempty"` // ingest requests/second; 0 disables
	RateBurst      int      `yaml:"rateBurst,omitempty"`
}

// DetectionConfig controls the risk scorer.
type DetectionConfig struct {
	ScamThreshold      float64        `yaml:"scamThreshold,omitempty"`
	UncertainThreshold float64        `yaml:"uncertainThreshold,omitempty"`
	Ensemble           EnsembleConfig `yaml:"ensemble,omitempty"`
}

// EnsembleConfig enables the optional secondary classifier blended into
// the lexical confidence.
type EnsembleConfig struct {
	Enabled bool    `yaml:"enabled,omitempty"`
	Weight  float64 `yaml:"weight,omitempty"` // secondary share of the blended confidence
}

// EngagementConfig controls the orchestrator's continue/stop behavior.
type EngagementConfig struct {
	ContinueCeiling int `yaml:"continueCeiling,omitempty"` // engage below this count even when not scam
	HardCeiling     int `yaml:"hardCeiling,omitempty"`     // stop unconditionally at this count
	GoalWindow      int `yaml:"goalWindow,omitempty"`      // transcript tail for goal prompts
	EngageWindow    int `yaml:"engageWindow,omitempty"`    // transcript tail for stay-engaged prompts
}

// LLMConfig selects and tunes the reply generator.
type LLMConfig struct {
	Provider       string   `yaml:"provider,omitempty"` // "openai" | "ollama" | "mock"
	Model          string   `yaml:"model,omitempty"`
	APIKey         string   `yaml:"apiKey,omitempty"`
	Endpoint       string   `yaml:"endpoint,omitempty"` // base URL override (required for ollama)
	MaxTokens      int      `yaml:"maxTokens,omitempty"`
	Temperature    *float64 `yaml:"temperature,omitempty"`
	TimeoutSeconds int      `yaml:"timeoutSeconds,omitempty"`
	Fallbacks      []string `yaml:"fallbacks,omitempty"` // provider names tried on retryable errors
}

// CallbackConfig controls the final-report dispatch. An empty URL disables
// dispatch entirely.
type CallbackConfig struct {
	URL            string `yaml:"url,omitempty"`
	TimeoutSeconds int    `yaml:"timeoutSeconds,omitempty"` // per attempt
	Retries        int    `yaml:"retries,omitempty"`        // attempts per dispatch
	BackoffMS      int    `yaml:"backoffMs,omitempty"`      // initial backoff, doubles per attempt
}

// StoreConfig selects the session store backend.
type StoreConfig struct {
	Backend string `yaml:"backend,omitempty"` // "memory" | "sqlite"
	Path    string `yaml:"path,omitempty"`    // sqlite file; defaults under the state dir
}

// SessionConfig controls session lifecycle.
type SessionConfig struct {
	TTLMinutes           int `yaml:"ttlMinutes,omitempty"`   // idle eviction; 0 disables
	SweepIntervalMinutes int `yaml:"sweepMinutes,omitempty"` // sweep cadence
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"` // "silent" | "fatal" | "error" | "warn" | "info" | "debug" | "trace"
}
