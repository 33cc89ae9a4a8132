package domain

// Decision buckets a risk confidence score.
type Decision string

const (
	DecisionScam      Decision = "scam"
	DecisionUncertain Decision = "uncertain"
	DecisionSafe      Decision = "safe"
)

// Signal names emitted by the risk scorer, in firing order.
const (
	SignalUrgency                = "urgency"
	SignalThreat                 = "threat"
	SignalActionRequest          = "action_request"
	SignalAuthorityImpersonation = "authority_impersonation"
	SignalSensitiveInfoRequest   = "sensitive_info_request"
	SignalSuspiciousURL          = "suspicious_url"
	SignalGrammarAnomaly         = "grammar_anomaly"
)

// Assessment is the risk scorer's verdict on a single message.
type Assessment struct {
	Confidence float64  `json:"confidence"`
	Decision   Decision `json:"decision"`
	Signals    []string `json:"signals"`
}
