package domain

import "time"

// Goal is the current conversational objective: what the persona's next
// reply should try to elicit from the counterpart.
type Goal string

const (
	GoalAskForPayment          Goal = "ask_for_payment"
	GoalAskForAlternatePayment Goal = "ask_for_alternate_payment"
	GoalAskForPhone            Goal = "ask_for_phone"
	GoalConfirmDetails         Goal = "confirm_details"
	GoalKeepEngaged            Goal = "keep_engaged"
)

// Stage labels the engagement mode reported to the caller.
type Stage string

const (
	StageProbing    Stage = "probing"
	StageExtraction Stage = "extraction"
	StageClosing    Stage = "closing"
)

// SeedMessage is a prior-conversation turn supplied by the caller when a
// session starts mid-conversation.
type SeedMessage struct {
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Metadata is channel context supplied by the caller. It is logged but
// never used for decisioning.
type Metadata struct {
	Channel  string `json:"channel,omitempty"`
	Language string `json:"language,omitempty"`
	Locale   string `json:"locale,omitempty"`
}

// InboundMessage is one counterpart message entering the engine.
type InboundMessage struct {
	SessionID string        `json:"sessionId"`
	Sender    string        `json:"sender"`
	Text      string        `json:"text"`
	Timestamp time.Time     `json:"timestamp"`
	History   []SeedMessage `json:"conversationHistory,omitempty"`
	Metadata  Metadata      `json:"metadata,omitempty"`
}

// EngagementResult is what the engine returns to the transport layer for
// one processed message.
type EngagementResult struct {
	SessionID      string   `json:"sessionId"`
	Status         string   `json:"status"`
	AgentActivated bool     `json:"agentActivated"`
	Decision       Decision `json:"decision"`
	Confidence     float64  `json:"confidence"`
	Signals        []string `json:"signals"`
	CurrentGoal    Goal     `json:"currentGoal,omitempty"`
	AgentStage     Stage    `json:"agentStage"`
	AgentReply     string   `json:"agentReply"`
	TotalMessages  int      `json:"totalMessages"`
	CallbackFired  bool     `json:"callbackFired"`
}

// CallbackReport is the one-time final intelligence report POSTed to the
// configured evaluation endpoint when a session stops.
type CallbackReport struct {
	SessionID              string              `json:"sessionId"`
	ScamDetected           bool                `json:"scamDetected"`
	TotalMessagesExchanged int                 `json:"totalMessagesExchanged"`
	ExtractedIntelligence  map[string][]string `json:"extractedIntelligence"`
	AgentNotes             string              `json:"agentNotes"`
}
