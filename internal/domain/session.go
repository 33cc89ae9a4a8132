package domain

import "time"

// Origin identifies who produced a message in the transcript.
type Origin string

const (
	// OriginCounterpart marks messages from the suspected scammer.
	OriginCounterpart Origin = "scammer"
	// OriginAgent marks messages produced by the honeypot persona.
	OriginAgent Origin = "agent"
)

// Message is a single turn in a session transcript. Transcript order is
// append order and is the context window for reply generation.
type Message struct {
	From      Origin    `json:"from"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is the per-conversation state owned by the store. All mutation
// goes through store operations; nothing outside the store writes fields.
type Session struct {
	ID             string       `json:"id"`
	Messages       []Message    `json:"messages,omitempty"`
	Intelligence   Intelligence `json:"intelligence"`
	TotalMessages  int          `json:"totalMessages"`
	CallbackSent   bool         `json:"callbackSent"`
	CurrentGoal    Goal         `json:"currentGoal,omitempty"`
	GoalsCompleted []Goal       `json:"goalsCompleted,omitempty"`
	CreatedAt      time.Time    `json:"createdAt"`
	LastActivityAt time.Time    `json:"lastActivityAt"`
}

// SessionSummary is the listing view exposed to operators.
type SessionSummary struct {
	ID             string    `json:"id"`
	TotalMessages  int       `json:"totalMessages"`
	CallbackSent   bool      `json:"callbackSent"`
	CurrentGoal    Goal      `json:"currentGoal,omitempty"`
	ArtifactCount  int       `json:"artifactCount"`
	CreatedAt      time.Time `json:"createdAt"`
	LastActivityAt time.Time `json:"lastActivityAt"`
}
