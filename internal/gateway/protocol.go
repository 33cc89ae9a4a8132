package gateway

import "time"

// FrameTypeEvent is the only frame type the operator feed emits. The feed
// is push-only: clients read frames and never send.
const FrameTypeEvent = "event"

// EventFrame is one pushed feed message. Seq increases monotonically per
// server so a consumer can detect gaps after a reconnect.
type EventFrame struct {
	Type  string         `json:"type"`
	Event string         `json:"event"`
	Data  map[string]any `json:"data,omitempty"`
	Seq   int64          `json:"seq"`
	TS    int64          `json:"ts"` // unix milliseconds
}

// NewEventFrame builds an event frame stamped with the current time.
func NewEventFrame(event string, data map[string]any, seq int64) EventFrame {
	return EventFrame{
		Type:  FrameTypeEvent,
		Event: event,
		Data:  data,
		Seq:   seq,
		TS:    time.Now().UnixMilli(),
	}
}
