package events

import (
	"time"

	"github.com/google/uuid"
)

// TypeChatEventLogged flows from the log endpoint to the relay worker.
const TypeChatEventLogged = "CHAT_EVENT_LOGGED"

// NewChatEventLogged wraps a persisted chat event for the bus. The payload
// carries the event row id so the worker re-reads the authoritative record
// instead of trusting bus data.
func NewChatEventLogged(eventID uuid.UUID, sessionID, question string, ordinal int) BaseEvent {
	return BaseEvent{
		Type: TypeChatEventLogged,
		Data: map[string]interface{}{
			"event_id":   eventID.String(),
			"session_id": sessionID,
			"question":   question,
			"ordinal":    ordinal,
		},
		OccurredAt: time.Now(),
	}
}
