package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatEvent is one persisted log event from the chat widget. Append-only.
// SessionId is an opaque token minted by the front-end; it is never parsed.
// Ordinal is the per-(session, question) sequence number that completes the
// notification idempotency key.
type ChatEvent struct {
	Id        uuid.UUID
	SessionId string
	Status    string
	Question  string
	Answer    string
	Ordinal   int
	CreatedAt time.Time
}
