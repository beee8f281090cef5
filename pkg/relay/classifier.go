package relay

import (
	"strings"
	"sync"

	"ai-concierge-be/internal/constant"
	"ai-concierge-be/internal/entity"
)

// Kind names a recognized notification-worthy event.
type Kind string

const (
	KindDownloadSucceeded Kind = "download_succeeded"
	KindDownloadFailed    Kind = "download_failed"
)

// Notification is the classified output for one chat event. Sequence carries
// the event ordinal so the dispatcher can build the idempotency key.
type Notification struct {
	Kind      Kind
	SessionID string
	Question  string
	Sequence  int

	Company string
	Name    string
	Email   string

	// Malformed marks that the answer field was missing trailing contact
	// segments and "unknown" was substituted. The notification is still
	// dispatched; callers log the recovery.
	Malformed bool
}

// Handler maps one recognized question to a notification.
type Handler func(event *entity.ChatEvent) (*Notification, error)

// Classifier routes chat events by their question field. The table is open:
// new event kinds register a handler instead of growing a switch.
type Classifier struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewClassifier returns a classifier preloaded with the document-email
// events the chat widget emits today.
func NewClassifier() *Classifier {
	c := &Classifier{
		handlers: make(map[string]Handler),
	}
	c.Register(constant.QuestionDocumentEmailSent, contactHandler(KindDownloadSucceeded))
	c.Register(constant.QuestionDocumentEmailFailed, contactHandler(KindDownloadFailed))
	return c
}

func (c *Classifier) Register(question string, handler Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[question] = handler
}

// Classify returns the notification for a recognized event, or (nil, nil)
// when the question is not in the table. Unrecognized events are normal
// conversation traffic, not errors.
func (c *Classifier) Classify(event *entity.ChatEvent) (*Notification, error) {
	c.mu.RLock()
	handler, ok := c.handlers[event.Question]
	c.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return handler(event)
}

// contactHandler parses the `company / name / email` composite answer the
// widget sends with document-email events. Missing trailing segments become
// "unknown" rather than failing the whole notification.
func contactHandler(kind Kind) Handler {
	return func(event *entity.ChatEvent) (*Notification, error) {
		company, name, email, malformed := parseContactAnswer(event.Answer)
		return &Notification{
			Kind:      kind,
			SessionID: event.SessionId,
			Question:  event.Question,
			Sequence:  event.Ordinal,
			Company:   company,
			Name:      name,
			Email:     email,
			Malformed: malformed,
		}, nil
	}
}

const unknownField = "unknown"

func parseContactAnswer(answer string) (company, name, email string, malformed bool) {
	parts := strings.Split(answer, " / ")
	fields := [3]string{unknownField, unknownField, unknownField}
	for i := 0; i < len(parts) && i < 3; i++ {
		v := strings.TrimSpace(parts[i])
		if v == "" {
			malformed = true
			continue
		}
		fields[i] = v
	}
	if len(parts) < 3 {
		malformed = true
	}
	return fields[0], fields[1], fields[2], malformed
}
