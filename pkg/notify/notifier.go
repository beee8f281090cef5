package notify

import "context"

// Message is one outbound notification, already rendered by the dispatcher.
type Message struct {
	Icon    string
	Heading string
	Body    string
	Session string
}

// Notifier delivers a rendered message to one destination.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}
