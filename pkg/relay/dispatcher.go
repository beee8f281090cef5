package relay

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"ai-concierge-be/pkg/notify"
	"ai-concierge-be/pkg/relay/idempotency"
)

// Result reports what Dispatch did with a notification.
type Result string

const (
	// Dispatched: this call performed the single outbound send.
	Dispatched Result = "dispatched"
	// Duplicate: another call already claimed this triple; no send.
	Duplicate Result = "duplicate"
	// Skipped: nil notification (unrecognized event); no send.
	Skipped Result = "skipped"
)

// Dispatcher performs at-most-once delivery per (session, question,
// sequence) triple, fronted by the idempotency store.
type Dispatcher struct {
	store    idempotency.Store
	notifier notify.Notifier
}

func NewDispatcher(store idempotency.Store, notifier notify.Notifier) *Dispatcher {
	return &Dispatcher{
		store:    store,
		notifier: notifier,
	}
}

// Dispatch claims the notification's key and sends it. A fully failed send
// gives the key back so a client retry with the same triple can go out; a
// successful or partially delivered send keeps the claim, so the retry
// becomes Duplicate.
func (d *Dispatcher) Dispatch(ctx context.Context, n *Notification) (Result, error) {
	if n == nil {
		return Skipped, nil
	}

	key := dispatchKey(n)
	acquired, err := d.store.Acquire(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to check idempotency for %s: %w", key, err)
	}
	if !acquired {
		return Duplicate, nil
	}

	if err := d.notifier.Send(ctx, renderMessage(n)); err != nil {
		// A partial fan-out keeps the claim: releasing it would let a retry
		// double-send the destinations that already accepted
		var de *notify.DeliveryError
		if errors.As(err, &de) && de.Delivered > 0 {
			return "", fmt.Errorf("partial send for %s, claim kept: %w", key, err)
		}
		if relErr := d.store.Release(ctx, key); relErr != nil {
			return "", fmt.Errorf("send failed (%v) and key release failed: %w", err, relErr)
		}
		return "", fmt.Errorf("failed to send notification for %s: %w", key, err)
	}

	return Dispatched, nil
}

func dispatchKey(n *Notification) string {
	return n.SessionID + "|" + n.Question + "|" + strconv.Itoa(n.Sequence)
}

func renderMessage(n *Notification) notify.Message {
	var icon, heading string
	switch n.Kind {
	case KindDownloadSucceeded:
		icon = "📄"
		heading = "Document request completed"
	case KindDownloadFailed:
		icon = "⚠️"
		heading = "Document delivery failed"
	default:
		icon = "🔔"
		heading = "Chatbot event: " + string(n.Kind)
	}

	body := fmt.Sprintf("*Company:* %s\n*Name:* %s\n*Email:* %s", n.Company, n.Name, n.Email)

	return notify.Message{
		Icon:    icon,
		Heading: heading,
		Body:    body,
		Session: n.SessionID,
	}
}
