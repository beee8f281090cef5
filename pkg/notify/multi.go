package notify

import (
	"context"
	"errors"
	"fmt"
)

// DeliveryError reports a fan-out where at least one destination failed.
// Delivered counts the notifiers that accepted the message, so callers can
// tell a total outage (safe to retry) from a partial one (a retry would
// double-send the destinations that already accepted).
type DeliveryError struct {
	Delivered int
	Failed    int
	Err       error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery failed for %d of %d destinations: %v", e.Failed, e.Delivered+e.Failed, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// Multi fans one message out to several destinations. Every notifier gets a
// delivery attempt even when an earlier one fails; failures come back as a
// single DeliveryError carrying the per-destination outcome counts.
type Multi struct {
	notifiers []Notifier
}

func NewMulti(notifiers ...Notifier) *Multi {
	return &Multi{notifiers: notifiers}
}

func (m *Multi) Send(ctx context.Context, msg Message) error {
	var errs []error
	delivered := 0
	for _, n := range m.notifiers {
		if err := n.Send(ctx, msg); err != nil {
			errs = append(errs, err)
			continue
		}
		delivered++
	}
	if len(errs) == 0 {
		return nil
	}
	return &DeliveryError{
		Delivered: delivered,
		Failed:    len(errs),
		Err:       errors.Join(errs...),
	}
}
