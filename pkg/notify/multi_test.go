package notify

import (
	"context"
	"errors"
	"testing"
)

type recordingNotifier struct {
	sent int
	err  error
}

func (r *recordingNotifier) Send(context.Context, Message) error {
	if r.err != nil {
		return r.err
	}
	r.sent++
	return nil
}

func TestMultiSendAllSucceed(t *testing.T) {
	a, b := &recordingNotifier{}, &recordingNotifier{}
	m := NewMulti(a, b)

	if err := m.Send(context.Background(), Message{Heading: "x"}); err != nil {
		t.Fatalf("Send() = %v", err)
	}
	if a.sent != 1 || b.sent != 1 {
		t.Errorf("sends = (%d, %d), want (1, 1)", a.sent, b.sent)
	}
}

func TestMultiSendAttemptsAllOnFailure(t *testing.T) {
	failing := &recordingNotifier{err: errors.New("webhook down")}
	ok := &recordingNotifier{}
	m := NewMulti(failing, ok)

	err := m.Send(context.Background(), Message{Heading: "x"})
	if err == nil {
		t.Fatal("Send() = nil, want error")
	}
	if ok.sent != 1 {
		t.Error("later notifier skipped after earlier failure")
	}

	var de *DeliveryError
	if !errors.As(err, &de) {
		t.Fatalf("Send() = %T, want *DeliveryError", err)
	}
	if de.Delivered != 1 || de.Failed != 1 {
		t.Errorf("DeliveryError = %d delivered / %d failed, want 1/1", de.Delivered, de.Failed)
	}
}

func TestMultiSendTotalOutage(t *testing.T) {
	a := &recordingNotifier{err: errors.New("down")}
	b := &recordingNotifier{err: errors.New("also down")}
	m := NewMulti(a, b)

	err := m.Send(context.Background(), Message{Heading: "x"})

	var de *DeliveryError
	if !errors.As(err, &de) {
		t.Fatalf("Send() = %T, want *DeliveryError", err)
	}
	if de.Delivered != 0 || de.Failed != 2 {
		t.Errorf("DeliveryError = %d delivered / %d failed, want 0/2", de.Delivered, de.Failed)
	}
}

func TestMultiSendNoNotifiers(t *testing.T) {
	if err := NewMulti().Send(context.Background(), Message{}); err != nil {
		t.Errorf("Send() = %v, want nil for empty fan-out", err)
	}
}
