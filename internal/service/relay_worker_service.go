package service

import (
	"context"
	"fmt"

	"ai-concierge-be/internal/pkg/logger"
	"ai-concierge-be/internal/repository/specification"
	"ai-concierge-be/internal/repository/unitofwork"
	"ai-concierge-be/pkg/events"
	pktNats "ai-concierge-be/pkg/nats"
	"ai-concierge-be/pkg/relay"

	"github.com/google/uuid"
)

const relayDurableName = "chat-event-relay"

type IRelayWorkerService interface {
	Start() error
}

// relayWorkerService is the durable consumer behind the log endpoint: it
// re-reads the persisted event and runs classify + dispatch. Re-reading keeps
// the bus payload advisory; the row is the source of truth.
type relayWorkerService struct {
	subscriber *pktNats.Subscriber
	uowFactory unitofwork.RepositoryFactory
	classifier *relay.Classifier
	dispatcher *relay.Dispatcher
	log        logger.ILogger
}

func NewRelayWorkerService(
	subscriber *pktNats.Subscriber,
	uowFactory unitofwork.RepositoryFactory,
	classifier *relay.Classifier,
	dispatcher *relay.Dispatcher,
	log logger.ILogger,
) IRelayWorkerService {
	return &relayWorkerService{
		subscriber: subscriber,
		uowFactory: uowFactory,
		classifier: classifier,
		dispatcher: dispatcher,
		log:        log,
	}
}

func (w *relayWorkerService) Start() error {
	subject := pktNats.SubjectFor(events.TypeChatEventLogged)
	return w.subscriber.Subscribe(subject, relayDurableName, w.handle)
}

func (w *relayWorkerService) handle(ctx context.Context, event events.Event) error {
	rawID, ok := event.Payload()["event_id"].(string)
	if !ok {
		// Poison message; erroring would loop it forever
		w.log.Error("relay-worker", "event payload missing event_id", map[string]interface{}{
			"payload": event.Payload(),
		})
		return nil
	}

	eventID, err := uuid.Parse(rawID)
	if err != nil {
		w.log.Error("relay-worker", "invalid event_id in payload", map[string]interface{}{
			"event_id": rawID,
			"error":    err.Error(),
		})
		return nil
	}

	uow := w.uowFactory.NewUnitOfWork(ctx)
	chatEvent, err := uow.ChatEventRepository().FindOne(ctx, specification.ByID{ID: eventID})
	if err != nil {
		return fmt.Errorf("failed to load chat event %s: %w", eventID, err)
	}
	if chatEvent == nil {
		w.log.Warn("relay-worker", "chat event not found, dropping", map[string]interface{}{
			"event_id": eventID,
		})
		return nil
	}

	notification, err := w.classifier.Classify(chatEvent)
	if err != nil {
		return fmt.Errorf("failed to classify chat event %s: %w", eventID, err)
	}
	if notification == nil {
		return nil
	}
	if notification.Malformed {
		w.log.Warn("relay-worker", "malformed answer field, unknown substituted", map[string]interface{}{
			"event_id": eventID,
			"answer":   chatEvent.Answer,
		})
	}

	result, err := w.dispatcher.Dispatch(ctx, notification)
	if err != nil {
		// Redelivery is safe: the idempotency key was released on failure
		return fmt.Errorf("failed to dispatch notification for %s: %w", eventID, err)
	}

	w.log.Info("relay-worker", "notification handled", map[string]interface{}{
		"event_id": eventID,
		"result":   string(result),
	})
	return nil
}
