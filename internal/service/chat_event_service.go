package service

import (
	"context"
	"time"

	"ai-concierge-be/internal/dto"
	"ai-concierge-be/internal/entity"
	"ai-concierge-be/internal/pkg/logger"
	"ai-concierge-be/internal/repository/memory"
	"ai-concierge-be/internal/repository/unitofwork"
	"ai-concierge-be/pkg/events"
	pktNats "ai-concierge-be/pkg/nats"
	"ai-concierge-be/pkg/relay"

	"github.com/google/uuid"
)

type IChatEventService interface {
	Log(ctx context.Context, req *dto.LogEventRequest) (*dto.LogEventResponse, error)
}

// chatEventService persists every widget event and hands recognized ones to
// the relay. Persistence always succeeds or fails on its own; notification
// outcome never changes the ack the widget sees.
type chatEventService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
	classifier     *relay.Classifier
	dispatcher     *relay.Dispatcher
	recoCache      *memory.RecommendationCache
	log            logger.ILogger
}

func NewChatEventService(
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher *pktNats.Publisher,
	classifier *relay.Classifier,
	dispatcher *relay.Dispatcher,
	recoCache *memory.RecommendationCache,
	log logger.ILogger,
) IChatEventService {
	return &chatEventService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		classifier:     classifier,
		dispatcher:     dispatcher,
		recoCache:      recoCache,
		log:            log,
	}
}

func (c *chatEventService) Log(ctx context.Context, req *dto.LogEventRequest) (*dto.LogEventResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	var sequence int
	if req.Sequence != nil {
		sequence = *req.Sequence
	} else {
		next, err := uow.ChatEventRepository().NextOrdinal(ctx, req.SessionId, req.Question)
		if err != nil {
			return nil, err
		}
		sequence = next
	}

	event := entity.ChatEvent{
		Id:        uuid.New(),
		SessionId: req.SessionId,
		Status:    req.Status,
		Question:  req.Question,
		Answer:    req.Answer,
		Ordinal:   sequence,
		CreatedAt: time.Now(),
	}

	if err := uow.ChatEventRepository().Create(ctx, &event); err != nil {
		return nil, err
	}

	// New conversation state: cached recommendation sets are stale now
	c.recoCache.Invalidate(req.SessionId)

	c.relayAsync(&event)

	return &dto.LogEventResponse{
		EventId:  event.Id.String(),
		Sequence: sequence,
	}, nil
}

// relayAsync hands the event to the notification pipeline without blocking
// the ack. With NATS wired the durable worker picks it up; otherwise a
// goroutine classifies and dispatches inline.
func (c *chatEventService) relayAsync(event *entity.ChatEvent) {
	if c.eventPublisher != nil {
		evt := events.NewChatEventLogged(event.Id, event.SessionId, event.Question, event.Ordinal)
		// Bounded publish; request context may already be done when this runs
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.eventPublisher.Publish(ctx, evt); err != nil {
			c.log.Warn("chat-event", "failed to publish relay event, falling back inline", map[string]interface{}{
				"event_id": event.Id,
				"error":    err.Error(),
			})
			go c.relayInline(event)
		}
		return
	}

	go c.relayInline(event)
}

func (c *chatEventService) relayInline(event *entity.ChatEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	notification, err := c.classifier.Classify(event)
	if err != nil {
		c.log.Error("chat-event", "classification failed", map[string]interface{}{
			"event_id": event.Id,
			"error":    err.Error(),
		})
		return
	}
	if notification == nil {
		return // normal conversation traffic
	}
	if notification.Malformed {
		c.log.Warn("chat-event", "malformed answer field, unknown substituted", map[string]interface{}{
			"event_id": event.Id,
			"answer":   event.Answer,
		})
	}

	result, err := c.dispatcher.Dispatch(ctx, notification)
	if err != nil {
		c.log.Error("chat-event", "notification dispatch failed", map[string]interface{}{
			"event_id": event.Id,
			"error":    err.Error(),
		})
		return
	}

	c.log.Info("chat-event", "notification handled", map[string]interface{}{
		"event_id": event.Id,
		"result":   string(result),
	})
}
