package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ai-concierge-be/internal/dto"
	"ai-concierge-be/internal/entity"
	"ai-concierge-be/internal/pkg/logger"
	"ai-concierge-be/internal/repository/specification"
	"ai-concierge-be/internal/repository/unitofwork"
	"ai-concierge-be/pkg/catalog"
	"ai-concierge-be/pkg/embedding"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the embed-job queue: load the service, build its
// document text, embed it, persist the vector and refresh the index entry.
type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	index             catalog.Index
	log               logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	index catalog.Index,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		index:             index,
		log:               log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedServiceMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("embed-consumer", "failed to unmarshal embed job", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	svc, err := uow.ServiceRepository().FindOne(ctx, specification.ByID{ID: payload.ServiceId})
	if err != nil {
		cs.log.Error("embed-consumer", "failed to load service", map[string]interface{}{
			"service_id": payload.ServiceId,
			"error":      err.Error(),
		})
		msg.Nack() // Retriable
		return
	}
	if svc == nil {
		// Deleted between enqueue and processing
		msg.Ack()
		return
	}

	content := buildServiceDocument(svc)

	res, err := cs.embeddingProvider.Generate(content, embedding.TaskTypeDocument)
	if err != nil {
		cs.log.Error("embed-consumer", "embedding generation failed", map[string]interface{}{
			"service_id": svc.Id,
			"error":      err.Error(),
		})
		msg.Nack()
		return
	}

	vector := res.Embedding.Values

	if err := uow.ServiceRepository().UpdateEmbedding(ctx, svc.Id, vector); err != nil {
		cs.log.Error("embed-consumer", "failed to persist embedding", map[string]interface{}{
			"service_id": svc.Id,
			"error":      err.Error(),
		})
		msg.Nack()
		return
	}

	if err := cs.index.Upsert(ctx, catalog.Entry{ServiceID: svc.Id, Vector: vector}); err != nil {
		cs.log.Error("embed-consumer", "failed to refresh index entry", map[string]interface{}{
			"service_id": svc.Id,
			"error":      err.Error(),
		})
		msg.Nack()
		return
	}

	cs.log.Info("embed-consumer", "service indexed", map[string]interface{}{
		"service_id": svc.Id,
		"dimension":  len(vector),
	})
	msg.Ack()
}

// buildServiceDocument flattens a catalog record into the text that gets
// embedded. Field order is fixed so re-embedding unchanged content yields an
// identical document.
func buildServiceDocument(svc *entity.Service) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Service: %s\nCategory: %s\n\n%s\n", svc.Name, svc.Category, svc.Description)

	if len(svc.Features) > 0 {
		b.WriteString("\nFeatures:\n")
		for _, f := range svc.Features {
			b.WriteString("- " + f + "\n")
		}
	}
	if len(svc.Industries) > 0 {
		b.WriteString("\nIndustries: " + strings.Join(svc.Industries, ", ") + "\n")
	}
	if svc.CompanySize != "" {
		b.WriteString("Company size: " + svc.CompanySize + "\n")
	}

	return b.String()
}
