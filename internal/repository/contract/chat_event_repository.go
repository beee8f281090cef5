package contract

import (
	"context"

	"ai-concierge-be/internal/entity"
	"ai-concierge-be/internal/repository/specification"
)

type ChatEventRepository interface {
	Create(ctx context.Context, event *entity.ChatEvent) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatEvent, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatEvent, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// NextOrdinal returns the next per-(session, question) sequence number.
	// Callers that need retry-stable ordinals must pass an explicit sequence
	// instead of relying on this.
	NextOrdinal(ctx context.Context, sessionID, question string) (int, error)
}
