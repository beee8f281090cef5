package contract

import (
	"context"

	"ai-concierge-be/internal/entity"
	"ai-concierge-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredServiceRow is a similarity-search hit straight from the store,
// before rank assignment.
type ScoredServiceRow struct {
	Service    *entity.Service
	Similarity float64 // raw cosine similarity (-1..1)
}

type ServiceRepository interface {
	Create(ctx context.Context, service *entity.Service) error
	Update(ctx context.Context, service *entity.Service) error
	UpdateEmbedding(ctx context.Context, id uuid.UUID, vector []float32) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Service, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Service, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	SearchSimilarWithScore(ctx context.Context, vector []float32, limit int) ([]*ScoredServiceRow, error)
}
