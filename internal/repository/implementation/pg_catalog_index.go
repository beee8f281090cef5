package implementation

import (
	"context"

	"ai-concierge-be/internal/model"
	"ai-concierge-be/internal/repository/contract"
	"ai-concierge-be/pkg/catalog"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PgCatalogIndex is the CATALOG_INDEX=pgvector backend: queries run in SQL
// against the services table, so the index "is" the table. Search and vector
// writes go through the service repository; only Remove touches the table
// directly, because clearing a vector means writing NULL, not a value.
type PgCatalogIndex struct {
	db       *gorm.DB
	services contract.ServiceRepository
}

func NewPgCatalogIndex(db *gorm.DB) *PgCatalogIndex {
	return &PgCatalogIndex{
		db:       db,
		services: NewServiceRepository(db),
	}
}

var _ catalog.Index = (*PgCatalogIndex)(nil)

func (idx *PgCatalogIndex) Upsert(ctx context.Context, entry catalog.Entry) error {
	return idx.services.UpdateEmbedding(ctx, entry.ServiceID, entry.Vector)
}

func (idx *PgCatalogIndex) Remove(ctx context.Context, id uuid.UUID) error {
	return idx.db.WithContext(ctx).
		Model(&model.Service{}).
		Where("id = ?", id).
		Update("embedding_value", nil).Error
}

func (idx *PgCatalogIndex) Query(ctx context.Context, vector []float32, k int) ([]catalog.Match, error) {
	if k <= 0 {
		return []catalog.Match{}, nil
	}

	rows, err := idx.services.SearchSimilarWithScore(ctx, vector, k)
	if err != nil {
		return nil, err
	}

	matches := make([]catalog.Match, len(rows))
	for i, r := range rows {
		// The store reports cosine similarity; the score map expects the
		// distance, which is its complement.
		matches[i] = catalog.Match{
			ServiceID: r.Service.Id,
			Score:     catalog.ScoreFromCosineDistance(1 - r.Similarity),
		}
	}
	return matches, nil
}
