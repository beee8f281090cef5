package implementation

import (
	"context"
	"errors"

	"ai-concierge-be/internal/entity"
	"ai-concierge-be/internal/mapper"
	"ai-concierge-be/internal/model"
	"ai-concierge-be/internal/repository/contract"
	"ai-concierge-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type ServiceRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ServiceMapper
}

func NewServiceRepository(db *gorm.DB) contract.ServiceRepository {
	return &ServiceRepositoryImpl{
		db:     db,
		mapper: mapper.NewServiceMapper(),
	}
}

func (r *ServiceRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ServiceRepositoryImpl) Create(ctx context.Context, service *entity.Service) error {
	m := r.mapper.ToModel(service)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*service = *r.mapper.ToEntity(m)
	return nil
}

func (r *ServiceRepositoryImpl) Update(ctx context.Context, service *entity.Service) error {
	m := r.mapper.ToModel(service)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*service = *r.mapper.ToEntity(m)
	return nil
}

// UpdateEmbedding swaps a record's vector in one statement, so concurrent
// similarity queries never see a half-written value.
func (r *ServiceRepositoryImpl) UpdateEmbedding(ctx context.Context, id uuid.UUID, vector []float32) error {
	return r.db.WithContext(ctx).
		Model(&model.Service{}).
		Where("id = ?", id).
		Update("embedding_value", pgvector.NewVector(vector)).Error
}

func (r *ServiceRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Service{}, id).Error
}

func (r *ServiceRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Service, error) {
	var m model.Service
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ServiceRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Service, error) {
	var models []*model.Service
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Service, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *ServiceRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.Service{}).Count(&count).Error
	return count, err
}

// SearchSimilarWithScore runs the pgvector cosine search and returns rows with
// raw similarity. Soft-deleted and never-indexed services are excluded.
func (r *ServiceRepositoryImpl) SearchSimilarWithScore(ctx context.Context, vector []float32, limit int) ([]*contract.ScoredServiceRow, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.Service
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(vector)

	// Cosine distance in pgvector is 1 - cosine_similarity, so
	// 1 - (embedding_value <=> query) recovers the similarity.
	err := r.db.WithContext(ctx).
		Table("services").
		Select("services.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Where("embedding_value IS NOT NULL").
		Where("deleted_at IS NULL").
		Order("similarity DESC, id ASC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	rows := make([]*contract.ScoredServiceRow, len(results))
	for i, res := range results {
		rows[i] = &contract.ScoredServiceRow{
			Service:    r.mapper.ToEntity(&res.Service),
			Similarity: res.Similarity,
		}
	}
	return rows, nil
}
