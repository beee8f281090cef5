package implementation

import (
	"context"

	"ai-concierge-be/internal/entity"
	"ai-concierge-be/internal/mapper"
	"ai-concierge-be/internal/model"
	"ai-concierge-be/internal/repository/contract"
	"ai-concierge-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ChatEventRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatEventMapper
}

func NewChatEventRepository(db *gorm.DB) contract.ChatEventRepository {
	return &ChatEventRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatEventMapper(),
	}
}

func (r *ChatEventRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChatEventRepositoryImpl) Create(ctx context.Context, event *entity.ChatEvent) error {
	m := r.mapper.ToModel(event)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*event = *r.mapper.ToEntity(m)
	return nil
}

func (r *ChatEventRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatEvent, error) {
	var m model.ChatEvent
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ChatEventRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatEvent, error) {
	var models []*model.ChatEvent
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ChatEvent, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *ChatEventRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.ChatEvent{}).Count(&count).Error
	return count, err
}

func (r *ChatEventRepositoryImpl) NextOrdinal(ctx context.Context, sessionID, question string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ChatEvent{}).
		Where("session_id = ?", sessionID).
		Where("question = ?", question).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}
