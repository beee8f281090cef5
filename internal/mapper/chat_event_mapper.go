package mapper

import (
	"ai-concierge-be/internal/entity"
	"ai-concierge-be/internal/model"
)

type ChatEventMapper struct{}

func NewChatEventMapper() *ChatEventMapper {
	return &ChatEventMapper{}
}

func (m *ChatEventMapper) ToEntity(e *model.ChatEvent) *entity.ChatEvent {
	if e == nil {
		return nil
	}
	return &entity.ChatEvent{
		Id:        e.Id,
		SessionId: e.SessionId,
		Status:    e.Status,
		Question:  e.Question,
		Answer:    e.Answer,
		Ordinal:   e.Ordinal,
		CreatedAt: e.CreatedAt,
	}
}

func (m *ChatEventMapper) ToModel(e *entity.ChatEvent) *model.ChatEvent {
	if e == nil {
		return nil
	}
	return &model.ChatEvent{
		Id:        e.Id,
		SessionId: e.SessionId,
		Status:    e.Status,
		Question:  e.Question,
		Answer:    e.Answer,
		Ordinal:   e.Ordinal,
		CreatedAt: e.CreatedAt,
	}
}
