package model

import (
	"time"

	"github.com/google/uuid"
)

type ChatEvent struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId string    `gorm:"type:varchar(255);not null;index:idx_chat_events_session_question"`
	Status    string    `gorm:"type:varchar(50)"`
	Question  string    `gorm:"type:varchar(255);not null;index:idx_chat_events_session_question"`
	Answer    string    `gorm:"type:text"`
	Ordinal   int       `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (ChatEvent) TableName() string {
	return "chat_events"
}
