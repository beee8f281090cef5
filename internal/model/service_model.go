package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name           string          `gorm:"type:varchar(255);not null"`
	Category       string          `gorm:"type:varchar(100);index"`
	Description    string          `gorm:"type:text"`
	Features       datatypes.JSON  `gorm:"type:jsonb"` // []string
	Pricing        string          `gorm:"type:text"`
	CompanySize    string          `gorm:"type:varchar(50)"`
	Industries     datatypes.JSON  `gorm:"type:jsonb"` // []string
	PartnerBenefit string          `gorm:"type:text"`
	CaseStudies    datatypes.JSON  `gorm:"type:jsonb"` // []string
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"` // dim follows EMBEDDING_DIMENSION, 768 for text-embedding-004 / nomic
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime"`
	DeletedAt      gorm.DeletedAt  `gorm:"index"`
}

func (Service) TableName() string {
	return "services"
}
