package entity

import (
	"time"

	"github.com/google/uuid"
)

// Service is one catalog offering. Immutable once indexed except through the
// explicit upsert/reindex path; EmbeddingValue is whatever the embed consumer
// last stored for it (empty until first indexing completes).
type Service struct {
	Id             uuid.UUID
	Name           string
	Category       string
	Description    string
	Features       []string
	Pricing        string
	CompanySize    string
	Industries     []string
	PartnerBenefit string
	CaseStudies    []string
	EmbeddingValue []float32
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}
