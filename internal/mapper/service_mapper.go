package mapper

import (
	"encoding/json"
	"time"

	"ai-concierge-be/internal/entity"
	"ai-concierge-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ServiceMapper struct{}

func NewServiceMapper() *ServiceMapper {
	return &ServiceMapper{}
}

func (m *ServiceMapper) ToEntity(e *model.Service) *entity.Service {
	if e == nil {
		return nil
	}

	var deletedAt *time.Time
	if e.DeletedAt.Valid {
		t := e.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.Service{
		Id:             e.Id,
		Name:           e.Name,
		Category:       e.Category,
		Description:    e.Description,
		Features:       decodeStringList(e.Features),
		Pricing:        e.Pricing,
		CompanySize:    e.CompanySize,
		Industries:     decodeStringList(e.Industries),
		PartnerBenefit: e.PartnerBenefit,
		CaseStudies:    decodeStringList(e.CaseStudies),
		EmbeddingValue: e.EmbeddingValue.Slice(),
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
		IsDeleted:      e.DeletedAt.Valid,
	}
}

func (m *ServiceMapper) ToModel(e *entity.Service) *model.Service {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	} else if e.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.Service{
		Id:             e.Id,
		Name:           e.Name,
		Category:       e.Category,
		Description:    e.Description,
		Features:       encodeStringList(e.Features),
		Pricing:        e.Pricing,
		CompanySize:    e.CompanySize,
		Industries:     encodeStringList(e.Industries),
		PartnerBenefit: e.PartnerBenefit,
		CaseStudies:    encodeStringList(e.CaseStudies),
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
	}
}

func decodeStringList(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

func encodeStringList(items []string) datatypes.JSON {
	if items == nil {
		items = []string{}
	}
	raw, _ := json.Marshal(items)
	return datatypes.JSON(raw)
}
