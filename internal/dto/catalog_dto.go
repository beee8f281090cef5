package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateServiceRequest struct {
	Name           string   `json:"name" validate:"required"`
	Category       string   `json:"category" validate:"required"`
	Description    string   `json:"description" validate:"required"`
	Features       []string `json:"features"`
	Pricing        string   `json:"pricing"`
	CompanySize    string   `json:"company_size"`
	Industries     []string `json:"industries"`
	PartnerBenefit string   `json:"partner_benefit"`
	CaseStudies    []string `json:"case_studies"`
}

type CreateServiceResponse struct {
	Id uuid.UUID `json:"id"`
}

type UpdateServiceRequest struct {
	Id             uuid.UUID
	Name           string   `json:"name" validate:"required"`
	Category       string   `json:"category" validate:"required"`
	Description    string   `json:"description" validate:"required"`
	Features       []string `json:"features"`
	Pricing        string   `json:"pricing"`
	CompanySize    string   `json:"company_size"`
	Industries     []string `json:"industries"`
	PartnerBenefit string   `json:"partner_benefit"`
	CaseStudies    []string `json:"case_studies"`
}

// PublishEmbedServiceMessage is the embed-job payload on the internal queue.
type PublishEmbedServiceMessage struct {
	ServiceId uuid.UUID `json:"service_id"`
}

type ShowServiceResponse struct {
	Id             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Category       string     `json:"category"`
	Description    string     `json:"description"`
	Features       []string   `json:"features"`
	Pricing        string     `json:"pricing"`
	CompanySize    string     `json:"company_size"`
	Industries     []string   `json:"industries"`
	PartnerBenefit string     `json:"partner_benefit"`
	CaseStudies    []string   `json:"case_studies"`
	Indexed        bool       `json:"indexed"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at"`
}
