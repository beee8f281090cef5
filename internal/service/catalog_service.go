package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ai-concierge-be/internal/dto"
	"ai-concierge-be/internal/entity"
	"ai-concierge-be/internal/pkg/logger"
	"ai-concierge-be/internal/repository/specification"
	"ai-concierge-be/internal/repository/unitofwork"
	"ai-concierge-be/pkg/catalog"

	"github.com/google/uuid"
)

type ICatalogService interface {
	Create(ctx context.Context, req *dto.CreateServiceRequest) (*dto.CreateServiceResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.ShowServiceResponse, error)
	List(ctx context.Context) ([]*dto.ShowServiceResponse, error)
	Update(ctx context.Context, req *dto.UpdateServiceRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
	Reindex(ctx context.Context, id uuid.UUID) error
	// HydrateIndex loads every embedded service into the in-memory index.
	// Called once at boot; a no-op for index backends that read the store
	// directly.
	HydrateIndex(ctx context.Context) error
}

type catalogService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	index            catalog.Index
	log              logger.ILogger
}

func NewCatalogService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	index catalog.Index,
	log logger.ILogger,
) ICatalogService {
	return &catalogService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		index:            index,
		log:              log,
	}
}

func (c *catalogService) Create(ctx context.Context, req *dto.CreateServiceRequest) (*dto.CreateServiceResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	svc := entity.Service{
		Id:             uuid.New(),
		Name:           req.Name,
		Category:       req.Category,
		Description:    req.Description,
		Features:       req.Features,
		Pricing:        req.Pricing,
		CompanySize:    req.CompanySize,
		Industries:     req.Industries,
		PartnerBenefit: req.PartnerBenefit,
		CaseStudies:    req.CaseStudies,
		CreatedAt:      time.Now(),
	}

	if err := uow.ServiceRepository().Create(ctx, &svc); err != nil {
		return nil, err
	}

	if err := c.publishEmbedJob(ctx, svc.Id); err != nil {
		return nil, err
	}

	return &dto.CreateServiceResponse{Id: svc.Id}, nil
}

func (c *catalogService) Show(ctx context.Context, id uuid.UUID) (*dto.ShowServiceResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	svc, err := uow.ServiceRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, nil // Not found
	}
	return toShowResponse(svc), nil
}

func (c *catalogService) List(ctx context.Context) ([]*dto.ShowServiceResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	services, err := uow.ServiceRepository().FindAll(ctx, specification.OrderBy{Field: "name"})
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ShowServiceResponse, 0, len(services))
	for _, svc := range services {
		res = append(res, toShowResponse(svc))
	}
	return res, nil
}

func (c *catalogService) Update(ctx context.Context, req *dto.UpdateServiceRequest) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	svc, err := uow.ServiceRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return err
	}
	if svc == nil {
		return fmt.Errorf("service %s not found", req.Id)
	}

	now := time.Now()
	svc.Name = req.Name
	svc.Category = req.Category
	svc.Description = req.Description
	svc.Features = req.Features
	svc.Pricing = req.Pricing
	svc.CompanySize = req.CompanySize
	svc.Industries = req.Industries
	svc.PartnerBenefit = req.PartnerBenefit
	svc.CaseStudies = req.CaseStudies
	svc.UpdatedAt = &now

	if err := uow.ServiceRepository().Update(ctx, svc); err != nil {
		return err
	}

	// Content changed, so the stored vector is stale until the job lands
	return c.publishEmbedJob(ctx, svc.Id)
}

func (c *catalogService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ServiceRepository().Delete(ctx, id); err != nil {
		return err
	}
	if err := c.index.Remove(ctx, id); err != nil {
		c.log.Warn("catalog", "failed to remove service from index", map[string]interface{}{
			"service_id": id,
			"error":      err.Error(),
		})
	}
	return nil
}

func (c *catalogService) Reindex(ctx context.Context, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	svc, err := uow.ServiceRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if svc == nil {
		return fmt.Errorf("service %s not found", id)
	}
	return c.publishEmbedJob(ctx, id)
}

func (c *catalogService) HydrateIndex(ctx context.Context) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	services, err := uow.ServiceRepository().FindAll(ctx, specification.WithEmbedding{})
	if err != nil {
		return err
	}

	loaded := 0
	for _, svc := range services {
		if len(svc.EmbeddingValue) == 0 {
			continue
		}
		if err := c.index.Upsert(ctx, catalog.Entry{ServiceID: svc.Id, Vector: svc.EmbeddingValue}); err != nil {
			return err
		}
		loaded++
	}

	c.log.Info("catalog", "index hydrated", map[string]interface{}{
		"services": loaded,
	})
	return nil
}

func (c *catalogService) publishEmbedJob(ctx context.Context, id uuid.UUID) error {
	payload, err := json.Marshal(dto.PublishEmbedServiceMessage{ServiceId: id})
	if err != nil {
		return err
	}
	return c.publisherService.Publish(ctx, payload)
}

func toShowResponse(svc *entity.Service) *dto.ShowServiceResponse {
	return &dto.ShowServiceResponse{
		Id:             svc.Id,
		Name:           svc.Name,
		Category:       svc.Category,
		Description:    svc.Description,
		Features:       svc.Features,
		Pricing:        svc.Pricing,
		CompanySize:    svc.CompanySize,
		Industries:     svc.Industries,
		PartnerBenefit: svc.PartnerBenefit,
		CaseStudies:    svc.CaseStudies,
		Indexed:        len(svc.EmbeddingValue) > 0,
		CreatedAt:      svc.CreatedAt,
		UpdatedAt:      svc.UpdatedAt,
	}
}
