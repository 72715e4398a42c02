package usecase

import (
	"context"
	"fmt"

	"home-cleaning/internal/data/entity"
	"home-cleaning/internal/data/repository"
	"home-cleaning/internal/dto/request"
	"home-cleaning/pkg/utils"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

type CatalogService interface {
	// Public endpoints
	ListActive(ctx context.Context) ([]*entity.Service, error)
	Get(ctx context.Context, serviceID string) (*entity.Service, error)

	// Admin endpoints
	Create(ctx context.Context, req *request.ServiceRequest) (*entity.Service, error)
	Update(ctx context.Context, serviceID string, req *request.ServiceRequest) (*entity.Service, error)
	SoftDelete(ctx context.Context, serviceID string) error
	ListAll(ctx context.Context) ([]*entity.Service, error)
}

type catalogService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCatalogService(repo *repository.Repository, log *zap.Logger) CatalogService {
	return &catalogService{
		repo: repo,
		log:  log.With(zap.String("service", "catalog")),
	}
}

func (s *catalogService) ListActive(ctx context.Context) ([]*entity.Service, error) {
	services, err := s.repo.Service.FindActive(ctx)
	if err != nil {
		s.log.Error("Failed to list active services", zap.Error(err))
		return nil, fmt.Errorf("list services: %w", err)
	}

	return services, nil
}

func (s *catalogService) Get(ctx context.Context, serviceID string) (*entity.Service, error) {
	objectID, err := bson.ObjectIDFromHex(serviceID)
	if err != nil {
		return nil, fmt.Errorf("service not found")
	}

	service, err := s.repo.Service.FindByID(ctx, objectID)
	if err != nil {
		s.log.Error("Failed to get service", zap.Error(err), zap.String("service_id", serviceID))
		return nil, fmt.Errorf("get service: %w", err)
	}
	if service == nil {
		return nil, fmt.Errorf("service not found")
	}

	return service, nil
}

func (s *catalogService) Create(ctx context.Context, req *request.ServiceRequest) (*entity.Service, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create service validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	service := serviceFromRequest(req)

	// New services are listed unless explicitly created inactive
	service.IsActive = true
	if req.IsActive != nil {
		service.IsActive = *req.IsActive
	}

	if err := s.repo.Service.Create(ctx, service); err != nil {
		s.log.Error("Failed to create service", zap.Error(err), zap.String("name", req.Name))
		return nil, fmt.Errorf("create service: %w", err)
	}

	s.log.Info("Service created",
		zap.String("service_id", service.ID.Hex()),
		zap.String("name", service.Name))

	return service, nil
}

func (s *catalogService) Update(ctx context.Context, serviceID string, req *request.ServiceRequest) (*entity.Service, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update service validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	objectID, err := bson.ObjectIDFromHex(serviceID)
	if err != nil {
		return nil, fmt.Errorf("service not found")
	}

	service := serviceFromRequest(req)

	service.IsActive = true
	if req.IsActive != nil {
		service.IsActive = *req.IsActive
	}

	updated, err := s.repo.Service.Update(ctx, objectID, service)
	if err != nil {
		s.log.Error("Failed to update service", zap.Error(err), zap.String("service_id", serviceID))
		return nil, fmt.Errorf("update service: %w", err)
	}
	if updated == nil {
		return nil, fmt.Errorf("service not found")
	}

	s.log.Info("Service updated", zap.String("service_id", serviceID))
	return updated, nil
}

func (s *catalogService) SoftDelete(ctx context.Context, serviceID string) error {
	objectID, err := bson.ObjectIDFromHex(serviceID)
	if err != nil {
		return fmt.Errorf("service not found")
	}

	deleted, err := s.repo.Service.SoftDelete(ctx, objectID)
	if err != nil {
		s.log.Error("Failed to delete service", zap.Error(err), zap.String("service_id", serviceID))
		return fmt.Errorf("delete service: %w", err)
	}
	if deleted == nil {
		return fmt.Errorf("service not found")
	}

	s.log.Info("Service deactivated", zap.String("service_id", serviceID))
	return nil
}

func (s *catalogService) ListAll(ctx context.Context) ([]*entity.Service, error) {
	services, err := s.repo.Service.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to list all services", zap.Error(err))
		return nil, fmt.Errorf("list services: %w", err)
	}

	return services, nil
}

func serviceFromRequest(req *request.ServiceRequest) *entity.Service {
	return &entity.Service{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		PricingPlans: entity.PricingPlans{
			Hourly:  req.PricingPlans.Hourly,
			Daily:   req.PricingPlans.Daily,
			Weekly:  req.PricingPlans.Weekly,
			Monthly: req.PricingPlans.Monthly,
			Yearly:  req.PricingPlans.Yearly,
		},
		Duration:       req.Duration,
		Image:          req.Image,
		Category:       entity.ServiceCategory(req.Category),
		IsQuickService: req.IsQuickService,
	}
}
