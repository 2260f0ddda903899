// Package catalog serves the browsable storefront: categories, services
// and their admin create paths. Reads go through a short-lived cache since
// the catalog changes rarely and every booking page load hits it.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/clipperline/barbershop-api/internal/model"
	"github.com/clipperline/barbershop-api/internal/repository"
	apperrors "github.com/clipperline/barbershop-api/pkg/errors"
)

const (
	cacheTTL     = 5 * time.Minute
	cacheCleanup = 15 * time.Minute
)

type Service struct {
	categories repository.CategoryRepository
	services   repository.ServiceRepository
	cache      *cache.Cache
}

func NewService(categories repository.CategoryRepository, services repository.ServiceRepository) *Service {
	return &Service{
		categories: categories,
		services:   services,
		cache:      cache.New(cacheTTL, cacheCleanup),
	}
}

// ListCategories returns all categories, or only those of categoryType when
// it is non-empty.
func (s *Service) ListCategories(ctx context.Context, categoryType model.CategoryType) ([]*model.Category, error) {
	key := "categories:all"
	if categoryType != "" {
		key = "categories:" + string(categoryType)
	}
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]*model.Category), nil
	}

	categories, err := s.categories.List(ctx, categoryType)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	s.cache.SetDefault(key, categories)
	return categories, nil
}

func (s *Service) CreateCategory(ctx context.Context, req *model.CreateCategoryRequest) (*model.Category, error) {
	category := &model.Category{
		Name: req.Name,
		Type: model.CategoryType(req.Type),
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.cache.Flush()
	return category, nil
}

func (s *Service) ListServices(ctx context.Context, categoryID *uuid.UUID) ([]*model.Service, error) {
	key := "services:all"
	if categoryID != nil {
		key = "services:" + categoryID.String()
	}
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]*model.Service), nil
	}

	services, err := s.services.List(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}

	s.cache.SetDefault(key, services)
	return services, nil
}

func (s *Service) GetService(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	service, err := s.services.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("service", err)
		}
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return service, nil
}

func (s *Service) CreateService(ctx context.Context, req *model.CreateServiceRequest) (*model.Service, error) {
	service := &model.Service{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		DurationMinutes: req.Duration,
	}
	if req.CategoryID != "" {
		id, err := uuid.Parse(req.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("invalid category id: %w", err)
		}
		if _, err := s.categories.Get(ctx, id); err != nil {
			return nil, fmt.Errorf("failed to resolve category: %w", err)
		}
		service.CategoryID = &id
	}

	if err := s.services.Create(ctx, service); err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}

	s.cache.Flush()
	return service, nil
}
