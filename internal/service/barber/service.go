package barber

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/clipperline/barbershop-api/internal/model"
	"github.com/clipperline/barbershop-api/internal/repository"
	apperrors "github.com/clipperline/barbershop-api/pkg/errors"
)

type Service struct {
	repo repository.BarberRepository
}

func NewService(repo repository.BarberRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListBarbers(ctx context.Context) ([]*model.Barber, error) {
	barbers, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list barbers: %w", err)
	}
	return barbers, nil
}

func (s *Service) GetBarber(ctx context.Context, id uuid.UUID) (*model.Barber, error) {
	barber, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("barber", err)
		}
		return nil, fmt.Errorf("failed to get barber: %w", err)
	}
	return barber, nil
}

func (s *Service) CreateBarber(ctx context.Context, req *model.CreateBarberRequest) (*model.Barber, error) {
	barber := &model.Barber{
		Name:   req.Name,
		Title:  req.Title,
		Rating: req.Rating,
	}
	if req.ImageURL != "" {
		barber.ImageURL = &req.ImageURL
	}

	if err := s.repo.Create(ctx, barber); err != nil {
		return nil, fmt.Errorf("failed to create barber: %w", err)
	}
	return barber, nil
}
