package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clipperline/barbershop-api/internal/model"
)

func (r *serviceRepository) Create(ctx context.Context, service *model.Service) error {
	query := `
		INSERT INTO services (
			id, name, description, price, duration_minutes, category_id,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	service.ID = uuid.New()
	service.CreatedAt = time.Now()
	service.UpdatedAt = service.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		service.ID,
		service.Name,
		service.Description,
		service.Price,
		service.DurationMinutes,
		service.CategoryID,
		service.CreatedAt,
		service.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	return nil
}

func (r *serviceRepository) Get(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	query := `
		SELECT id, name, description, price, duration_minutes, category_id,
		       created_at, updated_at
		FROM services
		WHERE id = $1
	`
	var service model.Service
	if err := r.db.GetContext(ctx, &service, query, id); err != nil {
		return nil, mapNotFound(err)
	}
	return &service, nil
}

func (r *serviceRepository) List(ctx context.Context, categoryID *uuid.UUID) ([]*model.Service, error) {
	query := `
		SELECT id, name, description, price, duration_minutes, category_id,
		       created_at, updated_at
		FROM services
	`
	args := []interface{}{}
	if categoryID != nil {
		query += " WHERE category_id = $1"
		args = append(args, *categoryID)
	}
	query += " ORDER BY name ASC"

	var services []*model.Service
	if err := r.db.SelectContext(ctx, &services, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}
