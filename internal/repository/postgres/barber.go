package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clipperline/barbershop-api/internal/model"
)

func (r *barberRepository) Create(ctx context.Context, barber *model.Barber) error {
	query := `
		INSERT INTO barbers (id, name, title, image_url, rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	barber.ID = uuid.New()
	barber.CreatedAt = time.Now()
	barber.UpdatedAt = barber.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		barber.ID,
		barber.Name,
		barber.Title,
		barber.ImageURL,
		barber.Rating,
		barber.CreatedAt,
		barber.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create barber: %w", err)
	}
	return nil
}

func (r *barberRepository) Get(ctx context.Context, id uuid.UUID) (*model.Barber, error) {
	query := `
		SELECT id, name, title, image_url, rating, created_at, updated_at
		FROM barbers
		WHERE id = $1
	`
	var barber model.Barber
	if err := r.db.GetContext(ctx, &barber, query, id); err != nil {
		return nil, mapNotFound(err)
	}
	return &barber, nil
}

func (r *barberRepository) List(ctx context.Context) ([]*model.Barber, error) {
	query := `
		SELECT id, name, title, image_url, rating, created_at, updated_at
		FROM barbers
		ORDER BY rating DESC, name ASC
	`
	var barbers []*model.Barber
	if err := r.db.SelectContext(ctx, &barbers, query); err != nil {
		return nil, fmt.Errorf("failed to list barbers: %w", err)
	}
	return barbers, nil
}
