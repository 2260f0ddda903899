package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clipperline/barbershop-api/internal/model"
)

func (r *categoryRepository) Create(ctx context.Context, category *model.Category) error {
	query := `
		INSERT INTO categories (id, name, type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	category.ID = uuid.New()
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		category.ID,
		category.Name,
		category.Type,
		category.CreatedAt,
		category.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (r *categoryRepository) Get(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	query := `
		SELECT id, name, type, created_at, updated_at
		FROM categories
		WHERE id = $1
	`
	var category model.Category
	if err := r.db.GetContext(ctx, &category, query, id); err != nil {
		return nil, mapNotFound(err)
	}
	return &category, nil
}

func (r *categoryRepository) List(ctx context.Context, categoryType model.CategoryType) ([]*model.Category, error) {
	query := `
		SELECT id, name, type, created_at, updated_at
		FROM categories
	`
	args := []interface{}{}
	if categoryType != "" {
		query += " WHERE type = $1"
		args = append(args, categoryType)
	}
	query += " ORDER BY name ASC"

	var categories []*model.Category
	if err := r.db.SelectContext(ctx, &categories, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}
