package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clipperline/barbershop-api/internal/model"
)

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	query := `
		INSERT INTO products (
			id, name, description, price, image_url, category_id,
			in_stock, is_best_seller, rating, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	product.ID = uuid.New()
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.ImageURL,
		product.CategoryID,
		product.InStock,
		product.IsBestSeller,
		product.Rating,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *productRepository) Get(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	query := `
		SELECT id, name, description, price, image_url, category_id,
		       in_stock, is_best_seller, rating, created_at, updated_at
		FROM products
		WHERE id = $1
	`
	var product model.Product
	if err := r.db.GetContext(ctx, &product, query, id); err != nil {
		return nil, mapNotFound(err)
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context, categoryID *uuid.UUID) ([]*model.Product, error) {
	query := `
		SELECT id, name, description, price, image_url, category_id,
		       in_stock, is_best_seller, rating, created_at, updated_at
		FROM products
	`
	args := []interface{}{}
	if categoryID != nil {
		query += " WHERE category_id = $1"
		args = append(args, *categoryID)
	}
	query += " ORDER BY is_best_seller DESC, name ASC"

	var products []*model.Product
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}
