package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clipperline/barbershop-api/internal/model"
	"github.com/clipperline/barbershop-api/internal/repository"
)

func (r *cartRepository) ListItems(ctx context.Context, cartID string) ([]*model.CartItem, error) {
	query := `
		SELECT id, cart_id, product_id, quantity, created_at, updated_at
		FROM cart_items
		WHERE cart_id = $1
		ORDER BY created_at ASC
	`
	var items []*model.CartItem
	if err := r.db.SelectContext(ctx, &items, query, cartID); err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	return items, nil
}

func (r *cartRepository) GetItem(ctx context.Context, id uuid.UUID) (*model.CartItem, error) {
	query := `
		SELECT id, cart_id, product_id, quantity, created_at, updated_at
		FROM cart_items
		WHERE id = $1
	`
	var item model.CartItem
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		return nil, mapNotFound(err)
	}
	return &item, nil
}

// Upsert relies on the unique (cart_id, product_id) constraint: adding a
// product already in the cart increments its quantity instead of creating a
// second row.
func (r *cartRepository) Upsert(ctx context.Context, item *model.CartItem) (*model.CartItem, error) {
	query := `
		INSERT INTO cart_items (id, cart_id, product_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity,
		              updated_at = EXCLUDED.updated_at
		RETURNING id, cart_id, product_id, quantity, created_at, updated_at
	`
	var stored model.CartItem
	err := r.db.GetContext(ctx, &stored, query,
		uuid.New(), item.CartID, item.ProductID, item.Quantity, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}
	return &stored, nil
}

func (r *cartRepository) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) (*model.CartItem, error) {
	query := `
		UPDATE cart_items
		SET quantity = $1, updated_at = $2
		WHERE id = $3
		RETURNING id, cart_id, product_id, quantity, created_at, updated_at
	`
	var item model.CartItem
	if err := r.db.GetContext(ctx, &item, query, quantity, time.Now(), id); err != nil {
		return nil, mapNotFound(err)
	}
	return &item, nil
}

func (r *cartRepository) Remove(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *cartRepository) Clear(ctx context.Context, cartID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
