// Package shop covers the product catalog and the anonymous cart. Cart ids
// are opaque client-generated strings; the server never mints them.
package shop

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/clipperline/barbershop-api/internal/model"
	"github.com/clipperline/barbershop-api/internal/repository"
	apperrors "github.com/clipperline/barbershop-api/pkg/errors"
)

// FlatShippingFee applies to any non-empty cart.
const FlatShippingFee = 5.99

const (
	cacheTTL     = 5 * time.Minute
	cacheCleanup = 15 * time.Minute
)

type Service struct {
	products repository.ProductRepository
	carts    repository.CartRepository
	outbox   repository.OutboxRepository
	cache    *cache.Cache
}

func NewService(products repository.ProductRepository, carts repository.CartRepository) *Service {
	return &Service{
		products: products,
		carts:    carts,
		cache:    cache.New(cacheTTL, cacheCleanup),
	}
}

// WithOutbox enables checkout event publication.
func (s *Service) WithOutbox(outbox repository.OutboxRepository) *Service {
	s.outbox = outbox
	return s
}

func (s *Service) ListProducts(ctx context.Context, categoryID *uuid.UUID) ([]*model.Product, error) {
	key := "products:all"
	if categoryID != nil {
		key = "products:" + categoryID.String()
	}
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]*model.Product), nil
	}

	products, err := s.products.List(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	s.cache.SetDefault(key, products)
	return products, nil
}

func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.products.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("product", err)
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

func (s *Service) CreateProduct(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error) {
	inStock := true
	if req.InStock != nil {
		inStock = *req.InStock
	}
	rating := req.Rating
	if rating == 0 {
		rating = 4.0
	}

	product := &model.Product{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		InStock:      inStock,
		IsBestSeller: req.IsBestSeller,
		Rating:       rating,
	}
	if req.ImageURL != "" {
		product.ImageURL = &req.ImageURL
	}
	if req.CategoryID != "" {
		id, err := uuid.Parse(req.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("invalid category id: %w", err)
		}
		product.CategoryID = &id
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.cache.Flush()
	return product, nil
}

// GetCart joins the cart lines with their products and computes totals.
func (s *Service) GetCart(ctx context.Context, cartID string) (*model.Cart, error) {
	items, err := s.carts.ListItems(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	cart := &model.Cart{CartID: cartID, Items: make([]model.CartItemDetail, 0, len(items))}
	for _, item := range items {
		detail := model.CartItemDetail{CartItem: *item}
		product, err := s.products.Get(ctx, item.ProductID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("failed to load product: %w", err)
		}
		if product != nil {
			detail.Product = product
			cart.Subtotal += product.Price * float64(item.Quantity)
		}
		cart.Items = append(cart.Items, detail)
	}

	if len(cart.Items) > 0 {
		cart.Shipping = FlatShippingFee
	}
	cart.Subtotal = roundCents(cart.Subtotal)
	cart.Total = roundCents(cart.Subtotal + cart.Shipping)
	return cart, nil
}

// AddItem creates the line or increments the quantity when the product is
// already in the cart.
func (s *Service) AddItem(ctx context.Context, req *model.AddCartItemRequest) (*model.CartItem, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, apperrors.BadRequest("invalid product id", err)
	}

	product, err := s.products.Get(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("product", err)
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if !product.InStock {
		return nil, apperrors.BadRequest("product is out of stock", nil)
	}

	item, err := s.carts.Upsert(ctx, &model.CartItem{
		CartID:    req.CartID,
		ProductID: productID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}
	return item, nil
}

// UpdateQuantity rejects quantities below 1; the stored value is unchanged
// on rejection.
func (s *Service) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) (*model.CartItem, error) {
	if quantity < 1 {
		return nil, apperrors.BadRequest("quantity must be at least 1", nil)
	}

	item, err := s.carts.UpdateQuantity(ctx, id, quantity)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("cart item", err)
		}
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}
	return item, nil
}

func (s *Service) RemoveItem(ctx context.Context, id uuid.UUID) error {
	if err := s.carts.Remove(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("cart item", err)
		}
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	return nil
}

func (s *Service) ClearCart(ctx context.Context, cartID string) error {
	if err := s.carts.Clear(ctx, cartID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// CheckoutCart empties the cart after a successful payment and records a
// checkout event for downstream consumers.
func (s *Service) CheckoutCart(ctx context.Context, cartID string, paymentID string) error {
	cart, err := s.GetCart(ctx, cartID)
	if err != nil {
		return err
	}

	if err := s.carts.Clear(ctx, cartID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	if s.outbox == nil {
		return nil
	}
	payload, err := json.Marshal(map[string]interface{}{
		"cart_id":           cartID,
		"stripe_payment_id": paymentID,
		"total":             cart.Total,
		"item_count":        len(cart.Items),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal checkout payload: %w", err)
	}
	if err := s.outbox.Create(ctx, &model.OutboxEvent{
		EventType: model.EventCartCheckedOut,
		Payload:   payload,
	}); err != nil {
		return fmt.Errorf("failed to record checkout event: %w", err)
	}
	return nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
