package shop

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipperline/barbershop-api/internal/model"
	"github.com/clipperline/barbershop-api/internal/repository"
	apperrors "github.com/clipperline/barbershop-api/pkg/errors"
)

type fakeProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func (f *fakeProductRepo) Create(_ context.Context, product *model.Product) error {
	product.ID = uuid.New()
	f.products[product.ID] = product
	return nil
}

func (f *fakeProductRepo) Get(_ context.Context, id uuid.UUID) (*model.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return product, nil
}

func (f *fakeProductRepo) List(_ context.Context, _ *uuid.UUID) ([]*model.Product, error) {
	out := make([]*model.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

type fakeCartRepo struct {
	items map[uuid.UUID]*model.CartItem
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{items: make(map[uuid.UUID]*model.CartItem)}
}

func (f *fakeCartRepo) ListItems(_ context.Context, cartID string) ([]*model.CartItem, error) {
	var out []*model.CartItem
	for _, item := range f.items {
		if item.CartID == cartID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeCartRepo) GetItem(_ context.Context, id uuid.UUID) (*model.CartItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return item, nil
}

func (f *fakeCartRepo) Upsert(_ context.Context, item *model.CartItem) (*model.CartItem, error) {
	for _, existing := range f.items {
		if existing.CartID == item.CartID && existing.ProductID == item.ProductID {
			existing.Quantity += item.Quantity
			return existing, nil
		}
	}
	item.ID = uuid.New()
	f.items[item.ID] = item
	return item, nil
}

func (f *fakeCartRepo) UpdateQuantity(_ context.Context, id uuid.UUID, quantity int) (*model.CartItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	item.Quantity = quantity
	return item, nil
}

func (f *fakeCartRepo) Remove(_ context.Context, id uuid.UUID) error {
	if _, ok := f.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeCartRepo) Clear(_ context.Context, cartID string) error {
	for id, item := range f.items {
		if item.CartID == cartID {
			delete(f.items, id)
		}
	}
	return nil
}

func newShopFixture(t *testing.T) (*Service, *model.Product) {
	t.Helper()

	products := &fakeProductRepo{products: make(map[uuid.UUID]*model.Product)}
	product := &model.Product{
		Name:    "Matte Pomade",
		Price:   24.99,
		InStock: true,
	}
	require.NoError(t, products.Create(context.Background(), product))

	return NewService(products, newFakeCartRepo()), product
}

func TestAddItemIncrementsExistingLine(t *testing.T) {
	svc, product := newShopFixture(t)
	ctx := context.Background()

	first, err := svc.AddItem(ctx, &model.AddCartItemRequest{
		CartID:    "cart-1",
		ProductID: product.ID.String(),
		Quantity:  1,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Quantity)

	second, err := svc.AddItem(ctx, &model.AddCartItemRequest{
		CartID:    "cart-1",
		ProductID: product.ID.String(),
		Quantity:  1,
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, second.Quantity)

	cart, err := svc.GetCart(ctx, "cart-1")
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestAddItemOutOfStock(t *testing.T) {
	svc, product := newShopFixture(t)
	product.InStock = false

	_, err := svc.AddItem(context.Background(), &model.AddCartItemRequest{
		CartID:    "cart-1",
		ProductID: product.ID.String(),
		Quantity:  1,
	})
	require.Error(t, err)

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode())
}

func TestUpdateQuantityRejectsBelowOne(t *testing.T) {
	svc, product := newShopFixture(t)
	ctx := context.Background()

	item, err := svc.AddItem(ctx, &model.AddCartItemRequest{
		CartID:    "cart-1",
		ProductID: product.ID.String(),
		Quantity:  3,
	})
	require.NoError(t, err)

	_, err = svc.UpdateQuantity(ctx, item.ID, 0)
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode())

	// Stored quantity is unchanged after the rejection.
	cart, err := svc.GetCart(ctx, "cart-1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
}

func TestGetCartTotals(t *testing.T) {
	svc, product := newShopFixture(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, &model.AddCartItemRequest{
		CartID:    "cart-1",
		ProductID: product.ID.String(),
		Quantity:  2,
	})
	require.NoError(t, err)

	cart, err := svc.GetCart(ctx, "cart-1")
	require.NoError(t, err)

	assert.InDelta(t, 49.98, cart.Subtotal, 0.001)
	assert.InDelta(t, FlatShippingFee, cart.Shipping, 0.001)
	assert.InDelta(t, 55.97, cart.Total, 0.001)
}

func TestGetCartEmptyHasNoShipping(t *testing.T) {
	svc, _ := newShopFixture(t)

	cart, err := svc.GetCart(context.Background(), "empty-cart")
	require.NoError(t, err)

	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Shipping)
	assert.Zero(t, cart.Total)
}

type fakeOutboxRepo struct {
	events []*model.OutboxEvent
}

func (f *fakeOutboxRepo) Create(_ context.Context, event *model.OutboxEvent) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeOutboxRepo) ClaimPending(_ context.Context, _ int) ([]*model.OutboxEvent, error) {
	return f.events, nil
}

func (f *fakeOutboxRepo) UpdateStatus(_ context.Context, _ uuid.UUID, _ model.OutboxStatus, _ *string) error {
	return nil
}

func TestCheckoutCartRecordsEvent(t *testing.T) {
	svc, product := newShopFixture(t)
	outbox := &fakeOutboxRepo{}
	svc.WithOutbox(outbox)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, &model.AddCartItemRequest{
		CartID:    "cart-1",
		ProductID: product.ID.String(),
		Quantity:  2,
	})
	require.NoError(t, err)

	require.NoError(t, svc.CheckoutCart(ctx, "cart-1", "pi_42"))

	cart, err := svc.GetCart(ctx, "cart-1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	require.Len(t, outbox.events, 1)
	assert.Equal(t, model.EventCartCheckedOut, outbox.events[0].EventType)
}

func TestClearCart(t *testing.T) {
	svc, product := newShopFixture(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, &model.AddCartItemRequest{
		CartID:    "cart-1",
		ProductID: product.ID.String(),
		Quantity:  1,
	})
	require.NoError(t, err)

	require.NoError(t, svc.ClearCart(ctx, "cart-1"))

	cart, err := svc.GetCart(ctx, "cart-1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}
