package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/clipperline/barbershop-api/internal/model"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// ErrSlotTaken is returned when a booking insert hits the partial unique
// index on (barber_id, date, time).
var ErrSlotTaken = errors.New("time slot already booked")

// All repository interfaces in one file
type (
	CategoryRepository interface {
		Create(ctx context.Context, category *model.Category) error
		Get(ctx context.Context, id uuid.UUID) (*model.Category, error)
		List(ctx context.Context, categoryType model.CategoryType) ([]*model.Category, error)
	}

	ServiceRepository interface {
		Create(ctx context.Context, service *model.Service) error
		Get(ctx context.Context, id uuid.UUID) (*model.Service, error)
		List(ctx context.Context, categoryID *uuid.UUID) ([]*model.Service, error)
	}

	BarberRepository interface {
		Create(ctx context.Context, barber *model.Barber) error
		Get(ctx context.Context, id uuid.UUID) (*model.Barber, error)
		List(ctx context.Context) ([]*model.Barber, error)
	}

	ProductRepository interface {
		Create(ctx context.Context, product *model.Product) error
		Get(ctx context.Context, id uuid.UUID) (*model.Product, error)
		List(ctx context.Context, categoryID *uuid.UUID) ([]*model.Product, error)
	}

	AppointmentRepository interface {
		// Create inserts the appointment and its outbox event in one
		// transaction; ErrSlotTaken when the slot is no longer free.
		Create(ctx context.Context, appointment *model.Appointment, event *model.OutboxEvent) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus, stripePaymentID *string, event *model.OutboxEvent) (*model.Appointment, error)
		BookedTimes(ctx context.Context, barberID uuid.UUID, day time.Time) ([]string, error)
		CancelStalePending(ctx context.Context, olderThan time.Time) (int64, error)
	}

	CartRepository interface {
		ListItems(ctx context.Context, cartID string) ([]*model.CartItem, error)
		GetItem(ctx context.Context, id uuid.UUID) (*model.CartItem, error)
		// Upsert creates the line or increments its quantity when the
		// (cart_id, product_id) pair already exists.
		Upsert(ctx context.Context, item *model.CartItem) (*model.CartItem, error)
		UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) (*model.CartItem, error)
		Remove(ctx context.Context, id uuid.UUID) error
		Clear(ctx context.Context, cartID string) error
	}

	UserRepository interface {
		// Create inserts the user, promoting the first registrant to admin
		// inside the same transaction.
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByUsername(ctx context.Context, username string) (*model.User, error)
		Update(ctx context.Context, user *model.User) error
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		// ClaimPending atomically marks a batch of pending events as
		// processing and returns them, so concurrent processors never
		// publish the same event twice.
		ClaimPending(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error
	}
)
