package appointment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clipperline/barbershop-api/internal/model"
	"github.com/clipperline/barbershop-api/internal/repository"
	"github.com/clipperline/barbershop-api/internal/schedule"
	apperrors "github.com/clipperline/barbershop-api/pkg/errors"
	"github.com/clipperline/barbershop-api/pkg/metrics"
)

// dateLayouts are tried in order when coercing the wire date. The booking
// client sends RFC 3339 timestamps; the admin form sends bare dates.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02",
}

type Service struct {
	repo     repository.AppointmentRepository
	services repository.ServiceRepository
	barbers  repository.BarberRepository
	catalog  []string
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewService(
	repo repository.AppointmentRepository,
	services repository.ServiceRepository,
	barbers repository.BarberRepository,
	m *metrics.Metrics,
) *Service {
	return &Service{
		repo:     repo,
		services: services,
		barbers:  barbers,
		catalog:  schedule.DefaultCatalog,
		metrics:  m,
		now:      time.Now,
	}
}

// WithClock overrides the wall clock, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// ParseBookingDate coerces a wire date (RFC 3339 timestamp or bare date)
// to its calendar day. A timestamp and a bare date naming the same day
// persist identically.
func ParseBookingDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return schedule.Day(t.UTC()), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

func (s *Service) CreateAppointment(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		return nil, apperrors.BadRequest("invalid service id", err)
	}
	barberID, err := uuid.Parse(req.BarberID)
	if err != nil {
		return nil, apperrors.BadRequest("invalid barber id", err)
	}

	day, err := ParseBookingDate(req.Date)
	if err != nil {
		return nil, apperrors.BadRequest("invalid appointment date", err)
	}

	timeOfDay, err := schedule.Bucket(req.Time)
	if err != nil {
		return nil, apperrors.BadRequest("invalid appointment time", err)
	}

	slotAt, err := schedule.SlotTime(day, req.Time)
	if err != nil {
		return nil, apperrors.BadRequest("invalid appointment time", err)
	}
	if slotAt.Sub(s.now()) < schedule.MinLeadTime {
		return nil, apperrors.BadRequest(
			fmt.Sprintf("appointments must be booked at least %d hours in advance", int(schedule.MinLeadTime.Hours())), nil)
	}

	if _, err := s.services.Get(ctx, serviceID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("service", err)
		}
		return nil, fmt.Errorf("failed to resolve service: %w", err)
	}
	if _, err := s.barbers.Get(ctx, barberID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("barber", err)
		}
		return nil, fmt.Errorf("failed to resolve barber: %w", err)
	}

	appointment := &model.Appointment{
		Base:       model.Base{ID: uuid.New()},
		ServiceID:  serviceID,
		BarberID:   barberID,
		Date:       day,
		Time:       req.Time,
		TimeOfDay:  timeOfDay,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Phone:      req.Phone,
		Status:     model.AppointmentStatusPending,
		TotalPrice: req.TotalPrice,
	}
	if req.Notes != "" {
		appointment.Notes = &req.Notes
	}

	event, err := bookingEvent(model.EventAppointmentCreated, appointment)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, appointment, event); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			s.metrics.SlotConflicts.Inc()
			return nil, apperrors.Conflict("time slot is no longer available", err)
		}
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	s.metrics.AppointmentsCreated.Inc()
	return appointment, nil
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("appointment", err)
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return appointment, nil
}

func (s *Service) ListAppointments(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	appointments, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// AvailableSlots returns the bookable slot strings for a barber on a day,
// in catalog order. Unknown barbers get an empty list rather than an error.
func (s *Service) AvailableSlots(ctx context.Context, barberID uuid.UUID, day time.Time) ([]string, error) {
	if _, err := s.barbers.Get(ctx, barberID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to resolve barber: %w", err)
	}

	booked, err := s.repo.BookedTimes(ctx, barberID, schedule.Day(day))
	if err != nil {
		return nil, fmt.Errorf("failed to get booked times: %w", err)
	}

	return schedule.Available(s.catalog, booked, schedule.Day(day), s.now()), nil
}

// ConfirmAppointment is driven by the payment webhook: it records the
// payment reference and flips status to confirmed.
func (s *Service) ConfirmAppointment(ctx context.Context, id uuid.UUID, stripePaymentID string) (*model.Appointment, error) {
	event, err := bookingEvent(model.EventAppointmentConfirmed, map[string]interface{}{
		"appointment_id":    id,
		"stripe_payment_id": stripePaymentID,
	})
	if err != nil {
		return nil, err
	}

	appointment, err := s.repo.UpdateStatus(ctx, id, model.AppointmentStatusConfirmed, &stripePaymentID, event)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("appointment", err)
		}
		return nil, fmt.Errorf("failed to confirm appointment: %w", err)
	}

	s.metrics.AppointmentsConfirmed.Inc()
	return appointment, nil
}

func (s *Service) CancelAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	current, err := s.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == model.AppointmentStatusCancelled {
		return nil, apperrors.BadRequest("appointment is already cancelled", nil)
	}
	if current.Status == model.AppointmentStatusCompleted {
		return nil, apperrors.BadRequest("cannot cancel a completed appointment", nil)
	}

	current.Status = model.AppointmentStatusCancelled
	event, err := bookingEvent(model.EventAppointmentCancelled, current)
	if err != nil {
		return nil, err
	}

	appointment, err := s.repo.UpdateStatus(ctx, id, model.AppointmentStatusCancelled, nil, event)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel appointment: %w", err)
	}

	s.metrics.AppointmentsCancelled.Inc()
	return appointment, nil
}

func bookingEvent(eventType string, payload interface{}) (*model.OutboxEvent, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return &model.OutboxEvent{EventType: eventType, Payload: raw}, nil
}
