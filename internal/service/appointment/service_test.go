package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipperline/barbershop-api/internal/model"
	"github.com/clipperline/barbershop-api/internal/repository"
	apperrors "github.com/clipperline/barbershop-api/pkg/errors"
	"github.com/clipperline/barbershop-api/pkg/metrics"
)

var testMetrics = metrics.NewMetrics("appointment_svc_test")

type fakeAppointmentRepo struct {
	appointments map[uuid.UUID]*model.Appointment
	events       []*model.OutboxEvent
	booked       []string
	createErr    error
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*model.Appointment)}
}

func (f *fakeAppointmentRepo) Create(_ context.Context, appointment *model.Appointment, event *model.OutboxEvent) error {
	if f.createErr != nil {
		return f.createErr
	}
	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	f.appointments[appointment.ID] = appointment
	if event != nil {
		f.events = append(f.events, event)
	}
	return nil
}

func (f *fakeAppointmentRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	appointment, ok := f.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return appointment, nil
}

func (f *fakeAppointmentRepo) List(_ context.Context, _ *model.AppointmentFilters) ([]*model.Appointment, error) {
	out := make([]*model.Appointment, 0, len(f.appointments))
	for _, a := range f.appointments {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAppointmentRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.AppointmentStatus, stripePaymentID *string, event *model.OutboxEvent) (*model.Appointment, error) {
	appointment, ok := f.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	appointment.Status = status
	if stripePaymentID != nil {
		appointment.StripePaymentID = stripePaymentID
	}
	if event != nil {
		f.events = append(f.events, event)
	}
	return appointment, nil
}

func (f *fakeAppointmentRepo) BookedTimes(_ context.Context, _ uuid.UUID, _ time.Time) ([]string, error) {
	return f.booked, nil
}

func (f *fakeAppointmentRepo) CancelStalePending(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

type fakeServiceRepo struct {
	services map[uuid.UUID]*model.Service
}

func (f *fakeServiceRepo) Create(_ context.Context, _ *model.Service) error { return nil }

func (f *fakeServiceRepo) Get(_ context.Context, id uuid.UUID) (*model.Service, error) {
	service, ok := f.services[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return service, nil
}

func (f *fakeServiceRepo) List(_ context.Context, _ *uuid.UUID) ([]*model.Service, error) {
	return nil, nil
}

type fakeBarberRepo struct {
	barbers map[uuid.UUID]*model.Barber
}

func (f *fakeBarberRepo) Create(_ context.Context, _ *model.Barber) error { return nil }

func (f *fakeBarberRepo) Get(_ context.Context, id uuid.UUID) (*model.Barber, error) {
	barber, ok := f.barbers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return barber, nil
}

func (f *fakeBarberRepo) List(_ context.Context) ([]*model.Barber, error) { return nil, nil }

type fixture struct {
	svc       *Service
	repo      *fakeAppointmentRepo
	serviceID uuid.UUID
	barberID  uuid.UUID
}

func newFixture(now time.Time) *fixture {
	serviceID := uuid.New()
	barberID := uuid.New()

	repo := newFakeAppointmentRepo()
	services := &fakeServiceRepo{services: map[uuid.UUID]*model.Service{
		serviceID: {Name: "Classic Cut", Price: 35},
	}}
	barbers := &fakeBarberRepo{barbers: map[uuid.UUID]*model.Barber{
		barberID: {Name: "Alex", Title: "Master Barber"},
	}}

	svc := NewService(repo, services, barbers, testMetrics).
		WithClock(func() time.Time { return now })

	return &fixture{svc: svc, repo: repo, serviceID: serviceID, barberID: barberID}
}

func validRequest(f *fixture) *model.CreateAppointmentRequest {
	return &model.CreateAppointmentRequest{
		ServiceID:  f.serviceID.String(),
		BarberID:   f.barberID.String(),
		Date:       "2024-06-10",
		Time:       "2:00 PM",
		FirstName:  "Sam",
		LastName:   "Rivera",
		Email:      "sam@example.com",
		Phone:      "555-0101",
		TotalPrice: 35,
	}
}

func TestCreateAppointment(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	f := newFixture(now)

	appointment, err := f.svc.CreateAppointment(context.Background(), validRequest(f))
	require.NoError(t, err)

	assert.Equal(t, model.AppointmentStatusPending, appointment.Status)
	assert.Equal(t, model.TimeOfDayAfternoon, appointment.TimeOfDay)
	assert.Equal(t, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), appointment.Date)

	require.Len(t, f.repo.events, 1)
	assert.Equal(t, model.EventAppointmentCreated, f.repo.events[0].EventType)
}

func TestCreateAppointmentDateFormats(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	// A bare date and a timestamp naming the same day store identically.
	f1 := newFixture(now)
	req1 := validRequest(f1)
	req1.Date = "2024-06-10"
	a1, err := f1.svc.CreateAppointment(context.Background(), req1)
	require.NoError(t, err)

	f2 := newFixture(now)
	req2 := validRequest(f2)
	req2.Date = "2024-06-10T15:04:05Z"
	a2, err := f2.svc.CreateAppointment(context.Background(), req2)
	require.NoError(t, err)

	assert.True(t, a1.Date.Equal(a2.Date))
}

func TestCreateAppointmentSlotTaken(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	f := newFixture(now)
	f.repo.createErr = repository.ErrSlotTaken

	_, err := f.svc.CreateAppointment(context.Background(), validRequest(f))
	require.Error(t, err)

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.StatusCode())
}

func TestCreateAppointmentLeadTime(t *testing.T) {
	// 7 hours before the slot: inside the 8h window.
	now := time.Date(2024, 6, 10, 7, 0, 0, 0, time.UTC)
	f := newFixture(now)

	_, err := f.svc.CreateAppointment(context.Background(), validRequest(f))
	require.Error(t, err)

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode())
}

func TestCreateAppointmentUnknownService(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	f := newFixture(now)
	req := validRequest(f)
	req.ServiceID = uuid.NewString()

	_, err := f.svc.CreateAppointment(context.Background(), req)
	require.Error(t, err)

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.StatusCode())
}

func TestCreateAppointmentBadTime(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	f := newFixture(now)
	req := validRequest(f)
	req.Time = "25:00"

	_, err := f.svc.CreateAppointment(context.Background(), req)
	require.Error(t, err)

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode())
}

func TestAvailableSlotsExcludesBooked(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	f := newFixture(now)
	f.repo.booked = []string{"2:00 PM"}

	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	slots, err := f.svc.AvailableSlots(context.Background(), f.barberID, day)
	require.NoError(t, err)

	assert.NotContains(t, slots, "2:00 PM")
	assert.Contains(t, slots, "9:00 AM")
	assert.Contains(t, slots, "7:00 PM")
}

func TestAvailableSlotsUnknownBarber(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	f := newFixture(now)

	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	slots, err := f.svc.AvailableSlots(context.Background(), uuid.New(), day)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestConfirmAppointment(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	f := newFixture(now)

	appointment, err := f.svc.CreateAppointment(context.Background(), validRequest(f))
	require.NoError(t, err)

	confirmed, err := f.svc.ConfirmAppointment(context.Background(), appointment.ID, "pi_123")
	require.NoError(t, err)

	assert.Equal(t, model.AppointmentStatusConfirmed, confirmed.Status)
	require.NotNil(t, confirmed.StripePaymentID)
	assert.Equal(t, "pi_123", *confirmed.StripePaymentID)
}

func TestCancelAppointment(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	f := newFixture(now)

	appointment, err := f.svc.CreateAppointment(context.Background(), validRequest(f))
	require.NoError(t, err)

	cancelled, err := f.svc.CancelAppointment(context.Background(), appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, cancelled.Status)

	// A second cancel is rejected.
	_, err = f.svc.CancelAppointment(context.Background(), appointment.ID)
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode())
}

func TestParseBookingDate(t *testing.T) {
	day, err := ParseBookingDate("2024-06-10T23:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), day)

	_, err = ParseBookingDate("June 10th")
	require.Error(t, err)
}
