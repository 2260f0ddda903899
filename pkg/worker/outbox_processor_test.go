package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipperline/barbershop-api/internal/model"
	"github.com/clipperline/barbershop-api/pkg/logger"
	"github.com/clipperline/barbershop-api/pkg/metrics"
)

var testMetrics = metrics.NewMetrics("outbox_worker_test")

type fakeOutboxRepo struct {
	pending  []*model.OutboxEvent
	statuses map[uuid.UUID]model.OutboxStatus
}

func newFakeOutboxRepo(events ...*model.OutboxEvent) *fakeOutboxRepo {
	return &fakeOutboxRepo{
		pending:  events,
		statuses: make(map[uuid.UUID]model.OutboxStatus),
	}
}

func (f *fakeOutboxRepo) Create(_ context.Context, event *model.OutboxEvent) error {
	f.pending = append(f.pending, event)
	return nil
}

// ClaimPending hands out each pending event once, mirroring the
// claim-and-mark statement in the postgres repository.
func (f *fakeOutboxRepo) ClaimPending(_ context.Context, limit int) ([]*model.OutboxEvent, error) {
	n := limit
	if n > len(f.pending) {
		n = len(f.pending)
	}
	claimed := f.pending[:n]
	f.pending = f.pending[n:]
	for _, event := range claimed {
		event.Status = model.OutboxStatusProcessing
		f.statuses[event.ID] = model.OutboxStatusProcessing
	}
	return claimed, nil
}

func (f *fakeOutboxRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.OutboxStatus, _ *string) error {
	f.statuses[id] = status
	return nil
}

type fakeBroker struct {
	published []string
	failWith  error
}

func (f *fakeBroker) Publish(_ context.Context, channel string, _ interface{}) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.published = append(f.published, channel)
	return nil
}

func (f *fakeBroker) Subscribe(_ context.Context, _ string) (<-chan []byte, error) {
	return nil, nil
}

func (f *fakeBroker) Close() error { return nil }

func bookingEvent(eventType string) *model.OutboxEvent {
	return &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: eventType,
		Payload:   []byte(`{}`),
		Status:    model.OutboxStatusPending,
		CreatedAt: time.Now(),
	}
}

func newTestProcessor(repo *fakeOutboxRepo, broker *fakeBroker) *OutboxProcessor {
	return NewOutboxProcessor(repo, broker, OutboxProcessorConfig{
		BatchSize:     10,
		PollInterval:  time.Second,
		RetryAttempts: 1,
		RetryDelay:    time.Millisecond,
	}, logger.NewLogger(nil), testMetrics)
}

func TestProcessEventsPublishesEachEventOnce(t *testing.T) {
	repo := newFakeOutboxRepo(
		bookingEvent(model.EventAppointmentCreated),
		bookingEvent(model.EventAppointmentCancelled),
	)
	broker := &fakeBroker{}
	p := newTestProcessor(repo, broker)

	require.NoError(t, p.processEvents(context.Background()))
	assert.Equal(t, []string{model.EventAppointmentCreated, model.EventAppointmentCancelled}, broker.published)
	for _, status := range repo.statuses {
		assert.Equal(t, model.OutboxStatusProcessed, status)
	}

	// A second poll finds nothing left to claim, so nothing republishes.
	require.NoError(t, p.processEvents(context.Background()))
	assert.Len(t, broker.published, 2)
}

func TestProcessEventsMarksFailedOnPublishError(t *testing.T) {
	event := bookingEvent(model.EventAppointmentCreated)
	repo := newFakeOutboxRepo(event)
	broker := &fakeBroker{failWith: errors.New("broker down")}
	p := newTestProcessor(repo, broker)

	require.NoError(t, p.processEvents(context.Background()))
	assert.Empty(t, broker.published)
	assert.Equal(t, model.OutboxStatusFailed, repo.statuses[event.ID])
}
