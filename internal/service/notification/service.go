// Package notification turns booking events into customer emails. It
// subscribes to the broker channels the outbox processor publishes to, so
// email delivery never sits on the booking request path.
package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/clipperline/barbershop-api/internal/email"
	"github.com/clipperline/barbershop-api/internal/model"
	"github.com/clipperline/barbershop-api/pkg/logger"
	"github.com/clipperline/barbershop-api/pkg/messaging"
)

type Service struct {
	broker messaging.Broker
	email  email.Service
	logger *logger.Logger
}

func NewService(broker messaging.Broker, emailSvc email.Service, logger *logger.Logger) *Service {
	return &Service{
		broker: broker,
		email:  emailSvc,
		logger: logger,
	}
}

// Start consumes booking events until the context is cancelled.
func (s *Service) Start(ctx context.Context) error {
	created, err := s.broker.Subscribe(ctx, model.EventAppointmentCreated)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", model.EventAppointmentCreated, err)
	}
	cancelled, err := s.broker.Subscribe(ctx, model.EventAppointmentCancelled)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", model.EventAppointmentCancelled, err)
	}

	s.logger.Info("Starting notification consumer")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Shutting down notification consumer")
			return nil
		case payload := <-created:
			if err := s.handleCreated(ctx, payload); err != nil {
				s.logger.Error(err, "Failed to handle appointment created event")
			}
		case payload := <-cancelled:
			if err := s.handleCancelled(ctx, payload); err != nil {
				s.logger.Error(err, "Failed to handle appointment cancelled event")
			}
		}
	}
}

func (s *Service) handleCreated(ctx context.Context, payload []byte) error {
	var appointment model.Appointment
	if err := json.Unmarshal(payload, &appointment); err != nil {
		return fmt.Errorf("failed to decode appointment payload: %w", err)
	}
	if appointment.Email == "" {
		return nil
	}

	return s.email.SendBookingConfirmation(ctx,
		appointment.Email,
		appointment.FirstName,
		appointment.Date.Format("2006-01-02"),
		appointment.Time,
	)
}

func (s *Service) handleCancelled(ctx context.Context, payload []byte) error {
	var appointment model.Appointment
	if err := json.Unmarshal(payload, &appointment); err != nil {
		return fmt.Errorf("failed to decode appointment payload: %w", err)
	}
	if appointment.Email == "" {
		return nil
	}

	return s.email.SendBookingCancellation(ctx,
		appointment.Email,
		appointment.FirstName,
		appointment.Date.Format("2006-01-02"),
		appointment.Time,
	)
}
