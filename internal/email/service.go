package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

type Service interface {
	SendBookingConfirmation(ctx context.Context, to, name, date, timeSlot string) error
	SendBookingCancellation(ctx context.Context, to, name, date, timeSlot string) error
	SendCustom(ctx context.Context, to, subject, content string) error
}

type Config struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPService(cfg Config) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) SendBookingConfirmation(ctx context.Context, to, name, date, timeSlot string) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nYour booking on %s at %s is confirmed.\n\nSee you then!",
		name, date, timeSlot)
	return s.send(ctx, to, "Booking confirmed", body)
}

func (s *smtpService) SendBookingCancellation(ctx context.Context, to, name, date, timeSlot string) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nYour appointment on %s at %s has been cancelled.\n\nYou can book a new time any time.",
		name, date, timeSlot)
	return s.send(ctx, to, "Booking cancelled", body)
}

func (s *smtpService) SendCustom(ctx context.Context, to, subject, content string) error {
	return s.send(ctx, to, subject, content)
}

func (s *smtpService) send(ctx context.Context, to, subject, body string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

// NoopService satisfies Service without sending anything, for local runs
// where SMTP is not configured.
type NoopService struct{}

func (NoopService) SendBookingConfirmation(context.Context, string, string, string, string) error {
	return nil
}
func (NoopService) SendBookingCancellation(context.Context, string, string, string, string) error {
	return nil
}
func (NoopService) SendCustom(context.Context, string, string, string) error { return nil }
