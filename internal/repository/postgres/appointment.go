package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/clipperline/barbershop-api/internal/model"
	"github.com/clipperline/barbershop-api/internal/repository"
)

const appointmentColumns = `
	id, service_id, barber_id, date, time, time_of_day,
	first_name, last_name, email, phone, notes, status,
	total_price, stripe_payment_id, created_at, updated_at
`

// Create inserts the appointment with a check-and-insert inside one
// transaction. The partial unique index on (barber_id, date, time) for
// non-cancelled rows backstops the check under concurrency.
func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment, event *model.OutboxEvent) error {
	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = appointment.CreatedAt

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var taken bool
		check := `
			SELECT EXISTS (
				SELECT 1 FROM appointments
				WHERE barber_id = $1 AND date = $2 AND time = $3
				AND status <> 'cancelled'
			)
		`
		if err := tx.GetContext(ctx, &taken, check, appointment.BarberID, appointment.Date, appointment.Time); err != nil {
			return fmt.Errorf("failed to check slot: %w", err)
		}
		if taken {
			return repository.ErrSlotTaken
		}

		insert := `
			INSERT INTO appointments (` + appointmentColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		`
		_, err := tx.ExecContext(ctx, insert,
			appointment.ID,
			appointment.ServiceID,
			appointment.BarberID,
			appointment.Date,
			appointment.Time,
			appointment.TimeOfDay,
			appointment.FirstName,
			appointment.LastName,
			appointment.Email,
			appointment.Phone,
			appointment.Notes,
			appointment.Status,
			appointment.TotalPrice,
			appointment.StripePaymentID,
			appointment.CreatedAt,
			appointment.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return repository.ErrSlotTaken
			}
			return fmt.Errorf("failed to create appointment: %w", err)
		}

		if event != nil {
			if err := insertOutboxEvent(ctx, tx, event); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	var appointment model.Appointment
	if err := r.db.GetContext(ctx, &appointment, query, id); err != nil {
		return nil, mapNotFound(err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE 1=1`
	args := []interface{}{}
	argCount := 1

	if filters != nil {
		if filters.BarberID != uuid.Nil {
			query += fmt.Sprintf(" AND barber_id = $%d", argCount)
			args = append(args, filters.BarberID)
			argCount++
		}
		if filters.ServiceID != uuid.Nil {
			query += fmt.Sprintf(" AND service_id = $%d", argCount)
			args = append(args, filters.ServiceID)
			argCount++
		}
		if filters.Status != "" {
			query += fmt.Sprintf(" AND status = $%d", argCount)
			args = append(args, filters.Status)
			argCount++
		}
		if !filters.StartDate.IsZero() {
			query += fmt.Sprintf(" AND date >= $%d", argCount)
			args = append(args, filters.StartDate)
			argCount++
		}
		if !filters.EndDate.IsZero() {
			query += fmt.Sprintf(" AND date <= $%d", argCount)
			args = append(args, filters.EndDate)
			argCount++
		}
	}

	query += " ORDER BY date ASC, time ASC"

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus, stripePaymentID *string, event *model.OutboxEvent) (*model.Appointment, error) {
	var appointment model.Appointment

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			UPDATE appointments
			SET status = $1,
			    stripe_payment_id = COALESCE($2, stripe_payment_id),
			    updated_at = $3
			WHERE id = $4
			RETURNING ` + appointmentColumns + `
		`
		if err := tx.GetContext(ctx, &appointment, query, status, stripePaymentID, time.Now(), id); err != nil {
			return mapNotFound(err)
		}

		if event != nil {
			if err := insertOutboxEvent(ctx, tx, event); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

// BookedTimes returns slot strings taken by non-cancelled appointments for
// a barber on a calendar day.
func (r *appointmentRepository) BookedTimes(ctx context.Context, barberID uuid.UUID, day time.Time) ([]string, error) {
	query := `
		SELECT time FROM appointments
		WHERE barber_id = $1 AND date = $2 AND status <> 'cancelled'
	`
	var times []string
	if err := r.db.SelectContext(ctx, &times, query, barberID, day); err != nil {
		return nil, fmt.Errorf("failed to get booked times: %w", err)
	}
	return times, nil
}

// CancelStalePending cancels pending appointments created before olderThan
// that never received a payment. Used by the cleanup worker.
func (r *appointmentRepository) CancelStalePending(ctx context.Context, olderThan time.Time) (int64, error) {
	query := `
		UPDATE appointments
		SET status = 'cancelled', updated_at = $1
		WHERE status = 'pending'
		AND stripe_payment_id IS NULL
		AND created_at < $2
	`
	result, err := r.db.ExecContext(ctx, query, time.Now(), olderThan)
	if err != nil {
		return 0, fmt.Errorf("failed to cancel stale appointments: %w", err)
	}
	return result.RowsAffected()
}
