package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

// TimeOfDay buckets a slot string into the booking UI's three tabs.
type TimeOfDay string

const (
	TimeOfDayMorning   TimeOfDay = "morning"
	TimeOfDayAfternoon TimeOfDay = "afternoon"
	TimeOfDayEvening   TimeOfDay = "evening"
)

type Appointment struct {
	Base
	ServiceID       uuid.UUID         `db:"service_id" json:"service_id"`
	BarberID        uuid.UUID         `db:"barber_id" json:"barber_id"`
	Date            time.Time         `db:"date" json:"date"`
	Time            string            `db:"time" json:"time"`
	TimeOfDay       TimeOfDay         `db:"time_of_day" json:"time_of_day"`
	FirstName       string            `db:"first_name" json:"first_name"`
	LastName        string            `db:"last_name" json:"last_name"`
	Email           string            `db:"email" json:"email"`
	Phone           string            `db:"phone" json:"phone"`
	Notes           *string           `db:"notes" json:"notes,omitempty"`
	Status          AppointmentStatus `db:"status" json:"status"`
	TotalPrice      float64           `db:"total_price" json:"total_price"`
	StripePaymentID *string           `db:"stripe_payment_id" json:"stripe_payment_id,omitempty"`
}

// CreateAppointmentRequest carries the booking form payload. Date accepts
// any ISO-8601 string; the service truncates it to a calendar day.
type CreateAppointmentRequest struct {
	ServiceID  string  `json:"service_id" binding:"required,uuid"`
	BarberID   string  `json:"barber_id" binding:"required,uuid"`
	Date       string  `json:"date" binding:"required"`
	Time       string  `json:"time" binding:"required,timeslot"`
	FirstName  string  `json:"first_name" binding:"required"`
	LastName   string  `json:"last_name" binding:"required"`
	Email      string  `json:"email" binding:"required,email"`
	Phone      string  `json:"phone" binding:"required"`
	Notes      string  `json:"notes" binding:"max=1000"`
	TotalPrice float64 `json:"total_price" binding:"required,gt=0"`
}

type AppointmentFilters struct {
	BarberID  uuid.UUID
	ServiceID uuid.UUID
	Status    AppointmentStatus
	StartDate time.Time
	EndDate   time.Time
}
