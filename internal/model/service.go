package model

import "github.com/google/uuid"

// Service is a bookable treatment (haircut, beard trim, package).
type Service struct {
	Base
	Name            string     `db:"name" json:"name"`
	Description     string     `db:"description" json:"description"`
	Price           float64    `db:"price" json:"price"`
	DurationMinutes int        `db:"duration_minutes" json:"duration"`
	CategoryID      *uuid.UUID `db:"category_id" json:"category_id,omitempty"`
}

type CreateServiceRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Duration    int     `json:"duration" binding:"required,gt=0"`
	CategoryID  string  `json:"category_id" binding:"omitempty,uuid"`
}
