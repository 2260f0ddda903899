package model

import "github.com/google/uuid"

type Product struct {
	Base
	Name         string     `db:"name" json:"name"`
	Description  string     `db:"description" json:"description"`
	Price        float64    `db:"price" json:"price"`
	ImageURL     *string    `db:"image_url" json:"image_url,omitempty"`
	CategoryID   *uuid.UUID `db:"category_id" json:"category_id,omitempty"`
	InStock      bool       `db:"in_stock" json:"in_stock"`
	IsBestSeller bool       `db:"is_best_seller" json:"is_best_seller"`
	Rating       float64    `db:"rating" json:"rating"`
}

type CreateProductRequest struct {
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description" binding:"required"`
	Price        float64 `json:"price" binding:"required,gt=0"`
	ImageURL     string  `json:"image_url" binding:"omitempty,url"`
	CategoryID   string  `json:"category_id" binding:"omitempty,uuid"`
	InStock      *bool   `json:"in_stock"`
	IsBestSeller bool    `json:"is_best_seller"`
	Rating       float64 `json:"rating" binding:"omitempty,gte=0,lte=5"`
}
