package model

// CategoryType groups catalog entries into the two storefront tabs.
type CategoryType string

const (
	CategoryTypeService CategoryType = "service"
	CategoryTypeProduct CategoryType = "product"
)

type Category struct {
	Base
	Name string       `db:"name" json:"name"`
	Type CategoryType `db:"type" json:"type"`
}

type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
	Type string `json:"type" binding:"required,oneof=service product"`
}
