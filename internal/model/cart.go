package model

import "github.com/google/uuid"

// CartItem is one product line in an anonymous cart. The cart id is a
// client-generated string persisted only in the browser's local storage.
type CartItem struct {
	Base
	CartID    string    `db:"cart_id" json:"cart_id"`
	ProductID uuid.UUID `db:"product_id" json:"product_id"`
	Quantity  int       `db:"quantity" json:"quantity"`
}

// CartItemDetail joins a line item with its product for the cart view.
type CartItemDetail struct {
	CartItem
	Product *Product `json:"product,omitempty"`
}

// Cart is the GET /cart/:cartId response shape.
type Cart struct {
	CartID   string           `json:"cart_id"`
	Items    []CartItemDetail `json:"items"`
	Subtotal float64          `json:"subtotal"`
	Shipping float64          `json:"shipping"`
	Total    float64          `json:"total"`
}

type AddCartItemRequest struct {
	CartID    string `json:"cart_id" binding:"required"`
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"required,gte=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}
