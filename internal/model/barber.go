package model

type Barber struct {
	Base
	Name     string  `db:"name" json:"name"`
	Title    string  `db:"title" json:"title"`
	ImageURL *string `db:"image_url" json:"image_url,omitempty"`
	Rating   float64 `db:"rating" json:"rating"`
}

type CreateBarberRequest struct {
	Name     string  `json:"name" binding:"required"`
	Title    string  `json:"title" binding:"required"`
	ImageURL string  `json:"image_url" binding:"omitempty,url"`
	Rating   float64 `json:"rating" binding:"omitempty,gte=0,lte=5"`
}
