package shop

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clipperline/barbershop-api/internal/model"
	shopService "github.com/clipperline/barbershop-api/internal/service/shop"
	"github.com/clipperline/barbershop-api/pkg/httputil"
)

type Handler struct {
	service *shopService.Service
}

func NewHandler(service *shopService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/products", h.ListProducts)
	r.GET("/products/:id", h.GetProduct)

	cart := r.Group("/cart")
	{
		cart.GET("/:cartId", h.GetCart)
		cart.POST("", h.AddItem)
		cart.PUT("/:id", h.UpdateItem)
		cart.DELETE("/clear/:cartId", h.ClearCart)
		cart.DELETE("/:id", h.RemoveItem)
	}
}

func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	r.POST("/products", h.CreateProduct)
}

func (h *Handler) ListProducts(c *gin.Context) {
	var categoryID *uuid.UUID
	if raw := c.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httputil.RespondWithValidationError(c, err)
			return
		}
		categoryID = &id
	}

	products, err := h.service.ListProducts(c.Request.Context(), categoryID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, products)
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithValidationError(c, err)
		return
	}

	product, err := h.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, product)
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var req model.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithValidationError(c, err)
		return
	}

	product, err := h.service.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, product)
}

func (h *Handler) GetCart(c *gin.Context) {
	cart, err := h.service.GetCart(c.Request.Context(), c.Param("cartId"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, cart)
}

func (h *Handler) AddItem(c *gin.Context) {
	var req model.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithValidationError(c, err)
		return
	}

	item, err := h.service.AddItem(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, item)
}

func (h *Handler) UpdateItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithValidationError(c, err)
		return
	}

	var req model.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithValidationError(c, err)
		return
	}

	item, err := h.service.UpdateQuantity(c.Request.Context(), id, req.Quantity)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, item)
}

func (h *Handler) RemoveItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithValidationError(c, err)
		return
	}

	if err := h.service.RemoveItem(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) ClearCart(c *gin.Context) {
	if err := h.service.ClearCart(c.Request.Context(), c.Param("cartId")); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, gin.H{"cleared": true})
}
