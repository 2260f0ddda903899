package catalog

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clipperline/barbershop-api/internal/model"
	catalogService "github.com/clipperline/barbershop-api/internal/service/catalog"
	"github.com/clipperline/barbershop-api/pkg/httputil"
)

var errInvalidCategoryType = errors.New("type must be 'service' or 'product'")

type Handler struct {
	service *catalogService.Service
}

func NewHandler(service *catalogService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/categories", h.ListCategories)
	r.GET("/categories/:type", h.ListCategoriesByType)
	r.GET("/services", h.ListServices)
	r.GET("/services/:id", h.GetService)
}

func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	r.POST("/categories", h.CreateCategory)
	r.POST("/services", h.CreateService)
}

// ListCategories returns every category; ?type=service|product narrows it.
func (h *Handler) ListCategories(c *gin.Context) {
	categoryType := model.CategoryType(c.Query("type"))
	if categoryType != "" && categoryType != model.CategoryTypeService && categoryType != model.CategoryTypeProduct {
		httputil.RespondWithValidationError(c, errInvalidCategoryType)
		return
	}

	categories, err := h.service.ListCategories(c.Request.Context(), categoryType)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, categories)
}

// ListCategoriesByType is the path-parameter variant of ListCategories.
func (h *Handler) ListCategoriesByType(c *gin.Context) {
	categoryType := model.CategoryType(c.Param("type"))
	if categoryType != model.CategoryTypeService && categoryType != model.CategoryTypeProduct {
		httputil.RespondWithValidationError(c, errInvalidCategoryType)
		return
	}

	categories, err := h.service.ListCategories(c.Request.Context(), categoryType)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, categories)
}

func (h *Handler) CreateCategory(c *gin.Context) {
	var req model.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithValidationError(c, err)
		return
	}

	category, err := h.service.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, category)
}

func (h *Handler) ListServices(c *gin.Context) {
	var categoryID *uuid.UUID
	if raw := c.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httputil.RespondWithValidationError(c, err)
			return
		}
		categoryID = &id
	}

	services, err := h.service.ListServices(c.Request.Context(), categoryID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, services)
}

func (h *Handler) GetService(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithValidationError(c, err)
		return
	}

	service, err := h.service.GetService(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, service)
}

func (h *Handler) CreateService(c *gin.Context) {
	var req model.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithValidationError(c, err)
		return
	}

	service, err := h.service.CreateService(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, service)
}
