package barber

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clipperline/barbershop-api/internal/model"
	barberService "github.com/clipperline/barbershop-api/internal/service/barber"
	"github.com/clipperline/barbershop-api/pkg/httputil"
)

type Handler struct {
	service *barberService.Service
}

func NewHandler(service *barberService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/barbers", h.ListBarbers)
	r.GET("/barbers/:id", h.GetBarber)
}

func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	r.POST("/barbers", h.CreateBarber)
}

func (h *Handler) ListBarbers(c *gin.Context) {
	barbers, err := h.service.ListBarbers(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, barbers)
}

func (h *Handler) GetBarber(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithValidationError(c, err)
		return
	}

	barber, err := h.service.GetBarber(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, barber)
}

func (h *Handler) CreateBarber(c *gin.Context) {
	var req model.CreateBarberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithValidationError(c, err)
		return
	}

	barber, err := h.service.CreateBarber(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, barber)
}
