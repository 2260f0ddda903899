package appointment

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clipperline/barbershop-api/internal/model"
	appointmentService "github.com/clipperline/barbershop-api/internal/service/appointment"
	"github.com/clipperline/barbershop-api/pkg/httputil"
)

type Handler struct {
	service *appointmentService.Service
}

func NewHandler(service *appointmentService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/appointments", h.CreateAppointment)
	r.GET("/appointments/:id", h.GetAppointment)
	r.POST("/appointments/:id/cancel", h.CancelAppointment)
	r.GET("/time-slots", h.ListTimeSlots)
}

func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	r.GET("/appointments", h.ListAppointments)
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithValidationError(c, err)
		return
	}

	appointment, err := h.service.CreateAppointment(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, appointment)
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithValidationError(c, err)
		return
	}

	appointment, err := h.service.GetAppointment(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, appointment)
}

func (h *Handler) ListAppointments(c *gin.Context) {
	filters := &model.AppointmentFilters{}
	if raw := c.Query("barber_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httputil.RespondWithValidationError(c, err)
			return
		}
		filters.BarberID = id
	}
	if raw := c.Query("service_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httputil.RespondWithValidationError(c, err)
			return
		}
		filters.ServiceID = id
	}
	if raw := c.Query("date"); raw != "" {
		day, err := appointmentService.ParseBookingDate(raw)
		if err != nil {
			httputil.RespondWithValidationError(c, err)
			return
		}
		filters.StartDate = day
		filters.EndDate = day
	}
	if raw := c.Query("status"); raw != "" {
		filters.Status = model.AppointmentStatus(raw)
	}

	appointments, err := h.service.ListAppointments(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, appointments)
}

func (h *Handler) CancelAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithValidationError(c, err)
		return
	}

	appointment, err := h.service.CancelAppointment(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, appointment)
}

// ListTimeSlots answers ?date=&barber_id= with the free slots for that day.
func (h *Handler) ListTimeSlots(c *gin.Context) {
	rawDate := c.Query("date")
	if rawDate == "" {
		httputil.RespondWithValidationError(c, errors.New("date is required"))
		return
	}
	day, err := appointmentService.ParseBookingDate(rawDate)
	if err != nil {
		httputil.RespondWithValidationError(c, err)
		return
	}

	barberID, err := uuid.Parse(c.Query("barber_id"))
	if err != nil {
		httputil.RespondWithValidationError(c, errors.New("barber_id is required"))
		return
	}

	slots, err := h.service.AvailableSlots(c.Request.Context(), barberID, day)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, slots)
}
