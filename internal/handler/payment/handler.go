package payment

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"

	"github.com/clipperline/barbershop-api/internal/model"
	"github.com/clipperline/barbershop-api/internal/payment"
	appointmentService "github.com/clipperline/barbershop-api/internal/service/appointment"
	shopService "github.com/clipperline/barbershop-api/internal/service/shop"
	apperrors "github.com/clipperline/barbershop-api/pkg/errors"
	"github.com/clipperline/barbershop-api/pkg/httputil"
	"github.com/clipperline/barbershop-api/pkg/logger"
	"github.com/clipperline/barbershop-api/pkg/metrics"
)

type Handler struct {
	stripe       *payment.Client
	appointments *appointmentService.Service
	shop         *shopService.Service
	metrics      *metrics.Metrics
	logger       *logger.Logger
}

func NewHandler(
	stripeClient *payment.Client,
	appointments *appointmentService.Service,
	shop *shopService.Service,
	m *metrics.Metrics,
	logger *logger.Logger,
) *Handler {
	return &Handler{
		stripe:       stripeClient,
		appointments: appointments,
		shop:         shop,
		metrics:      m,
		logger:       logger,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	payments := r.Group("/payments")
	{
		payments.POST("/appointment", h.CreateAppointmentIntent)
		payments.POST("/product", h.CreateProductIntent)
		payments.POST("/webhook", h.HandleWebhook)
	}
}

type appointmentIntentRequest struct {
	AppointmentID string `json:"appointment_id" binding:"required,uuid"`
}

type productIntentRequest struct {
	CartID string `json:"cart_id" binding:"required"`
}

// CreateAppointmentIntent opens a Stripe intent for a pending booking; the
// amount comes from the stored appointment, never from the client.
func (h *Handler) CreateAppointmentIntent(c *gin.Context) {
	var req appointmentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithValidationError(c, err)
		return
	}

	id, err := uuid.Parse(req.AppointmentID)
	if err != nil {
		httputil.RespondWithValidationError(c, err)
		return
	}

	appointment, err := h.appointments.GetAppointment(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if appointment.Status != model.AppointmentStatusPending {
		httputil.RespondWithError(c, apperrors.BadRequest("appointment is not awaiting payment", nil))
		return
	}

	intent, err := h.stripe.CreateAppointmentIntent(appointment.ID.String(), appointment.TotalPrice)
	if err != nil {
		h.metrics.PaymentIntents.WithLabelValues("appointment", "error").Inc()
		httputil.RespondWithError(c, err)
		return
	}

	h.metrics.PaymentIntents.WithLabelValues("appointment", "created").Inc()
	httputil.RespondWithSuccess(c, http.StatusCreated, intent)
}

// CreateProductIntent opens a Stripe intent for a cart checkout; the amount
// is the server-computed cart total including shipping.
func (h *Handler) CreateProductIntent(c *gin.Context) {
	var req productIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithValidationError(c, err)
		return
	}

	cart, err := h.shop.GetCart(c.Request.Context(), req.CartID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if len(cart.Items) == 0 {
		httputil.RespondWithError(c, apperrors.BadRequest("cart is empty", nil))
		return
	}

	intent, err := h.stripe.CreateProductIntent(cart.CartID, cart.Total)
	if err != nil {
		h.metrics.PaymentIntents.WithLabelValues("product", "error").Inc()
		httputil.RespondWithError(c, err)
		return
	}

	h.metrics.PaymentIntents.WithLabelValues("product", "created").Inc()
	httputil.RespondWithSuccess(c, http.StatusCreated, intent)
}

// HandleWebhook verifies the Stripe signature over the raw body and applies
// payment_intent.succeeded events. Unhandled event types are acknowledged so
// Stripe stops retrying them.
func (h *Handler) HandleWebhook(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, 65536))
	if err != nil {
		h.metrics.WebhookFailures.Inc()
		httputil.RespondWithValidationError(c, err)
		return
	}

	event, err := h.stripe.VerifyWebhook(body, c.GetHeader("Stripe-Signature"))
	if err != nil {
		h.metrics.WebhookFailures.Inc()
		httputil.RespondWithError(c, apperrors.BadRequest("invalid webhook signature", err))
		return
	}

	h.metrics.WebhookEvents.WithLabelValues(string(event.Type)).Inc()

	if event.Type == "payment_intent.succeeded" {
		if err := h.handlePaymentSucceeded(c, event); err != nil {
			h.metrics.WebhookFailures.Inc()
			httputil.RespondWithError(c, err)
			return
		}
	}

	httputil.RespondWithSuccess(c, http.StatusOK, gin.H{"received": true})
}

func (h *Handler) handlePaymentSucceeded(c *gin.Context, event stripe.Event) error {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return apperrors.BadRequest("malformed payment intent payload", err)
	}

	ctx := c.Request.Context()

	if raw, ok := intent.Metadata["appointment_id"]; ok {
		id, err := uuid.Parse(raw)
		if err != nil {
			return apperrors.BadRequest("invalid appointment_id metadata", err)
		}
		if _, err := h.appointments.ConfirmAppointment(ctx, id, intent.ID); err != nil {
			return err
		}
		h.logger.Info("Appointment confirmed by payment",
			"appointment_id", id.String(), "payment_intent", intent.ID)
		return nil
	}

	if cartID, ok := intent.Metadata["cart_id"]; ok {
		if err := h.shop.CheckoutCart(ctx, cartID, intent.ID); err != nil {
			return err
		}
		h.logger.Info("Cart checked out", "cart_id", cartID, "payment_intent", intent.ID)
		return nil
	}

	h.logger.Warn("Payment intent without routing metadata", "payment_intent", intent.ID)
	return nil
}
