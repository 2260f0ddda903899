// Package payment wraps the Stripe API. Amounts are converted to integer
// cents at this boundary; everything above it works in dollars.
package payment

import (
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

const currency = "usd"

type Config struct {
	SecretKey     string `mapstructure:"secret_key"`
	WebhookSecret string `mapstructure:"webhook_secret"`
}

// Intent is the subset of a payment intent the API returns to clients.
type Intent struct {
	ID           string  `json:"id"`
	ClientSecret string  `json:"client_secret"`
	Amount       float64 `json:"amount"`
}

type Client struct {
	api           *client.API
	webhookSecret string
}

func NewClient(cfg Config) *Client {
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)
	return &Client{api: api, webhookSecret: cfg.WebhookSecret}
}

// CreateAppointmentIntent opens a payment intent for a booking deposit.
func (c *Client) CreateAppointmentIntent(appointmentID string, amount float64) (*Intent, error) {
	return c.createIntent(amount, map[string]string{"appointment_id": appointmentID})
}

// CreateProductIntent opens a payment intent for a cart checkout.
func (c *Client) CreateProductIntent(cartID string, amount float64) (*Intent, error) {
	return c.createIntent(amount, map[string]string{"cart_id": cartID})
}

func (c *Client) createIntent(amount float64, metadata map[string]string) (*Intent, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive, got %.2f", amount)
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(Cents(amount)),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	intent, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return &Intent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		Amount:       amount,
	}, nil
}

// VerifyWebhook checks the Stripe-Signature header against the raw body
// and returns the decoded event.
func (c *Client) VerifyWebhook(payload []byte, signature string) (stripe.Event, error) {
	event, err := webhook.ConstructEvent(payload, signature, c.webhookSecret)
	if err != nil {
		return stripe.Event{}, fmt.Errorf("webhook verification failed: %w", err)
	}
	return event, nil
}

// Cents converts a dollar amount to Stripe's integer cents.
func Cents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
