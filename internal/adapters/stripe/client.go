// Package stripe implements the payment gateway port on top of stripe-go.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/adyela/payments/internal/config"
	"github.com/adyela/payments/internal/core/domain"
	"github.com/adyela/payments/internal/core/ports"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
	"github.com/stripe/stripe-go/v81/webhook"
)

// Client talks to Stripe's PaymentIntents and Refunds APIs and verifies
// webhook deliveries.
type Client struct {
	api           *client.API
	webhookSecret string
	logger        *slog.Logger
}

var _ ports.GatewayPort = (*Client)(nil)

func NewClient(cfg config.GatewayConfig, logger *slog.Logger) *Client {
	backendConfig := &stripe.BackendConfig{
		LeveledLogger:     &leveledLogger{logger: logger},
		MaxNetworkRetries: stripe.Int64(cfg.MaxNetworkRetries),
	}
	if cfg.BaseURL != "" {
		backendConfig.URL = stripe.String(cfg.BaseURL)
	}

	api := client.New(cfg.SecretKey, &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, backendConfig),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, backendConfig),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, backendConfig),
	})

	return &Client{
		api:           api,
		webhookSecret: cfg.WebhookSecret,
		logger:        logger,
	}
}

// CreateIntent opens a PaymentIntent for amount, sent in minor units, with
// automatic payment methods enabled.
func (c *Client) CreateIntent(ctx context.Context, amount decimal.Decimal, currency domain.Currency, metadata map[string]string) (*domain.GatewayIntent, error) {
	params := &stripe.PaymentIntentParams{
		Params:   stripe.Params{Context: ctx},
		Amount:   stripe.Int64(domain.MinorUnits(amount)),
		Currency: stripe.String(string(currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return nil, wrapError("create_intent", err)
	}

	c.logger.Debug("stripe payment intent created", "intent_id", pi.ID, "amount", pi.Amount, "currency", pi.Currency)

	return &domain.GatewayIntent{
		IntentID:     pi.ID,
		ClientSecret: pi.ClientSecret,
	}, nil
}

func (c *Client) ConfirmIntent(ctx context.Context, intentID string) error {
	params := &stripe.PaymentIntentConfirmParams{
		Params: stripe.Params{Context: ctx},
	}
	if _, err := c.api.PaymentIntents.Confirm(intentID, params); err != nil {
		return wrapError("confirm_intent", err)
	}
	return nil
}

func (c *Client) Refund(ctx context.Context, intentID string, amount *decimal.Decimal) error {
	params := &stripe.RefundParams{
		Params:        stripe.Params{Context: ctx},
		PaymentIntent: stripe.String(intentID),
	}
	if amount != nil {
		params.Amount = stripe.Int64(domain.MinorUnits(*amount))
	}

	r, err := c.api.Refunds.New(params)
	if err != nil {
		return wrapError("refund", err)
	}

	c.logger.Debug("stripe refund created", "refund_id", r.ID, "intent_id", intentID, "status", r.Status)
	return nil
}

// VerifyAndParseWebhook checks the Stripe-Signature header against the raw
// payload before decoding anything from it.
func (c *Client) VerifyAndParseWebhook(payload []byte, signatureHeader string) (*domain.GatewayEvent, error) {
	if err := webhook.ValidatePayload(payload, signatureHeader, c.webhookSecret); err != nil {
		return nil, domain.NewInvalidSignatureError(err)
	}

	var event stripe.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, &domain.GatewayError{Op: "parse_webhook", Code: "invalid_payload", Message: "malformed event payload", Err: err}
	}

	return toGatewayEvent(&event)
}

func toGatewayEvent(event *stripe.Event) (*domain.GatewayEvent, error) {
	ge := &domain.GatewayEvent{
		ID:        event.ID,
		Type:      string(event.Type),
		Category:  domain.ParseEventCategory(string(event.Type)),
		CreatedAt: time.Unix(event.Created, 0).UTC(),
	}

	if event.Data == nil || len(event.Data.Raw) == 0 {
		return ge, nil
	}

	switch ge.Category {
	case domain.EventIntentSucceeded, domain.EventIntentPaymentFailed, domain.EventIntentCanceled:
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, parseError(event, err)
		}
		ge.IntentID = pi.ID
	case domain.EventChargeRefunded:
		var ch stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &ch); err != nil {
			return nil, parseError(event, err)
		}
		if ch.PaymentIntent != nil {
			ge.IntentID = ch.PaymentIntent.ID
		}
	}

	return ge, nil
}

func parseError(event *stripe.Event, err error) error {
	return &domain.GatewayError{
		Op:      "parse_webhook",
		Code:    "invalid_payload",
		Message: fmt.Sprintf("cannot decode %s object of event %s", event.Type, event.ID),
		Err:     err,
	}
}
