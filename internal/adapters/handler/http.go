package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/adyela/payments/internal/core/domain"
	"github.com/adyela/payments/internal/core/service"
	"github.com/go-playground/validator"
	"github.com/google/uuid"
)

type IntentService interface {
	CreatePaymentIntent(ctx context.Context, cmd service.CreatePaymentIntentCommand) (*domain.Payment, error)
}

type QueryService interface {
	GetPayment(ctx context.Context, id uuid.UUID) (*domain.Payment, error)
	GetPaymentByAppointmentID(ctx context.Context, appointmentID string) (*domain.Payment, error)
}

type WebhookService interface {
	HandleDelivery(ctx context.Context, payload []byte, signature string) (*domain.GatewayEvent, error)
}

type PaymentHandler struct {
	intentService  IntentService
	queryService   QueryService
	webhookService WebhookService
	validate       *validator.Validate
	logger         *slog.Logger
	exposeErrors   bool
}

// NewPaymentHandler wires the payment routes. exposeErrors controls whether
// messages of unexpected errors reach clients.
func NewPaymentHandler(
	intentService IntentService,
	queryService QueryService,
	webhookService WebhookService,
	logger *slog.Logger,
	exposeErrors bool,
) *PaymentHandler {
	return &PaymentHandler{
		intentService:  intentService,
		queryService:   queryService,
		webhookService: webhookService,
		validate:       validator.New(),
		logger:         logger,
		exposeErrors:   exposeErrors,
	}
}

// RegisterRoutes mounts the payment API under prefix. Every route except the
// webhook passes through authn; the webhook authenticates by signature.
func (h *PaymentHandler) RegisterRoutes(mux *http.ServeMux, prefix string, authn func(http.Handler) http.Handler) {
	mux.Handle("POST "+prefix+"/payments/intent", authn(http.HandlerFunc(h.HandleCreateIntent)))
	mux.Handle("GET "+prefix+"/payments/appointment/{appointmentID}", authn(http.HandlerFunc(h.HandleGetPaymentByAppointment)))
	mux.Handle("GET "+prefix+"/payments/{id}", authn(http.HandlerFunc(h.HandleGetPayment)))
	mux.HandleFunc("POST "+prefix+"/payments/webhook", h.HandleWebhook)
}
