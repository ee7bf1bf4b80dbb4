package service

import (
	"context"
	"log/slog"

	"github.com/adyela/payments/internal/core/domain"
	"github.com/adyela/payments/internal/core/ports"
)

// EventReconciler applies verified gateway events.
type EventReconciler interface {
	ReconcileWebhookEvent(ctx context.Context, event *domain.GatewayEvent) error
}

// WebhookService authenticates raw webhook deliveries before any of their
// content reaches the lifecycle engine.
type WebhookService struct {
	gateway    ports.GatewayPort
	reconciler EventReconciler
	logger     *slog.Logger
}

func NewWebhookService(gateway ports.GatewayPort, reconciler EventReconciler, logger *slog.Logger) *WebhookService {
	return &WebhookService{
		gateway:    gateway,
		reconciler: reconciler,
		logger:     logger,
	}
}

// HandleDelivery verifies the signature over the exact payload bytes and
// reconciles the event. Signature failures return an InvalidSignatureError
// and never touch the store.
func (s *WebhookService) HandleDelivery(ctx context.Context, payload []byte, signature string) (*domain.GatewayEvent, error) {
	if signature == "" {
		return nil, domain.NewMissingSignatureError()
	}

	event, err := s.gateway.VerifyAndParseWebhook(payload, signature)
	if err != nil {
		s.logger.Warn("rejected webhook delivery", "error", err)
		return nil, err
	}

	if err := s.reconciler.ReconcileWebhookEvent(ctx, event); err != nil {
		s.logger.Error("webhook reconciliation failed", "event_id", event.ID, "event_type", event.Type, "error", err)
		return event, err
	}

	return event, nil
}
