package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/adyela/payments/internal/core/domain"
	"github.com/adyela/payments/internal/core/ports"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LifecycleService owns every status change of a payment. Local status only
// moves in response to verified gateway events; API-initiated operations
// such as refunds call the gateway and wait for the resulting webhook.
type LifecycleService struct {
	repo    ports.PaymentRepository
	gateway ports.GatewayPort
	logger  *slog.Logger
	now     func() time.Time
}

func NewLifecycleService(repo ports.PaymentRepository, gateway ports.GatewayPort, logger *slog.Logger) *LifecycleService {
	return &LifecycleService{
		repo:    repo,
		gateway: gateway,
		logger:  logger,
		now:     time.Now,
	}
}

// CreatePaymentIntent validates the request, opens an intent at the gateway
// and persists a Pending payment bound to it. Nothing is persisted when the
// gateway call fails.
func (s *LifecycleService) CreatePaymentIntent(ctx context.Context, cmd CreatePaymentIntentCommand) (*domain.Payment, error) {
	if !cmd.Amount.IsPositive() {
		return nil, domain.NewInvalidAmountError(cmd.Amount.String())
	}

	currency, err := domain.ParseCurrency(cmd.Currency)
	if err != nil {
		return nil, err
	}

	payment, err := domain.NewPayment(
		uuid.New(),
		cmd.AppointmentID,
		cmd.PatientID,
		cmd.ProfessionalID,
		cmd.Amount,
		currency,
		cmd.Metadata,
		s.now(),
	)
	if err != nil {
		return nil, err
	}

	intent, err := s.gateway.CreateIntent(ctx, payment.Amount, payment.Currency, gatewayMetadata(cmd))
	if err != nil {
		s.logger.Error("gateway rejected payment intent",
			"appointment_id", cmd.AppointmentID,
			"amount", cmd.Amount.String(),
			"error", err,
		)
		return nil, domain.NewPaymentProcessingError("failed to create payment intent", err)
	}

	if err := payment.AssignIntent(intent.IntentID, intent.ClientSecret); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, payment); err != nil {
		// The gateway intent now has no local record. It expires on the
		// provider side and its webhooks are ignored as unknown intents.
		s.logger.Error("failed to persist payment after intent creation",
			"payment_id", payment.ID,
			"intent_id", intent.IntentID,
			"error", err,
		)
		return nil, fmt.Errorf("persist payment %s: %w", payment.ID, err)
	}

	s.logger.Info("payment intent created",
		"payment_id", payment.ID,
		"appointment_id", payment.AppointmentID,
		"intent_id", intent.IntentID,
	)

	return payment, nil
}

// gatewayMetadata overlays the correlation ids on top of the caller's metadata.
func gatewayMetadata(cmd CreatePaymentIntentCommand) map[string]string {
	meta := make(map[string]string, len(cmd.Metadata)+3)
	for k, v := range cmd.Metadata {
		meta[k] = v
	}
	meta[domain.MetadataAppointmentID] = cmd.AppointmentID
	meta[domain.MetadataPatientID] = cmd.PatientID
	meta[domain.MetadataProfessionalID] = cmd.ProfessionalID
	return meta
}

// ReconcileWebhookEvent applies a verified gateway event to the matching local
// payment. Unknown event categories and unknown intents are logged and
// ignored so the gateway does not keep redelivering them.
//
// The mapped status is applied even when it moves the payment backwards,
// because the gateway is the source of truth. Such events are logged at WARN.
func (s *LifecycleService) ReconcileWebhookEvent(ctx context.Context, event *domain.GatewayEvent) error {
	target, ok := event.Category.TargetStatus()
	if !ok {
		s.logger.Info("ignoring unhandled gateway event", "event_id", event.ID, "event_type", event.Type)
		return nil
	}

	if event.IntentID == "" {
		s.logger.Warn("gateway event without intent id", "event_id", event.ID, "event_type", event.Type)
		return nil
	}

	payment, err := s.repo.FindByGatewayIntentID(ctx, event.IntentID)
	if err != nil {
		if domain.IsErrorCode(err, domain.ErrCodePaymentNotFound) {
			s.logger.Warn("no payment for gateway intent",
				"event_id", event.ID,
				"event_type", event.Type,
				"intent_id", event.IntentID,
			)
			return nil
		}
		return fmt.Errorf("find payment by intent %s: %w", event.IntentID, err)
	}

	previous := payment.Status
	if !payment.CanTransitionTo(target) {
		s.logger.Warn("applying out-of-order gateway event",
			"payment_id", payment.ID,
			"event_id", event.ID,
			"from", previous,
			"to", target,
		)
	}

	payment.Status = target
	if err := s.repo.Update(ctx, payment); err != nil {
		return fmt.Errorf("update payment %s: %w", payment.ID, err)
	}

	s.logger.Info("payment reconciled",
		"payment_id", payment.ID,
		"event_id", event.ID,
		"from", previous,
		"to", target,
	)

	return nil
}

// RefundPayment asks the gateway to refund the payment's intent, in full when
// amount is nil. The local record changes only when charge.refunded arrives.
func (s *LifecycleService) RefundPayment(ctx context.Context, paymentID uuid.UUID, amount *decimal.Decimal) (*domain.Payment, error) {
	if amount != nil && !amount.IsPositive() {
		return nil, domain.NewInvalidAmountError(amount.String())
	}

	payment, intentID, err := s.paymentWithIntent(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	if err := s.gateway.Refund(ctx, intentID, amount); err != nil {
		s.logger.Error("gateway refund failed", "payment_id", paymentID, "intent_id", intentID, "error", err)
		return nil, domain.NewPaymentProcessingError("failed to refund payment", err)
	}

	s.logger.Info("refund requested", "payment_id", paymentID, "intent_id", intentID, "partial", amount != nil)
	return payment, nil
}

// ConfirmPayment confirms the payment's intent at the gateway. Like refunds,
// the resulting status arrives by webhook.
func (s *LifecycleService) ConfirmPayment(ctx context.Context, paymentID uuid.UUID) (*domain.Payment, error) {
	payment, intentID, err := s.paymentWithIntent(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	if err := s.gateway.ConfirmIntent(ctx, intentID); err != nil {
		s.logger.Error("gateway confirm failed", "payment_id", paymentID, "intent_id", intentID, "error", err)
		return nil, domain.NewPaymentProcessingError("failed to confirm payment", err)
	}

	s.logger.Info("confirmation requested", "payment_id", paymentID, "intent_id", intentID)
	return payment, nil
}

func (s *LifecycleService) paymentWithIntent(ctx context.Context, paymentID uuid.UUID) (*domain.Payment, string, error) {
	payment, err := s.repo.FindByID(ctx, paymentID)
	if err != nil {
		return nil, "", err
	}
	if payment.GatewayIntentID == nil || *payment.GatewayIntentID == "" {
		return nil, "", domain.NewMissingIntentError(paymentID.String())
	}
	return payment, *payment.GatewayIntentID, nil
}
