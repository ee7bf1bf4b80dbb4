package ports

import (
	"context"

	"github.com/adyela/payments/internal/core/domain"
	"github.com/shopspring/decimal"
)

// GatewayPort is the external payment provider. Every failure is returned as
// a *domain.GatewayError.
type GatewayPort interface {
	CreateIntent(ctx context.Context, amount decimal.Decimal, currency domain.Currency, metadata map[string]string) (*domain.GatewayIntent, error)
	ConfirmIntent(ctx context.Context, intentID string) error
	// Refund refunds the whole intent when amount is nil.
	Refund(ctx context.Context, intentID string, amount *decimal.Decimal) error
	VerifyAndParseWebhook(payload []byte, signatureHeader string) (*domain.GatewayEvent, error)
}
