package ports

import (
	"context"

	"github.com/adyela/payments/internal/core/domain"
	"github.com/google/uuid"
)

// PaymentRepository persists payments. Lookups that match nothing return a
// PAYMENT_NOT_FOUND DomainError.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error)
	// FindByAppointmentID returns the most recently created payment for the appointment.
	FindByAppointmentID(ctx context.Context, appointmentID string) (*domain.Payment, error)
	FindByGatewayIntentID(ctx context.Context, intentID string) (*domain.Payment, error)
	// Update replaces the stored record and sets payment.UpdatedAt.
	Update(ctx context.Context, payment *domain.Payment) error
}
