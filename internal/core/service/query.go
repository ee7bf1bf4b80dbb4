package service

import (
	"context"

	"github.com/adyela/payments/internal/core/domain"
	"github.com/adyela/payments/internal/core/ports"
	"github.com/google/uuid"
)

type PaymentQueryService struct {
	repo ports.PaymentRepository
}

func NewPaymentQueryService(repo ports.PaymentRepository) *PaymentQueryService {
	return &PaymentQueryService{
		repo: repo,
	}
}

func (s *PaymentQueryService) GetPayment(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *PaymentQueryService) GetPaymentByAppointmentID(ctx context.Context, appointmentID string) (*domain.Payment, error) {
	return s.repo.FindByAppointmentID(ctx, appointmentID)
}
