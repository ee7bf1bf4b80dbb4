// Package memory provides an in-process PaymentRepository for tests and
// single-instance development runs.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/adyela/payments/internal/core/domain"
	"github.com/adyela/payments/internal/core/ports"
	"github.com/google/uuid"
)

type PaymentRepository struct {
	mu       sync.RWMutex
	payments map[uuid.UUID]*domain.Payment
	byIntent map[string]uuid.UUID
	now      func() time.Time
}

var _ ports.PaymentRepository = (*PaymentRepository)(nil)

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{
		payments: make(map[uuid.UUID]*domain.Payment),
		byIntent: make(map[string]uuid.UUID),
		now:      time.Now,
	}
}

// WithClock replaces the clock used to stamp UpdatedAt.
func (r *PaymentRepository) WithClock(now func() time.Time) *PaymentRepository {
	r.now = now
	return r
}

func (r *PaymentRepository) Create(_ context.Context, p *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.payments[p.ID]; ok {
		return domain.NewDuplicatePaymentError(p.ID.String())
	}
	if p.GatewayIntentID != nil {
		if _, ok := r.byIntent[*p.GatewayIntentID]; ok {
			return domain.NewDuplicatePaymentError(*p.GatewayIntentID)
		}
		r.byIntent[*p.GatewayIntentID] = p.ID
	}

	r.payments[p.ID] = p.Clone()
	return nil
}

func (r *PaymentRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.payments[id]
	if !ok {
		return nil, domain.NewPaymentNotFoundError(id.String())
	}
	return p.Clone(), nil
}

func (r *PaymentRepository) FindByAppointmentID(_ context.Context, appointmentID string) (*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *domain.Payment
	for _, p := range r.payments {
		if p.AppointmentID != appointmentID {
			continue
		}
		if latest == nil || p.CreatedAt.After(latest.CreatedAt) {
			latest = p
		}
	}
	if latest == nil {
		return nil, domain.NewPaymentNotFoundError("appointment " + appointmentID)
	}
	return latest.Clone(), nil
}

func (r *PaymentRepository) FindByGatewayIntentID(_ context.Context, intentID string) (*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byIntent[intentID]
	if !ok {
		return nil, domain.NewPaymentNotFoundError("intent " + intentID)
	}
	return r.payments[id].Clone(), nil
}

func (r *PaymentRepository) Update(_ context.Context, p *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.payments[p.ID]
	if !ok {
		return domain.NewPaymentNotFoundError(p.ID.String())
	}

	if existing.GatewayIntentID != nil {
		if p.GatewayIntentID == nil || *p.GatewayIntentID != *existing.GatewayIntentID {
			attempted := ""
			if p.GatewayIntentID != nil {
				attempted = *p.GatewayIntentID
			}
			return domain.NewIntentAlreadyAssignedError(p.ID.String(), *existing.GatewayIntentID, attempted)
		}
	} else if p.GatewayIntentID != nil {
		if _, taken := r.byIntent[*p.GatewayIntentID]; taken {
			return domain.NewDuplicatePaymentError(*p.GatewayIntentID)
		}
		r.byIntent[*p.GatewayIntentID] = p.ID
	}

	p.CreatedAt = existing.CreatedAt
	p.Touch(r.now())
	r.payments[p.ID] = p.Clone()
	return nil
}
