package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/adyela/payments/internal/core/domain"
	"github.com/google/uuid"
)

// MockPaymentRepository stores payments in a map and counts calls. Fn fields
// override individual methods.
type MockPaymentRepository struct {
	mu       sync.Mutex
	payments map[uuid.UUID]*domain.Payment
	clock    func() time.Time

	CreateCalls int
	UpdateCalls int
	FindCalls   int

	CreateFn                func(ctx context.Context, payment *domain.Payment) error
	UpdateFn                func(ctx context.Context, payment *domain.Payment) error
	FindByGatewayIntentIDFn func(ctx context.Context, intentID string) (*domain.Payment, error)
}

func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[uuid.UUID]*domain.Payment),
		clock:    time.Now,
	}
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls++
	if m.CreateFn != nil {
		return m.CreateFn(ctx, payment)
	}
	m.payments[payment.ID] = payment.Clone()
	return nil
}

func (m *MockPaymentRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FindCalls++
	if p, ok := m.payments[id]; ok {
		return p.Clone(), nil
	}
	return nil, domain.NewPaymentNotFoundError(id.String())
}

func (m *MockPaymentRepository) FindByAppointmentID(_ context.Context, appointmentID string) (*domain.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FindCalls++
	var latest *domain.Payment
	for _, p := range m.payments {
		if p.AppointmentID == appointmentID && (latest == nil || p.CreatedAt.After(latest.CreatedAt)) {
			latest = p
		}
	}
	if latest == nil {
		return nil, domain.NewPaymentNotFoundError(appointmentID)
	}
	return latest.Clone(), nil
}

func (m *MockPaymentRepository) FindByGatewayIntentID(ctx context.Context, intentID string) (*domain.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FindCalls++
	if m.FindByGatewayIntentIDFn != nil {
		return m.FindByGatewayIntentIDFn(ctx, intentID)
	}
	for _, p := range m.payments {
		if p.GatewayIntentID != nil && *p.GatewayIntentID == intentID {
			return p.Clone(), nil
		}
	}
	return nil, domain.NewPaymentNotFoundError(intentID)
}

func (m *MockPaymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls++
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, payment)
	}
	if _, ok := m.payments[payment.ID]; !ok {
		return domain.NewPaymentNotFoundError(payment.ID.String())
	}
	payment.Touch(m.clock())
	m.payments[payment.ID] = payment.Clone()
	return nil
}

func (m *MockPaymentRepository) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CreateCalls + m.UpdateCalls + m.FindCalls
}

// seed stores a payment bound to intentID in the given status.
func (m *MockPaymentRepository) seed(status domain.PaymentStatus, intentID string) *domain.Payment {
	created := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	p := &domain.Payment{
		ID:             uuid.New(),
		AppointmentID:  uuid.NewString(),
		PatientID:      uuid.NewString(),
		ProfessionalID: uuid.NewString(),
		Currency:       domain.CurrencyUSD,
		Status:         status,
		Metadata:       map[string]string{},
		CreatedAt:      created,
		UpdatedAt:      created,
	}
	if intentID != "" {
		secret := intentID + "_secret"
		p.GatewayIntentID = &intentID
		p.GatewayClientSecret = &secret
	}
	m.mu.Lock()
	m.payments[p.ID] = p.Clone()
	m.mu.Unlock()
	return p
}

func (m *MockPaymentRepository) stored(id uuid.UUID) *domain.Payment {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.payments[id].Clone()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
