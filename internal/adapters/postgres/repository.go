package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/adyela/payments/internal/core/domain"
	"github.com/adyela/payments/internal/core/ports"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const paymentColumns = `id, appointment_id, patient_id, professional_id, amount, currency, status,
	gateway_intent_id, gateway_client_secret, metadata, created_at, updated_at`

type PaymentRepository struct {
	q   Executor
	now func() time.Time
}

var _ ports.PaymentRepository = (*PaymentRepository)(nil)

func NewPaymentRepository(db *DB) *PaymentRepository {
	return &PaymentRepository{
		q:   db.Pool,
		now: time.Now,
	}
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	query := `INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.q.Exec(ctx, query,
		p.ID,
		p.AppointmentID,
		p.PatientID,
		p.ProfessionalID,
		toNumeric(p.Amount),
		string(p.Currency),
		string(p.Status),
		p.GatewayIntentID,
		p.GatewayClientSecret,
		metadataOrEmpty(p.Metadata),
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return domain.NewDuplicatePaymentError(p.ID.String())
		}
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	return scanPayment(r.q.QueryRow(ctx, query, id), id.String())
}

// FindByAppointmentID returns the newest payment for the appointment.
func (r *PaymentRepository) FindByAppointmentID(ctx context.Context, appointmentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments
		WHERE appointment_id = $1
		ORDER BY created_at DESC
		LIMIT 1`
	return scanPayment(r.q.QueryRow(ctx, query, appointmentID), "appointment "+appointmentID)
}

func (r *PaymentRepository) FindByGatewayIntentID(ctx context.Context, intentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE gateway_intent_id = $1`
	return scanPayment(r.q.QueryRow(ctx, query, intentID), "intent "+intentID)
}

// Update replaces the mutable columns. A bound gateway intent can only be
// rewritten with the same value.
func (r *PaymentRepository) Update(ctx context.Context, p *domain.Payment) error {
	query := `
		UPDATE payments SET
			amount = $1, currency = $2, status = $3,
			gateway_intent_id = $4, gateway_client_secret = $5, metadata = $6,
			updated_at = GREATEST($7, created_at)
		WHERE id = $8
			AND (gateway_intent_id IS NULL OR gateway_intent_id = $4)
		RETURNING created_at, updated_at`

	var createdAt, updatedAt time.Time
	err := r.q.QueryRow(ctx, query,
		toNumeric(p.Amount),
		string(p.Currency),
		string(p.Status),
		p.GatewayIntentID,
		p.GatewayClientSecret,
		metadataOrEmpty(p.Metadata),
		r.now().UTC(),
		p.ID,
	).Scan(&createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return r.explainMissedUpdate(ctx, p)
		}
		if IsUniqueViolation(err) {
			return domain.NewDuplicatePaymentError(deref(p.GatewayIntentID))
		}
		return fmt.Errorf("failed to update payment record: %w", err)
	}

	p.CreatedAt = createdAt
	p.UpdatedAt = updatedAt
	return nil
}

func (r *PaymentRepository) explainMissedUpdate(ctx context.Context, p *domain.Payment) error {
	existing, err := r.FindByID(ctx, p.ID)
	if err != nil {
		return err
	}
	return domain.NewIntentAlreadyAssignedError(p.ID.String(), deref(existing.GatewayIntentID), deref(p.GatewayIntentID))
}

// scanPayment scans a pgx.Row into a domain.Payment.
func scanPayment(row pgx.Row, lookup string) (*domain.Payment, error) {
	var (
		p        domain.Payment
		amount   pgtype.Numeric
		currency string
		status   string
		metadata map[string]string
	)
	err := row.Scan(
		&p.ID,
		&p.AppointmentID,
		&p.PatientID,
		&p.ProfessionalID,
		&amount,
		&currency,
		&status,
		&p.GatewayIntentID,
		&p.GatewayClientSecret,
		&metadata,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewPaymentNotFoundError(lookup)
		}
		return nil, fmt.Errorf("failed to scan payment: %w", err)
	}

	p.Amount = fromNumeric(amount)
	p.Currency = domain.Currency(currency)
	p.Status = domain.PaymentStatus(status)
	p.Metadata = metadataOrEmpty(metadata)
	return &p, nil
}

func toNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

func fromNumeric(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}

func metadataOrEmpty(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
