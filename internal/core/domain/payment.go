// Package domain defines the payment entity and the rules that govern it.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents the current state of a payment in its lifecycle
type PaymentStatus string

const (
	StatusPending    PaymentStatus = "pending"
	StatusProcessing PaymentStatus = "processing"
	StatusSucceeded  PaymentStatus = "succeeded"
	StatusFailed     PaymentStatus = "failed"
	StatusCancelled  PaymentStatus = "cancelled"
	StatusRefunded   PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusSucceeded, StatusFailed, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

type Currency string

const (
	CurrencyUSD Currency = "usd"
	CurrencyEUR Currency = "eur"
)

// ParseCurrency accepts a currency code in any case.
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", NewInvalidCurrencyError(s)
	}
	return c, nil
}

func (c Currency) Valid() bool {
	return c == CurrencyUSD || c == CurrencyEUR
}

// Metadata keys the lifecycle engine stamps on every gateway intent.
const (
	MetadataAppointmentID  = "appointmentId"
	MetadataPatientID      = "patientId"
	MetadataProfessionalID = "professionalId"
)

// Payment is the local record of one payment attempt for an appointment.
type Payment struct {
	ID             uuid.UUID
	AppointmentID  string
	PatientID      string
	ProfessionalID string
	Amount         decimal.Decimal
	Currency       Currency
	Status         PaymentStatus

	GatewayIntentID     *string
	GatewayClientSecret *string
	Metadata            map[string]string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewPayment validates the inputs and returns a Pending payment without a
// gateway intent.
func NewPayment(id uuid.UUID, appointmentID, patientID, professionalID string, amount decimal.Decimal, currency Currency, metadata map[string]string, now time.Time) (*Payment, error) {
	if !amount.IsPositive() {
		return nil, NewInvalidAmountError(amount.String())
	}
	if !currency.Valid() {
		return nil, NewInvalidCurrencyError(string(currency))
	}
	required := []struct{ field, value string }{
		{"appointmentId", appointmentID},
		{"patientId", patientID},
		{"professionalId", professionalID},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return nil, NewMissingRequiredFieldError(r.field)
		}
	}

	meta := make(map[string]string, len(metadata))
	for k, v := range metadata {
		meta[k] = v
	}

	return &Payment{
		ID:             id,
		AppointmentID:  appointmentID,
		PatientID:      patientID,
		ProfessionalID: professionalID,
		Amount:         amount,
		Currency:       currency,
		Status:         StatusPending,
		Metadata:       meta,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// AssignIntent binds the gateway intent to the payment. Once bound, the intent
// id never changes.
func (p *Payment) AssignIntent(intentID, clientSecret string) error {
	if intentID == "" {
		return NewMissingRequiredFieldError("gatewayIntentId")
	}
	if p.GatewayIntentID != nil && *p.GatewayIntentID != intentID {
		return NewIntentAlreadyAssignedError(p.ID.String(), *p.GatewayIntentID, intentID)
	}
	p.GatewayIntentID = &intentID
	p.GatewayClientSecret = &clientSecret
	return nil
}

// CanTransitionTo reports whether moving to target follows the forward
// lifecycle:
//
//   - Pending → Processing, Succeeded, Failed, Cancelled
//   - Processing → Succeeded, Failed, Cancelled
//   - Succeeded → Refunded
//
// Re-applying the current status is always allowed. Webhook reconciliation
// does not enforce this; it only uses the result to flag out-of-order events.
func (p *Payment) CanTransitionTo(target PaymentStatus) bool {
	if p.Status == target {
		return true
	}
	switch p.Status {
	case StatusPending:
		return target == StatusProcessing || target == StatusSucceeded || target == StatusFailed || target == StatusCancelled
	case StatusProcessing:
		return target == StatusSucceeded || target == StatusFailed || target == StatusCancelled
	case StatusSucceeded:
		return target == StatusRefunded
	}
	return false
}

func (p *Payment) IsTerminal() bool {
	switch p.Status {
	case StatusFailed, StatusCancelled, StatusRefunded:
		return true
	default:
		return false
	}
}

// Touch moves UpdatedAt to now, never earlier than CreatedAt.
func (p *Payment) Touch(now time.Time) {
	if now.Before(p.CreatedAt) {
		now = p.CreatedAt
	}
	p.UpdatedAt = now
}

// Clone returns a deep copy so stores never share mutable state with callers.
func (p *Payment) Clone() *Payment {
	c := *p
	if p.GatewayIntentID != nil {
		id := *p.GatewayIntentID
		c.GatewayIntentID = &id
	}
	if p.GatewayClientSecret != nil {
		s := *p.GatewayClientSecret
		c.GatewayClientSecret = &s
	}
	if p.Metadata != nil {
		c.Metadata = make(map[string]string, len(p.Metadata))
		for k, v := range p.Metadata {
			c.Metadata[k] = v
		}
	}
	return &c
}
