package service

import "github.com/shopspring/decimal"

// CreatePaymentIntentCommand carries a validated request to start a payment.
type CreatePaymentIntentCommand struct {
	AppointmentID  string
	PatientID      string
	ProfessionalID string
	Amount         decimal.Decimal
	Currency       string
	Metadata       map[string]string
}
