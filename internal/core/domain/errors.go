package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business logic error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

const (
	ErrCodeInvalidAmount         = "INVALID_AMOUNT"
	ErrCodeInvalidCurrency       = "INVALID_CURRENCY"
	ErrCodeMissingRequiredField  = "MISSING_REQUIRED_FIELD"
	ErrCodeValidation            = "VALIDATION_ERROR"
	ErrCodePaymentNotFound       = "PAYMENT_NOT_FOUND"
	ErrCodePaymentProcessing     = "PAYMENT_PROCESSING_ERROR"
	ErrCodeIntentAlreadyAssigned = "INTENT_ALREADY_ASSIGNED"
	ErrCodeMissingIntent         = "MISSING_GATEWAY_INTENT"
	ErrCodeDuplicatePayment      = "DUPLICATE_PAYMENT"
	ErrCodeMissingSignature      = "MISSING_SIGNATURE"
)

// NewInvalidAmountError is returned when a payment or refund amount is not
// strictly positive.
func NewInvalidAmountError(amount string) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidAmount,
		Message: fmt.Sprintf("invalid amount %s: must be greater than zero", amount),
	}
}

// NewInvalidPaymentAmountError is an alias kept for callers that name the
// rejection after the payment rather than the amount.
func NewInvalidPaymentAmountError(amount string) *DomainError {
	return NewInvalidAmountError(amount)
}

func NewInvalidCurrencyError(currency string) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidCurrency,
		Message: fmt.Sprintf("unsupported currency %q", currency),
	}
}

func NewMissingRequiredFieldError(field string) *DomainError {
	return &DomainError{
		Code:    ErrCodeMissingRequiredField,
		Message: fmt.Sprintf("%s is required", field),
	}
}

func NewValidationError(message string) *DomainError {
	return &DomainError{
		Code:    ErrCodeValidation,
		Message: message,
	}
}

func NewPaymentNotFoundError(id string) *DomainError {
	return &DomainError{
		Code:    ErrCodePaymentNotFound,
		Message: fmt.Sprintf("payment %s not found", id),
	}
}

// NewPaymentProcessingError wraps a gateway failure surfaced to API callers.
func NewPaymentProcessingError(message string, err error) *DomainError {
	return &DomainError{
		Code:    ErrCodePaymentProcessing,
		Message: message,
		Err:     err,
	}
}

func NewIntentAlreadyAssignedError(paymentID, current, attempted string) *DomainError {
	return &DomainError{
		Code:    ErrCodeIntentAlreadyAssigned,
		Message: fmt.Sprintf("payment %s already bound to intent %s, refusing %s", paymentID, current, attempted),
	}
}

func NewMissingIntentError(paymentID string) *DomainError {
	return &DomainError{
		Code:    ErrCodeMissingIntent,
		Message: fmt.Sprintf("payment %s has no gateway intent", paymentID),
	}
}

func NewDuplicatePaymentError(key string) *DomainError {
	return &DomainError{
		Code:    ErrCodeDuplicatePayment,
		Message: fmt.Sprintf("payment %s already exists", key),
	}
}

func NewMissingSignatureError() *DomainError {
	return &DomainError{
		Code:    ErrCodeMissingSignature,
		Message: "Missing stripe-signature header",
	}
}

// IsErrorCode reports whether err carries a DomainError with the given code.
func IsErrorCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// GatewayError is any failure reported by, or while talking to, the payment
// gateway.
type GatewayError struct {
	Op         string
	Code       string
	StatusCode int
	Message    string
	Err        error
}

func (e *GatewayError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Code != "" {
		return fmt.Sprintf("gateway %s failed [%s]: %s", e.Op, e.Code, msg)
	}
	return fmt.Sprintf("gateway %s failed: %s", e.Op, msg)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// InvalidSignatureError is a GatewayError raised when a webhook payload does
// not match its signature. errors.As(err, **GatewayError) succeeds on it.
type InvalidSignatureError struct {
	GatewayError
}

func NewInvalidSignatureError(err error) *InvalidSignatureError {
	return &InvalidSignatureError{GatewayError{
		Op:      "verify_webhook",
		Code:    "invalid_signature",
		Message: "webhook signature verification failed",
		Err:     err,
	}}
}

func (e *InvalidSignatureError) As(target any) bool {
	if t, ok := target.(**GatewayError); ok {
		*t = &e.GatewayError
		return true
	}
	return false
}

// IsGatewayError extracts the GatewayError from err if present.
func IsGatewayError(err error) (*GatewayError, bool) {
	var gwErr *GatewayError
	ok := errors.As(err, &gwErr)
	return gwErr, ok
}

// IsInvalidSignature reports whether err is a webhook signature failure.
func IsInvalidSignature(err error) bool {
	var sigErr *InvalidSignatureError
	return errors.As(err, &sigErr)
}
