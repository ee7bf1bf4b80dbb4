package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/adyela/payments/internal/core/domain"
	"github.com/adyela/payments/internal/notification"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondWithJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := APIResponse{
		Success: status >= 200 && status < 300,
	}

	if response.Success {
		response.Data = data
	} else {
		if apiErr, ok := data.(*APIError); ok {
			response.Error = apiErr
		}
	}

	_ = json.NewEncoder(w).Encode(response)
}

// respondWithError maps err to a status code. Messages of unclassified
// errors are replaced unless exposeInternal is set.
func respondWithError(w http.ResponseWriter, logger *slog.Logger, err error, exposeInternal bool) {
	status, apiErr := classifyError(err)

	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
		if status == http.StatusInternalServerError && !exposeInternal {
			apiErr.Message = "An internal error occurred"
		}
	}

	respondWithJSON(w, status, apiErr)
}

func classifyError(err error) (int, *APIError) {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		apiErr := &APIError{Code: domainErr.Code, Message: domainErr.Message}
		switch domainErr.Code {
		case domain.ErrCodeInvalidAmount, domain.ErrCodeInvalidCurrency, domain.ErrCodeMissingRequiredField,
			domain.ErrCodeValidation, domain.ErrCodeMissingSignature:
			return http.StatusBadRequest, apiErr
		case domain.ErrCodePaymentNotFound:
			return http.StatusNotFound, apiErr
		case domain.ErrCodePaymentProcessing:
			return http.StatusUnprocessableEntity, apiErr
		case domain.ErrCodeIntentAlreadyAssigned, domain.ErrCodeMissingIntent, domain.ErrCodeDuplicatePayment:
			return http.StatusConflict, apiErr
		default:
			return http.StatusBadRequest, apiErr
		}
	}

	var recipientErr *notification.InvalidRecipientError
	var typeErr *notification.InvalidTypeError
	var sendErr *notification.SendError
	switch {
	case errors.Is(err, notification.ErrNotFound):
		return http.StatusNotFound, &APIError{Code: "NOTIFICATION_NOT_FOUND", Message: err.Error()}
	case errors.As(err, &recipientErr), errors.As(err, &typeErr):
		return http.StatusBadRequest, &APIError{Code: "VALIDATION_ERROR", Message: err.Error()}
	case errors.As(err, &sendErr):
		return http.StatusBadGateway, &APIError{Code: "NOTIFICATION_SEND_ERROR", Message: err.Error()}
	}

	if gwErr, ok := domain.IsGatewayError(err); ok {
		return http.StatusUnprocessableEntity, &APIError{Code: "PAYMENT_PROCESSING_ERROR", Message: gwErr.Error()}
	}

	return http.StatusInternalServerError, &APIError{Code: "INTERNAL_ERROR", Message: err.Error()}
}
