package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/adyela/payments/internal/core/domain"
	"github.com/adyela/payments/internal/core/service"
	"github.com/shopspring/decimal"
)

type CreateIntentRequest struct {
	AppointmentID  string            `json:"appointmentId" validate:"required,uuid" example:"9b2f6c1e-3c1d-4b8e-9a53-0f2d3c4b5a61"`
	PatientID      string            `json:"patientId" validate:"required,uuid"`
	ProfessionalID string            `json:"professionalId" validate:"required,uuid"`
	Amount         decimal.Decimal   `json:"amount" example:"49.99"`
	Currency       string            `json:"currency" validate:"required,oneof=usd eur USD EUR" example:"usd"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

type CreateIntentResponse struct {
	PaymentID    string      `json:"paymentId"`
	ClientSecret string      `json:"clientSecret"`
	Amount       json.Number `json:"amount"`
	Currency     string      `json:"currency"`
	Status       string      `json:"status"`
}

// HandleCreateIntent starts a payment for an appointment
// @Summary      Create payment intent
// @Description  Opens a Stripe PaymentIntent and records a pending payment. The client secret is used by the browser to complete payment.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      CreateIntentRequest  true  "Payment details"
// @Success      201      {object}  APIResponse          "Intent created"
// @Failure      400      {object}  APIResponse          "Invalid request"
// @Failure      422      {object}  APIResponse          "Gateway rejected the payment"
// @Router       /payments/intent [post]
func (h *PaymentHandler) HandleCreateIntent(w http.ResponseWriter, r *http.Request) {
	var req CreateIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, domain.NewValidationError("malformed JSON body"), h.exposeErrors)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		respondWithError(w, h.logger, domain.NewValidationError(err.Error()), h.exposeErrors)
		return
	}

	payment, err := h.intentService.CreatePaymentIntent(r.Context(), service.CreatePaymentIntentCommand{
		AppointmentID:  req.AppointmentID,
		PatientID:      req.PatientID,
		ProfessionalID: req.ProfessionalID,
		Amount:         req.Amount,
		Currency:       strings.ToLower(req.Currency),
		Metadata:       req.Metadata,
	})
	if err != nil {
		respondWithError(w, h.logger, err, h.exposeErrors)
		return
	}

	resp := CreateIntentResponse{
		PaymentID: payment.ID.String(),
		Amount:    json.Number(payment.Amount.String()),
		Currency:  string(payment.Currency),
		Status:    string(payment.Status),
	}
	if payment.GatewayClientSecret != nil {
		resp.ClientSecret = *payment.GatewayClientSecret
	}

	respondWithJSON(w, http.StatusCreated, resp)
}
