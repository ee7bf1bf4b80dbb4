package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/adyela/payments/internal/core/domain"
	"github.com/google/uuid"
)

type PaymentSummary struct {
	ID            string      `json:"id"`
	AppointmentID string      `json:"appointmentId"`
	Amount        json.Number `json:"amount"`
	Currency      string      `json:"currency"`
	Status        string      `json:"status"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

func toSummary(p *domain.Payment) PaymentSummary {
	return PaymentSummary{
		ID:            p.ID.String(),
		AppointmentID: p.AppointmentID,
		Amount:        json.Number(p.Amount.String()),
		Currency:      string(p.Currency),
		Status:        string(p.Status),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// HandleGetPayment returns a payment by id
// @Summary      Get payment
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string       true  "Payment ID"
// @Success      200  {object}  APIResponse
// @Failure      404  {object}  APIResponse
// @Router       /payments/{id} [get]
func (h *PaymentHandler) HandleGetPayment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondWithError(w, h.logger, domain.NewValidationError("payment id must be a UUID"), h.exposeErrors)
		return
	}

	payment, err := h.queryService.GetPayment(r.Context(), id)
	if err != nil {
		respondWithError(w, h.logger, err, h.exposeErrors)
		return
	}

	respondWithJSON(w, http.StatusOK, toSummary(payment))
}

// HandleGetPaymentByAppointment returns the latest payment of an appointment
// @Summary      Get payment by appointment
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        appointmentID  path      string       true  "Appointment ID"
// @Success      200            {object}  APIResponse
// @Failure      404            {object}  APIResponse
// @Router       /payments/appointment/{appointmentID} [get]
func (h *PaymentHandler) HandleGetPaymentByAppointment(w http.ResponseWriter, r *http.Request) {
	appointmentID := r.PathValue("appointmentID")

	payment, err := h.queryService.GetPaymentByAppointmentID(r.Context(), appointmentID)
	if err != nil {
		if domain.IsErrorCode(err, domain.ErrCodePaymentNotFound) {
			respondWithJSON(w, http.StatusNotFound, &APIError{
				Code:    domain.ErrCodePaymentNotFound,
				Message: "Payment not found for this appointment",
			})
			return
		}
		respondWithError(w, h.logger, err, h.exposeErrors)
		return
	}

	respondWithJSON(w, http.StatusOK, toSummary(payment))
}
