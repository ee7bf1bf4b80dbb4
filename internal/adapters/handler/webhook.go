package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/adyela/payments/internal/core/domain"
)

const (
	signatureHeader   = "Stripe-Signature"
	maxWebhookPayload = 64 << 10
)

// HandleWebhook receives Stripe event deliveries. The body is read verbatim
// because the signature covers the exact bytes.
// @Summary      Stripe webhook
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        Stripe-Signature  header  string  true  "Stripe signature"
// @Success      200  {object}  map[string]bool
// @Failure      400  {object}  APIResponse
// @Router       /payments/webhook [post]
func (h *PaymentHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	signature := r.Header.Get(signatureHeader)
	if signature == "" {
		respondWithError(w, h.logger, domain.NewMissingSignatureError(), h.exposeErrors)
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookPayload))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondWithJSON(w, http.StatusRequestEntityTooLarge, &APIError{Code: "PAYLOAD_TOO_LARGE", Message: "webhook payload too large"})
			return
		}
		respondWithError(w, h.logger, domain.NewValidationError("cannot read webhook body"), h.exposeErrors)
		return
	}

	event, err := h.webhookService.HandleDelivery(r.Context(), payload, signature)
	if err != nil {
		// Gateway errors mean the delivery itself is bad; anything else is
		// ours and should be retried by Stripe.
		if _, ok := domain.IsGatewayError(err); ok {
			respondWithJSON(w, http.StatusBadRequest, &APIError{Code: "INVALID_WEBHOOK", Message: "Webhook Error: " + err.Error()})
			return
		}
		respondWithError(w, h.logger, err, h.exposeErrors)
		return
	}

	h.logger.Debug("webhook processed", "event_id", event.ID, "event_type", event.Type)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]bool{"received": true})
}
