package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/adyela/payments/internal/core/domain"
	"github.com/adyela/payments/internal/notification"
	"github.com/go-playground/validator"
	"github.com/google/uuid"
)

type NotificationService interface {
	Send(ctx context.Context, cmd notification.SendCommand) (*notification.Notification, error)
	Get(ctx context.Context, id uuid.UUID) (*notification.Notification, error)
	ListByRecipient(ctx context.Context, recipient string, limit int) ([]*notification.Notification, error)
}

type NotificationHandler struct {
	service      NotificationService
	validate     *validator.Validate
	logger       *slog.Logger
	exposeErrors bool
}

func NewNotificationHandler(service NotificationService, logger *slog.Logger, exposeErrors bool) *NotificationHandler {
	return &NotificationHandler{
		service:      service,
		validate:     validator.New(),
		logger:       logger,
		exposeErrors: exposeErrors,
	}
}

func (h *NotificationHandler) RegisterRoutes(mux *http.ServeMux, prefix string, authn func(http.Handler) http.Handler) {
	mux.Handle("POST "+prefix+"/notifications/send", authn(http.HandlerFunc(h.HandleSend)))
	mux.Handle("GET "+prefix+"/notifications/recipient/{recipient}", authn(http.HandlerFunc(h.HandleListByRecipient)))
	mux.Handle("GET "+prefix+"/notifications/{id}", authn(http.HandlerFunc(h.HandleGet)))
}

type SendNotificationRequest struct {
	Type      string            `json:"type" validate:"required,oneof=email sms push"`
	Template  string            `json:"template" validate:"required,oneof=appointment_created appointment_confirmed appointment_cancelled appointment_reminder payment_received payment_failed professional_approved professional_rejected welcome_email"`
	Recipient string            `json:"recipient" validate:"required"`
	Subject   string            `json:"subject,omitempty"`
	Data      map[string]any    `json:"data,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

type NotificationView struct {
	ID            string     `json:"id"`
	Type          string     `json:"type"`
	Template      string     `json:"template"`
	Recipient     string     `json:"recipient,omitempty"`
	Subject       string     `json:"subject,omitempty"`
	Status        string     `json:"status"`
	SentAt        *time.Time `json:"sentAt,omitempty"`
	DeliveredAt   *time.Time `json:"deliveredAt,omitempty"`
	FailureReason string     `json:"failureReason,omitempty"`
	CreatedAt     *time.Time `json:"createdAt,omitempty"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
}

// HandleSend renders and dispatches a notification
// @Summary      Send notification
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      SendNotificationRequest  true  "Notification"
// @Success      201      {object}  APIResponse
// @Failure      400      {object}  APIResponse
// @Failure      502      {object}  APIResponse  "Channel delivery failed"
// @Router       /notifications/send [post]
func (h *NotificationHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	var req SendNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, domain.NewValidationError("malformed JSON body"), h.exposeErrors)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondWithError(w, h.logger, domain.NewValidationError(err.Error()), h.exposeErrors)
		return
	}

	n, err := h.service.Send(r.Context(), notification.SendCommand{
		Type:      notification.Type(req.Type),
		Template:  notification.Template(req.Template),
		Recipient: req.Recipient,
		Subject:   req.Subject,
		Data:      req.Data,
		Metadata:  req.Metadata,
	})
	if err != nil {
		respondWithError(w, h.logger, err, h.exposeErrors)
		return
	}

	respondWithJSON(w, http.StatusCreated, NotificationView{
		ID:        n.ID.String(),
		Type:      string(n.Type),
		Template:  string(n.Template),
		Recipient: n.Recipient,
		Status:    string(n.Status),
		SentAt:    n.SentAt,
	})
}

// HandleGet returns one notification
// @Summary      Get notification
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Notification ID"
// @Success      200  {object}  APIResponse
// @Failure      404  {object}  APIResponse
// @Router       /notifications/{id} [get]
func (h *NotificationHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondWithError(w, h.logger, domain.NewValidationError("notification id must be a UUID"), h.exposeErrors)
		return
	}

	n, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondWithError(w, h.logger, err, h.exposeErrors)
		return
	}

	respondWithJSON(w, http.StatusOK, NotificationView{
		ID:            n.ID.String(),
		Type:          string(n.Type),
		Template:      string(n.Template),
		Recipient:     n.Recipient,
		Subject:       n.Subject,
		Status:        string(n.Status),
		SentAt:        n.SentAt,
		DeliveredAt:   n.DeliveredAt,
		FailureReason: n.FailureReason,
		CreatedAt:     &n.CreatedAt,
		UpdatedAt:     &n.UpdatedAt,
	})
}

// HandleListByRecipient lists the newest notifications of a recipient
// @Summary      List notifications by recipient
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        recipient  path      string  true   "Email, phone number or device token"
// @Param        limit      query     int     false  "Maximum results (default 50)"
// @Success      200        {object}  APIResponse
// @Router       /notifications/recipient/{recipient} [get]
func (h *NotificationHandler) HandleListByRecipient(w http.ResponseWriter, r *http.Request) {
	recipient := r.PathValue("recipient")

	limit := notification.DefaultRecipientLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	list, err := h.service.ListByRecipient(r.Context(), recipient, limit)
	if err != nil {
		respondWithError(w, h.logger, err, h.exposeErrors)
		return
	}

	views := make([]NotificationView, 0, len(list))
	for _, n := range list {
		views = append(views, NotificationView{
			ID:        n.ID.String(),
			Type:      string(n.Type),
			Template:  string(n.Template),
			Status:    string(n.Status),
			SentAt:    n.SentAt,
			CreatedAt: &n.CreatedAt,
		})
	}

	respondWithJSON(w, http.StatusOK, views)
}
