package notification

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	FindByRecipient(ctx context.Context, recipient string, limit int) ([]*Notification, error)
	Update(ctx context.Context, n *Notification) error
}

type EmailSender interface {
	SendEmail(ctx context.Context, msg EmailMessage) error
}

type SMSSender interface {
	SendSMS(ctx context.Context, msg SMSMessage) error
}

type PushSender interface {
	SendPush(ctx context.Context, msg PushMessage) error
}

type SendCommand struct {
	Type      Type
	Template  Template
	Recipient string
	Subject   string
	Data      map[string]any
	Metadata  map[string]string
}

const DefaultRecipientLimit = 50

type Service struct {
	repo   Repository
	email  EmailSender
	sms    SMSSender
	push   PushSender
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, email EmailSender, sms SMSSender, push PushSender, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		email:  email,
		sms:    sms,
		push:   push,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Send records the notification as pending, dispatches it on its channel
// and stores the outcome. A dispatch failure is returned as *SendError after
// the record is marked failed.
func (s *Service) Send(ctx context.Context, cmd SendCommand) (*Notification, error) {
	if strings.TrimSpace(cmd.Recipient) == "" {
		return nil, &InvalidRecipientError{Recipient: cmd.Recipient}
	}
	if !cmd.Type.Valid() {
		return nil, &InvalidTypeError{Type: cmd.Type}
	}

	now := s.now()
	metadata := make(map[string]string, len(cmd.Metadata))
	for k, v := range cmd.Metadata {
		metadata[k] = v
	}

	n := &Notification{
		ID:        uuid.New(),
		Type:      cmd.Type,
		Template:  cmd.Template,
		Recipient: cmd.Recipient,
		Subject:   cmd.Subject,
		Body:      cmd.Template.Render(cmd.Data),
		Data:      cmd.Data,
		Status:    StatusPending,
		Metadata:  metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to record notification: %w", err)
	}

	if err := s.dispatch(ctx, n); err != nil {
		s.logger.Warn("notification dispatch failed",
			"notification_id", n.ID,
			"type", n.Type,
			"template", n.Template,
			"error", err,
		)
		n.MarkFailed(err.Error(), s.now())
		if updateErr := s.repo.Update(ctx, n); updateErr != nil {
			s.logger.Error("failed to record notification failure", "notification_id", n.ID, "error", updateErr)
		}
		return nil, &SendError{NotificationID: n.ID.String(), Err: err}
	}

	n.MarkSent(s.now())
	if err := s.repo.Update(ctx, n); err != nil {
		return nil, fmt.Errorf("notification %s sent but status not recorded: %w", n.ID, err)
	}

	s.logger.Info("notification sent", "notification_id", n.ID, "type", n.Type, "template", n.Template)
	return n, nil
}

func (s *Service) dispatch(ctx context.Context, n *Notification) error {
	subject := n.Subject
	if subject == "" {
		subject = n.Template.DefaultSubject()
	}

	switch n.Type {
	case TypeEmail:
		return s.email.SendEmail(ctx, EmailMessage{To: n.Recipient, Subject: subject, HTML: n.Body})
	case TypeSMS:
		return s.sms.SendSMS(ctx, SMSMessage{To: n.Recipient, Body: n.Body})
	case TypePush:
		return s.push.SendPush(ctx, PushMessage{Token: n.Recipient, Title: subject, Body: n.Body, Data: n.Metadata})
	default:
		return &InvalidTypeError{Type: n.Type}
	}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Notification, error) {
	return s.repo.FindByID(ctx, id)
}

// ListByRecipient returns the newest notifications first. A non-positive
// limit falls back to DefaultRecipientLimit.
func (s *Service) ListByRecipient(ctx context.Context, recipient string, limit int) ([]*Notification, error) {
	if limit <= 0 {
		limit = DefaultRecipientLimit
	}
	return s.repo.FindByRecipient(ctx, recipient, limit)
}
