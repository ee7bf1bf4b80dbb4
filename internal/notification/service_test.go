package notification_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/adyela/payments/internal/notification"
	"github.com/adyela/payments/internal/notification/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	emails []notification.EmailMessage
	sms    []notification.SMSMessage
	pushes []notification.PushMessage
	err    error
}

func (r *recordingSender) SendEmail(_ context.Context, msg notification.EmailMessage) error {
	r.emails = append(r.emails, msg)
	return r.err
}

func (r *recordingSender) SendSMS(_ context.Context, msg notification.SMSMessage) error {
	r.sms = append(r.sms, msg)
	return r.err
}

func (r *recordingSender) SendPush(_ context.Context, msg notification.PushMessage) error {
	r.pushes = append(r.pushes, msg)
	return r.err
}

func newService(sender *recordingSender) (*notification.Service, *store.MemoryRepository) {
	repo := store.NewMemoryRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return notification.NewService(repo, sender, sender, sender, logger), repo
}

func TestTemplate_Render(t *testing.T) {
	tests := []struct {
		name     string
		template notification.Template
		data     map[string]any
		want     string
	}{
		{
			name:     "substitutes every occurrence",
			template: notification.TemplateAppointmentConfirmed,
			data:     map[string]any{"date": "2026-03-01", "time": "10:00"},
			want:     "Your appointment on 2026-03-01 at 10:00 has been confirmed.",
		},
		{
			name:     "missing keys stay as placeholders",
			template: notification.TemplatePaymentReceived,
			data:     nil,
			want:     "We have received your payment of {{amount}}. Thank you!",
		},
		{
			name:     "non string values",
			template: notification.TemplatePaymentFailed,
			data:     map[string]any{"amount": 49.99},
			want:     "Your payment of 49.99 has failed. Please update your payment method.",
		},
		{
			name:     "unknown template",
			template: notification.Template("birthday"),
			data:     map[string]any{"name": "Ana"},
			want:     "Notification from Adyela Healthcare.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.template.Render(tt.data))
		})
	}

	assert.Equal(t, "Account Application Status", notification.TemplateProfessionalRejected.DefaultSubject())
	assert.Equal(t, "Notification", notification.Template("birthday").DefaultSubject())
}

func TestService_Send_Email(t *testing.T) {
	sender := &recordingSender{}
	svc, repo := newService(sender)

	n, err := svc.Send(context.Background(), notification.SendCommand{
		Type:      notification.TypeEmail,
		Template:  notification.TemplateWelcomeEmail,
		Recipient: "ana@example.com",
		Data:      map[string]any{"name": "Ana"},
	})
	require.NoError(t, err)

	assert.Equal(t, notification.StatusSent, n.Status)
	require.NotNil(t, n.SentAt)
	require.Len(t, sender.emails, 1)
	assert.Equal(t, "Welcome to Adyela", sender.emails[0].Subject)
	assert.Equal(t, "Welcome to Adyela, Ana! We are glad to have you.", sender.emails[0].HTML)

	stored, err := repo.FindByID(context.Background(), n.ID)
	require.NoError(t, err)
	assert.Equal(t, notification.StatusSent, stored.Status)
}

func TestService_Send_Channels(t *testing.T) {
	sender := &recordingSender{}
	svc, _ := newService(sender)
	ctx := context.Background()

	_, err := svc.Send(ctx, notification.SendCommand{
		Type:      notification.TypeSMS,
		Template:  notification.TemplateAppointmentReminder,
		Recipient: "+15552223333",
		Data:      map[string]any{"time": "09:30"},
	})
	require.NoError(t, err)
	require.Len(t, sender.sms, 1)
	assert.Equal(t, "Reminder: You have an appointment tomorrow at 09:30.", sender.sms[0].Body)

	_, err = svc.Send(ctx, notification.SendCommand{
		Type:      notification.TypePush,
		Template:  notification.TemplatePaymentReceived,
		Recipient: "device-token",
		Subject:   "Thanks",
		Metadata:  map[string]string{"paymentId": "p-1"},
	})
	require.NoError(t, err)
	require.Len(t, sender.pushes, 1)
	assert.Equal(t, "Thanks", sender.pushes[0].Title)
	assert.Equal(t, "p-1", sender.pushes[0].Data["paymentId"])
}

func TestService_Send_InvalidInput(t *testing.T) {
	sender := &recordingSender{}
	svc, _ := newService(sender)

	_, err := svc.Send(context.Background(), notification.SendCommand{
		Type:      notification.TypeEmail,
		Template:  notification.TemplateWelcomeEmail,
		Recipient: "   ",
	})
	var recipientErr *notification.InvalidRecipientError
	assert.ErrorAs(t, err, &recipientErr)

	_, err = svc.Send(context.Background(), notification.SendCommand{
		Type:      notification.Type("fax"),
		Template:  notification.TemplateWelcomeEmail,
		Recipient: "x",
	})
	var typeErr *notification.InvalidTypeError
	assert.ErrorAs(t, err, &typeErr)

	assert.Empty(t, sender.emails)
}

func TestService_Send_FailureIsRecorded(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp: 421 service not available")}
	svc, repo := newService(sender)
	ctx := context.Background()

	_, err := svc.Send(ctx, notification.SendCommand{
		Type:      notification.TypeEmail,
		Template:  notification.TemplatePaymentFailed,
		Recipient: "ana@example.com",
		Data:      map[string]any{"amount": "$20.00"},
	})
	var sendErr *notification.SendError
	require.ErrorAs(t, err, &sendErr)

	list, err := svc.ListByRecipient(ctx, "ana@example.com", 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, notification.StatusFailed, list[0].Status)
	assert.Equal(t, "smtp: 421 service not available", list[0].FailureReason)
	assert.Equal(t, sendErr.NotificationID, list[0].ID.String())

	_, err = repo.FindByID(ctx, list[0].ID)
	require.NoError(t, err)
}
