package channel

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"firebase.google.com/go/v4/messaging"
	"github.com/adyela/payments/internal/config"
	"github.com/adyela/payments/internal/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

func TestEmailSender_SendEmail(t *testing.T) {
	sender := NewEmailSender(config.SMTPConfig{
		Host:     "smtp.example.com",
		Port:     587,
		User:     "mailer",
		Password: "secret",
		From:     "noreply@adyela.com",
		FromName: "Adyela Health",
	})

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	sender.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		assert.NotNil(t, a)
		return nil
	}

	err := sender.SendEmail(context.Background(), notification.EmailMessage{
		To:      "patient@example.com",
		Subject: "Payment Received",
		HTML:    "We have received your payment of $150.00. Thank you!",
	})
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "noreply@adyela.com", gotFrom)
	assert.Equal(t, []string{"patient@example.com"}, gotTo)
	body := string(gotMsg)
	assert.Contains(t, body, "Subject: Payment Received\r\n")
	assert.Contains(t, body, "Content-Type: text/html")
	assert.Contains(t, body, "$150.00")
}

func TestEmailSender_Errors(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		sender := NewEmailSender(config.SMTPConfig{From: "noreply@adyela.com"})
		err := sender.SendEmail(context.Background(), notification.EmailMessage{To: "a@example.com"})
		assert.ErrorContains(t, err, "not fully configured")
	})

	t.Run("bad recipient", func(t *testing.T) {
		sender := NewEmailSender(config.SMTPConfig{Host: "localhost", Port: 25, From: "noreply@adyela.com"})
		err := sender.SendEmail(context.Background(), notification.EmailMessage{To: "not an address"})
		assert.ErrorContains(t, err, "invalid email recipient")
	})

	t.Run("smtp failure", func(t *testing.T) {
		sender := NewEmailSender(config.SMTPConfig{Host: "localhost", Port: 25, From: "noreply@adyela.com"})
		sender.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
			return errors.New("connection refused")
		}
		err := sender.SendEmail(context.Background(), notification.EmailMessage{To: "a@example.com"})
		assert.ErrorContains(t, err, "connection refused")
	})
}

type fakeMessages struct {
	params *twilioApi.CreateMessageParams
	resp   *twilioApi.ApiV2010Message
	err    error
}

func (f *fakeMessages) CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	f.params = params
	return f.resp, f.err
}

func TestSMSSender_SendSMS(t *testing.T) {
	sid := "SM123"
	fake := &fakeMessages{resp: &twilioApi.ApiV2010Message{Sid: &sid}}
	sender := &SMSSender{messages: fake, from: "+15550001111"}

	err := sender.SendSMS(context.Background(), notification.SMSMessage{To: "+15552223333", Body: "Reminder"})
	require.NoError(t, err)

	require.NotNil(t, fake.params)
	assert.Equal(t, "+15552223333", *fake.params.To)
	assert.Equal(t, "+15550001111", *fake.params.From)
	assert.Equal(t, "Reminder", *fake.params.Body)
}

func TestSMSSender_Failures(t *testing.T) {
	t.Run("transport", func(t *testing.T) {
		sender := &SMSSender{messages: &fakeMessages{err: errors.New("401 unauthorized")}, from: "+1"}
		err := sender.SendSMS(context.Background(), notification.SMSMessage{To: "+2", Body: "x"})
		assert.ErrorContains(t, err, "401 unauthorized")
	})

	t.Run("rejected", func(t *testing.T) {
		reason := "unreachable destination"
		sender := &SMSSender{messages: &fakeMessages{resp: &twilioApi.ApiV2010Message{ErrorMessage: &reason}}, from: "+1"}
		err := sender.SendSMS(context.Background(), notification.SMSMessage{To: "+2", Body: "x"})
		assert.ErrorContains(t, err, reason)
	})

	t.Run("missing credentials", func(t *testing.T) {
		_, err := NewSMSSender(config.TwilioConfig{AccountSID: "AC1"})
		assert.Error(t, err)
	})
}

type fakeMessaging struct {
	sent *messaging.Message
	err  error
}

func (f *fakeMessaging) Send(_ context.Context, message *messaging.Message) (string, error) {
	f.sent = message
	return "projects/adyela/messages/1", f.err
}

func TestPushSender_SendPush(t *testing.T) {
	fake := &fakeMessaging{}
	sender := &PushSender{client: fake}

	err := sender.SendPush(context.Background(), notification.PushMessage{
		Token: "device-token",
		Title: "Appointment Reminder",
		Body:  "Reminder: You have an appointment tomorrow at 10:00.",
		Data:  map[string]string{"appointmentId": "appt-1"},
	})
	require.NoError(t, err)

	require.NotNil(t, fake.sent)
	assert.Equal(t, "device-token", fake.sent.Token)
	assert.Equal(t, "Appointment Reminder", fake.sent.Notification.Title)
	assert.Equal(t, "appt-1", fake.sent.Data["appointmentId"])

	fake.err = errors.New("registration-token-not-registered")
	assert.ErrorContains(t, sender.SendPush(context.Background(), notification.PushMessage{Token: "stale"}), "not-registered")
}

func TestUnconfigured(t *testing.T) {
	u := Unconfigured{Channel: "sms"}
	assert.EqualError(t, u.SendSMS(context.Background(), notification.SMSMessage{}), "sms channel is not configured")
}
