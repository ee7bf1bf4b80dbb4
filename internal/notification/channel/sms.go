package channel

import (
	"context"
	"errors"
	"fmt"

	"github.com/adyela/payments/internal/config"
	"github.com/adyela/payments/internal/notification"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// SMSSender sends text messages through the Twilio Messages API.
type SMSSender struct {
	messages messageCreator
	from     string
}

func NewSMSSender(cfg config.TwilioConfig) (*SMSSender, error) {
	if cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.PhoneNumber == "" {
		return nil, errors.New("twilio credentials not fully configured")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &SMSSender{messages: client.Api, from: cfg.PhoneNumber}, nil
}

// SendSMS ignores ctx; the Twilio client has no context-aware calls.
func (s *SMSSender) SendSMS(_ context.Context, msg notification.SMSMessage) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(msg.To)
	params.SetFrom(s.from)
	params.SetBody(msg.Body)

	resp, err := s.messages.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send sms: %w", err)
	}
	if resp.ErrorMessage != nil && *resp.ErrorMessage != "" {
		return fmt.Errorf("twilio rejected sms: %s", *resp.ErrorMessage)
	}
	return nil
}
