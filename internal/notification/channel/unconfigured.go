package channel

import (
	"context"
	"fmt"

	"github.com/adyela/payments/internal/notification"
)

// Unconfigured stands in for a channel whose credentials are missing. Every
// send fails, so the notification is recorded as failed.
type Unconfigured struct {
	Channel string
}

func (u Unconfigured) err() error {
	return fmt.Errorf("%s channel is not configured", u.Channel)
}

func (u Unconfigured) SendEmail(context.Context, notification.EmailMessage) error { return u.err() }

func (u Unconfigured) SendSMS(context.Context, notification.SMSMessage) error { return u.err() }

func (u Unconfigured) SendPush(context.Context, notification.PushMessage) error { return u.err() }
