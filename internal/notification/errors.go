package notification

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("notification not found")

type InvalidRecipientError struct {
	Recipient string
}

func (e *InvalidRecipientError) Error() string {
	return fmt.Sprintf("invalid recipient: %q", e.Recipient)
}

type InvalidTypeError struct {
	Type Type
}

func (e *InvalidTypeError) Error() string {
	return fmt.Sprintf("unsupported notification type: %s", e.Type)
}

// SendError reports a failed dispatch. The notification has already been
// recorded as failed when it is returned.
type SendError struct {
	NotificationID string
	Err            error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("failed to send notification %s: %v", e.NotificationID, e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}
