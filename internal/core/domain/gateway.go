package domain

import "time"

// GatewayIntent is what the gateway returns when a payment intent is created.
type GatewayIntent struct {
	IntentID     string
	ClientSecret string
}

// EventCategory is the closed set of gateway events the lifecycle engine acts on.
type EventCategory string

const (
	EventIntentSucceeded     EventCategory = "payment_intent.succeeded"
	EventIntentPaymentFailed EventCategory = "payment_intent.payment_failed"
	EventIntentCanceled      EventCategory = "payment_intent.canceled"
	EventChargeRefunded      EventCategory = "charge.refunded"
	EventUnknown             EventCategory = "unknown"
)

// ParseEventCategory maps a raw gateway event type to its category.
func ParseEventCategory(eventType string) EventCategory {
	switch c := EventCategory(eventType); c {
	case EventIntentSucceeded, EventIntentPaymentFailed, EventIntentCanceled, EventChargeRefunded:
		return c
	default:
		return EventUnknown
	}
}

// TargetStatus returns the status a payment moves to for this category.
func (c EventCategory) TargetStatus() (PaymentStatus, bool) {
	switch c {
	case EventIntentSucceeded:
		return StatusSucceeded, true
	case EventIntentPaymentFailed:
		return StatusFailed, true
	case EventIntentCanceled:
		return StatusCancelled, true
	case EventChargeRefunded:
		return StatusRefunded, true
	default:
		return "", false
	}
}

// GatewayEvent is a verified webhook notification. IntentID is the payment
// intent the event refers to; for charge events it is the charge's intent.
type GatewayEvent struct {
	ID        string
	Type      string
	Category  EventCategory
	IntentID  string
	CreatedAt time.Time
}
