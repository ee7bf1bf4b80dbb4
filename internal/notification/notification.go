// Package notification sends templated email, SMS and push messages and
// keeps a delivery record for each one.
package notification

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeEmail Type = "email"
	TypeSMS   Type = "sms"
	TypePush  Type = "push"
)

func (t Type) Valid() bool {
	switch t {
	case TypeEmail, TypeSMS, TypePush:
		return true
	}
	return false
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusSent      Status = "sent"
	StatusFailed    Status = "failed"
	StatusDelivered Status = "delivered"
)

type Template string

const (
	TemplateAppointmentCreated   Template = "appointment_created"
	TemplateAppointmentConfirmed Template = "appointment_confirmed"
	TemplateAppointmentCancelled Template = "appointment_cancelled"
	TemplateAppointmentReminder  Template = "appointment_reminder"
	TemplatePaymentReceived      Template = "payment_received"
	TemplatePaymentFailed        Template = "payment_failed"
	TemplateProfessionalApproved Template = "professional_approved"
	TemplateProfessionalRejected Template = "professional_rejected"
	TemplateWelcomeEmail         Template = "welcome_email"
)

const (
	defaultBody    = "Notification from Adyela Healthcare."
	defaultSubject = "Notification"
)

type templateText struct {
	subject string
	body    string
}

var templates = map[Template]templateText{
	TemplateAppointmentCreated:   {"Appointment Created", "Your appointment has been created for {{date}} at {{time}}."},
	TemplateAppointmentConfirmed: {"Appointment Confirmed", "Your appointment on {{date}} at {{time}} has been confirmed."},
	TemplateAppointmentCancelled: {"Appointment Cancelled", "Your appointment on {{date}} at {{time}} has been cancelled."},
	TemplateAppointmentReminder:  {"Appointment Reminder", "Reminder: You have an appointment tomorrow at {{time}}."},
	TemplatePaymentReceived:      {"Payment Received", "We have received your payment of {{amount}}. Thank you!"},
	TemplatePaymentFailed:        {"Payment Failed", "Your payment of {{amount}} has failed. Please update your payment method."},
	TemplateProfessionalApproved: {"Account Approved", "Congratulations! Your professional account has been approved."},
	TemplateProfessionalRejected: {"Account Application Status", "Unfortunately, your professional account application was not approved. Reason: {{reason}}"},
	TemplateWelcomeEmail:         {"Welcome to Adyela", "Welcome to Adyela, {{name}}! We are glad to have you."},
}

func (t Template) Known() bool {
	_, ok := templates[t]
	return ok
}

// DefaultSubject is used for email subjects and push titles when the caller
// gives none.
func (t Template) DefaultSubject() string {
	if tpl, ok := templates[t]; ok {
		return tpl.subject
	}
	return defaultSubject
}

// Render substitutes every {{key}} placeholder of the template body with the
// matching value from data. Unknown templates render the generic body.
func (t Template) Render(data map[string]any) string {
	body := defaultBody
	if tpl, ok := templates[t]; ok {
		body = tpl.body
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		body = strings.ReplaceAll(body, "{{"+k+"}}", fmt.Sprint(data[k]))
	}
	return body
}

type Notification struct {
	ID            uuid.UUID
	Type          Type
	Template      Template
	Recipient     string
	Subject       string
	Body          string
	Data          map[string]any
	Status        Status
	SentAt        *time.Time
	DeliveredAt   *time.Time
	FailureReason string
	Metadata      map[string]string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (n *Notification) MarkSent(now time.Time) {
	n.Status = StatusSent
	n.SentAt = &now
	n.FailureReason = ""
	n.UpdatedAt = now
}

func (n *Notification) MarkFailed(reason string, now time.Time) {
	n.Status = StatusFailed
	n.FailureReason = reason
	n.UpdatedAt = now
}

type EmailMessage struct {
	To      string
	Subject string
	HTML    string
}

type SMSMessage struct {
	To   string
	Body string
}

type PushMessage struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}
