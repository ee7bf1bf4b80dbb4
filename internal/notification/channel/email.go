package channel

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/mail"
	"net/smtp"
	"strings"

	"github.com/adyela/payments/internal/config"
	"github.com/adyela/payments/internal/notification"
)

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailSender delivers HTML email over SMTP with PLAIN auth.
type EmailSender struct {
	host     string
	port     int
	user     string
	password string
	from     mail.Address
	sendMail sendMailFunc
}

func NewEmailSender(cfg config.SMTPConfig) *EmailSender {
	return &EmailSender{
		host:     cfg.Host,
		port:     cfg.Port,
		user:     cfg.User,
		password: cfg.Password,
		from:     mail.Address{Name: cfg.FromName, Address: cfg.From},
		sendMail: smtp.SendMail,
	}
}

func (s *EmailSender) SendEmail(_ context.Context, msg notification.EmailMessage) error {
	if s.host == "" || s.port == 0 {
		return errors.New("SMTP credentials not fully configured")
	}

	to, err := mail.ParseAddress(msg.To)
	if err != nil {
		return fmt.Errorf("invalid email recipient %q: %w", msg.To, err)
	}

	var auth smtp.Auth
	if s.user != "" {
		auth = smtp.PlainAuth("", s.user, s.password, s.host)
	}

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	if err := s.sendMail(addr, auth, s.from.Address, []string{to.Address}, s.buildMessage(to, msg)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *EmailSender) buildMessage(to *mail.Address, msg notification.EmailMessage) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.from.String())
	fmt.Fprintf(&b, "To: %s\r\n", to.String())
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)
	b.WriteString("\r\n")
	return []byte(b.String())
}
