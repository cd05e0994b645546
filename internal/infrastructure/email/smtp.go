// Package email delivers HTML mail over SMTP. It is the production Mailer
// behind the queue dispatcher; swap it out through the ports.Mailer interface.
package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/sniperthink/identity-service/internal/core/ports"
)

// Config captures the SMTP relay settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer sends mail through a single authenticated SMTP relay.
type SMTPMailer struct {
	cfg Config
}

func NewSMTPMailer(cfg Config) *SMTPMailer {
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return &SMTPMailer{cfg: cfg}
}

var _ ports.Mailer = (*SMTPMailer)(nil)

// Send delivers one mail. smtp.SendMail negotiates STARTTLS when the server
// advertises it. Context cancellation is not honoured mid-send; timeouts are
// the relay's concern.
func (m *SMTPMailer) Send(_ context.Context, mail ports.Mail) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

	msg := m.message(mail)
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{mail.To}, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", mail.To, err)
	}
	return nil
}

func (m *SMTPMailer) message(mail ports.Mail) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", mail.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", mail.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(mail.HTMLBody)
	return []byte(b.String())
}
