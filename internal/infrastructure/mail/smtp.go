package mail

import (
	"context"
	"fmt"
	"time"

	gomail "gopkg.in/mail.v2"

	"github.com/ananses3m/shop-api/internal/core/domain"
)

const defaultDialTimeout = 15 * time.Second

// Config holds the SMTP relay settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// SMTPSender delivers HTML email through an SMTP relay.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(cfg Config) *SMTPSender {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.Timeout = cfg.Timeout
	if d.Timeout <= 0 {
		d.Timeout = defaultDialTimeout
	}
	return &SMTPSender{dialer: d, from: cfg.From}
}

// Deliver sends msg synchronously. The dialer has its own timeout, so ctx is
// only checked before dialing.
func (s *SMTPSender) Deliver(ctx context.Context, msg domain.Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.dialer.DialAndSend(s.message(msg)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *SMTPSender) message(msg domain.Email) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)
	return m
}
