package mail

import (
	"context"
	"crypto/tls"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/matrizrfm/auth-api/internal/config"
	"github.com/matrizrfm/auth-api/internal/constants"
)

// SMTPSender delivers mail through an SMTP relay such as the SES SMTP endpoint
type SMTPSender struct {
	fromAddress string
	fromName    string
	dialer      *gomail.Dialer
	send        func(*gomail.Dialer, ...*gomail.Message) error
}

// NewSMTPSender creates an SMTPSender from the mail settings
func NewSMTPSender(cfg *config.MailSettings) *SMTPSender {
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	dialer.TLSConfig = &tls.Config{
		ServerName: cfg.SMTPHost,
		MinVersion: tls.VersionTLS12,
	}

	return &SMTPSender{
		fromAddress: cfg.FromAddress,
		fromName:    cfg.FromName,
		dialer:      dialer,
		send: func(d *gomail.Dialer, m ...*gomail.Message) error {
			return d.DialAndSend(m...)
		},
	}
}

// Name implements Sender
func (s *SMTPSender) Name() string {
	return constants.MailProviderSMTP
}

// Send implements Sender. gomail has no context support, so ctx is only
// checked before dialing.
func (s *SMTPSender) Send(ctx context.Context, msg *Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.send(s.dialer, s.buildMessage(msg)); err != nil {
		return fmt.Errorf("failed to send email via SMTP: %w", err)
	}
	return nil
}

func (s *SMTPSender) buildMessage(msg *Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.fromAddress, s.fromName))
	if msg.ToName != "" {
		m.SetHeader("To", m.FormatAddress(msg.To, msg.ToName))
	} else {
		m.SetHeader("To", msg.To)
	}
	m.SetHeader("Subject", msg.Subject)

	switch {
	case msg.Text != "" && msg.HTML != "":
		m.SetBody("text/plain", msg.Text)
		m.AddAlternative("text/html", msg.HTML)
	case msg.HTML != "":
		m.SetBody("text/html", msg.HTML)
	default:
		m.SetBody("text/plain", msg.Text)
	}
	return m
}
