package mail

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/matrizrfm/auth-api/internal/config"
	"github.com/matrizrfm/auth-api/internal/constants"
)

// SendGridAPI is the part of the SendGrid client used by SendGridSender
type SendGridAPI interface {
	SendWithContext(ctx context.Context, email *sgmail.SGMailV3) (*rest.Response, error)
}

// SendGridSender delivers mail through the SendGrid v3 API
type SendGridSender struct {
	client SendGridAPI
	from   *sgmail.Email
}

// NewSendGridSender creates a SendGridSender from the mail settings
func NewSendGridSender(cfg *config.MailSettings) *SendGridSender {
	return NewSendGridSenderWithClient(sendgrid.NewSendClient(cfg.SendGridAPIKey), cfg.FromAddress, cfg.FromName)
}

// NewSendGridSenderWithClient creates a SendGridSender around an existing client
func NewSendGridSenderWithClient(client SendGridAPI, fromAddress, fromName string) *SendGridSender {
	return &SendGridSender{
		client: client,
		from:   sgmail.NewEmail(fromName, fromAddress),
	}
}

// Name implements Sender
func (s *SendGridSender) Name() string {
	return constants.MailProviderSendGrid
}

// Send implements Sender. Any non-2xx response is an error.
func (s *SendGridSender) Send(ctx context.Context, msg *Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	to := sgmail.NewEmail(msg.ToName, msg.To)
	message := sgmail.NewSingleEmail(s.from, msg.Subject, to, msg.Text, msg.HTML)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email via SendGrid: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid rejected message with status %d", response.StatusCode)
	}

	log.Debug().
		Str("category", constants.LogCategoryMail).
		Int("status_code", response.StatusCode).
		Msg("SendGrid accepted message")

	return nil
}
