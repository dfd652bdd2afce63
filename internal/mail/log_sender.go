package mail

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/matrizrfm/auth-api/internal/constants"
	"github.com/matrizrfm/auth-api/internal/utils"
)

// LogSender writes messages to the log instead of delivering them.
// The reset link is logged at debug level only.
type LogSender struct{}

// NewLogSender creates a LogSender
func NewLogSender() *LogSender {
	return &LogSender{}
}

// Name implements Sender
func (s *LogSender) Name() string {
	return constants.MailProviderLog
}

// Send implements Sender
func (s *LogSender) Send(ctx context.Context, msg *Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	log.Info().
		Str("category", constants.LogCategoryMail).
		Str("to", utils.MaskEmail(msg.To)).
		Str("subject", msg.Subject).
		Msg("Mail delivery skipped, log provider active")

	log.Debug().
		Str("category", constants.LogCategoryMail).
		Str("body", msg.Text).
		Msg("Mail body")

	return nil
}
