// Package mail delivers outbound email through a configurable provider.
package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/matrizrfm/auth-api/internal/config"
	"github.com/matrizrfm/auth-api/internal/constants"
)

// ErrInvalidMessage is returned for messages missing a recipient or subject
var ErrInvalidMessage = errors.New("invalid mail message")

// Message is a single outbound email with an HTML and a plain-text part
type Message struct {
	To      string
	ToName  string
	Subject string
	HTML    string
	Text    string
}

// Validate checks the fields every provider needs
func (m *Message) Validate() error {
	if m == nil || strings.TrimSpace(m.To) == "" {
		return fmt.Errorf("%w: recipient is required", ErrInvalidMessage)
	}
	if strings.TrimSpace(m.Subject) == "" {
		return fmt.Errorf("%w: subject is required", ErrInvalidMessage)
	}
	if m.HTML == "" && m.Text == "" {
		return fmt.Errorf("%w: body is required", ErrInvalidMessage)
	}
	return nil
}

// Sender delivers messages
type Sender interface {
	Send(ctx context.Context, msg *Message) error
	// Name identifies the provider in logs and metrics
	Name() string
}

// NewSender builds the Sender selected by cfg.Provider
func NewSender(ctx context.Context, cfg *config.MailSettings) (Sender, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", constants.MailProviderLog:
		return NewLogSender(), nil
	case constants.MailProviderSMTP:
		return NewSMTPSender(cfg), nil
	case constants.MailProviderSES:
		return NewSESSender(ctx, cfg)
	case constants.MailProviderSendGrid:
		return NewSendGridSender(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported mail provider: %s", cfg.Provider)
	}
}
