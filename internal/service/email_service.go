package service

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/matrizrfm/auth-api/internal/config"
	"github.com/matrizrfm/auth-api/internal/constants"
	"github.com/matrizrfm/auth-api/internal/mail"
	"github.com/matrizrfm/auth-api/internal/metrics"
	"github.com/matrizrfm/auth-api/internal/models"
	"github.com/matrizrfm/auth-api/internal/utils"
)

const resetEmailHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
    .container { width: 100%; max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background-color: #5E17EB; padding: 20px; text-align: center; }
    .header h1 { color: white; margin: 0; }
    .content { padding: 20px; background-color: #f9f9f9; }
    .button { display: inline-block; background-color: #5E17EB; color: white; text-decoration: none; padding: 10px 20px; border-radius: 4px; margin: 20px 0; }
    .footer { padding: 20px; text-align: center; font-size: 12px; color: #666; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header"><h1>{{.AppName}}</h1></div>
    <div class="content">
      <h2>Olá, {{.Name}}</h2>
      <p>Recebemos uma solicitação para redefinir sua senha. Se você não solicitou esta alteração, ignore este email.</p>
      <p>Para redefinir sua senha, clique no botão abaixo:</p>
      <p style="text-align: center;"><a href="{{.ResetURL}}" class="button">Redefinir Senha</a></p>
      <p>Ou copie e cole o seguinte link no seu navegador:</p>
      <p>{{.ResetURL}}</p>
      <p>Este link irá expirar em {{.ExpiryMinutes}} minutos.</p>
    </div>
    <div class="footer">
      <p>&copy; {{.Year}} {{.AppName}}. Todos os direitos reservados.</p>
      <p>Este é um email automático, por favor não responda.</p>
    </div>
  </div>
</body>
</html>
`

const resetEmailText = `Olá, {{.Name}}

Recebemos uma solicitação para redefinir sua senha. Se você não solicitou esta alteração, ignore este email.

Para redefinir sua senha, acesse o link abaixo:
{{.ResetURL}}

Este link irá expirar em {{.ExpiryMinutes}} minutos.

{{.AppName}}
`

var (
	resetHTMLTemplate = htmltemplate.Must(htmltemplate.New("reset_html").Parse(resetEmailHTML))
	resetTextTemplate = texttemplate.Must(texttemplate.New("reset_text").Parse(resetEmailText))
)

// resetEmailData feeds both reset templates
type resetEmailData struct {
	AppName       string
	Name          string
	ResetURL      string
	ExpiryMinutes int
	Year          int
}

// PasswordResetMailer sends the password reset email
type PasswordResetMailer interface {
	SendPasswordResetEmail(ctx context.Context, user *models.User, token string) error
}

// EmailService renders and sends transactional emails
type EmailService struct {
	sender   mail.Sender
	resetCfg *config.ResetTokenSettings
	appName  string
	timeout  time.Duration
	metrics  *metrics.Metrics
}

// NewEmailService creates a new EmailService
func NewEmailService(sender mail.Sender, cfg *config.AppConfig, m *metrics.Metrics) *EmailService {
	return &EmailService{
		sender:   sender,
		resetCfg: &cfg.ResetToken,
		appName:  cfg.Mail.FromName,
		timeout:  cfg.Mail.Timeout,
		metrics:  m,
	}
}

// SendPasswordResetEmail mails the reset link for token to the user
func (s *EmailService) SendPasswordResetEmail(ctx context.Context, user *models.User, token string) error {
	msg, err := s.buildResetMessage(user, s.resetCfg.ResetURL(token))
	if err != nil {
		return err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if err := s.sender.Send(ctx, msg); err != nil {
		s.metrics.ObserveResetEmail(s.sender.Name(), constants.OutcomeError)
		return fmt.Errorf("failed to send password reset email: %w", err)
	}

	s.metrics.ObserveResetEmail(s.sender.Name(), constants.OutcomeSuccess)
	log.Info().
		Str("category", constants.LogCategoryMail).
		Int64(constants.UserIDContextKey, user.ID).
		Str("to", utils.MaskEmail(user.Email)).
		Str("provider", s.sender.Name()).
		Msg("Password reset email sent")

	return nil
}

func (s *EmailService) buildResetMessage(user *models.User, resetURL string) (*mail.Message, error) {
	data := resetEmailData{
		AppName:       s.appName,
		Name:          user.Name,
		ResetURL:      resetURL,
		ExpiryMinutes: int(s.resetCfg.Expiry / time.Minute),
		Year:          time.Now().Year(),
	}

	var htmlBody, textBody bytes.Buffer
	if err := resetHTMLTemplate.Execute(&htmlBody, data); err != nil {
		return nil, fmt.Errorf("failed to render reset email: %w", err)
	}
	if err := resetTextTemplate.Execute(&textBody, data); err != nil {
		return nil, fmt.Errorf("failed to render reset email text: %w", err)
	}

	return &mail.Message{
		To:      user.Email,
		ToName:  user.Name,
		Subject: constants.ResetPasswordSubject,
		HTML:    htmlBody.String(),
		Text:    textBody.String(),
	}, nil
}
