package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matrizrfm/auth-api/internal/config"
	"github.com/matrizrfm/auth-api/internal/constants"
	"github.com/matrizrfm/auth-api/internal/mail"
	"github.com/matrizrfm/auth-api/internal/metrics"
	"github.com/matrizrfm/auth-api/internal/models"
)

// MockSender is a mock implementation of mail.Sender
type MockSender struct {
	Err         error
	Called      bool
	CalledWith  *mail.Message
	HadDeadline bool
}

func (m *MockSender) Name() string { return "mock" }

func (m *MockSender) Send(ctx context.Context, msg *mail.Message) error {
	m.Called = true
	m.CalledWith = msg
	_, m.HadDeadline = ctx.Deadline()
	return m.Err
}

func testEmailConfig() *config.AppConfig {
	cfg := config.Default()
	cfg.ResetToken.FrontendURL = "https://app.example.com/"
	cfg.ResetToken.Expiry = 30 * time.Minute
	cfg.Mail.FromName = "Matriz RFM"
	cfg.Mail.Timeout = 5 * time.Second
	return cfg
}

func TestEmailService_SendPasswordResetEmail(t *testing.T) {
	sender := &MockSender{}
	m := metrics.New()
	service := NewEmailService(sender, testEmailConfig(), m)

	user := &models.User{ID: 7, Name: "Maria <Admin>", Email: "maria@example.com"}
	err := service.SendPasswordResetEmail(context.Background(), user, "abc123")
	require.NoError(t, err)

	require.True(t, sender.Called)
	msg := sender.CalledWith
	assert.Equal(t, "maria@example.com", msg.To)
	assert.Equal(t, "Maria <Admin>", msg.ToName)
	assert.Equal(t, constants.ResetPasswordSubject, msg.Subject)
	assert.True(t, sender.HadDeadline)

	assert.Contains(t, msg.HTML, "https://app.example.com/reset-password?token=abc123")
	assert.Contains(t, msg.HTML, "30 minutos")
	assert.Contains(t, msg.HTML, "Maria &lt;Admin&gt;")
	assert.NotContains(t, msg.HTML, "Maria <Admin>")

	assert.Contains(t, msg.Text, "https://app.example.com/reset-password?token=abc123")
	assert.Contains(t, msg.Text, "Olá, Maria <Admin>")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.ResetEmails.WithLabelValues("mock", constants.OutcomeSuccess)))
}

func TestEmailService_SendFailure(t *testing.T) {
	sender := &MockSender{Err: errors.New("421 service not available")}
	m := metrics.New()
	service := NewEmailService(sender, testEmailConfig(), m)

	user := &models.User{ID: 7, Name: "Maria", Email: "maria@example.com"}
	err := service.SendPasswordResetEmail(context.Background(), user, "abc123")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send password reset email")
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ResetEmails.WithLabelValues("mock", constants.OutcomeError)))
}

func TestEmailService_NoTimeout(t *testing.T) {
	sender := &MockSender{}
	cfg := testEmailConfig()
	cfg.Mail.Timeout = 0

	// Metrics are optional
	service := NewEmailService(sender, cfg, nil)

	err := service.SendPasswordResetEmail(context.Background(), &models.User{ID: 1, Name: "A", Email: "a@example.com"}, "t")
	require.NoError(t, err)
	assert.False(t, sender.HadDeadline)
}

func TestEmailService_WithLogSender(t *testing.T) {
	service := NewEmailService(mail.NewLogSender(), testEmailConfig(), nil)

	err := service.SendPasswordResetEmail(context.Background(), &models.User{ID: 1, Name: "A", Email: "a@example.com"}, "t")
	assert.NoError(t, err)
}
