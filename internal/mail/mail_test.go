package mail

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/sendgrid/rest"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/matrizrfm/auth-api/internal/config"
)

func testMessage() *Message {
	return &Message{
		To:      "maria@example.com",
		ToName:  "Maria",
		Subject: "Redefinição de Senha - Matriz RFM",
		HTML:    "<p>Olá</p>",
		Text:    "Olá",
	}
}

func TestMessage_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Message)
		wantErr bool
	}{
		{name: "Valid", mutate: func(*Message) {}},
		{name: "Missing recipient", mutate: func(m *Message) { m.To = " " }, wantErr: true},
		{name: "Missing subject", mutate: func(m *Message) { m.Subject = "" }, wantErr: true},
		{name: "Missing body", mutate: func(m *Message) { m.HTML, m.Text = "", "" }, wantErr: true},
		{name: "Text only", mutate: func(m *Message) { m.HTML = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := testMessage()
			tt.mutate(msg)
			err := msg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidMessage)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewSender(t *testing.T) {
	tests := []struct {
		provider string
		wantName string
		wantErr  bool
	}{
		{provider: "", wantName: "log"},
		{provider: "log", wantName: "log"},
		{provider: "SMTP", wantName: "smtp"},
		{provider: "sendgrid", wantName: "sendgrid"},
		{provider: "pigeon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			cfg := &config.MailSettings{
				Provider:       tt.provider,
				FromAddress:    "no-reply@matrizrfm.com.br",
				SMTPHost:       "smtp.example.com",
				SMTPPort:       587,
				SendGridAPIKey: "SG.test",
			}
			sender, err := NewSender(context.Background(), cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, sender.Name())
		})
	}
}

func TestLogSender_Send(t *testing.T) {
	sender := NewLogSender()
	assert.NoError(t, sender.Send(context.Background(), testMessage()))
	assert.Error(t, sender.Send(context.Background(), &Message{}))
}

func TestSMTPSender_Send(t *testing.T) {
	sender := NewSMTPSender(&config.MailSettings{
		FromAddress: "no-reply@matrizrfm.com.br",
		FromName:    "Matriz RFM",
		SMTPHost:    "smtp.example.com",
		SMTPPort:    587,
		SMTPUser:    "user",
	})

	var sent []*gomail.Message
	sender.send = func(d *gomail.Dialer, m ...*gomail.Message) error {
		assert.Equal(t, "smtp.example.com", d.Host)
		assert.Equal(t, 587, d.Port)
		sent = append(sent, m...)
		return nil
	}

	require.NoError(t, sender.Send(context.Background(), testMessage()))
	require.Len(t, sent, 1)

	assert.Equal(t, []string{`"Maria" <maria@example.com>`}, sent[0].GetHeader("To"))
	assert.Equal(t, []string{`"Matriz RFM" <no-reply@matrizrfm.com.br>`}, sent[0].GetHeader("From"))

	var buf bytes.Buffer
	_, err := sent[0].WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "text/plain")
	assert.Contains(t, buf.String(), "text/html")
}

func TestSMTPSender_Errors(t *testing.T) {
	sender := NewSMTPSender(&config.MailSettings{SMTPHost: "smtp.example.com", SMTPPort: 587})
	sender.send = func(*gomail.Dialer, ...*gomail.Message) error {
		return errors.New("535 authentication failed")
	}

	err := sender.Send(context.Background(), testMessage())
	assert.ErrorContains(t, err, "failed to send email via SMTP")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sender.Send(ctx, testMessage()), context.Canceled)
}

type fakeSES struct {
	input *sesv2.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSESSender_Send(t *testing.T) {
	client := &fakeSES{}
	sender := NewSESSenderWithClient(client, "no-reply@matrizrfm.com.br", "Matriz RFM")

	require.NoError(t, sender.Send(context.Background(), testMessage()))

	in := client.input
	require.NotNil(t, in)
	assert.Equal(t, `"Matriz RFM" <no-reply@matrizrfm.com.br>`, aws.ToString(in.FromEmailAddress))
	require.Len(t, in.Destination.ToAddresses, 1)
	assert.True(t, strings.HasSuffix(in.Destination.ToAddresses[0], "<maria@example.com>"))
	assert.Equal(t, "<p>Olá</p>", aws.ToString(in.Content.Simple.Body.Html.Data))
	assert.Equal(t, "Olá", aws.ToString(in.Content.Simple.Body.Text.Data))

	client.err = errors.New("MessageRejected")
	assert.ErrorContains(t, sender.Send(context.Background(), testMessage()), "failed to send email via SES")
}

type fakeSendGrid struct {
	email  *sgmail.SGMailV3
	status int
	err    error
}

func (f *fakeSendGrid) SendWithContext(ctx context.Context, email *sgmail.SGMailV3) (*rest.Response, error) {
	f.email = email
	if f.err != nil {
		return nil, f.err
	}
	return &rest.Response{StatusCode: f.status}, nil
}

func TestSendGridSender_Send(t *testing.T) {
	client := &fakeSendGrid{status: http.StatusAccepted}
	sender := NewSendGridSenderWithClient(client, "no-reply@matrizrfm.com.br", "Matriz RFM")

	require.NoError(t, sender.Send(context.Background(), testMessage()))
	require.NotNil(t, client.email)
	assert.Equal(t, "no-reply@matrizrfm.com.br", client.email.From.Address)
	assert.Equal(t, "Redefinição de Senha - Matriz RFM", client.email.Subject)
	require.Len(t, client.email.Personalizations, 1)
	assert.Equal(t, "maria@example.com", client.email.Personalizations[0].To[0].Address)

	client.status = http.StatusUnauthorized
	assert.ErrorContains(t, sender.Send(context.Background(), testMessage()), "status 401")

	client.err = errors.New("timeout")
	assert.ErrorContains(t, sender.Send(context.Background(), testMessage()), "failed to send email via SendGrid")
}
