package mail

import (
	"context"
	"fmt"
	netmail "net/mail"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/rs/zerolog/log"

	"github.com/matrizrfm/auth-api/internal/config"
	"github.com/matrizrfm/auth-api/internal/constants"
)

// SESAPI is the part of the SES v2 client used by SESSender
type SESAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESSender delivers mail through the Amazon SES v2 API
type SESSender struct {
	client SESAPI
	from   string
}

// NewSESSender loads AWS configuration and creates an SESSender.
// Static credentials are used when both key fields are set, otherwise the
// default AWS credential chain applies.
func NewSESSender(ctx context.Context, cfg *config.MailSettings) (*SESSender, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.SESRegion),
	}
	if cfg.SESAccessKeyID != "" && cfg.SESSecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.SESAccessKeyID, cfg.SESSecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Info().Str("region", cfg.SESRegion).Msg("SES mail sender configured")

	return NewSESSenderWithClient(sesv2.NewFromConfig(awsCfg), cfg.FromAddress, cfg.FromName), nil
}

// NewSESSenderWithClient creates an SESSender around an existing client
func NewSESSenderWithClient(client SESAPI, fromAddress, fromName string) *SESSender {
	from := fromAddress
	if fromName != "" {
		from = (&netmail.Address{Name: fromName, Address: fromAddress}).String()
	}
	return &SESSender{client: client, from: from}
}

// Name implements Sender
func (s *SESSender) Name() string {
	return constants.MailProviderSES
}

// Send implements Sender
func (s *SESSender) Send(ctx context.Context, msg *Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	to := msg.To
	if msg.ToName != "" {
		to = (&netmail.Address{Name: msg.ToName, Address: msg.To}).String()
	}

	body := &types.Body{}
	if msg.HTML != "" {
		body.Html = &types.Content{Data: aws.String(msg.HTML), Charset: aws.String("UTF-8")}
	}
	if msg.Text != "" {
		body.Text = &types.Content{Data: aws.String(msg.Text), Charset: aws.String("UTF-8")}
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
				Body:    body,
			},
		},
	}

	out, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email via SES: %w", err)
	}

	log.Debug().
		Str("category", constants.LogCategoryMail).
		Str("message_id", aws.ToString(out.MessageId)).
		Msg("SES accepted message")

	return nil
}
