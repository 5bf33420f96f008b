package mail

import (
	"context"
	"fmt"

	"github.com/derintolu/frs-lead-pages-sub002/internal/observability"

	"github.com/resendlabs/resend-go"
)

// ResendClient sends transactional email through Resend.
type ResendClient struct {
	client *resend.Client
	sender string
	logger *observability.Logger
}

// NewResendClient creates a Resend-backed mail client. An empty API key
// returns a nil client, which callers treat as email notifications disabled.
func NewResendClient(apiKey, sender string, logger *observability.Logger) (*ResendClient, error) {
	if apiKey == "" {
		logger.Info(context.Background(), "resend api key not set, email notifications disabled")
		return nil, nil
	}

	client := resend.NewClient(apiKey)
	if client == nil {
		return nil, fmt.Errorf("failed to create resend client")
	}

	return &ResendClient{
		client: client,
		sender: sender,
		logger: logger,
	}, nil
}

// IsEnabled reports whether the client can send.
func (c *ResendClient) IsEnabled() bool {
	return c != nil && c.client != nil
}

// SendEmail sends a single HTML email and returns the provider message id.
func (c *ResendClient) SendEmail(ctx context.Context, to, subject, htmlContent string) (string, error) {
	if !c.IsEnabled() {
		return "", fmt.Errorf("resend client not initialized")
	}

	ctx = observability.WithFields(ctx,
		observability.Field{Key: "email_to", Value: to},
		observability.Field{Key: "email_subject", Value: subject},
	)

	params := &resend.SendEmailRequest{
		From:    c.sender,
		To:      []string{to},
		Subject: subject,
		Html:    htmlContent,
	}

	res, err := c.client.Emails.Send(params)
	if err != nil {
		c.logger.Error(ctx, "failed to send email", err)
		return "", fmt.Errorf("failed to send email: %w", err)
	}

	c.logger.Info(ctx, "email sent successfully")
	return res.Id, nil
}
