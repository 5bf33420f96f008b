package sms

import (
	"context"
	"fmt"

	"github.com/derintolu/frs-lead-pages-sub002/internal/observability"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioClient sends SMS through the Twilio messages API.
type TwilioClient struct {
	client *twilio.RestClient
	from   string
	logger *observability.Logger
}

// NewTwilioClient creates a Twilio-backed SMS client. Missing credentials
// return a nil client, which callers treat as SMS notifications disabled.
func NewTwilioClient(accountSID, authToken, from string, logger *observability.Logger) *TwilioClient {
	if accountSID == "" || authToken == "" || from == "" {
		logger.Info(context.Background(), "twilio credentials not set, sms notifications disabled")
		return nil
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioClient{
		client: client,
		from:   from,
		logger: logger,
	}
}

// IsEnabled reports whether the client can send.
func (c *TwilioClient) IsEnabled() bool {
	return c != nil && c.client != nil
}

// SendSMS sends a single text message.
func (c *TwilioClient) SendSMS(ctx context.Context, to, body string) error {
	if !c.IsEnabled() {
		return fmt.Errorf("twilio client not initialized")
	}

	params := &twilioapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(c.from)
	params.SetBody(body)

	if _, err := c.client.Api.CreateMessage(params); err != nil {
		c.logger.Error(observability.WithFields(ctx,
			observability.Field{Key: "sms_to", Value: to}),
			"failed to send sms", err)
		return fmt.Errorf("failed to send sms: %w", err)
	}

	c.logger.Info(observability.WithFields(ctx,
		observability.Field{Key: "sms_to", Value: to}),
		"sms sent successfully")
	return nil
}
