package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/derintolu/frs-lead-pages-sub002/internal/observability"
	"github.com/derintolu/frs-lead-pages-sub002/internal/store"
)

// FluentCRM integrates with a FluentCRM REST endpoint. The subscribers
// endpoint upserts by email natively.
type FluentCRM struct {
	baseURL    string
	httpClient *http.Client
	logger     *observability.Logger
}

func NewFluentCRM(baseURL string, logger *observability.Logger) *FluentCRM {
	return &FluentCRM{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		logger: logger,
	}
}

func (f *FluentCRM) Name() string {
	return store.CrmProviderFluentCRM
}

// ValidateKey checks the credential with a minimal subscribers query.
func (f *FluentCRM) ValidateKey(ctx context.Context, apiKey string) error {
	if f.baseURL == "" {
		return fmt.Errorf("%w: fluentcrm endpoint not configured", ErrProviderUnavailable)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"/wp-json/fluent-crm/v2/subscribers?per_page=1", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrCredentialRejected
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	default:
		return fmt.Errorf("%w: subscribers check returned status %d", ErrProviderUnavailable, resp.StatusCode)
	}
}

type fluentSubscriberRequest struct {
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone"`
	Tags      []string `json:"tags"`
	Source    string   `json:"source"`
	Status    string   `json:"status"`
}

// UpsertContact creates or updates a subscriber keyed by email.
func (f *FluentCRM) UpsertContact(ctx context.Context, apiKey string, contact Contact) error {
	if f.baseURL == "" {
		return fmt.Errorf("%w: fluentcrm endpoint not configured", ErrProviderUnavailable)
	}

	subscriber := fluentSubscriberRequest{
		FirstName: contact.FirstName,
		LastName:  contact.LastName,
		Email:     contact.Email,
		Phone:     contact.Phone,
		Tags:      contact.Tags,
		Source:    contact.Source,
		Status:    "subscribed",
	}

	payload, err := json.Marshal(subscriber)
	if err != nil {
		return fmt.Errorf("failed to marshal subscriber: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+"/wp-json/fluent-crm/v2/subscribers", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrCredentialRejected
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	default:
		return fmt.Errorf("fluentcrm returned status %d", resp.StatusCode)
	}
}
