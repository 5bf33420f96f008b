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

// FollowUpBoss integrates with the Follow Up Boss events API. Leads are
// ingested through POST /v1/events, which dedups contacts by email on the
// provider side.
type FollowUpBoss struct {
	baseURL    string
	httpClient *http.Client
	logger     *observability.Logger
}

func NewFollowUpBoss(baseURL string, logger *observability.Logger) *FollowUpBoss {
	return &FollowUpBoss{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		logger: logger,
	}
}

func (f *FollowUpBoss) Name() string {
	return store.CrmProviderFollowUpBoss
}

// ValidateKey checks the credential against the identity endpoint.
func (f *FollowUpBoss) ValidateKey(ctx context.Context, apiKey string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"/v1/identity", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	// Follow Up Boss uses the API key as the basic-auth username.
	req.SetBasicAuth(apiKey, "")

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
		return fmt.Errorf("%w: identity check returned status %d", ErrProviderUnavailable, resp.StatusCode)
	}
}

type fubEventRequest struct {
	Source string    `json:"source"`
	Type   string    `json:"type"`
	Person fubPerson `json:"person"`
}

type fubPerson struct {
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Emails    []fubEmail `json:"emails"`
	Phones    []fubPhone `json:"phones"`
	Tags      []string   `json:"tags"`
}

type fubEmail struct {
	Value string `json:"value"`
}

type fubPhone struct {
	Value string `json:"value"`
}

// UpsertContact pushes a lead as an inquiry event.
func (f *FollowUpBoss) UpsertContact(ctx context.Context, apiKey string, contact Contact) error {
	event := fubEventRequest{
		Source: contact.Source,
		Type:   "Inquiry",
		Person: fubPerson{
			FirstName: contact.FirstName,
			LastName:  contact.LastName,
			Emails:    []fubEmail{{Value: contact.Email}},
			Phones:    []fubPhone{{Value: contact.Phone}},
			Tags:      contact.Tags,
		},
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+"/v1/events", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(apiKey, "")
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
		return fmt.Errorf("follow up boss returned status %d", resp.StatusCode)
	}
}
