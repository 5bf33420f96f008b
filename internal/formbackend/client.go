// Package formbackend is the adapter for the primary form system that serves
// as the preferred canonical-write strategy for captured leads.
package formbackend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/derintolu/frs-lead-pages-sub002/internal/destinations"
	"github.com/derintolu/frs-lead-pages-sub002/internal/observability"
	"github.com/derintolu/frs-lead-pages-sub002/internal/store"

	"github.com/google/uuid"
)

const adapterName = "form_backend"

// Client talks to the form backend over HTTP. A zero-configured client (empty
// base URL) reports every create as dependency-unavailable and every list as
// empty, which is the "backend not installed" deployment.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *observability.Logger
}

func New(baseURL, apiKey string, logger *observability.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Enabled reports whether a form backend is configured at all.
func (c *Client) Enabled() bool {
	return c.baseURL != ""
}

// Entry is the form backend's record of a submission.
type Entry struct {
	ID            string                 `json:"id"`
	PageID        uuid.UUID              `json:"page_id"`
	FullName      string                 `json:"full_name"`
	Email         string                 `json:"email"`
	Phone         string                 `json:"phone"`
	Status        string                 `json:"status"`
	Fields        map[string]interface{} `json:"fields,omitempty"`
	SubmittedAt   time.Time              `json:"submitted_at"`
	LoanOfficerID *uuid.UUID             `json:"loan_officer_id,omitempty"`
	RealtorID     *uuid.UUID             `json:"realtor_id,omitempty"`
}

type createEntryRequest struct {
	PageID        uuid.UUID              `json:"page_id"`
	PageType      string                 `json:"page_type"`
	FullName      string                 `json:"full_name"`
	Email         string                 `json:"email"`
	Phone         string                 `json:"phone"`
	Fields        map[string]interface{} `json:"fields,omitempty"`
	LoanOfficerID *uuid.UUID             `json:"loan_officer_id,omitempty"`
	RealtorID     *uuid.UUID             `json:"realtor_id,omitempty"`
}

type createEntryResponse struct {
	ID string `json:"id"`
}

// CreateEntry persists a submission in the form backend and returns the
// opaque entry id. An unreachable or unconfigured backend is reported as
// destinations.ErrDependencyUnavailable so the orchestrator can fall back to
// direct storage.
func (c *Client) CreateEntry(ctx context.Context, params store.CreateLeadParams) (string, error) {
	if !c.Enabled() {
		return "", destinations.Unavailable(adapterName, fmt.Errorf("not configured"))
	}

	body := createEntryRequest{
		PageID:        params.PageID,
		PageType:      params.PageType,
		FullName:      params.FullName,
		Email:         params.Email,
		Phone:         params.Phone,
		Fields:        entryFields(params),
		LoanOfficerID: params.LoanOfficerID,
		RealtorID:     params.RealtorID,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal entry: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/entries", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", destinations.Unavailable(adapterName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return "", destinations.Unavailable(adapterName, fmt.Errorf("backend returned status %d", resp.StatusCode))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("form backend rejected entry: status %d: %s", resp.StatusCode, string(respBody))
	}

	var created createEntryResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("failed to decode entry response: %w", err)
	}

	c.logger.Info(observability.WithFields(ctx,
		observability.Field{Key: "entry_id", Value: created.ID}),
		"form backend entry created")
	return created.ID, nil
}

// ListEntriesParams are the dashboard filters for querying backend entries
type ListEntriesParams struct {
	PageID        *uuid.UUID
	LoanOfficerID *uuid.UUID
	RealtorID     *uuid.UUID
	Status        *string
}

type listEntriesResponse struct {
	Entries []Entry `json:"entries"`
}

// ListEntries returns backend entries matching the filters, newest-first. An
// absent backend yields an empty list, not an error: dashboards render an
// empty table instead of failing.
func (c *Client) ListEntries(ctx context.Context, params ListEntriesParams) ([]Entry, error) {
	if !c.Enabled() {
		return []Entry{}, nil
	}

	q := url.Values{}
	if params.PageID != nil {
		q.Set("page_id", params.PageID.String())
	}
	if params.LoanOfficerID != nil {
		q.Set("loan_officer_id", params.LoanOfficerID.String())
	}
	if params.RealtorID != nil {
		q.Set("realtor_id", params.RealtorID.String())
	}
	if params.Status != nil {
		q.Set("status", *params.Status)
	}
	q.Set("sort", "submitted_at:desc")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/entries?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn(observability.WithFields(ctx,
			observability.Field{Key: "error", Value: err.Error()}),
			"form backend unreachable, returning empty entry list")
		return []Entry{}, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("form backend list failed: status %d", resp.StatusCode)
	}

	var listed listEntriesResponse
	if err := json.NewDecoder(resp.Body).Decode(&listed); err != nil {
		return nil, fmt.Errorf("failed to decode entry list: %w", err)
	}
	if listed.Entries == nil {
		listed.Entries = []Entry{}
	}
	return listed.Entries, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

func entryFields(params store.CreateLeadParams) map[string]interface{} {
	fields := map[string]interface{}{}
	if params.WorkingWithAgent != nil {
		fields["working_with_agent"] = *params.WorkingWithAgent
	}
	if params.PreApproved != nil {
		fields["pre_approved"] = *params.PreApproved
	}
	if params.InterestedInPreApproval != nil {
		fields["interested_in_pre_approval"] = *params.InterestedInPreApproval
	}
	if params.Timeframe != nil {
		fields["timeframe"] = *params.Timeframe
	}
	if params.Comments != nil {
		fields["comments"] = *params.Comments
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
