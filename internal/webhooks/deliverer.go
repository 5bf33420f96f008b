// Package webhooks delivers captured leads to an external automation webhook
// and manages the bounded queue of failed deliveries awaiting an
// operator-triggered retry.
package webhooks

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/derintolu/frs-lead-pages-sub002/internal/observability"
	"github.com/derintolu/frs-lead-pages-sub002/internal/store"
)

// Deliverer posts signed lead payloads to the configured webhook endpoint. A
// zero-configured deliverer (empty URL) reports itself disabled.
type Deliverer struct {
	url        string
	secret     string
	httpClient *http.Client
	logger     *observability.Logger
}

func NewDeliverer(url, secret string, logger *observability.Logger) *Deliverer {
	return &Deliverer{
		url:    url,
		secret: secret,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Enabled reports whether a webhook endpoint is configured.
func (d *Deliverer) Enabled() bool {
	return d.url != ""
}

// BuildPayload flattens a lead into the JSON shape posted to the endpoint.
// The same shape is persisted with a failed delivery so a later retry resends
// exactly what the original attempt carried.
func BuildPayload(lead store.Lead) store.JSONB {
	payload := store.JSONB{
		"event":        "lead.captured",
		"lead_id":      lead.ID.String(),
		"page_id":      lead.PageID.String(),
		"page_type":    lead.PageType,
		"full_name":    lead.FullName,
		"email":        lead.Email,
		"phone":        lead.Phone,
		"status":       lead.Status,
		"submitted_at": lead.SubmittedAt.UTC().Format(time.RFC3339),
	}
	if lead.WorkingWithAgent != nil {
		payload["working_with_agent"] = *lead.WorkingWithAgent
	}
	if lead.PreApproved != nil {
		payload["pre_approved"] = *lead.PreApproved
	}
	if lead.InterestedInPreApproval != nil {
		payload["interested_in_pre_approval"] = *lead.InterestedInPreApproval
	}
	if lead.Timeframe != nil {
		payload["timeframe"] = *lead.Timeframe
	}
	if lead.Comments != nil {
		payload["comments"] = *lead.Comments
	}
	if lead.LoanOfficerID != nil {
		payload["loan_officer_id"] = lead.LoanOfficerID.String()
	}
	if lead.RealtorID != nil {
		payload["realtor_id"] = lead.RealtorID.String()
	}
	return payload
}

// Send posts the payload to the endpoint. Any non-2xx response is a failure.
func (d *Deliverer) Send(ctx context.Context, payload store.JSONB) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "FRS-Lead-Pages-Webhook/1.0")
	if d.secret != "" {
		req.Header.Set("X-Webhook-Signature", d.generateSignature(body, time.Now().Unix()))
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("received non-2xx status code: %d", resp.StatusCode)
	}
	return nil
}

// generateSignature signs the payload as t=<timestamp>,v1=<hex hmac> over
// "<timestamp>.<payload>".
func (d *Deliverer) generateSignature(payload []byte, timestamp int64) string {
	signedPayload := fmt.Sprintf("%d.%s", timestamp, string(payload))

	mac := hmac.New(sha256.New, []byte(d.secret))
	mac.Write([]byte(signedPayload))
	signature := hex.EncodeToString(mac.Sum(nil))

	return fmt.Sprintf("t=%d,v1=%s", timestamp, signature)
}
