// Package processor orchestrates lead capture: canonical write, page
// counters, and fan-out to secondary destinations.
package processor

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/derintolu/frs-lead-pages-sub002/internal/attribution"
	"github.com/derintolu/frs-lead-pages-sub002/internal/auth"
	"github.com/derintolu/frs-lead-pages-sub002/internal/destinations"
	"github.com/derintolu/frs-lead-pages-sub002/internal/monitoring"
	"github.com/derintolu/frs-lead-pages-sub002/internal/observability"
	"github.com/derintolu/frs-lead-pages-sub002/internal/store"

	"github.com/google/uuid"
)

var (
	ErrNameRequired  = errors.New("name is required")
	ErrEmailInvalid  = errors.New("a valid email is required")
	ErrPhoneRequired = errors.New("phone is required")
	ErrInvalidStatus = errors.New("invalid lead status")
	ErrLeadNotFound  = errors.New("lead not found")
)

// deliveryTimeout bounds each destination attempt so a slow destination
// cannot stall the visitor response indefinitely.
const deliveryTimeout = 15 * time.Second

// LeadStore is the persistence surface the processor needs beyond the
// canonical writers.
type LeadStore interface {
	GetLeadByID(ctx context.Context, leadID uuid.UUID) (store.Lead, error)
	ListLeads(ctx context.Context, params store.ListLeadsParams) ([]store.Lead, int, error)
	UpdateLeadStatus(ctx context.Context, leadID uuid.UUID, status string) (store.Lead, error)
	DeleteLead(ctx context.Context, leadID uuid.UUID) error
	IncrementPageSubmissions(ctx context.Context, pageID uuid.UUID) error
}

type LeadProcessor struct {
	resolver     attribution.Resolver
	writers      []destinations.CanonicalWriter
	destinations []destinations.Destination
	store        LeadStore
	logger       *observability.Logger
}

func New(resolver attribution.Resolver, writers []destinations.CanonicalWriter,
	dests []destinations.Destination, store LeadStore, logger *observability.Logger) LeadProcessor {
	return LeadProcessor{
		resolver:     resolver,
		writers:      writers,
		destinations: dests,
		store:        store,
		logger:       logger,
	}
}

// SubmitParams is a visitor's form submission.
type SubmitParams struct {
	PageID uuid.UUID

	FullName string
	Email    string
	Phone    string

	WorkingWithAgent        *bool
	PreApproved             *bool
	InterestedInPreApproval *bool
	Timeframe               *string
	Comments                *string
}

func validateSubmit(params *SubmitParams) error {
	params.FullName = strings.TrimSpace(params.FullName)
	params.Email = strings.TrimSpace(params.Email)
	params.Phone = strings.TrimSpace(params.Phone)

	if params.FullName == "" {
		return ErrNameRequired
	}
	if params.Email == "" {
		return ErrEmailInvalid
	}
	if _, err := mail.ParseAddress(params.Email); err != nil {
		return ErrEmailInvalid
	}
	if params.Phone == "" {
		return ErrPhoneRequired
	}
	return nil
}

// Submit captures a visitor submission. The visitor response is gated only by
// validation, page resolution, and the canonical write. Destination failures
// are absorbed: they are logged, counted, and (for the webhook) queued for
// retry, but the submission still succeeds.
func (p *LeadProcessor) Submit(ctx context.Context, params SubmitParams) (store.Lead, error) {
	if err := validateSubmit(&params); err != nil {
		return store.Lead{}, err
	}

	attr, err := p.resolver.Resolve(ctx, params.PageID)
	if err != nil {
		return store.Lead{}, err
	}

	createParams := store.CreateLeadParams{
		PageID:                  attr.PageID,
		PageType:                attr.PageType,
		FullName:                params.FullName,
		Email:                   params.Email,
		Phone:                   params.Phone,
		WorkingWithAgent:        params.WorkingWithAgent,
		PreApproved:             params.PreApproved,
		InterestedInPreApproval: params.InterestedInPreApproval,
		Timeframe:               params.Timeframe,
		Comments:                params.Comments,
		LoanOfficerID:           attr.LoanOfficerID,
		RealtorID:               attr.RealtorID,
	}

	lead, err := p.storeCanonical(ctx, createParams)
	if err != nil {
		return store.Lead{}, err
	}
	monitoring.LeadSubmissions.WithLabelValues(lead.Source).Inc()

	// Advisory display counter. Drift against the authoritative count is
	// tolerated, so a failure here only logs.
	if err := p.store.IncrementPageSubmissions(ctx, attr.PageID); err != nil {
		p.logger.Error(ctx, "failed to increment page submission counter", err)
	}

	p.fanOut(ctx, lead)
	return lead, nil
}

// storeCanonical tries the canonical writers in order. A writer reporting
// dependency-unavailable hands off to the next; any other error is a real
// write failure and fails the submission.
func (p *LeadProcessor) storeCanonical(ctx context.Context, params store.CreateLeadParams) (store.Lead, error) {
	for _, w := range p.writers {
		lead, err := w.Store(ctx, params)
		if err != nil {
			if errors.Is(err, destinations.ErrDependencyUnavailable) {
				p.logger.Warn(observability.WithFields(ctx,
					observability.Field{Key: "writer", Value: w.Name()},
					observability.Field{Key: "error", Value: err.Error()}),
					"canonical writer unavailable, trying next")
				continue
			}
			return store.Lead{}, err
		}
		return lead, nil
	}
	return store.Lead{}, fmt.Errorf("no canonical writer available")
}

// fanOut delivers the captured lead to every secondary destination. Runs
// inline with a bounded per-destination timeout; failures never propagate.
func (p *LeadProcessor) fanOut(ctx context.Context, lead store.Lead) {
	for _, d := range p.destinations {
		dCtx, cancel := context.WithTimeout(ctx, deliveryTimeout)
		err := d.Deliver(dCtx, lead)
		cancel()

		if err != nil {
			monitoring.DeliveryAttempts.WithLabelValues(d.Name(), "failure").Inc()
			p.logger.Error(observability.WithFields(ctx,
				observability.Field{Key: "destination", Value: d.Name()},
				observability.Field{Key: "lead_id", Value: lead.ID.String()}),
				"lead delivery failed", err)
			continue
		}
		monitoring.DeliveryAttempts.WithLabelValues(d.Name(), "success").Inc()
	}
}

// ListParams are the dashboard filters for listing captured leads.
type ListParams struct {
	PageID *uuid.UUID
	Status *string
	Limit  int
	Offset int
}

// LeadList is a filtered page of leads plus the total match count.
type LeadList struct {
	Leads []store.Lead `json:"leads"`
	Total int          `json:"total"`
}

// List returns captured leads visible to the actor. Administrators see
// everything; loan officers and realtors see only leads attributed to them.
func (p *LeadProcessor) List(ctx context.Context, actor auth.ActorContext, params ListParams) (LeadList, error) {
	if params.Status != nil && !store.ValidLeadStatus(*params.Status) {
		return LeadList{}, ErrInvalidStatus
	}

	storeParams := store.ListLeadsParams{
		PageID: params.PageID,
		Status: params.Status,
		Limit:  params.Limit,
		Offset: params.Offset,
	}
	switch actor.Role {
	case store.RoleLoanOfficer:
		storeParams.LoanOfficerID = &actor.ID
	case store.RoleRealtor:
		storeParams.RealtorID = &actor.ID
	}

	leads, total, err := p.store.ListLeads(ctx, storeParams)
	if err != nil {
		return LeadList{}, err
	}
	return LeadList{Leads: leads, Total: total}, nil
}

// UpdateStatus moves a lead to a new review status.
func (p *LeadProcessor) UpdateStatus(ctx context.Context, leadID uuid.UUID, status string) (store.Lead, error) {
	if !store.ValidLeadStatus(status) {
		return store.Lead{}, ErrInvalidStatus
	}

	lead, err := p.store.UpdateLeadStatus(ctx, leadID, status)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Lead{}, ErrLeadNotFound
		}
		return store.Lead{}, err
	}
	return lead, nil
}

// Delete removes a lead permanently.
func (p *LeadProcessor) Delete(ctx context.Context, leadID uuid.UUID) error {
	if err := p.store.DeleteLead(ctx, leadID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrLeadNotFound
		}
		return err
	}
	return nil
}

// Get returns a single lead by id.
func (p *LeadProcessor) Get(ctx context.Context, leadID uuid.UUID) (store.Lead, error) {
	lead, err := p.store.GetLeadByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Lead{}, ErrLeadNotFound
		}
		return store.Lead{}, err
	}
	return lead, nil
}
