package crm

import (
	"context"
	"errors"
	"fmt"

	"github.com/derintolu/frs-lead-pages-sub002/internal/observability"
	"github.com/derintolu/frs-lead-pages-sub002/internal/store"

	"github.com/google/uuid"
)

const leadSource = "FRS Lead Pages"

// Adapter pushes captured leads into the CRMs connected by the lead's owning
// actor. It implements the delivery destination contract used by the
// submission fan-out.
type Adapter struct {
	providers map[string]Provider
	store     ConnectionStore
	logger    *observability.Logger
}

func NewAdapter(store ConnectionStore, logger *observability.Logger, providers ...Provider) *Adapter {
	byName := make(map[string]Provider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &Adapter{
		providers: byName,
		store:     store,
		logger:    logger,
	}
}

func (a *Adapter) Name() string {
	return "crm"
}

// owningActor picks the actor whose connections drive the push. The loan
// officer owns the lead when attributed; the realtor otherwise.
func owningActor(lead store.Lead) *uuid.UUID {
	if lead.LoanOfficerID != nil {
		return lead.LoanOfficerID
	}
	return lead.RealtorID
}

// Deliver pushes the lead to every CRM the owning actor has connected. A lead
// with no attributed actor, or an actor with no connections, is a silent skip
// rather than a failure. A push failure on one provider does not stop the
// others.
func (a *Adapter) Deliver(ctx context.Context, lead store.Lead) error {
	actorID := owningActor(lead)
	if actorID == nil {
		a.logger.Debug(ctx, "lead has no attributed actor, skipping crm push")
		return nil
	}

	conns, err := a.store.ListCrmConnectionsByActor(ctx, *actorID)
	if err != nil {
		return fmt.Errorf("failed to load crm connections: %w", err)
	}
	if len(conns) == 0 {
		return nil
	}

	firstName, lastName := SplitName(lead.FullName)
	contact := Contact{
		FirstName: firstName,
		LastName:  lastName,
		Email:     lead.Email,
		Phone:     lead.Phone,
		Tags:      BuildTags(lead.PageType, lead.PreApproved, lead.WorkingWithAgent),
		Source:    leadSource,
	}

	var pushErrs []error
	for _, conn := range conns {
		p, ok := a.providers[conn.Provider]
		if !ok {
			a.logger.Warn(observability.WithFields(ctx,
				observability.Field{Key: "provider", Value: conn.Provider}),
				"stored crm connection references unregistered provider")
			continue
		}

		if err := p.UpsertContact(ctx, conn.APIKey, contact); err != nil {
			a.logger.Error(observability.WithFields(ctx,
				observability.Field{Key: "provider", Value: conn.Provider},
				observability.Field{Key: "lead_id", Value: lead.ID.String()}),
				"crm push failed", err)
			pushErrs = append(pushErrs, fmt.Errorf("%s: %w", conn.Provider, err))
			continue
		}

		if err := a.store.RecordCrmSync(ctx, conn.ID); err != nil {
			a.logger.Error(ctx, "failed to record crm sync", err)
		}
	}

	return errors.Join(pushErrs...)
}
