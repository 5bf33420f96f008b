package attribution

import (
	"context"
	"errors"

	"github.com/derintolu/frs-lead-pages-sub002/internal/observability"
	"github.com/derintolu/frs-lead-pages-sub002/internal/store"

	"github.com/google/uuid"
)

var ErrPageNotFound = errors.New("lead page not found")

// PageStore defines the database operations required by the Resolver
type PageStore interface {
	GetLeadPageByID(ctx context.Context, pageID uuid.UUID) (store.LeadPage, error)
}

// Attribution is the resolved identity a lead is credited to. LoanOfficerID
// and RealtorID may individually be nil: an unattributed page is a valid
// terminal state, and downstream consumers fall back to generic behavior.
type Attribution struct {
	PageID        uuid.UUID
	PageType      string
	LoanOfficerID *uuid.UUID
	RealtorID     *uuid.UUID
}

// Resolver loads page attribution for the submission pipeline. Read-only.
type Resolver struct {
	store  PageStore
	logger *observability.Logger
}

func New(store PageStore, logger *observability.Logger) Resolver {
	return Resolver{store: store, logger: logger}
}

// Resolve returns the attribution for a page id, or ErrPageNotFound when the
// id does not reference an existing page.
func (r *Resolver) Resolve(ctx context.Context, pageID uuid.UUID) (Attribution, error) {
	page, err := r.store.GetLeadPageByID(ctx, pageID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Attribution{}, ErrPageNotFound
		}
		r.logger.Error(ctx, "failed to resolve page attribution", err)
		return Attribution{}, err
	}

	return Attribution{
		PageID:        page.ID,
		PageType:      page.PageType,
		LoanOfficerID: page.LoanOfficerID,
		RealtorID:     page.RealtorID,
	}, nil
}
