package processor

import (
	"context"
	"time"

	"github.com/derintolu/frs-lead-pages-sub002/internal/observability"
	"github.com/derintolu/frs-lead-pages-sub002/internal/store"

	"github.com/google/uuid"
)

// EntryCreator is the form backend surface the preferred canonical writer
// needs.
type EntryCreator interface {
	CreateEntry(ctx context.Context, params store.CreateLeadParams) (string, error)
}

// LeadCreator is the local store surface the canonical writers need.
type LeadCreator interface {
	CreateLead(ctx context.Context, params store.CreateLeadParams) (store.Lead, error)
}

// FormBackendWriter stores the submission in the form backend and mirrors it
// into the local leads table. The backend entry is the canonical record; the
// mirror keeps dashboards and fan-out working from local data.
type FormBackendWriter struct {
	backend EntryCreator
	store   LeadCreator
	logger  *observability.Logger
}

func NewFormBackendWriter(backend EntryCreator, store LeadCreator, logger *observability.Logger) *FormBackendWriter {
	return &FormBackendWriter{backend: backend, store: store, logger: logger}
}

func (w *FormBackendWriter) Name() string {
	return store.LeadSourceFormBackend
}

func (w *FormBackendWriter) Store(ctx context.Context, params store.CreateLeadParams) (store.Lead, error) {
	entryID, err := w.backend.CreateEntry(ctx, params)
	if err != nil {
		return store.Lead{}, err
	}

	params.Source = store.LeadSourceFormBackend
	params.FormEntryID = &entryID

	lead, err := w.store.CreateLead(ctx, params)
	if err != nil {
		// The canonical write already succeeded; a failed mirror must not
		// reject the visitor. The lead is reconstructed in memory so fan-out
		// still runs.
		w.logger.Error(observability.WithFields(ctx,
			observability.Field{Key: "entry_id", Value: entryID}),
			"failed to mirror form backend entry locally", err)
		return synthesizeLead(params), nil
	}
	return lead, nil
}

// synthesizeLead builds an in-memory lead from the create params when the
// mirror write fails.
func synthesizeLead(params store.CreateLeadParams) store.Lead {
	now := time.Now().UTC()
	return store.Lead{
		ID:                      uuid.New(),
		PageID:                  params.PageID,
		PageType:                params.PageType,
		FullName:                params.FullName,
		Email:                   params.Email,
		Phone:                   params.Phone,
		WorkingWithAgent:        params.WorkingWithAgent,
		PreApproved:             params.PreApproved,
		InterestedInPreApproval: params.InterestedInPreApproval,
		Timeframe:               params.Timeframe,
		Comments:                params.Comments,
		LoanOfficerID:           params.LoanOfficerID,
		RealtorID:               params.RealtorID,
		Status:                  store.LeadStatusNew,
		Source:                  params.Source,
		FormEntryID:             params.FormEntryID,
		SubmittedAt:             now,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
}

// DirectWriter stores the submission straight into the local leads table. It
// is the fallback canonical write when the form backend is absent or down,
// and never reports itself unavailable.
type DirectWriter struct {
	store  LeadCreator
	logger *observability.Logger
}

func NewDirectWriter(store LeadCreator, logger *observability.Logger) *DirectWriter {
	return &DirectWriter{store: store, logger: logger}
}

func (w *DirectWriter) Name() string {
	return store.LeadSourceDirect
}

func (w *DirectWriter) Store(ctx context.Context, params store.CreateLeadParams) (store.Lead, error) {
	params.Source = store.LeadSourceDirect
	params.FormEntryID = nil
	return w.store.CreateLead(ctx, params)
}
