// Package processor tracks page engagement: view counts and per-page
// submission stats.
package processor

import (
	"context"
	"errors"

	"github.com/derintolu/frs-lead-pages-sub002/internal/attribution"
	"github.com/derintolu/frs-lead-pages-sub002/internal/observability"
	"github.com/derintolu/frs-lead-pages-sub002/internal/store"

	"github.com/google/uuid"
)

// Store defines the database operations required by AnalyticsProcessor
type Store interface {
	GetLeadPageByID(ctx context.Context, pageID uuid.UUID) (store.LeadPage, error)
	IncrementPageViews(ctx context.Context, pageID uuid.UUID) error
	CountLeadsByPage(ctx context.Context, pageID uuid.UUID) (int, error)
}

type AnalyticsProcessor struct {
	store  Store
	logger *observability.Logger
}

func New(store Store, logger *observability.Logger) AnalyticsProcessor {
	return AnalyticsProcessor{store: store, logger: logger}
}

// RecordView increments a page's advisory view counter.
func (p *AnalyticsProcessor) RecordView(ctx context.Context, pageID uuid.UUID) error {
	if err := p.store.IncrementPageViews(ctx, pageID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return attribution.ErrPageNotFound
		}
		return err
	}
	return nil
}

// PageStats is the engagement summary for one page. Submissions is the
// authoritative count from the leads table; SubmissionsCounter is the
// advisory display counter, which may drift.
type PageStats struct {
	PageID             uuid.UUID `json:"page_id"`
	PageType           string    `json:"page_type"`
	Views              int       `json:"views"`
	Submissions        int       `json:"submissions"`
	SubmissionsCounter int       `json:"submissions_counter"`
	ConversionRate     float64   `json:"conversion_rate"`
}

// Stats returns the engagement summary for a page.
func (p *AnalyticsProcessor) Stats(ctx context.Context, pageID uuid.UUID) (PageStats, error) {
	page, err := p.store.GetLeadPageByID(ctx, pageID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return PageStats{}, attribution.ErrPageNotFound
		}
		return PageStats{}, err
	}

	submissions, err := p.store.CountLeadsByPage(ctx, pageID)
	if err != nil {
		return PageStats{}, err
	}

	stats := PageStats{
		PageID:             page.ID,
		PageType:           page.PageType,
		Views:              page.Views,
		Submissions:        submissions,
		SubmissionsCounter: page.Submissions,
	}
	if page.Views > 0 {
		stats.ConversionRate = float64(submissions) / float64(page.Views)
	}
	return stats, nil
}
