package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// CreateLeadPageParams represents parameters for creating a lead page
type CreateLeadPageParams struct {
	PageType      string
	Headline      string
	Subheadline   *string
	HeroImageURL  *string
	Meta          JSONB
	LoanOfficerID *uuid.UUID
	RealtorID     *uuid.UUID
}

const leadPageColumns = `id, page_type, headline, subheadline, hero_image_url, meta, loan_officer_id, realtor_id, views, submissions, created_at, updated_at, deleted_at`

const sqlCreateLeadPage = `
INSERT INTO lead_pages (page_type, headline, subheadline, hero_image_url, meta, loan_officer_id, realtor_id)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + leadPageColumns + `
`

// CreateLeadPage creates a new lead page
func (s *Store) CreateLeadPage(ctx context.Context, params CreateLeadPageParams) (LeadPage, error) {
	var page LeadPage
	err := s.db.GetContext(ctx, &page, sqlCreateLeadPage,
		params.PageType,
		params.Headline,
		params.Subheadline,
		params.HeroImageURL,
		params.Meta,
		params.LoanOfficerID,
		params.RealtorID)
	if err != nil {
		s.logger.Error(ctx, "failed to create lead page", err)
		return LeadPage{}, fmt.Errorf("failed to create lead page: %w", err)
	}
	return page, nil
}

const sqlGetLeadPageByID = `
SELECT ` + leadPageColumns + `
FROM lead_pages
WHERE id = $1 AND deleted_at IS NULL
`

// GetLeadPageByID retrieves a lead page by ID
func (s *Store) GetLeadPageByID(ctx context.Context, pageID uuid.UUID) (LeadPage, error) {
	var page LeadPage
	err := s.db.GetContext(ctx, &page, sqlGetLeadPageByID, pageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return LeadPage{}, ErrNotFound
		}
		return LeadPage{}, fmt.Errorf("failed to get lead page: %w", err)
	}
	return page, nil
}

const sqlIncrementPageViews = `
UPDATE lead_pages SET views = views + 1, updated_at = NOW()
WHERE id = $1 AND deleted_at IS NULL
`

// IncrementPageViews bumps the advisory view counter for a page. The relative
// increment keeps concurrent bumps additive without any row lock held by the
// caller.
func (s *Store) IncrementPageViews(ctx context.Context, pageID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, sqlIncrementPageViews, pageID)
	if err != nil {
		return fmt.Errorf("failed to increment page views: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

const sqlIncrementPageSubmissions = `
UPDATE lead_pages SET submissions = submissions + 1, updated_at = NOW()
WHERE id = $1 AND deleted_at IS NULL
`

// IncrementPageSubmissions bumps the advisory submission counter for a page.
// The counter is display data and is not transactionally tied to lead
// creation; readers tolerate drift against the authoritative lead count.
func (s *Store) IncrementPageSubmissions(ctx context.Context, pageID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, sqlIncrementPageSubmissions, pageID)
	if err != nil {
		return fmt.Errorf("failed to increment page submissions: %w", err)
	}
	return nil
}

const sqlDeleteLeadPage = `
UPDATE lead_pages SET deleted_at = NOW(), updated_at = NOW()
WHERE id = $1 AND deleted_at IS NULL
`

// DeleteLeadPage soft-deletes a lead page. Leads attributed to the page are
// intentionally left in place; they remain queryable by a page id that no
// longer resolves.
func (s *Store) DeleteLeadPage(ctx context.Context, pageID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, sqlDeleteLeadPage, pageID)
	if err != nil {
		return fmt.Errorf("failed to delete lead page: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
