package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// CreateLeadParams represents parameters for creating a lead
type CreateLeadParams struct {
	PageID   uuid.UUID
	PageType string

	FullName string
	Email    string
	Phone    string

	WorkingWithAgent        *bool
	PreApproved             *bool
	InterestedInPreApproval *bool
	Timeframe               *string
	Comments                *string

	LoanOfficerID *uuid.UUID
	RealtorID     *uuid.UUID

	Source      string
	FormEntryID *string
}

const leadColumns = `id, page_id, page_type, full_name, email, phone, working_with_agent, pre_approved, interested_in_pre_approval, timeframe, comments, loan_officer_id, realtor_id, status, source, form_entry_id, submitted_at, created_at, updated_at`

const sqlCreateLead = `
INSERT INTO leads (
	page_id, page_type, full_name, email, phone,
	working_with_agent, pre_approved, interested_in_pre_approval, timeframe, comments,
	loan_officer_id, realtor_id, source, form_entry_id
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
RETURNING ` + leadColumns + `
`

// CreateLead creates a new lead record
func (s *Store) CreateLead(ctx context.Context, params CreateLeadParams) (Lead, error) {
	var lead Lead
	err := s.db.GetContext(ctx, &lead, sqlCreateLead,
		params.PageID,
		params.PageType,
		params.FullName,
		params.Email,
		params.Phone,
		params.WorkingWithAgent,
		params.PreApproved,
		params.InterestedInPreApproval,
		params.Timeframe,
		params.Comments,
		params.LoanOfficerID,
		params.RealtorID,
		params.Source,
		params.FormEntryID)
	if err != nil {
		s.logger.Error(ctx, "failed to create lead", err)
		return Lead{}, fmt.Errorf("failed to create lead: %w", err)
	}
	return lead, nil
}

const sqlGetLeadByID = `
SELECT ` + leadColumns + `
FROM leads
WHERE id = $1
`

// GetLeadByID retrieves a lead by ID
func (s *Store) GetLeadByID(ctx context.Context, leadID uuid.UUID) (Lead, error) {
	var lead Lead
	err := s.db.GetContext(ctx, &lead, sqlGetLeadByID, leadID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Lead{}, ErrNotFound
		}
		return Lead{}, fmt.Errorf("failed to get lead: %w", err)
	}
	return lead, nil
}

// ListLeadsParams represents filters for listing leads. Nil filters are
// ignored.
type ListLeadsParams struct {
	PageID        *uuid.UUID
	LoanOfficerID *uuid.UUID
	RealtorID     *uuid.UUID
	Status        *string
	Limit         int
	Offset        int
}

// ListLeads returns leads matching the filters, newest-first, plus the total
// match count.
func (s *Store) ListLeads(ctx context.Context, params ListLeadsParams) ([]Lead, int, error) {
	where, args := buildLeadFilters(params)

	countQuery := "SELECT COUNT(*) FROM leads" + where
	var total int
	if err := s.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count leads: %w", err)
	}

	query := "SELECT " + leadColumns + " FROM leads" + where + " ORDER BY submitted_at DESC"
	if params.Limit > 0 {
		args = append(args, params.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if params.Offset > 0 {
		args = append(args, params.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	leads := []Lead{}
	if err := s.db.SelectContext(ctx, &leads, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list leads: %w", err)
	}
	return leads, total, nil
}

func buildLeadFilters(params ListLeadsParams) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	add := func(clause string, value interface{}) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if params.PageID != nil {
		add("page_id = $%d", *params.PageID)
	}
	if params.LoanOfficerID != nil {
		add("loan_officer_id = $%d", *params.LoanOfficerID)
	}
	if params.RealtorID != nil {
		add("realtor_id = $%d", *params.RealtorID)
	}
	if params.Status != nil {
		add("status = $%d", *params.Status)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

const sqlCountLeadsByPage = `
SELECT COUNT(*) FROM leads WHERE page_id = $1
`

// CountLeadsByPage returns the authoritative submission count for a page.
func (s *Store) CountLeadsByPage(ctx context.Context, pageID uuid.UUID) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, sqlCountLeadsByPage, pageID); err != nil {
		return 0, fmt.Errorf("failed to count leads by page: %w", err)
	}
	return count, nil
}

const sqlUpdateLeadStatus = `
UPDATE leads SET status = $2, updated_at = NOW()
WHERE id = $1
RETURNING ` + leadColumns + `
`

// UpdateLeadStatus updates a lead's review status
func (s *Store) UpdateLeadStatus(ctx context.Context, leadID uuid.UUID, status string) (Lead, error) {
	var lead Lead
	err := s.db.GetContext(ctx, &lead, sqlUpdateLeadStatus, leadID, status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Lead{}, ErrNotFound
		}
		return Lead{}, fmt.Errorf("failed to update lead status: %w", err)
	}
	return lead, nil
}

const sqlDeleteLead = `
DELETE FROM leads WHERE id = $1
`

// DeleteLead removes a lead. Deletion is an explicit, authorized action and
// is never performed automatically.
func (s *Store) DeleteLead(ctx context.Context, leadID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, sqlDeleteLead, leadID)
	if err != nil {
		return fmt.Errorf("failed to delete lead: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
