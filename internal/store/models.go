package store

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// JSONB is a custom type for JSONB fields
type JSONB map[string]interface{}

// Value implements the driver.Valuer interface for JSONB
func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements the sql.Scanner interface for JSONB
func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("incompatible type for JSONB")
	}

	if len(bytes) == 0 || string(bytes) == "null" {
		*j = make(JSONB)
		return nil
	}

	result := make(JSONB)
	err := json.Unmarshal(bytes, &result)
	if err != nil {
		return err
	}
	*j = result
	return nil
}

// Page types for lead pages
const (
	PageTypeOpenHouse          = "open_house"
	PageTypeCustomerSpotlight  = "customer_spotlight"
	PageTypeSpecialEvent       = "special_event"
	PageTypeMortgageCalculator = "mortgage_calculator"
)

// ValidPageType reports whether t is one of the four supported page types.
func ValidPageType(t string) bool {
	switch t {
	case PageTypeOpenHouse, PageTypeCustomerSpotlight, PageTypeSpecialEvent, PageTypeMortgageCalculator:
		return true
	}
	return false
}

// Lead statuses
const (
	LeadStatusNew       = "new"
	LeadStatusUnread    = "unread"
	LeadStatusRead      = "read"
	LeadStatusContacted = "contacted"
	LeadStatusConverted = "converted"
)

// ValidLeadStatus reports whether s is a known lead status.
func ValidLeadStatus(s string) bool {
	switch s {
	case LeadStatusNew, LeadStatusUnread, LeadStatusRead, LeadStatusContacted, LeadStatusConverted:
		return true
	}
	return false
}

// Canonical-write paths
const (
	LeadSourceFormBackend = "form_backend"
	LeadSourceDirect      = "direct"
)

// Actor roles
const (
	RoleAdministrator = "administrator"
	RoleLoanOfficer   = "loan_officer"
	RoleRealtor       = "realtor"
)

// Actor is a dashboard user: a loan officer, realtor, or administrator.
type Actor struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Phone        *string   `db:"phone" json:"phone,omitempty"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// LeadPage is a configured landing page. Type-specific fields (property
// address, event venue, ...) live in Meta. The views and submissions counters
// are advisory display data; the authoritative submission count is a query
// against the leads table.
type LeadPage struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	PageType      string     `db:"page_type" json:"page_type"`
	Headline      string     `db:"headline" json:"headline"`
	Subheadline   *string    `db:"subheadline" json:"subheadline,omitempty"`
	HeroImageURL  *string    `db:"hero_image_url" json:"hero_image_url,omitempty"`
	Meta          JSONB      `db:"meta" json:"meta,omitempty"`
	LoanOfficerID *uuid.UUID `db:"loan_officer_id" json:"loan_officer_id,omitempty"`
	RealtorID     *uuid.UUID `db:"realtor_id" json:"realtor_id,omitempty"`
	Views         int        `db:"views" json:"views"`
	Submissions   int        `db:"submissions" json:"submissions"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt     *time.Time `db:"deleted_at" json:"-"`
}

// Lead is a captured visitor submission.
type Lead struct {
	ID       uuid.UUID `db:"id" json:"id"`
	PageID   uuid.UUID `db:"page_id" json:"page_id"`
	PageType string    `db:"page_type" json:"page_type"`

	FullName string `db:"full_name" json:"full_name"`
	Email    string `db:"email" json:"email"`
	Phone    string `db:"phone" json:"phone"`

	WorkingWithAgent        *bool   `db:"working_with_agent" json:"working_with_agent,omitempty"`
	PreApproved             *bool   `db:"pre_approved" json:"pre_approved,omitempty"`
	InterestedInPreApproval *bool   `db:"interested_in_pre_approval" json:"interested_in_pre_approval,omitempty"`
	Timeframe               *string `db:"timeframe" json:"timeframe,omitempty"`
	Comments                *string `db:"comments" json:"comments,omitempty"`

	LoanOfficerID *uuid.UUID `db:"loan_officer_id" json:"loan_officer_id,omitempty"`
	RealtorID     *uuid.UUID `db:"realtor_id" json:"realtor_id,omitempty"`

	Status string `db:"status" json:"status"`
	// Source records which canonical-write path stored the lead.
	Source string `db:"source" json:"source"`
	// FormEntryID is the opaque id returned by the form backend, when it
	// serviced the canonical write.
	FormEntryID *string `db:"form_entry_id" json:"form_entry_id,omitempty"`

	SubmittedAt time.Time `db:"submitted_at" json:"submitted_at"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// FailedDelivery is a webhook delivery that did not succeed and awaits an
// operator-triggered retry.
type FailedDelivery struct {
	ID            uuid.UUID `db:"id" json:"id"`
	LeadID        uuid.UUID `db:"lead_id" json:"lead_id"`
	Destination   string    `db:"destination" json:"destination"`
	Payload       JSONB     `db:"payload" json:"payload"`
	Reason        string    `db:"reason" json:"reason"`
	RetryCount    int       `db:"retry_count" json:"retry_count"`
	FirstFailedAt time.Time `db:"first_failed_at" json:"first_failed_at"`
}

// CRM providers
const (
	CrmProviderFollowUpBoss = "followupboss"
	CrmProviderFluentCRM    = "fluentcrm"
)

// CrmConnection links an actor to an external CRM. At most one active
// connection exists per (actor, provider).
type CrmConnection struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	ActorID      uuid.UUID  `db:"actor_id" json:"actor_id"`
	Provider     string     `db:"provider" json:"provider"`
	APIKey       string     `db:"api_key" json:"-"`
	ConnectedAt  time.Time  `db:"connected_at" json:"connected_at"`
	LastSyncedAt *time.Time `db:"last_synced_at" json:"last_synced_at,omitempty"`
	SyncedCount  int        `db:"synced_count" json:"synced_count"`
}
