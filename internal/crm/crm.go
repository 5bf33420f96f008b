// Package crm pushes captured leads into external CRMs under per-actor
// connections and manages the connect/disconnect/test lifecycle.
package crm

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrUnknownProvider     = errors.New("unknown crm provider")
	ErrConnectionNotFound  = errors.New("crm connection not found")
	ErrCredentialRejected  = errors.New("crm credential rejected")
	ErrProviderUnavailable = errors.New("crm provider unavailable")
)

// Contact is the provider-neutral shape of a lead pushed to a CRM.
type Contact struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Tags      []string
	Source    string
}

// Provider is one external CRM integration. UpsertContact must be
// create-or-update by email: resubmission by the same visitor updates the
// existing contact rather than duplicating it.
type Provider interface {
	Name() string
	ValidateKey(ctx context.Context, apiKey string) error
	UpsertContact(ctx context.Context, apiKey string, contact Contact) error
}

// baseTag is stamped on every lead pushed to a CRM regardless of page type.
const baseTag = "frs-lead"

// BuildTags derives the CRM tag set for a lead: the base tag, a
// page-type-derived tag, and conditional qualifiers. The qualifier tags are
// only added on an explicit false answer; an unanswered question adds
// nothing.
func BuildTags(pageType string, preApproved, workingWithAgent *bool) []string {
	tags := []string{baseTag, strings.ReplaceAll(pageType, "_", "-") + "-lead"}
	if preApproved != nil && !*preApproved {
		tags = append(tags, "not-pre-approved")
	}
	if workingWithAgent != nil && !*workingWithAgent {
		tags = append(tags, "no-agent")
	}
	return tags
}

// SplitName splits a full name into first name (first whitespace-delimited
// token) and last name (remainder).
func SplitName(fullName string) (string, string) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return "", ""
	}
	parts := strings.Fields(fullName)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// MaskKey renders a credential for display without echoing it in plaintext.
func MaskKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}
