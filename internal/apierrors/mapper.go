package apierrors

import (
	"errors"

	"github.com/derintolu/frs-lead-pages-sub002/internal/attribution"
	authProcessor "github.com/derintolu/frs-lead-pages-sub002/internal/auth/processor"
	"github.com/derintolu/frs-lead-pages-sub002/internal/crm"
	leadsProcessor "github.com/derintolu/frs-lead-pages-sub002/internal/leads/processor"
	"github.com/derintolu/frs-lead-pages-sub002/internal/store"
)

// MapError converts domain/processor errors to APIErrors. All error mapping
// lives here so the HTTP surface stays consistent.
//
// Only Validation and NotFound conditions propagate from the visitor-facing
// submit path; destination failures are absorbed by the orchestrator before
// they ever reach a handler.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}

	// Already an APIError
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	// Attribution / page resolution
	case errors.Is(err, attribution.ErrPageNotFound):
		return NotFound(CodePageNotFound, "Lead page not found")

	// Lead submission validation
	case errors.Is(err, leadsProcessor.ErrNameRequired):
		return BadRequest(CodeInvalidInput, "Name is required")

	case errors.Is(err, leadsProcessor.ErrEmailInvalid):
		return BadRequest(CodeInvalidInput, "A valid email address is required")

	case errors.Is(err, leadsProcessor.ErrPhoneRequired):
		return BadRequest(CodeInvalidInput, "Phone number is required")

	case errors.Is(err, leadsProcessor.ErrInvalidStatus):
		return BadRequest(CodeInvalidStatus, "Invalid lead status. Valid values: new, unread, read, contacted, converted")

	case errors.Is(err, leadsProcessor.ErrLeadNotFound):
		return NotFound(CodeLeadNotFound, "Lead not found")

	// Auth
	case errors.Is(err, authProcessor.ErrEmailDoesNotExist):
		return NotFound(CodeEmailNotFound, "Email does not exist")

	case errors.Is(err, authProcessor.ErrIncorrectPassword):
		return Unauthorized("Invalid email or password")

	// CRM connections
	case errors.Is(err, crm.ErrUnknownProvider):
		return BadRequest(CodeUnknownProvider, "Unknown CRM provider. Valid values: followupboss, fluentcrm")

	case errors.Is(err, crm.ErrConnectionNotFound):
		return NotFound(CodeConnectionNotFound, "No CRM connection for this provider")

	case errors.Is(err, crm.ErrCredentialRejected):
		return BadRequest(CodeCredentialRejected, "The CRM provider rejected this API key")

	case errors.Is(err, crm.ErrProviderUnavailable):
		return ServiceUnavailable(CodeProviderUnavailable, "The CRM provider is temporarily unavailable. Please try again later.", err)

	// Store
	case errors.Is(err, store.ErrNotFound):
		return NotFound(CodeNotFound, "Resource not found")

	default:
		return InternalError(err)
	}
}
