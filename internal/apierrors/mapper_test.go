package apierrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/derintolu/frs-lead-pages-sub002/internal/attribution"
	authProcessor "github.com/derintolu/frs-lead-pages-sub002/internal/auth/processor"
	"github.com/derintolu/frs-lead-pages-sub002/internal/crm"
	leadsProcessor "github.com/derintolu/frs-lead-pages-sub002/internal/leads/processor"
	"github.com/derintolu/frs-lead-pages-sub002/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"page not found", attribution.ErrPageNotFound, http.StatusNotFound, CodePageNotFound},
		{"name required", leadsProcessor.ErrNameRequired, http.StatusBadRequest, CodeInvalidInput},
		{"email invalid", leadsProcessor.ErrEmailInvalid, http.StatusBadRequest, CodeInvalidInput},
		{"phone required", leadsProcessor.ErrPhoneRequired, http.StatusBadRequest, CodeInvalidInput},
		{"invalid status", leadsProcessor.ErrInvalidStatus, http.StatusBadRequest, CodeInvalidStatus},
		{"lead not found", leadsProcessor.ErrLeadNotFound, http.StatusNotFound, CodeLeadNotFound},
		{"email does not exist", authProcessor.ErrEmailDoesNotExist, http.StatusNotFound, CodeEmailNotFound},
		{"incorrect password", authProcessor.ErrIncorrectPassword, http.StatusUnauthorized, CodeUnauthorized},
		{"unknown provider", crm.ErrUnknownProvider, http.StatusBadRequest, CodeUnknownProvider},
		{"connection not found", crm.ErrConnectionNotFound, http.StatusNotFound, CodeConnectionNotFound},
		{"credential rejected", crm.ErrCredentialRejected, http.StatusBadRequest, CodeCredentialRejected},
		{"provider unavailable", crm.ErrProviderUnavailable, http.StatusServiceUnavailable, CodeProviderUnavailable},
		{"store not found", store.ErrNotFound, http.StatusNotFound, CodeNotFound},
		{"unknown error", errors.New("something broke"), http.StatusInternalServerError, CodeInternalError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			apiErr := MapError(tc.err)
			require.NotNil(t, apiErr)
			assert.Equal(t, tc.wantStatus, apiErr.StatusCode)
			assert.Equal(t, tc.wantCode, apiErr.Code)
		})
	}
}

func TestMapError_WrappedSentinel(t *testing.T) {
	wrapped := fmt.Errorf("submit failed: %w", leadsProcessor.ErrEmailInvalid)

	apiErr := MapError(wrapped)

	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, CodeInvalidInput, apiErr.Code)
}

func TestMapError_PassesThroughAPIError(t *testing.T) {
	original := TooManyRequests("Too many submissions, slow down")

	apiErr := MapError(original)

	assert.Same(t, original, apiErr)
}

func TestMapError_Nil(t *testing.T) {
	assert.Nil(t, MapError(nil))
}

func TestInternalError_SanitizesMessage(t *testing.T) {
	cause := errors.New("pq: connection refused on 10.0.0.5:5432")

	apiErr := InternalError(cause)

	assert.NotContains(t, apiErr.Message, "10.0.0.5")
	assert.ErrorIs(t, apiErr, cause)
}
