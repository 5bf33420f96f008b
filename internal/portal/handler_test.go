package portal

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/derintolu/frs-lead-pages-sub002/internal/observability"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func pingRequest(t *testing.T, h Handler, apiKey string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/sync/ping", nil)
	if apiKey != "" {
		c.Request.Header.Set("X-FRS-API-Key", apiKey)
	}
	h.HandlePing(c)
	return w
}

func TestHandlePing(t *testing.T) {
	h := New("portal-sync-key", observability.NewLogger())

	w := pingRequest(t, h, "portal-sync-key")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
}

func TestHandlePing_WrongKey(t *testing.T) {
	h := New("portal-sync-key", observability.NewLogger())

	w := pingRequest(t, h, "wrong-key")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandlePing_MissingKey(t *testing.T) {
	h := New("portal-sync-key", observability.NewLogger())

	w := pingRequest(t, h, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
