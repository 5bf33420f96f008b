// Package portal exposes the cross-portal sync surface. The companion portal
// authenticates with a shared API key rather than a JWT.
package portal

import (
	"crypto/subtle"
	"net/http"

	"github.com/derintolu/frs-lead-pages-sub002/internal/apierrors"
	"github.com/derintolu/frs-lead-pages-sub002/internal/observability"

	"github.com/gin-gonic/gin"
)

const apiKeyHeader = "X-FRS-API-Key"

type Handler struct {
	syncAPIKey string
	logger     *observability.Logger
}

func New(syncAPIKey string, logger *observability.Logger) Handler {
	return Handler{syncAPIKey: syncAPIKey, logger: logger}
}

// HandlePing confirms sync connectivity for the companion portal. The key
// comparison is constant-time.
func (h *Handler) HandlePing(c *gin.Context) {
	provided := c.GetHeader(apiKeyHeader)
	if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(h.syncAPIKey)) != 1 {
		h.logger.Warn(c.Request.Context(), "portal ping with missing or invalid api key")
		apierrors.RespondWithError(c, apierrors.Unauthorized("Invalid or missing API key"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
