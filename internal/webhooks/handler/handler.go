package handler

import (
	"net/http"

	"github.com/derintolu/frs-lead-pages-sub002/internal/apierrors"
	"github.com/derintolu/frs-lead-pages-sub002/internal/observability"
	"github.com/derintolu/frs-lead-pages-sub002/internal/webhooks"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *webhooks.Service
	logger  *observability.Logger
}

func New(service *webhooks.Service, logger *observability.Logger) Handler {
	return Handler{service: service, logger: logger}
}

// HandleListFailed lists the queued failed deliveries.
func (h *Handler) HandleListFailed(c *gin.Context) {
	ctx := c.Request.Context()

	failed, err := h.service.Failed(ctx)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"failed": failed, "count": len(failed)})
}

// HandleRetry runs a retry pass over the failure queue and reports the
// outcome.
func (h *Handler) HandleRetry(c *gin.Context) {
	ctx := c.Request.Context()

	report, err := h.service.RetryAll(ctx)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// HandleClear empties the failure queue without retrying.
func (h *Handler) HandleClear(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.service.Clear(ctx); err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cleared": true})
}
