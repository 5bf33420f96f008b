package handler

import (
	"net/http"

	"github.com/derintolu/frs-lead-pages-sub002/internal/analytics/processor"
	"github.com/derintolu/frs-lead-pages-sub002/internal/apierrors"
	"github.com/derintolu/frs-lead-pages-sub002/internal/observability"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	processor processor.AnalyticsProcessor
	logger    *observability.Logger
}

func New(processor processor.AnalyticsProcessor, logger *observability.Logger) Handler {
	return Handler{
		processor: processor,
		logger:    logger,
	}
}

// HandleRecordView increments a page's view counter.
func (h *Handler) HandleRecordView(c *gin.Context) {
	ctx := c.Request.Context()

	pageID, err := uuid.Parse(c.Param("page_id"))
	if err != nil {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeInvalidInput, "Invalid page id"))
		return
	}

	if err := h.processor.RecordView(ctx, pageID); err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// HandleGetStats returns the engagement summary for a page.
func (h *Handler) HandleGetStats(c *gin.Context) {
	ctx := c.Request.Context()

	pageID, err := uuid.Parse(c.Param("page_id"))
	if err != nil {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeInvalidInput, "Invalid page id"))
		return
	}

	stats, err := h.processor.Stats(ctx, pageID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
