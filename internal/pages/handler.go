// Package pages manages lead page records for the dashboard.
package pages

import (
	"context"
	"net/http"

	"github.com/derintolu/frs-lead-pages-sub002/internal/apierrors"
	"github.com/derintolu/frs-lead-pages-sub002/internal/observability"
	"github.com/derintolu/frs-lead-pages-sub002/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Store defines the database operations required by the pages handler
type Store interface {
	CreateLeadPage(ctx context.Context, params store.CreateLeadPageParams) (store.LeadPage, error)
	GetLeadPageByID(ctx context.Context, pageID uuid.UUID) (store.LeadPage, error)
	DeleteLeadPage(ctx context.Context, pageID uuid.UUID) error
}

type Handler struct {
	store  Store
	logger *observability.Logger
}

func New(store Store, logger *observability.Logger) Handler {
	return Handler{store: store, logger: logger}
}

type CreatePageRequest struct {
	PageType      string                 `json:"page_type" binding:"required,oneof=open_house customer_spotlight special_event mortgage_calculator"`
	Headline      string                 `json:"headline" binding:"required"`
	Subheadline   *string                `json:"subheadline"`
	HeroImageURL  *string                `json:"hero_image_url"`
	Meta          map[string]interface{} `json:"meta"`
	LoanOfficerID *uuid.UUID             `json:"loan_officer_id"`
	RealtorID     *uuid.UUID             `json:"realtor_id"`
}

// HandleCreate registers a new lead page.
func (h *Handler) HandleCreate(c *gin.Context) {
	ctx := c.Request.Context()

	var req CreatePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}

	page, err := h.store.CreateLeadPage(ctx, store.CreateLeadPageParams{
		PageType:      req.PageType,
		Headline:      req.Headline,
		Subheadline:   req.Subheadline,
		HeroImageURL:  req.HeroImageURL,
		Meta:          store.JSONB(req.Meta),
		LoanOfficerID: req.LoanOfficerID,
		RealtorID:     req.RealtorID,
	})
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, page)
}

// HandleGet returns a single lead page.
func (h *Handler) HandleGet(c *gin.Context) {
	ctx := c.Request.Context()

	pageID, err := uuid.Parse(c.Param("page_id"))
	if err != nil {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeInvalidInput, "Invalid page id"))
		return
	}

	page, err := h.store.GetLeadPageByID(ctx, pageID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// HandleDelete soft-deletes a lead page. Captured leads survive the page.
func (h *Handler) HandleDelete(c *gin.Context) {
	ctx := c.Request.Context()

	pageID, err := uuid.Parse(c.Param("page_id"))
	if err != nil {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeInvalidInput, "Invalid page id"))
		return
	}

	if err := h.store.DeleteLeadPage(ctx, pageID); err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
