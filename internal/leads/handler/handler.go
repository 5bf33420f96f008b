package handler

import (
	"net/http"
	"strconv"

	"github.com/derintolu/frs-lead-pages-sub002/internal/apierrors"
	"github.com/derintolu/frs-lead-pages-sub002/internal/auth"
	"github.com/derintolu/frs-lead-pages-sub002/internal/formbackend"
	"github.com/derintolu/frs-lead-pages-sub002/internal/leads/processor"
	"github.com/derintolu/frs-lead-pages-sub002/internal/observability"
	"github.com/derintolu/frs-lead-pages-sub002/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	leadProcessor processor.LeadProcessor
	formBackend   *formbackend.Client
	logger        *observability.Logger
}

func New(leadProcessor processor.LeadProcessor, formBackend *formbackend.Client, logger *observability.Logger) Handler {
	return Handler{
		leadProcessor: leadProcessor,
		formBackend:   formBackend,
		logger:        logger,
	}
}

// SubmitRequest is a visitor's form submission. Beyond the three required
// contact fields everything is optional.
type SubmitRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`

	WorkingWithAgent        *bool   `json:"working_with_agent"`
	PreApproved             *bool   `json:"pre_approved"`
	InterestedInPreApproval *bool   `json:"interested_in_pre_approval"`
	Timeframe               *string `json:"timeframe"`
	Comments                *string `json:"comments"`
}

// HandleSubmit captures a visitor submission for a lead page.
func (h *Handler) HandleSubmit(c *gin.Context) {
	ctx := c.Request.Context()

	pageID, err := uuid.Parse(c.Param("page_id"))
	if err != nil {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeInvalidInput, "Invalid page id"))
		return
	}

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}

	lead, err := h.leadProcessor.Submit(ctx, processor.SubmitParams{
		PageID:                  pageID,
		FullName:                req.FullName,
		Email:                   req.Email,
		Phone:                   req.Phone,
		WorkingWithAgent:        req.WorkingWithAgent,
		PreApproved:             req.PreApproved,
		InterestedInPreApproval: req.InterestedInPreApproval,
		Timeframe:               req.Timeframe,
		Comments:                req.Comments,
	})
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "Thank you! We'll be in touch shortly.",
		"submission_id": lead.ID,
	})
}

// HandleList lists captured leads visible to the calling actor.
func (h *Handler) HandleList(c *gin.Context) {
	ctx := c.Request.Context()

	actor, ok := auth.ActorFromContext(c)
	if !ok {
		apierrors.RespondWithError(c, apierrors.Unauthorized("Authorization token is missing or invalid"))
		return
	}

	params := processor.ListParams{
		Limit:  parseIntQuery(c, "limit", 50),
		Offset: parseIntQuery(c, "offset", 0),
	}
	if raw := c.Query("page_id"); raw != "" {
		pageID, err := uuid.Parse(raw)
		if err != nil {
			apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeInvalidInput, "Invalid page id"))
			return
		}
		params.PageID = &pageID
	}
	if status := c.Query("status"); status != "" {
		params.Status = &status
	}

	list, err := h.leadProcessor.List(ctx, actor, params)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    list.Leads,
		"total":   list.Total,
	})
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// HandleUpdateStatus moves a lead to a new review status.
func (h *Handler) HandleUpdateStatus(c *gin.Context) {
	ctx := c.Request.Context()

	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeInvalidInput, "Invalid lead id"))
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}

	lead, err := h.leadProcessor.UpdateStatus(ctx, leadID, req.Status)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, lead)
}

// HandleDelete permanently removes a lead.
func (h *Handler) HandleDelete(c *gin.Context) {
	ctx := c.Request.Context()

	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeInvalidInput, "Invalid lead id"))
		return
	}

	if err := h.leadProcessor.Delete(ctx, leadID); err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// HandleListFormEntries lists raw form backend entries for the dashboard. An
// absent backend renders as an empty table.
func (h *Handler) HandleListFormEntries(c *gin.Context) {
	ctx := c.Request.Context()

	actor, ok := auth.ActorFromContext(c)
	if !ok {
		apierrors.RespondWithError(c, apierrors.Unauthorized("Authorization token is missing or invalid"))
		return
	}

	params := formbackend.ListEntriesParams{}
	if raw := c.Query("page_id"); raw != "" {
		pageID, err := uuid.Parse(raw)
		if err != nil {
			apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeInvalidInput, "Invalid page id"))
			return
		}
		params.PageID = &pageID
	}
	if status := c.Query("status"); status != "" {
		params.Status = &status
	}
	switch actor.Role {
	case store.RoleLoanOfficer:
		params.LoanOfficerID = &actor.ID
	case store.RoleRealtor:
		params.RealtorID = &actor.ID
	}

	entries, err := h.formBackend.ListEntries(ctx, params)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries, "count": len(entries)})
}

func parseIntQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
