package handler

import (
	"net/http"

	"github.com/derintolu/frs-lead-pages-sub002/internal/apierrors"
	"github.com/derintolu/frs-lead-pages-sub002/internal/auth"
	"github.com/derintolu/frs-lead-pages-sub002/internal/crm"
	"github.com/derintolu/frs-lead-pages-sub002/internal/observability"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *crm.Service
	logger  *observability.Logger
}

func New(service *crm.Service, logger *observability.Logger) Handler {
	return Handler{service: service, logger: logger}
}

type ConnectRequest struct {
	APIKey string `json:"api_key" binding:"required"`
}

// HandleConnect validates and stores a CRM credential for the calling actor.
func (h *Handler) HandleConnect(c *gin.Context) {
	ctx := c.Request.Context()

	actor, ok := auth.ActorFromContext(c)
	if !ok {
		apierrors.RespondWithError(c, apierrors.Unauthorized("Authorization token is missing or invalid"))
		return
	}

	var req ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}

	view, err := h.service.Connect(ctx, actor.ID, c.Param("provider"), req.APIKey)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// HandleDisconnect removes the calling actor's connection to a provider.
func (h *Handler) HandleDisconnect(c *gin.Context) {
	ctx := c.Request.Context()

	actor, ok := auth.ActorFromContext(c)
	if !ok {
		apierrors.RespondWithError(c, apierrors.Unauthorized("Authorization token is missing or invalid"))
		return
	}

	if err := h.service.Disconnect(ctx, actor.ID, c.Param("provider")); err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"disconnected": true})
}

// HandleTest re-validates the stored credential against the provider.
func (h *Handler) HandleTest(c *gin.Context) {
	ctx := c.Request.Context()

	actor, ok := auth.ActorFromContext(c)
	if !ok {
		apierrors.RespondWithError(c, apierrors.Unauthorized("Authorization token is missing or invalid"))
		return
	}

	if err := h.service.Test(ctx, actor.ID, c.Param("provider")); err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// HandleListConnections lists the calling actor's connections with masked
// credentials.
func (h *Handler) HandleListConnections(c *gin.Context) {
	ctx := c.Request.Context()

	actor, ok := auth.ActorFromContext(c)
	if !ok {
		apierrors.RespondWithError(c, apierrors.Unauthorized("Authorization token is missing or invalid"))
		return
	}

	views, err := h.service.Connections(ctx, actor.ID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"connections": views})
}
