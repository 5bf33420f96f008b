package handler

import (
	"net/http"
	"strings"

	"github.com/derintolu/frs-lead-pages-sub002/internal/apierrors"
	"github.com/derintolu/frs-lead-pages-sub002/internal/auth"
	"github.com/derintolu/frs-lead-pages-sub002/internal/auth/processor"
	"github.com/derintolu/frs-lead-pages-sub002/internal/observability"
	"github.com/derintolu/frs-lead-pages-sub002/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	authProcessor processor.AuthProcessor
	logger        *observability.Logger
}

func New(authProcessor processor.AuthProcessor, logger *observability.Logger) Handler {
	return Handler{authProcessor: authProcessor, logger: logger}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// HandleLogin authenticates a dashboard actor and returns a bearer token.
func (h *Handler) HandleLogin(c *gin.Context) {
	ctx := c.Request.Context()

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}

	actor, err := h.authProcessor.Login(ctx, req.Email, req.Password)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, actor)
}

// HandleJWTMiddleware validates the bearer token and attaches the actor to
// the request.
func (h *Handler) HandleJWTMiddleware(c *gin.Context) {
	ctx := c.Request.Context()

	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		apierrors.RespondWithError(c, apierrors.Unauthorized("Authorization token is missing or invalid"))
		c.Abort()
		return
	}

	claims, err := h.authProcessor.ValidateJWTToken(ctx, strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		apierrors.RespondWithError(c, apierrors.Unauthorized("Authorization token is missing or invalid"))
		c.Abort()
		return
	}

	actorID, err := uuid.Parse(claims.Subject)
	if err != nil {
		apierrors.RespondWithError(c, apierrors.Unauthorized("Authorization token is missing or invalid"))
		c.Abort()
		return
	}

	auth.SetActor(c, auth.ActorContext{ID: actorID, Role: claims.Role})
	c.Next()
}

// RequireAdministrator admits administrators only.
func RequireAdministrator() gin.HandlerFunc {
	return RequireRole()
}

// RequireRole rejects requests whose actor holds none of the given roles.
// Administrators pass every check.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := auth.ActorFromContext(c)
		if !ok {
			apierrors.RespondWithError(c, apierrors.Unauthorized("Authorization token is missing or invalid"))
			c.Abort()
			return
		}
		if actor.Role == store.RoleAdministrator {
			c.Next()
			return
		}
		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		apierrors.RespondWithError(c, apierrors.Forbidden("You do not have permission to perform this action"))
		c.Abort()
	}
}
