package api

import (
	"net/http"

	analyticsHandler "github.com/derintolu/frs-lead-pages-sub002/internal/analytics/handler"
	authHandler "github.com/derintolu/frs-lead-pages-sub002/internal/auth/handler"
	crmHandler "github.com/derintolu/frs-lead-pages-sub002/internal/crm/handler"
	leadsHandler "github.com/derintolu/frs-lead-pages-sub002/internal/leads/handler"
	"github.com/derintolu/frs-lead-pages-sub002/internal/pages"
	"github.com/derintolu/frs-lead-pages-sub002/internal/portal"
	"github.com/derintolu/frs-lead-pages-sub002/internal/ratelimit"
	"github.com/derintolu/frs-lead-pages-sub002/internal/store"
	webhookHandler "github.com/derintolu/frs-lead-pages-sub002/internal/webhooks/handler"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type API struct {
	router           *gin.RouterGroup
	authHandler      authHandler.Handler
	leadHandler      leadsHandler.Handler
	analyticsHandler analyticsHandler.Handler
	crmHandler       crmHandler.Handler
	webhookHandler   webhookHandler.Handler
	pagesHandler     pages.Handler
	portalHandler    portal.Handler
	submitLimiter    *ratelimit.SubmitLimiter
}

func New(router *gin.RouterGroup,
	authHandler authHandler.Handler,
	leadHandler leadsHandler.Handler,
	analyticsHandler analyticsHandler.Handler,
	crmHandler crmHandler.Handler,
	webhookHandler webhookHandler.Handler,
	pagesHandler pages.Handler,
	portalHandler portal.Handler,
	submitLimiter *ratelimit.SubmitLimiter,
) API {
	return API{
		router:           router,
		authHandler:      authHandler,
		leadHandler:      leadHandler,
		analyticsHandler: analyticsHandler,
		crmHandler:       crmHandler,
		webhookHandler:   webhookHandler,
		pagesHandler:     pagesHandler,
		portalHandler:    portalHandler,
		submitLimiter:    submitLimiter,
	}
}

func (a *API) RegisterRoutes() {
	a.Health()
	a.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := a.router.Group("/api/v1")
	{
		apiGroup.POST("/auth/login", a.authHandler.HandleLogin)

		// Visitor-facing surface
		apiGroup.POST("/pages/:page_id/submissions", a.submitLimiter.Middleware(), a.leadHandler.HandleSubmit)
		apiGroup.POST("/pages/:page_id/views", a.analyticsHandler.HandleRecordView)

		// Companion portal sync
		apiGroup.GET("/sync/ping", a.portalHandler.HandlePing)
	}

	contentCreator := authHandler.RequireRole(store.RoleLoanOfficer, store.RoleRealtor)
	administrator := authHandler.RequireAdministrator()

	protectedGroup := apiGroup.Group("/protected", a.authHandler.HandleJWTMiddleware)
	{
		protectedGroup.GET("/submissions", contentCreator, a.leadHandler.HandleList)
		protectedGroup.PATCH("/submissions/:id/status", contentCreator, a.leadHandler.HandleUpdateStatus)
		protectedGroup.DELETE("/submissions/:id", administrator, a.leadHandler.HandleDelete)
		protectedGroup.GET("/form-entries", contentCreator, a.leadHandler.HandleListFormEntries)

		protectedGroup.POST("/pages", administrator, a.pagesHandler.HandleCreate)
		protectedGroup.GET("/pages/:page_id", contentCreator, a.pagesHandler.HandleGet)
		protectedGroup.DELETE("/pages/:page_id", administrator, a.pagesHandler.HandleDelete)
		protectedGroup.GET("/pages/:page_id/stats", contentCreator, a.analyticsHandler.HandleGetStats)

		protectedGroup.GET("/webhooks/failed", administrator, a.webhookHandler.HandleListFailed)
		protectedGroup.POST("/webhooks/retry", administrator, a.webhookHandler.HandleRetry)
		protectedGroup.POST("/webhooks/clear", administrator, a.webhookHandler.HandleClear)

		protectedGroup.POST("/crm/:provider/connect", contentCreator, a.crmHandler.HandleConnect)
		protectedGroup.POST("/crm/:provider/disconnect", contentCreator, a.crmHandler.HandleDisconnect)
		protectedGroup.POST("/crm/:provider/test", contentCreator, a.crmHandler.HandleTest)
		protectedGroup.GET("/crm/connections", contentCreator, a.crmHandler.HandleListConnections)
	}
}

func (a *API) Health() {
	a.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
}
