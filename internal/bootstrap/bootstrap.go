package bootstrap

import (
	"context"
	"fmt"

	"github.com/derintolu/frs-lead-pages-sub002/internal/config"
	"github.com/derintolu/frs-lead-pages-sub002/internal/observability"
	"github.com/derintolu/frs-lead-pages-sub002/internal/store"

	analyticsHandler "github.com/derintolu/frs-lead-pages-sub002/internal/analytics/handler"
	analyticsProcessor "github.com/derintolu/frs-lead-pages-sub002/internal/analytics/processor"
	"github.com/derintolu/frs-lead-pages-sub002/internal/attribution"
	authHandler "github.com/derintolu/frs-lead-pages-sub002/internal/auth/handler"
	authProcessor "github.com/derintolu/frs-lead-pages-sub002/internal/auth/processor"
	"github.com/derintolu/frs-lead-pages-sub002/internal/clients/mail"
	redisclient "github.com/derintolu/frs-lead-pages-sub002/internal/clients/redis"
	"github.com/derintolu/frs-lead-pages-sub002/internal/clients/sms"
	"github.com/derintolu/frs-lead-pages-sub002/internal/crm"
	crmHandler "github.com/derintolu/frs-lead-pages-sub002/internal/crm/handler"
	"github.com/derintolu/frs-lead-pages-sub002/internal/destinations"
	"github.com/derintolu/frs-lead-pages-sub002/internal/formbackend"
	leadsHandler "github.com/derintolu/frs-lead-pages-sub002/internal/leads/handler"
	leadsProcessor "github.com/derintolu/frs-lead-pages-sub002/internal/leads/processor"
	"github.com/derintolu/frs-lead-pages-sub002/internal/monitoring"
	"github.com/derintolu/frs-lead-pages-sub002/internal/notify"
	"github.com/derintolu/frs-lead-pages-sub002/internal/pages"
	"github.com/derintolu/frs-lead-pages-sub002/internal/portal"
	"github.com/derintolu/frs-lead-pages-sub002/internal/ratelimit"
	"github.com/derintolu/frs-lead-pages-sub002/internal/webhooks"
	webhookHandler "github.com/derintolu/frs-lead-pages-sub002/internal/webhooks/handler"
)

// Dependencies holds all initialized application dependencies
type Dependencies struct {
	// Core
	Store  store.Store
	Logger *observability.Logger

	// Handlers
	AuthHandler      authHandler.Handler
	LeadHandler      leadsHandler.Handler
	AnalyticsHandler analyticsHandler.Handler
	CRMHandler       crmHandler.Handler
	WebhookHandler   webhookHandler.Handler
	PagesHandler     pages.Handler
	PortalHandler    portal.Handler

	// Middleware
	SubmitLimiter *ratelimit.SubmitLimiter

	// Clients (for cleanup)
	RedisClient *redisclient.Client
}

// Initialize sets up all application dependencies
func Initialize(ctx context.Context, cfg *config.Config, logger *observability.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Logger: logger,
	}

	// Database store
	var err error
	deps.Store, err = store.New(cfg.Database.ConnectionString(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Metrics
	if err := monitoring.Register(); err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	// Auth
	authProc := authProcessor.New(&deps.Store, cfg.Auth.JWTSecret, logger)
	deps.AuthHandler = authHandler.New(authProc, logger)

	// Form backend (preferred canonical write; absent in some deployments)
	formBackend := formbackend.New(cfg.FormBackend.BaseURL, cfg.FormBackend.APIKey, logger)

	// CRM providers and connection lifecycle
	followUpBoss := crm.NewFollowUpBoss(cfg.CRM.FollowUpBossBaseURL, logger)
	fluentCRM := crm.NewFluentCRM(cfg.CRM.FluentCRMBaseURL, logger)
	crmService := crm.NewService(&deps.Store, logger, followUpBoss, fluentCRM)
	deps.CRMHandler = crmHandler.New(crmService, logger)
	crmAdapter := crm.NewAdapter(&deps.Store, logger, followUpBoss, fluentCRM)

	// Webhook destination + failure queue
	webhookDeliverer := webhooks.NewDeliverer(cfg.Webhook.URL, cfg.Webhook.Secret, logger)
	webhookService := webhooks.NewService(webhookDeliverer, &deps.Store, cfg.Webhook.QueueCap, logger)
	deps.WebhookHandler = webhookHandler.New(webhookService, logger)

	// Notifications (both channels optional)
	mailClient, err := mail.NewResendClient(cfg.Notifications.ResendAPIKey, cfg.Notifications.EmailSender, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create resend client: %w", err)
	}
	smsClient := sms.NewTwilioClient(
		cfg.Notifications.TwilioAccountSID,
		cfg.Notifications.TwilioAuthToken,
		cfg.Notifications.TwilioFromNumber,
		logger,
	)
	notifier := notify.New(mailClient, smsClient, &deps.Store, logger)

	// Lead capture pipeline
	resolver := attribution.New(&deps.Store, logger)
	writers := []destinations.CanonicalWriter{
		leadsProcessor.NewFormBackendWriter(formBackend, &deps.Store, logger),
		leadsProcessor.NewDirectWriter(&deps.Store, logger),
	}
	dests := []destinations.Destination{
		crmAdapter,
		webhookService,
		notifier,
	}
	leadProc := leadsProcessor.New(resolver, writers, dests, &deps.Store, logger)
	deps.LeadHandler = leadsHandler.New(leadProc, formBackend, logger)

	// Analytics
	analyticsProc := analyticsProcessor.New(&deps.Store, logger)
	deps.AnalyticsHandler = analyticsHandler.New(analyticsProc, logger)

	// Pages
	deps.PagesHandler = pages.New(&deps.Store, logger)

	// Portal sync
	deps.PortalHandler = portal.New(cfg.Portal.SyncAPIKey, logger)

	// Rate limiting (optional, Redis-backed)
	deps.RedisClient, err = redisclient.NewClient(cfg.Redis, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	deps.SubmitLimiter = ratelimit.NewSubmitLimiter(deps.RedisClient, cfg.Redis.SubmitPerMinute, logger)

	return deps, nil
}

// Cleanup releases held resources.
func (d *Dependencies) Cleanup() {
	if d.RedisClient != nil {
		if err := d.RedisClient.Close(); err != nil {
			d.Logger.Error(context.Background(), "failed to close redis client", err)
		}
	}
}
