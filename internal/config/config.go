package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var ErrEmptyEnvironmentVariable = errors.New("empty environment variable")

// Config holds all application configuration
type Config struct {
	Database      DatabaseConfig
	Auth          AuthConfig
	Server        ServerConfig
	FormBackend   FormBackendConfig
	Webhook       WebhookConfig
	Portal        PortalConfig
	CRM           CRMConfig
	Notifications NotificationsConfig
	Redis         RedisConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Username string
	Password string
	Name     string
}

// AuthConfig holds authentication-related configuration
type AuthConfig struct {
	JWTSecret string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port       int
	WebAppURI  string
	PublicBase string
}

// FormBackendConfig holds the primary form backend settings. An empty BaseURL
// means the backend is not installed and the direct-store fallback services
// every submission.
type FormBackendConfig struct {
	BaseURL string
	APIKey  string
}

// WebhookConfig holds the outbound lead webhook settings. An empty URL means
// no webhook destination is configured.
type WebhookConfig struct {
	URL      string
	Secret   string
	QueueCap int
}

// PortalConfig holds the cross-portal sync settings
type PortalConfig struct {
	SyncAPIKey string
}

// CRMConfig holds base URLs for supported CRM providers. Credentials are
// per-actor and live in the database, not here.
type CRMConfig struct {
	FollowUpBossBaseURL string
	FluentCRMBaseURL    string
}

// NotificationsConfig holds new-lead notification settings. Empty values
// disable the corresponding channel.
type NotificationsConfig struct {
	ResendAPIKey     string
	EmailSender      string
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string
}

// RedisConfig holds rate-limiter backing store settings
type RedisConfig struct {
	Enabled         bool
	Addr            string
	Password        string
	DB              int
	SubmitPerMinute int
}

// Load reads and validates all required environment variables
func Load() (*Config, error) {
	// Load env.local in non-production environments
	if os.Getenv("GO_ENV") != "production" {
		if err := godotenv.Load("env.local"); err != nil {
			return nil, fmt.Errorf("failed to load env.local: %w", err)
		}
	}

	cfg := &Config{}

	// Database configuration
	var err error
	if cfg.Database.Host, err = requireEnv("DB_HOST"); err != nil {
		return nil, err
	}
	if cfg.Database.Username, err = requireEnv("DB_USERNAME"); err != nil {
		return nil, err
	}
	if cfg.Database.Password, err = requireEnv("DB_PASSWORD"); err != nil {
		return nil, err
	}
	if cfg.Database.Name, err = requireEnv("DB_NAME"); err != nil {
		return nil, err
	}

	// Auth configuration
	if cfg.Auth.JWTSecret, err = requireEnv("JWT_SECRET"); err != nil {
		return nil, err
	}

	// Portal configuration
	if cfg.Portal.SyncAPIKey, err = requireEnv("PORTAL_SYNC_API_KEY"); err != nil {
		return nil, err
	}

	// Form backend (optional - absence triggers the direct-store fallback)
	cfg.FormBackend.BaseURL = os.Getenv("FORM_BACKEND_URL")
	cfg.FormBackend.APIKey = os.Getenv("FORM_BACKEND_API_KEY")

	// Webhook destination (optional)
	cfg.Webhook.URL = os.Getenv("LEAD_WEBHOOK_URL")
	cfg.Webhook.Secret = os.Getenv("LEAD_WEBHOOK_SECRET")
	queueCap := getEnvWithDefault("LEAD_WEBHOOK_QUEUE_CAP", "100")
	cfg.Webhook.QueueCap, err = strconv.Atoi(queueCap)
	if err != nil {
		return nil, fmt.Errorf("failed to parse LEAD_WEBHOOK_QUEUE_CAP: %w", err)
	}

	// CRM provider endpoints
	cfg.CRM.FollowUpBossBaseURL = getEnvWithDefault("FOLLOWUPBOSS_BASE_URL", "https://api.followupboss.com")
	cfg.CRM.FluentCRMBaseURL = os.Getenv("FLUENTCRM_BASE_URL")

	// Notifications (optional)
	cfg.Notifications.ResendAPIKey = os.Getenv("RESEND_API_KEY")
	cfg.Notifications.EmailSender = os.Getenv("DEFAULT_EMAIL_SENDER_ADDRESS")
	cfg.Notifications.TwilioAccountSID = os.Getenv("TWILIO_ACCOUNT_SID")
	cfg.Notifications.TwilioAuthToken = os.Getenv("TWILIO_AUTH_TOKEN")
	cfg.Notifications.TwilioFromNumber = os.Getenv("TWILIO_FROM_NUMBER")

	// Redis / rate limiting (optional)
	cfg.Redis.Addr = os.Getenv("REDIS_ADDR")
	cfg.Redis.Enabled = cfg.Redis.Addr != ""
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	redisDB := getEnvWithDefault("REDIS_DB", "0")
	cfg.Redis.DB, err = strconv.Atoi(redisDB)
	if err != nil {
		return nil, fmt.Errorf("failed to parse REDIS_DB: %w", err)
	}
	perMinute := getEnvWithDefault("SUBMIT_RATE_PER_MINUTE", "30")
	cfg.Redis.SubmitPerMinute, err = strconv.Atoi(perMinute)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SUBMIT_RATE_PER_MINUTE: %w", err)
	}

	// Server configuration
	cfg.Server.WebAppURI = getEnvWithDefault("WEBAPP_URI", "http://localhost:3000")
	cfg.Server.PublicBase = getEnvWithDefault("PUBLIC_BASE_URL", "http://localhost:8080")
	serverPort, err := requireEnv("SERVER_PORT")
	if err != nil {
		return nil, err
	}
	cfg.Server.Port, err = strconv.Atoi(serverPort)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SERVER_PORT: %w", err)
	}

	return cfg, nil
}

// ConnectionString returns a PostgreSQL connection string
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s",
		c.Username, c.Password, c.Host, c.Name)
}

// requireEnv retrieves an environment variable or returns an error if empty
func requireEnv(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is not set: %w", key, ErrEmptyEnvironmentVariable)
	}
	return value, nil
}

// getEnvWithDefault retrieves an environment variable or returns a default value
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
