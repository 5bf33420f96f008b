package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// LeadSubmissions counts accepted submissions by canonical-write path
	// (form_backend or direct).
	LeadSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_submissions_total",
			Help: "Total number of accepted lead submissions by canonical-write path",
		},
		[]string{"path"},
	)

	// DeliveryAttempts counts destination delivery attempts by destination
	// and outcome (success, failure, skipped).
	DeliveryAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_delivery_attempts_total",
			Help: "Total number of lead delivery attempts by destination and outcome",
		},
		[]string{"destination", "outcome"},
	)

	// WebhookRetries counts failure-queue retry outcomes.
	WebhookRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_retries_total",
			Help: "Total number of failure-queue retry attempts by outcome",
		},
		[]string{"outcome"},
	)
)

// Register registers all collectors with the default registry. Safe to call
// once at startup.
func Register() error {
	for _, c := range []prometheus.Collector{LeadSubmissions, DeliveryAttempts, WebhookRetries} {
		if err := prometheus.Register(c); err != nil {
			return err
		}
	}
	return nil
}
