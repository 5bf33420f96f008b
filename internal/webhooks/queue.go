package webhooks

import (
	"context"
	"fmt"

	"github.com/derintolu/frs-lead-pages-sub002/internal/monitoring"
	"github.com/derintolu/frs-lead-pages-sub002/internal/observability"
	"github.com/derintolu/frs-lead-pages-sub002/internal/store"

	"github.com/google/uuid"
)

const destinationName = "webhook"

// Sender abstracts the deliverer for the queue service.
type Sender interface {
	Enabled() bool
	Send(ctx context.Context, payload store.JSONB) error
}

// FailureStore is the persistence surface for the failed-delivery queue.
type FailureStore interface {
	CreateFailedDelivery(ctx context.Context, params store.CreateFailedDeliveryParams, maxEntries int) (store.FailedDelivery, error)
	ListFailedDeliveries(ctx context.Context) ([]store.FailedDelivery, error)
	DeleteFailedDelivery(ctx context.Context, deliveryID uuid.UUID) error
	IncrementFailedDeliveryRetry(ctx context.Context, deliveryID uuid.UUID, reason string) error
	ClearFailedDeliveries(ctx context.Context) error
}

// Service delivers leads to the webhook endpoint and queues failures for
// manual retry. Failed entries are kept in a bounded queue: when it is full,
// the oldest entries are dropped to admit new ones.
type Service struct {
	sender   Sender
	store    FailureStore
	queueCap int
	logger   *observability.Logger
}

func NewService(sender Sender, store FailureStore, queueCap int, logger *observability.Logger) *Service {
	return &Service{
		sender:   sender,
		store:    store,
		queueCap: queueCap,
		logger:   logger,
	}
}

func (s *Service) Name() string {
	return destinationName
}

// Deliver posts the lead to the webhook endpoint. An unconfigured endpoint is
// a silent skip. A failed delivery is queued for retry and reported as an
// error; the caller absorbs it without gating the visitor response.
func (s *Service) Deliver(ctx context.Context, lead store.Lead) error {
	if !s.sender.Enabled() {
		return nil
	}

	payload := BuildPayload(lead)
	if err := s.sender.Send(ctx, payload); err != nil {
		s.logger.Error(observability.WithFields(ctx,
			observability.Field{Key: "lead_id", Value: lead.ID.String()}),
			"webhook delivery failed, queueing for retry", err)
		if _, qErr := s.store.CreateFailedDelivery(ctx, store.CreateFailedDeliveryParams{
			LeadID:      lead.ID,
			Destination: destinationName,
			Payload:     payload,
			Reason:      err.Error(),
		}, s.queueCap); qErr != nil {
			s.logger.Error(ctx, "failed to queue failed delivery", qErr)
		}
		return fmt.Errorf("webhook delivery failed: %w", err)
	}
	return nil
}

// RetryReport summarizes one retry pass over the failure queue.
type RetryReport struct {
	Retried   int `json:"retried"`
	Succeeded int `json:"succeeded"`
	Remaining int `json:"remaining"`
}

// RetryAll re-attempts every entry queued at the start of the pass. Entries
// that succeed are removed; entries that fail again stay queued with an
// incremented retry count. Deliveries queued while the pass runs are not
// retried until the next pass.
func (s *Service) RetryAll(ctx context.Context) (RetryReport, error) {
	snapshot, err := s.store.ListFailedDeliveries(ctx)
	if err != nil {
		return RetryReport{}, err
	}

	report := RetryReport{Retried: len(snapshot)}
	for _, entry := range snapshot {
		if err := s.sender.Send(ctx, entry.Payload); err != nil {
			monitoring.WebhookRetries.WithLabelValues("failure").Inc()
			if uErr := s.store.IncrementFailedDeliveryRetry(ctx, entry.ID, err.Error()); uErr != nil {
				s.logger.Error(ctx, "failed to update retry count", uErr)
			}
			continue
		}
		monitoring.WebhookRetries.WithLabelValues("success").Inc()
		if dErr := s.store.DeleteFailedDelivery(ctx, entry.ID); dErr != nil {
			s.logger.Error(ctx, "failed to remove retried delivery", dErr)
		}
		report.Succeeded++
	}

	remaining, err := s.store.ListFailedDeliveries(ctx)
	if err != nil {
		return RetryReport{}, err
	}
	report.Remaining = len(remaining)

	s.logger.Info(observability.WithFields(ctx,
		observability.Field{Key: "retried", Value: report.Retried},
		observability.Field{Key: "succeeded", Value: report.Succeeded},
		observability.Field{Key: "remaining", Value: report.Remaining}),
		"failure queue retry pass complete")
	return report, nil
}

// Failed lists the queued failed deliveries, oldest first.
func (s *Service) Failed(ctx context.Context) ([]store.FailedDelivery, error) {
	return s.store.ListFailedDeliveries(ctx)
}

// Clear empties the failure queue without retrying anything.
func (s *Service) Clear(ctx context.Context) error {
	return s.store.ClearFailedDeliveries(ctx)
}
