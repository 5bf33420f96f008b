package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// CreateFailedDeliveryParams represents parameters for recording a failed
// webhook delivery
type CreateFailedDeliveryParams struct {
	LeadID      uuid.UUID
	Destination string
	Payload     JSONB
	Reason      string
}

const failedDeliveryColumns = `id, lead_id, destination, payload, reason, retry_count, first_failed_at`

const sqlCreateFailedDelivery = `
INSERT INTO failed_deliveries (lead_id, destination, payload, reason)
VALUES ($1, $2, $3, $4)
RETURNING ` + failedDeliveryColumns + `
`

const sqlPruneFailedDeliveries = `
DELETE FROM failed_deliveries
WHERE id NOT IN (
	SELECT id FROM failed_deliveries ORDER BY first_failed_at DESC LIMIT $1
)
`

// CreateFailedDelivery appends a failed delivery and prunes the oldest
// entries beyond maxEntries. Repeated failures for the same lead produce repeated
// entries; the destination is expected to dedup by lead id.
func (s *Store) CreateFailedDelivery(ctx context.Context, params CreateFailedDeliveryParams, maxEntries int) (FailedDelivery, error) {
	var delivery FailedDelivery
	err := s.db.GetContext(ctx, &delivery, sqlCreateFailedDelivery,
		params.LeadID,
		params.Destination,
		params.Payload,
		params.Reason)
	if err != nil {
		s.logger.Error(ctx, "failed to create failed delivery", err)
		return FailedDelivery{}, fmt.Errorf("failed to create failed delivery: %w", err)
	}

	if maxEntries > 0 {
		if _, err := s.db.ExecContext(ctx, sqlPruneFailedDeliveries, maxEntries); err != nil {
			s.logger.Error(ctx, "failed to prune failed deliveries", err)
		}
	}
	return delivery, nil
}

const sqlListFailedDeliveries = `
SELECT ` + failedDeliveryColumns + `
FROM failed_deliveries
ORDER BY first_failed_at ASC
`

// ListFailedDeliveries returns all pending failed deliveries, oldest first.
func (s *Store) ListFailedDeliveries(ctx context.Context) ([]FailedDelivery, error) {
	deliveries := []FailedDelivery{}
	if err := s.db.SelectContext(ctx, &deliveries, sqlListFailedDeliveries); err != nil {
		return nil, fmt.Errorf("failed to list failed deliveries: %w", err)
	}
	return deliveries, nil
}

const sqlDeleteFailedDelivery = `
DELETE FROM failed_deliveries WHERE id = $1
`

// DeleteFailedDelivery removes a single entry after a successful retry.
func (s *Store) DeleteFailedDelivery(ctx context.Context, deliveryID uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, sqlDeleteFailedDelivery, deliveryID); err != nil {
		return fmt.Errorf("failed to delete failed delivery: %w", err)
	}
	return nil
}

const sqlIncrementFailedDeliveryRetry = `
UPDATE failed_deliveries SET retry_count = retry_count + 1, reason = $2
WHERE id = $1
`

// IncrementFailedDeliveryRetry records another failed retry attempt.
func (s *Store) IncrementFailedDeliveryRetry(ctx context.Context, deliveryID uuid.UUID, reason string) error {
	if _, err := s.db.ExecContext(ctx, sqlIncrementFailedDeliveryRetry, deliveryID, reason); err != nil {
		return fmt.Errorf("failed to increment failed delivery retry: %w", err)
	}
	return nil
}

const sqlClearFailedDeliveries = `
DELETE FROM failed_deliveries
`

// ClearFailedDeliveries unconditionally empties the failure queue.
func (s *Store) ClearFailedDeliveries(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqlClearFailedDeliveries); err != nil {
		return fmt.Errorf("failed to clear failed deliveries: %w", err)
	}
	return nil
}
