package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// UpsertCrmConnectionParams represents parameters for connecting an actor to
// a CRM provider
type UpsertCrmConnectionParams struct {
	ActorID  uuid.UUID
	Provider string
	APIKey   string
}

const crmConnectionColumns = `id, actor_id, provider, api_key, connected_at, last_synced_at, synced_count`

const sqlUpsertCrmConnection = `
INSERT INTO crm_connections (actor_id, provider, api_key)
VALUES ($1, $2, $3)
ON CONFLICT (actor_id, provider)
DO UPDATE SET api_key = EXCLUDED.api_key, connected_at = NOW()
RETURNING ` + crmConnectionColumns + `
`

// UpsertCrmConnection creates or replaces the connection for an
// (actor, provider) pair. Reconnecting replaces the stored credential.
func (s *Store) UpsertCrmConnection(ctx context.Context, params UpsertCrmConnectionParams) (CrmConnection, error) {
	var conn CrmConnection
	err := s.db.GetContext(ctx, &conn, sqlUpsertCrmConnection,
		params.ActorID,
		params.Provider,
		params.APIKey)
	if err != nil {
		s.logger.Error(ctx, "failed to upsert crm connection", err)
		return CrmConnection{}, fmt.Errorf("failed to upsert crm connection: %w", err)
	}
	return conn, nil
}

const sqlGetCrmConnection = `
SELECT ` + crmConnectionColumns + `
FROM crm_connections
WHERE actor_id = $1 AND provider = $2
`

// GetCrmConnection retrieves the connection for an (actor, provider) pair
func (s *Store) GetCrmConnection(ctx context.Context, actorID uuid.UUID, provider string) (CrmConnection, error) {
	var conn CrmConnection
	err := s.db.GetContext(ctx, &conn, sqlGetCrmConnection, actorID, provider)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CrmConnection{}, ErrNotFound
		}
		return CrmConnection{}, fmt.Errorf("failed to get crm connection: %w", err)
	}
	return conn, nil
}

const sqlListCrmConnectionsByActor = `
SELECT ` + crmConnectionColumns + `
FROM crm_connections
WHERE actor_id = $1
ORDER BY connected_at DESC
`

// ListCrmConnectionsByActor retrieves all connections owned by an actor
func (s *Store) ListCrmConnectionsByActor(ctx context.Context, actorID uuid.UUID) ([]CrmConnection, error) {
	conns := []CrmConnection{}
	if err := s.db.SelectContext(ctx, &conns, sqlListCrmConnectionsByActor, actorID); err != nil {
		return nil, fmt.Errorf("failed to list crm connections: %w", err)
	}
	return conns, nil
}

const sqlDeleteCrmConnection = `
DELETE FROM crm_connections WHERE actor_id = $1 AND provider = $2
`

// DeleteCrmConnection removes the connection for an (actor, provider) pair
func (s *Store) DeleteCrmConnection(ctx context.Context, actorID uuid.UUID, provider string) error {
	res, err := s.db.ExecContext(ctx, sqlDeleteCrmConnection, actorID, provider)
	if err != nil {
		return fmt.Errorf("failed to delete crm connection: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

const sqlRecordCrmSync = `
UPDATE crm_connections
SET last_synced_at = NOW(), synced_count = synced_count + 1
WHERE id = $1
`

// RecordCrmSync updates sync bookkeeping after a successful push.
func (s *Store) RecordCrmSync(ctx context.Context, connectionID uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, sqlRecordCrmSync, connectionID); err != nil {
		return fmt.Errorf("failed to record crm sync: %w", err)
	}
	return nil
}
