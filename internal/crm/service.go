package crm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/derintolu/frs-lead-pages-sub002/internal/observability"
	"github.com/derintolu/frs-lead-pages-sub002/internal/store"

	"github.com/google/uuid"
)

// ConnectionStore is the persistence surface the service needs for per-actor
// CRM connections.
type ConnectionStore interface {
	UpsertCrmConnection(ctx context.Context, params store.UpsertCrmConnectionParams) (store.CrmConnection, error)
	GetCrmConnection(ctx context.Context, actorID uuid.UUID, provider string) (store.CrmConnection, error)
	ListCrmConnectionsByActor(ctx context.Context, actorID uuid.UUID) ([]store.CrmConnection, error)
	DeleteCrmConnection(ctx context.Context, actorID uuid.UUID, provider string) error
	RecordCrmSync(ctx context.Context, connectionID uuid.UUID) error
}

// Service manages the connect, disconnect and test lifecycle of per-actor CRM
// connections. Credentials are validated against the provider before they are
// persisted, so a stored connection is known to have worked at least once.
type Service struct {
	providers map[string]Provider
	store     ConnectionStore
	logger    *observability.Logger
}

func NewService(store ConnectionStore, logger *observability.Logger, providers ...Provider) *Service {
	byName := make(map[string]Provider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &Service{
		providers: byName,
		store:     store,
		logger:    logger,
	}
}

func (s *Service) provider(name string) (Provider, error) {
	p, ok := s.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	return p, nil
}

// ConnectionView is a connection as exposed to the dashboard. The credential
// is masked.
type ConnectionView struct {
	Provider     string     `json:"provider"`
	MaskedAPIKey string     `json:"masked_api_key"`
	ConnectedAt  time.Time  `json:"connected_at"`
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`
	SyncedCount  int        `json:"synced_count"`
}

func toView(conn store.CrmConnection) ConnectionView {
	return ConnectionView{
		Provider:     conn.Provider,
		MaskedAPIKey: MaskKey(conn.APIKey),
		ConnectedAt:  conn.ConnectedAt,
		LastSyncedAt: conn.LastSyncedAt,
		SyncedCount:  conn.SyncedCount,
	}
}

// Connect validates the credential against the provider and persists it for
// the actor. Reconnecting with a new key replaces the old one.
func (s *Service) Connect(ctx context.Context, actorID uuid.UUID, providerName, apiKey string) (ConnectionView, error) {
	p, err := s.provider(providerName)
	if err != nil {
		return ConnectionView{}, err
	}

	if err := p.ValidateKey(ctx, apiKey); err != nil {
		return ConnectionView{}, err
	}

	conn, err := s.store.UpsertCrmConnection(ctx, store.UpsertCrmConnectionParams{
		ActorID:  actorID,
		Provider: providerName,
		APIKey:   apiKey,
	})
	if err != nil {
		return ConnectionView{}, err
	}

	s.logger.Info(observability.WithFields(ctx,
		observability.Field{Key: "actor_id", Value: actorID.String()},
		observability.Field{Key: "provider", Value: providerName}),
		"crm connection established")
	return toView(conn), nil
}

// Disconnect removes the actor's connection to a provider. Already-delivered
// contacts are left untouched on the provider side.
func (s *Service) Disconnect(ctx context.Context, actorID uuid.UUID, providerName string) error {
	if _, err := s.provider(providerName); err != nil {
		return err
	}

	if err := s.store.DeleteCrmConnection(ctx, actorID, providerName); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrConnectionNotFound
		}
		return err
	}

	s.logger.Info(observability.WithFields(ctx,
		observability.Field{Key: "actor_id", Value: actorID.String()},
		observability.Field{Key: "provider", Value: providerName}),
		"crm connection removed")
	return nil
}

// Test re-validates the stored credential against the provider.
func (s *Service) Test(ctx context.Context, actorID uuid.UUID, providerName string) error {
	p, err := s.provider(providerName)
	if err != nil {
		return err
	}

	conn, err := s.store.GetCrmConnection(ctx, actorID, providerName)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrConnectionNotFound
		}
		return err
	}

	return p.ValidateKey(ctx, conn.APIKey)
}

// Connections lists the actor's connections with masked credentials.
func (s *Service) Connections(ctx context.Context, actorID uuid.UUID) ([]ConnectionView, error) {
	conns, err := s.store.ListCrmConnectionsByActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	views := make([]ConnectionView, 0, len(conns))
	for _, conn := range conns {
		views = append(views, toView(conn))
	}
	return views, nil
}
