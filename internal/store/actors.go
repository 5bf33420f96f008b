package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// CreateActorParams represents parameters for creating an actor
type CreateActorParams struct {
	Email        string
	PasswordHash string
	FullName     string
	Phone        *string
	Role         string
}

const actorColumns = `id, email, password_hash, full_name, phone, role, created_at, updated_at`

const sqlCreateActor = `
INSERT INTO actors (email, password_hash, full_name, phone, role)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + actorColumns + `
`

// CreateActor creates a new actor
func (s *Store) CreateActor(ctx context.Context, params CreateActorParams) (Actor, error) {
	var actor Actor
	err := s.db.GetContext(ctx, &actor, sqlCreateActor,
		params.Email,
		params.PasswordHash,
		params.FullName,
		params.Phone,
		params.Role)
	if err != nil {
		return Actor{}, fmt.Errorf("failed to create actor: %w", err)
	}
	return actor, nil
}

const sqlGetActorByEmail = `
SELECT ` + actorColumns + `
FROM actors
WHERE email = $1
`

// GetActorByEmail retrieves an actor by email
func (s *Store) GetActorByEmail(ctx context.Context, email string) (Actor, error) {
	var actor Actor
	err := s.db.GetContext(ctx, &actor, sqlGetActorByEmail, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Actor{}, ErrNotFound
		}
		return Actor{}, fmt.Errorf("failed to get actor by email: %w", err)
	}
	return actor, nil
}

const sqlGetActorByID = `
SELECT ` + actorColumns + `
FROM actors
WHERE id = $1
`

// GetActorByID retrieves an actor by ID
func (s *Store) GetActorByID(ctx context.Context, actorID uuid.UUID) (Actor, error) {
	var actor Actor
	err := s.db.GetContext(ctx, &actor, sqlGetActorByID, actorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Actor{}, ErrNotFound
		}
		return Actor{}, fmt.Errorf("failed to get actor by id: %w", err)
	}
	return actor, nil
}
