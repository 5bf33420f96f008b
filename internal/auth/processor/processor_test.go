package processor

import (
	"context"
	"testing"
	"time"

	"github.com/derintolu/frs-lead-pages-sub002/internal/observability"
	"github.com/derintolu/frs-lead-pages-sub002/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeActorStore struct {
	actors map[string]store.Actor
}

func (f *fakeActorStore) GetActorByEmail(ctx context.Context, email string) (store.Actor, error) {
	actor, ok := f.actors[email]
	if !ok {
		return store.Actor{}, store.ErrNotFound
	}
	return actor, nil
}

func (f *fakeActorStore) GetActorByID(ctx context.Context, actorID uuid.UUID) (store.Actor, error) {
	for _, actor := range f.actors {
		if actor.ID == actorID {
			return actor, nil
		}
	}
	return store.Actor{}, store.ErrNotFound
}

const testSecret = "test-jwt-secret"

func seededProcessor(t *testing.T, role string) (AuthProcessor, store.Actor) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)

	actor := store.Actor{
		ID:           uuid.New(),
		Email:        "lo@example.com",
		FullName:     "Jamie Officer",
		Role:         role,
		PasswordHash: string(hash),
	}
	fs := &fakeActorStore{actors: map[string]store.Actor{actor.Email: actor}}
	return New(fs, testSecret, observability.NewLogger()), actor
}

func TestLogin(t *testing.T) {
	p, actor := seededProcessor(t, store.RoleLoanOfficer)

	loggedIn, err := p.Login(context.Background(), actor.Email, "hunter22")

	require.NoError(t, err)
	assert.Equal(t, actor.ID, loggedIn.ID)
	assert.Equal(t, actor.Email, loggedIn.Email)
	assert.Equal(t, store.RoleLoanOfficer, loggedIn.Role)
	require.NotEmpty(t, loggedIn.Token)

	// The issued token round-trips through validation with identity and role
	// intact.
	claims, err := p.ValidateJWTToken(context.Background(), loggedIn.Token)
	require.NoError(t, err)
	assert.Equal(t, actor.ID.String(), claims.Subject)
	assert.Equal(t, store.RoleLoanOfficer, claims.Role)
}

func TestLogin_UnknownEmail(t *testing.T) {
	p, _ := seededProcessor(t, store.RoleLoanOfficer)

	_, err := p.Login(context.Background(), "nobody@example.com", "hunter22")

	assert.ErrorIs(t, err, ErrEmailDoesNotExist)
}

func TestLogin_WrongPassword(t *testing.T) {
	p, actor := seededProcessor(t, store.RoleLoanOfficer)

	_, err := p.Login(context.Background(), actor.Email, "wrong-password")

	assert.ErrorIs(t, err, ErrIncorrectPassword)
}

func TestValidateJWTToken_Malformed(t *testing.T) {
	p, _ := seededProcessor(t, store.RoleAdministrator)

	_, err := p.ValidateJWTToken(context.Background(), "not-a-token")

	assert.ErrorIs(t, err, ErrParseJWTToken)
}

func TestValidateJWTToken_WrongSecret(t *testing.T) {
	p, actor := seededProcessor(t, store.RoleAdministrator)

	loggedIn, err := p.Login(context.Background(), actor.Email, "hunter22")
	require.NoError(t, err)

	other := New(&fakeActorStore{}, "different-secret", observability.NewLogger())
	_, err = other.ValidateJWTToken(context.Background(), loggedIn.Token)

	assert.ErrorIs(t, err, ErrParseJWTToken)
}

func TestValidateJWTToken_Expired(t *testing.T) {
	p, actor := seededProcessor(t, store.RoleRealtor)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  actor.ID.String(),
		"role": actor.Role,
		"iss":  tokenIssuer,
		"aud":  tokenIssuer,
		"exp":  time.Now().Add(-time.Hour).Unix(),
		"iat":  time.Now().Add(-2 * time.Hour).Unix(),
	})
	token, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = p.ValidateJWTToken(context.Background(), token)

	assert.ErrorIs(t, err, ErrExpiredToken)
}
