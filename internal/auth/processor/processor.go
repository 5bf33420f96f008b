package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/derintolu/frs-lead-pages-sub002/internal/observability"
	"github.com/derintolu/frs-lead-pages-sub002/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailDoesNotExist = errors.New("email does not exist")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrInvalidJWTToken   = errors.New("invalid jwt token")
	ErrParseJWTToken     = errors.New("failed to parse jwt token")
	ErrExpiredToken      = errors.New("token expired")
)

const tokenIssuer = "frs-lead-pages"

// ActorStore is the persistence surface login needs.
type ActorStore interface {
	GetActorByEmail(ctx context.Context, email string) (store.Actor, error)
	GetActorByID(ctx context.Context, actorID uuid.UUID) (store.Actor, error)
}

type AuthProcessor struct {
	store     ActorStore
	jwtSecret string
	logger    *observability.Logger
}

func New(store ActorStore, jwtSecret string, logger *observability.Logger) AuthProcessor {
	return AuthProcessor{
		store:     store,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

// LoggedInActor is the login response payload.
type LoggedInActor struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	Role     string    `json:"role"`
	Token    string    `json:"token"`
}

// Login verifies the credentials and issues a signed token.
func (p *AuthProcessor) Login(ctx context.Context, email, password string) (LoggedInActor, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "email", Value: email})

	actor, err := p.store.GetActorByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return LoggedInActor{}, ErrEmailDoesNotExist
		}
		p.logger.Error(ctx, "failed to get actor by email", err)
		return LoggedInActor{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(actor.PasswordHash), []byte(password)); err != nil {
		return LoggedInActor{}, ErrIncorrectPassword
	}

	token, err := p.generateJWTToken(actor)
	if err != nil {
		p.logger.Error(ctx, "failed to generate jwt token", err)
		return LoggedInActor{}, err
	}

	return LoggedInActor{
		ID:       actor.ID,
		Email:    actor.Email,
		FullName: actor.FullName,
		Role:     actor.Role,
		Token:    token,
	}, nil
}

func (p *AuthProcessor) generateJWTToken(actor store.Actor) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  actor.ID.String(),
		"role": actor.Role,
		"iss":  tokenIssuer,
		"aud":  tokenIssuer,
		"exp":  now.Add(24 * time.Hour).Unix(),
		"iat":  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(p.jwtSecret))
}

// ActorClaims are the claims carried by an issued token.
type ActorClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// ValidateJWTToken parses and verifies a token, returning its claims.
func (p *AuthProcessor) ValidateJWTToken(ctx context.Context, token string) (ActorClaims, error) {
	var claims ActorClaims
	t, err := jwt.ParseWithClaims(token, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(p.jwtSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ActorClaims{}, ErrExpiredToken
		}
		return ActorClaims{}, ErrParseJWTToken
	}
	if !t.Valid {
		return ActorClaims{}, ErrInvalidJWTToken
	}
	return claims, nil
}
