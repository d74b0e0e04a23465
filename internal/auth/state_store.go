package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"votely/internal/cache"
	"votely/internal/model"
)

const (
	// StateExpiry bounds the OAuth handshake between redirect and callback.
	StateExpiry = 10 * time.Minute

	usedStateKeyPrefix = "oauth_state:"
)

// ErrInvalidState is returned when a callback carries a missing, forged,
// expired, mismatched or replayed state.
var ErrInvalidState = errors.New("invalid oauth state")

// StateClaims is the payload of a signed handshake state.
type StateClaims struct {
	Provider string `json:"provider"`
	jwt.RegisteredClaims
}

// StateStoreInterface defines the interface for OAuth handshake state.
type StateStoreInterface interface {
	Issue(provider model.Provider) (string, error)
	Consume(ctx context.Context, provider model.Provider, state string) error
}

// StateStore signs handshake states with the session secret and records used
// nonces in Redis so each state is accepted once.
type StateStore struct {
	secret []byte
	cache  *cache.Client
	now    func() time.Time
}

// Ensure StateStore implements StateStoreInterface
var _ StateStoreInterface = (*StateStore)(nil)

// NewStateStore creates a new state store.
func NewStateStore(secret string, cache *cache.Client) *StateStore {
	return &StateStore{
		secret: []byte(secret),
		cache:  cache,
		now:    time.Now,
	}
}

// Issue returns a fresh signed state for the provider.
func (s *StateStore) Issue(provider model.Provider) (string, error) {
	now := s.now()
	claims := &StateClaims{
		Provider: provider.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(StateExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign oauth state: %w", err)
	}
	return token, nil
}

// Consume verifies the state for the provider and marks its nonce as used.
func (s *StateStore) Consume(ctx context.Context, provider model.Provider, state string) error {
	if state == "" {
		return ErrInvalidState
	}

	token, err := jwt.ParseWithClaims(state, &StateClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	claims, ok := token.Claims.(*StateClaims)
	if !ok || !token.Valid || claims.ID == "" || claims.ExpiresAt == nil {
		return ErrInvalidState
	}
	if claims.Provider != provider.String() {
		return fmt.Errorf("%w: issued for %s", ErrInvalidState, claims.Provider)
	}

	ttl := claims.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return ErrInvalidState
	}
	fresh, err := s.cache.SetNX(ctx, usedStateKeyPrefix+claims.ID, []byte("1"), ttl)
	if err != nil {
		return err
	}
	if !fresh {
		return fmt.Errorf("%w: already used", ErrInvalidState)
	}
	return nil
}
