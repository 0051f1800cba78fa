package auth

import (
	"context"
	"time"

	"mesto/internal/cache"
)

const revokedTokenKeyPrefix = "revoked_token:"

// TokenStoreInterface tracks tokens revoked before their natural expiry.
type TokenStoreInterface interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) bool
}

// TokenStore keeps the revocation list in Redis. Entries expire together with
// the token they revoke, so the list never outgrows the set of live tokens.
type TokenStore struct {
	cache *cache.Client
}

var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

// Revoke marks tokenID as unusable for ttl.
func (s *TokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.cache.Mark(ctx, revokedTokenKeyPrefix+tokenID, ttl)
}

// IsRevoked reports whether tokenID was revoked. An unavailable Redis reports false.
func (s *TokenStore) IsRevoked(ctx context.Context, tokenID string) bool {
	if tokenID == "" {
		return false
	}
	return s.cache.Exists(ctx, revokedTokenKeyPrefix+tokenID)
}
