package repositories

import (
	"context"
	"time"
)

// TokenStore keeps the ids of bearer tokens invalidated by logout.
type TokenStore interface {
	// Revoke marks the token id as invalid for ttl. Tokens that already expired need no entry.
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
