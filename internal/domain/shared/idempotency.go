package shared

import (
	"context"
	"time"
)

// IdempotencyStore hands out exclusive, expiring claims on a key so that only
// one caller acts on it within the TTL window.
type IdempotencyStore interface {
	// Claim takes key for ttl. ok is false when someone else holds it. The
	// returned token identifies this claim and is required to release it.
	Claim(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)

	// Release drops the claim identified by token. A claim that has expired
	// and been taken by another holder is left alone.
	Release(ctx context.Context, key, token string) error

	Close() error
}
