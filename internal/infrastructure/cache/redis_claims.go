package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultClaimPrefix namespaces snapshot generation claims in Redis.
const DefaultClaimPrefix = "report:snapshot:claim:"

// releaseScript deletes the claim only while it still holds the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisClaimStore shares generation claims between replicas through SET NX.
// Each claim stores a random token so a holder whose claim expired cannot
// release the claim another replica took afterwards.
type RedisClaimStore struct {
	client *redis.Client
	prefix string
}

// NewRedisClaimStore wraps client. An empty prefix uses DefaultClaimPrefix.
func NewRedisClaimStore(client *redis.Client, prefix string) *RedisClaimStore {
	if prefix == "" {
		prefix = DefaultClaimPrefix
	}
	return &RedisClaimStore{client: client, prefix: prefix}
}

func (s *RedisClaimStore) Claim(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	ok, err := s.client.SetNX(ctx, s.prefix+key, token, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("claim %q: %w", key, err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

func (s *RedisClaimStore) Release(ctx context.Context, key, token string) error {
	if err := releaseScript.Run(ctx, s.client, []string{s.prefix + key}, token).Err(); err != nil {
		return fmt.Errorf("release claim %q: %w", key, err)
	}
	return nil
}

// Close closes the underlying client.
func (s *RedisClaimStore) Close() error {
	return s.client.Close()
}

var _ shared.IdempotencyStore = (*RedisClaimStore)(nil)
