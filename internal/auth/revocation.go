package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "helpdesk:revoked:"

// RedisRevocationList stores revoked bearer tokens with a TTL matching their
// remaining lifetime. A nil client disables it.
type RedisRevocationList struct {
	client *redis.Client
}

func NewRedisRevocationList(c *redis.Client) *RedisRevocationList {
	return &RedisRevocationList{client: c}
}

// Revoke marks token as revoked for ttl.
func (l *RedisRevocationList) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if l == nil || l.client == nil {
		return nil
	}
	return l.client.Set(ctx, revokedKeyPrefix+token, "1", ttl).Err()
}

// IsRevoked returns true when the token is on the list.
func (l *RedisRevocationList) IsRevoked(ctx context.Context, token string) (bool, error) {
	if l == nil || l.client == nil {
		return false, nil
	}
	exists, err := l.client.Exists(ctx, revokedKeyPrefix+token).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}
