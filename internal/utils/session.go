package utils

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const revokedTokenPrefix = "revokedToken:"

// RevokeToken blacklists a token's JTI until the token would have expired
// anyway, so logout takes effect immediately even though JWTs are stateless.
func RevokeToken(ctx context.Context, client *redis.Client, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = TokenLifetime
	}
	return client.Set(ctx, revokedTokenPrefix+jti, "1", ttl).Err()
}

// IsTokenRevoked reports whether the JTI is on the blacklist. Redis being
// unreachable fails open: the JWT signature check already ran, and auth
// availability should not hinge on the revocation cache.
func IsTokenRevoked(ctx context.Context, client *redis.Client, jti string) bool {
	if client == nil || jti == "" {
		return false
	}
	n, err := client.Exists(ctx, revokedTokenPrefix+jti).Result()
	if err != nil {
		return false
	}
	return n > 0
}
