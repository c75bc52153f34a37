package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ClaimsCache memoizes verified token claims in Redis so hot clients do not
// hit the identity provider on every request. Entries are keyed by a hash of
// the raw token and expire no later than the token itself.
type ClaimsCache struct {
	client *redis.Client
}

func NewClaimsCache(redisURL string) (*ClaimsCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return &ClaimsCache{client: client}, nil
}

func claimsKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "claims:" + hex.EncodeToString(sum[:])
}

// Get returns cached claims for the token, or nil on a miss.
func (cc *ClaimsCache) Get(ctx context.Context, token string) (*Claims, error) {
	data, err := cc.client.Get(ctx, claimsKey(token)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get claims from cache: %v", err)
	}

	var claims Claims
	if err := json.Unmarshal(data, &claims); err != nil {
		return nil, fmt.Errorf("failed to unmarshal claims: %v", err)
	}

	// A stale entry that outlived its token is treated as a miss.
	if claims.ExpiresAt > 0 && time.Now().Unix() >= claims.ExpiresAt {
		cc.client.Del(ctx, claimsKey(token))
		return nil, nil
	}

	return &claims, nil
}

// Set caches claims with a TTL capped at five minutes and never past the
// token expiry.
func (cc *ClaimsCache) Set(ctx context.Context, token string, claims *Claims) error {
	if claims == nil {
		return fmt.Errorf("cannot cache nil claims")
	}

	ttl := 5 * time.Minute
	if claims.ExpiresAt > 0 {
		untilExpiry := time.Until(time.Unix(claims.ExpiresAt, 0))
		if untilExpiry <= 0 {
			return fmt.Errorf("token has already expired")
		}
		if untilExpiry < ttl {
			ttl = untilExpiry
		}
	}

	data, err := json.Marshal(claims)
	if err != nil {
		return fmt.Errorf("failed to marshal claims: %v", err)
	}

	if err := cc.client.Set(ctx, claimsKey(token), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache claims: %v", err)
	}

	return nil
}

// Close releases the underlying Redis connection.
func (cc *ClaimsCache) Close() error {
	return cc.client.Close()
}
