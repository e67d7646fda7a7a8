package token

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/avkram/accountd/internal/errs"
)

const revocationKeyPrefix = "jwt:"

// RedisStore keeps live token ids in Redis, shared by every service instance.
// Keys carry a TTL equal to the token's remaining lifetime at issuance, so the
// store cleans itself up without a reaper.
type RedisStore struct {
	client *redis.Client
}

var _ RevocationStore = (*RedisStore)(nil)

// NewRedisStore constructs a Redis-backed revocation store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Put records tokenID as live for ttl.
func (s *RedisStore) Put(ctx context.Context, tokenID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, revocationKeyPrefix+tokenID, "1", ttl).Err(); err != nil {
		return errs.ErrRepo
	}
	return nil
}

// Exists reports whether tokenID is still live.
func (s *RedisStore) Exists(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, revocationKeyPrefix+tokenID).Result()
	if err != nil {
		return false, errs.ErrRepo
	}
	return n > 0, nil
}

// Delete removes tokenID eagerly.
func (s *RedisStore) Delete(ctx context.Context, tokenID string) error {
	if err := s.client.Del(ctx, revocationKeyPrefix+tokenID).Err(); err != nil {
		return errs.ErrRepo
	}
	return nil
}
