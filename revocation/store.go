package revocation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultPrefix is used when a store is created with a blank prefix.
const DefaultPrefix = "jr"

// Store records revoked token IDs until the tokens expire.
type Store struct {
	redis  redis.UniversalClient
	prefix string
	now    func() time.Time
}

// New creates a [Store] on the given Redis client.
func New(client redis.UniversalClient, prefix string) *Store {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{redis: client, prefix: prefix, now: time.Now}
}

// WithClock overrides the clock used to compute key TTLs.
func (s *Store) WithClock(now func() time.Time) *Store {
	if now != nil {
		s.now = now
	}
	return s
}

// Revoke denylists jti until the given instant. An instant in the past is a
// no-op: an expired token is already rejected by its exp claim.
func (s *Store) Revoke(ctx context.Context, jti string, until time.Time) error {
	if strings.TrimSpace(jti) == "" {
		return ErrEmptyTokenID
	}
	ttl := until.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	// Redis expiry granularity used by SET EX is whole seconds.
	if ttl < time.Second {
		ttl = time.Second
	}

	if err := s.redis.Set(ctx, s.key(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// IsRevoked reports whether jti is currently denylisted.
func (s *Store) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if strings.TrimSpace(jti) == "" {
		return false, ErrEmptyTokenID
	}
	n, err := s.redis.Exists(ctx, s.key(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return n > 0, nil
}

// Restore removes jti from the denylist.
func (s *Store) Restore(ctx context.Context, jti string) error {
	if strings.TrimSpace(jti) == "" {
		return ErrEmptyTokenID
	}
	if err := s.redis.Del(ctx, s.key(jti)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

func (s *Store) key(jti string) string {
	return s.prefix + ":" + jti
}
