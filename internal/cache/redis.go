package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"forex-signal-bot/internal/domain"
)

const redisKeyPrefix = "indicator:"

// NewRedisClient connects to addr and verifies the connection with PING.
func NewRedisClient(ctx context.Context, addr string, log zerolog.Logger) (*redis.Client, error) {
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis %s: %w", addr, err)
	}
	log.Info().Str("addr", addr).Msg("connected to redis")
	return client, nil
}

// RedisStore keeps payloads in Redis. Keys carry a native expiry slightly past
// the logical one so Redis reclaims them; reads still check ExpiresAt.
type RedisStore struct {
	client redis.Cmdable
	now    func() time.Time
}

func NewRedisStore(client redis.Cmdable, now func() time.Time) *RedisStore {
	if now == nil {
		now = time.Now
	}
	return &RedisStore{client: client, now: now}
}

func (s *RedisStore) Get(ctx context.Context, fingerprint string) (domain.Payload, bool, error) {
	raw, err := s.client.Get(ctx, redisKeyPrefix+fingerprint).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", fingerprint, err)
	}

	var e entry
	if err := msgpack.Unmarshal(raw, &e); err != nil {
		return nil, false, fmt.Errorf("decode cache entry %s: %w", fingerprint, err)
	}
	if !e.usable(s.now()) {
		return nil, false, nil
	}
	return domain.Payload(e.Payload), true, nil
}

func (s *RedisStore) Put(ctx context.Context, fingerprint string, payload domain.Payload, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	raw, err := msgpack.Marshal(entry{
		Payload:   []byte(payload),
		ExpiresAt: s.now().Add(ttl),
	})
	if err != nil {
		return fmt.Errorf("encode cache entry %s: %w", fingerprint, err)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+fingerprint, raw, ttl+time.Minute).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", fingerprint, err)
	}
	return nil
}
