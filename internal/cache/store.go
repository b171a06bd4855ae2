package cache

import (
	"context"
	"time"

	"forex-signal-bot/internal/domain"
)

// DefaultTTL is the lifetime of every indicator payload.
const DefaultTTL = 15 * time.Minute

// Store maps a request fingerprint to a payload until its expiry.
// Get reports found=false for missing and expired entries alike.
type Store interface {
	Get(ctx context.Context, fingerprint string) (domain.Payload, bool, error)
	Put(ctx context.Context, fingerprint string, payload domain.Payload, ttl time.Duration) error
}

// Purger is implemented by stores that keep expired entries around until swept.
type Purger interface {
	Purge(ctx context.Context) (int, error)
}

type entry struct {
	Payload   []byte    `msgpack:"p"`
	ExpiresAt time.Time `msgpack:"e"`
}

func (e entry) usable(now time.Time) bool {
	return now.Before(e.ExpiresAt)
}
