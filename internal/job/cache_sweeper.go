package job

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"forex-signal-bot/internal/cache"
	"forex-signal-bot/internal/metrics"
)

// CacheSweeper periodically drops expired entries from a cache store.
// Lookups already ignore expired entries, so the sweeper only bounds memory.
type CacheSweeper struct {
	tracer  trace.Tracer
	purger  cache.Purger
	period  time.Duration
	log     zerolog.Logger
	metrics *metrics.Metrics
}

func NewCacheSweeper(tracer trace.Tracer, purger cache.Purger, period time.Duration, log zerolog.Logger, m *metrics.Metrics) *CacheSweeper {
	return &CacheSweeper{
		tracer:  tracer,
		purger:  purger,
		period:  period,
		log:     log.With().Str("component", "cache-sweeper").Logger(),
		metrics: m,
	}
}

// Start blocks until ctx is done. A nil purger or non-positive period
// leaves the sweeper idle.
func (j *CacheSweeper) Start(ctx context.Context) {
	if j == nil || j.purger == nil || j.period <= 0 {
		<-ctx.Done()
		return
	}

	j.log.Info().Dur("period", j.period).Msg("cache sweeper starting")
	ticker := time.NewTicker(j.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.log.Info().Msg("cache sweeper stopped")
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *CacheSweeper) sweep(ctx context.Context) {
	ctx, span := j.tracer.Start(ctx, "cache-sweeper.sweep")
	defer span.End()

	removed, err := j.purger.Purge(ctx)
	if err != nil {
		span.RecordError(err)
		j.log.Error().Err(err).Msg("cache sweep failed")
		return
	}
	span.SetAttributes(attribute.Int("removed", removed))
	j.metrics.Swept(removed)
	if removed > 0 {
		j.log.Debug().Int("removed", removed).Msg("cache sweep removed expired entries")
	}
}
