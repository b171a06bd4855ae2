// Package di builds the analysis component graph shared by the bot server
// and the MCP server.
package di

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"forex-signal-bot/internal/cache"
	"forex-signal-bot/internal/config"
	"forex-signal-bot/internal/db"
	"forex-signal-bot/internal/job"
	"forex-signal-bot/internal/metrics"
	"forex-signal-bot/internal/provider"
	"forex-signal-bot/internal/repository"
	"forex-signal-bot/internal/service"
	"forex-signal-bot/internal/signal"
)

// Container holds the wired components. Redis, Pool and History are nil
// when the matching backend is not configured or unreachable.
type Container struct {
	Metrics  *metrics.Metrics
	Redis    *redis.Client
	Pool     *pgxpool.Pool
	Store    cache.Store
	Provider *provider.Client
	Engine   *signal.Engine
	History  *repository.AnalysisRepository
	Analysis *service.AnalysisService
	Sweeper  *job.CacheSweeper
}

var (
	initPostgresFunc   = db.InitPostgres
	newRedisClientFunc = cache.NewRedisClient
)

// Wire builds the container. Backend failures are logged and degrade to the
// in-memory cache or a disabled history rather than aborting startup.
func Wire(ctx context.Context, cfg *config.Config, tracer trace.Tracer, log zerolog.Logger, reg prometheus.Registerer) *Container {
	c := &Container{Metrics: metrics.New(reg)}

	c.Store = c.initCache(ctx, cfg, log)
	c.initHistory(ctx, cfg, tracer, log)

	c.Provider = provider.NewClient(provider.Config{
		BaseURL:        cfg.AlphaVantageBaseURL,
		APIKey:         cfg.AlphaVantageAPIKey,
		Timeout:        time.Duration(cfg.ProviderTimeoutSecs) * time.Second,
		RatePerMinute:  cfg.ProviderRatePerMin,
		DedupeInFlight: cfg.ProviderDedupeInFlight,
	}, c.Store, tracer, log, c.Metrics)

	c.Engine = signal.NewEngine()

	var history service.AnalysisRepository
	if c.History != nil {
		history = c.History
	}
	c.Analysis = service.NewAnalysisService(tracer, c.Provider, c.Engine, history, log, c.Metrics)

	if purger, ok := c.Store.(cache.Purger); ok {
		c.Sweeper = job.NewCacheSweeper(tracer, purger, time.Duration(cfg.CacheSweepSecs)*time.Second, log, c.Metrics)
	}

	log.Info().
		Str("cache", cacheKind(c)).
		Bool("history", c.History != nil).
		Msg("components wired")
	return c
}

func (c *Container) initCache(ctx context.Context, cfg *config.Config, log zerolog.Logger) cache.Store {
	if cfg.CacheBackend == "redis" {
		client, err := newRedisClientFunc(ctx, cfg.RedisURL, log)
		if err == nil {
			c.Redis = client
			return cache.NewRedisStore(client, nil)
		}
		log.Error().Err(err).Msg("redis unavailable, using in-memory indicator cache")
	}
	return cache.NewMemoryStore(nil)
}

func (c *Container) initHistory(ctx context.Context, cfg *config.Config, tracer trace.Tracer, log zerolog.Logger) {
	pool, err := initPostgresFunc(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error().Err(err).Msg("postgres unavailable, analysis history disabled")
		return
	}
	if pool == nil {
		return
	}

	repo := repository.NewAnalysisRepository(pool, tracer)
	if err := repo.RunMigrations(ctx); err != nil {
		log.Error().Err(err).Msg("analysis history migration failed, history disabled")
		pool.Close()
		return
	}
	c.Pool = pool
	c.History = repo
}

// StartJobs launches background jobs; they stop when ctx is done.
func (c *Container) StartJobs(ctx context.Context) {
	if c.Sweeper != nil {
		go c.Sweeper.Start(ctx)
	}
}

func (c *Container) Close() {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.Pool != nil {
		c.Pool.Close()
	}
}

func cacheKind(c *Container) string {
	if c.Redis != nil {
		return "redis"
	}
	return "memory"
}
