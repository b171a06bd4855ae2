package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"forex-signal-bot/internal/domain"
)

type Config struct {
	TelegramBotToken string
	AuthorizedUsers  []string
	SupportContact   string
	DefaultLanguage  domain.Language

	AlphaVantageAPIKey     string
	AlphaVantageBaseURL    string
	ProviderTimeoutSecs    int
	ProviderRatePerMin     int
	ProviderDedupeInFlight bool

	CacheBackend   string
	RedisURL       string
	CacheSweepSecs int

	DatabaseURL string
	HTTPPort    int

	LogLevel  string
	LogPretty bool

	OTLPEndpoint string

	MCPTransport          string
	MCPHTTPEnabled        bool
	MCPHTTPBind           string
	MCPHTTPPort           int
	MCPAuthToken          string
	MCPRequestTimeoutSecs int
	MCPRateLimitPerMin    int
}

func Load() *Config {
	cfg := &Config{
		TelegramBotToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		AlphaVantageAPIKey: strings.TrimSpace(os.Getenv("ALPHAVANTAGE_API_KEY")),
		SupportContact:     strings.TrimSpace(os.Getenv("SUPPORT_CONTACT")),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		MCPAuthToken:       os.Getenv("MCP_AUTH_TOKEN"),
		OTLPEndpoint:       strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
	}

	if cfg.TelegramBotToken == "" {
		log.Warn().Msg("TELEGRAM_BOT_TOKEN not set")
	}
	if cfg.AlphaVantageAPIKey == "" {
		log.Warn().Msg("ALPHAVANTAGE_API_KEY not set, provider requests will be rejected")
	}

	cfg.AuthorizedUsers = splitList(os.Getenv("AUTHORIZED_USERS"))
	if len(cfg.AuthorizedUsers) == 0 {
		log.Warn().Msg("AUTHORIZED_USERS is empty, every /forex request will be refused")
	}

	cfg.DefaultLanguage = domain.LanguageTR
	if v := strings.TrimSpace(os.Getenv("DEFAULT_LANGUAGE")); v != "" {
		if lang, err := domain.ParseLanguage(v); err == nil {
			cfg.DefaultLanguage = lang
		} else {
			log.Warn().Str("value", v).Msg("unsupported DEFAULT_LANGUAGE, defaulting to tr")
		}
	}

	cfg.AlphaVantageBaseURL = strings.TrimSpace(os.Getenv("ALPHAVANTAGE_BASE_URL"))
	if cfg.AlphaVantageBaseURL == "" {
		cfg.AlphaVantageBaseURL = "https://www.alphavantage.co/query"
	}

	cfg.ProviderTimeoutSecs = positiveInt("PROVIDER_TIMEOUT_SECS", 30)

	cfg.ProviderRatePerMin = 0
	if v := strings.TrimSpace(os.Getenv("PROVIDER_RATE_PER_MIN")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.ProviderRatePerMin = n
		}
	}

	cfg.ProviderDedupeInFlight = strings.EqualFold(strings.TrimSpace(os.Getenv("PROVIDER_DEDUPE_INFLIGHT")), "true")

	cfg.CacheBackend = strings.ToLower(strings.TrimSpace(os.Getenv("CACHE_BACKEND")))
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = "memory"
	}
	if cfg.CacheBackend != "memory" && cfg.CacheBackend != "redis" {
		log.Warn().Str("value", cfg.CacheBackend).Msg("unsupported CACHE_BACKEND, defaulting to memory")
		cfg.CacheBackend = "memory"
	}

	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	if cfg.RedisURL == "" {
		cfg.RedisURL = "localhost:6379"
	}

	cfg.CacheSweepSecs = 600
	if v := strings.TrimSpace(os.Getenv("CACHE_SWEEP_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.CacheSweepSecs = n
		}
	}

	cfg.HTTPPort = positiveInt("PORT", 8080)

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	cfg.LogPretty = strings.EqualFold(strings.TrimSpace(os.Getenv("LOG_PRETTY")), "true")

	cfg.MCPTransport = strings.ToLower(strings.TrimSpace(os.Getenv("MCP_TRANSPORT")))
	if cfg.MCPTransport == "" {
		cfg.MCPTransport = "stdio"
	}
	if cfg.MCPTransport != "stdio" && cfg.MCPTransport != "http" {
		log.Warn().Str("value", cfg.MCPTransport).Msg("unsupported MCP_TRANSPORT, defaulting to stdio")
		cfg.MCPTransport = "stdio"
	}

	cfg.MCPHTTPEnabled = strings.EqualFold(strings.TrimSpace(os.Getenv("MCP_HTTP_ENABLED")), "true")

	cfg.MCPHTTPBind = strings.TrimSpace(os.Getenv("MCP_HTTP_BIND"))
	if cfg.MCPHTTPBind == "" {
		cfg.MCPHTTPBind = "127.0.0.1"
	}

	cfg.MCPHTTPPort = positiveInt("MCP_HTTP_PORT", 8090)
	cfg.MCPRequestTimeoutSecs = positiveInt("MCP_REQUEST_TIMEOUT_SECS", 5)
	cfg.MCPRateLimitPerMin = positiveInt("MCP_RATE_LIMIT_PER_MIN", 60)

	return cfg
}

func positiveInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Warn().Str("key", key).Str("value", v).Int("default", fallback).Msg("invalid value, using default")
		return fallback
	}
	return n
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
