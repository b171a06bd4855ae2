package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"forex-signal-bot/internal/cache"
	"forex-signal-bot/internal/domain"
	"forex-signal-bot/internal/metrics"
)

const (
	DefaultBaseURL = "https://www.alphavantage.co/query"
	defaultTimeout = 30 * time.Second
	maxBodyBytes   = 8 << 20
)

// rejection markers the provider places inside a 200 response
var rejectionKeys = []string{"Error Message", "Note", "Information"}

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// RatePerMinute paces outgoing requests; zero disables pacing.
	RatePerMinute int
	// DedupeInFlight collapses concurrent misses for one fingerprint into a single request.
	DedupeInFlight bool
}

// Client fetches indicator payloads from Alpha Vantage through a TTL cache.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cache      cache.Store
	ttl        time.Duration
	tracer     trace.Tracer
	log        zerolog.Logger
	metrics    *metrics.Metrics
	limiter    *rate.Limiter
	inflight   *singleflight.Group
}

func NewClient(cfg Config, store cache.Store, tracer trace.Tracer, log zerolog.Logger, m *metrics.Metrics) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := &Client{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		cache:      store,
		ttl:        cache.DefaultTTL,
		tracer:     tracer,
		log:        log.With().Str("component", "alphavantage").Logger(),
		metrics:    m,
	}
	if cfg.RatePerMinute > 0 {
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RatePerMinute)), 1)
	}
	if cfg.DedupeInFlight {
		c.inflight = &singleflight.Group{}
	}
	return c
}

// Fetch returns the payload for req, from the cache when a live entry exists.
func (c *Client) Fetch(ctx context.Context, req domain.IndicatorRequest) (domain.Payload, error) {
	ctx, span := c.tracer.Start(ctx, "alphavantage.fetch")
	defer span.End()

	fp := req.Fingerprint()
	span.SetAttributes(attribute.String("fingerprint", fp))

	if c.cache != nil {
		payload, ok, err := c.cache.Get(ctx, fp)
		switch {
		case err != nil:
			// a broken cache degrades to a miss
			c.metrics.CacheLookup("error")
			c.log.Warn().Err(err).Str("fingerprint", fp).Msg("cache lookup failed")
		case ok:
			c.metrics.CacheLookup("hit")
			span.SetAttributes(attribute.Bool("cache_hit", true))
			return payload, nil
		default:
			c.metrics.CacheLookup("miss")
		}
	}

	if c.inflight == nil {
		return c.fetchAndStore(ctx, req, fp)
	}
	v, err, shared := c.inflight.Do(fp, func() (interface{}, error) {
		return c.fetchAndStore(ctx, req, fp)
	})
	if shared {
		c.log.Debug().Str("fingerprint", fp).Msg("joined in-flight request")
	}
	if err != nil {
		return nil, err
	}
	return v.(domain.Payload), nil
}

func (c *Client) fetchAndStore(ctx context.Context, req domain.IndicatorRequest, fp string) (domain.Payload, error) {
	payload, err := c.request(ctx, req)
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		if err := c.cache.Put(ctx, fp, payload, c.ttl); err != nil {
			c.log.Warn().Err(err).Str("fingerprint", fp).Msg("cache store failed")
		}
	}
	return payload, nil
}

func (c *Client) request(ctx context.Context, req domain.IndicatorRequest) (domain.Payload, error) {
	function := string(req.Indicator)
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("wait for provider slot: %w", err)
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(req), nil)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", function, err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.metrics.ProviderRequest(function, "transport_error", time.Since(start))
		return nil, fmt.Errorf("request %s: %w", function, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.ProviderRequest(function, "unavailable", time.Since(start))
		return nil, domain.ProviderUnavailableError{Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.metrics.ProviderRequest(function, "transport_error", time.Since(start))
		return nil, fmt.Errorf("read %s response: %w", function, err)
	}

	if err := validate(body); err != nil {
		c.metrics.ProviderRequest(function, "rejected", time.Since(start))
		var rejected domain.ProviderRejectedError
		if errors.As(err, &rejected) {
			c.log.Warn().Str("function", function).Str("symbol", req.Symbol).Str("reason", rejected.Reason).Msg("provider rejected request")
		}
		return nil, err
	}

	c.metrics.ProviderRequest(function, "ok", time.Since(start))
	c.log.Debug().Str("function", function).Str("symbol", req.Symbol).Dur("took", time.Since(start)).Msg("fetched indicator")
	return domain.Payload(body), nil
}

func (c *Client) buildURL(req domain.IndicatorRequest) string {
	q := url.Values{}
	q.Set("function", string(req.Indicator))
	q.Set("symbol", req.Symbol)
	q.Set("interval", string(req.Interval))
	q.Set("apikey", c.apiKey)
	if req.Period > 0 {
		q.Set("time_period", strconv.Itoa(req.Period))
	}
	if req.SeriesType != "" {
		q.Set("series_type", req.SeriesType)
	}
	return c.baseURL + "?" + q.Encode()
}

func validate(body []byte) error {
	if !gjson.ValidBytes(body) {
		return domain.ProviderRejectedError{Reason: "response is not valid JSON"}
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return domain.ProviderRejectedError{Reason: "response is not a JSON object"}
	}
	for _, key := range rejectionKeys {
		if v := root.Get(key); v.Exists() {
			return domain.ProviderRejectedError{Reason: fmt.Sprintf("%s: %s", key, v.String())}
		}
	}
	return nil
}
