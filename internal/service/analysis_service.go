package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"forex-signal-bot/internal/domain"
	"forex-signal-bot/internal/metrics"
	"forex-signal-bot/internal/signal"
)

const defaultHistoryLimit = 50

var ErrHistoryDisabled = errors.New("analysis history is not configured")

type IndicatorFetcher interface {
	Fetch(ctx context.Context, req domain.IndicatorRequest) (domain.Payload, error)
}

type SignalEngine interface {
	Evaluate(r domain.Readings) domain.SignalResult
}

type AnalysisRepository interface {
	InsertAnalysis(ctx context.Context, a *domain.Analysis) error
	ListAnalyses(ctx context.Context, filter domain.AnalysisFilter) ([]domain.Analysis, error)
}

type AnalysisService struct {
	tracer  trace.Tracer
	fetcher IndicatorFetcher
	engine  SignalEngine
	repo    AnalysisRepository
	log     zerolog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewAnalysisService wires the analysis step. repo may be nil, in which case
// analyses are not recorded and ListAnalyses reports ErrHistoryDisabled.
func NewAnalysisService(
	tracer trace.Tracer,
	fetcher IndicatorFetcher,
	engine SignalEngine,
	repo AnalysisRepository,
	log zerolog.Logger,
	m *metrics.Metrics,
) *AnalysisService {
	return &AnalysisService{
		tracer:  tracer,
		fetcher: fetcher,
		engine:  engine,
		repo:    repo,
		log:     log.With().Str("component", "analysis").Logger(),
		metrics: m,
		now:     time.Now,
	}
}

// Analyze fetches RSI, SMA, EMA, the daily price series and ATR for pair in
// that order, then scores the latest readings.
func (s *AnalysisService) Analyze(ctx context.Context, pair string, horizon domain.Horizon) (*domain.Analysis, error) {
	ctx, span := s.tracer.Start(ctx, "analysis-service.analyze")
	defer span.End()

	if s.fetcher == nil || s.engine == nil {
		return nil, fmt.Errorf("analysis service is not fully initialized")
	}

	pair = strings.ToUpper(pair)
	if strings.TrimSpace(pair) == "" {
		return nil, domain.ErrSessionDataMissing
	}
	params, ok := horizon.Params()
	if !ok {
		return nil, domain.ErrUnknownHorizon
	}
	span.SetAttributes(attribute.String("pair", pair), attribute.String("horizon", string(horizon)))

	readings, err := s.readings(ctx, pair, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.metrics.AnalysisFailed(failureKind(err))
		return nil, err
	}

	result := s.engine.Evaluate(readings)
	analysis := &domain.Analysis{
		ID:        uuid.New(),
		Pair:      pair,
		Horizon:   horizon,
		Readings:  readings,
		Result:    result,
		CreatedAt: s.now().UTC(),
	}
	s.metrics.AnalysisDone(string(horizon), string(result.Direction))

	if s.repo != nil {
		if err := s.repo.InsertAnalysis(ctx, analysis); err != nil {
			s.log.Error().Err(err).Str("pair", pair).Msg("record analysis failed")
		}
	}
	return analysis, nil
}

func (s *AnalysisService) readings(ctx context.Context, pair string, p domain.HorizonParams) (domain.Readings, error) {
	requests := []domain.IndicatorRequest{
		{Indicator: domain.IndicatorRSI, Symbol: pair, Interval: p.Interval, Period: p.RSIPeriod, SeriesType: domain.SeriesClose},
		{Indicator: domain.IndicatorSMA, Symbol: pair, Interval: p.Interval, Period: p.SMAPeriod, SeriesType: domain.SeriesClose},
		{Indicator: domain.IndicatorEMA, Symbol: pair, Interval: p.Interval, Period: p.EMAPeriod, SeriesType: domain.SeriesClose},
		{Indicator: domain.IndicatorPriceSeries, Symbol: pair, Interval: p.Interval},
		{Indicator: domain.IndicatorATR, Symbol: pair, Interval: p.Interval, Period: p.ATRPeriod},
	}

	values := make(map[domain.Indicator]float64, len(requests))
	for _, req := range requests {
		payload, err := s.fetcher.Fetch(ctx, req)
		if err != nil {
			return domain.Readings{}, fmt.Errorf("fetch %s for %s: %w", req.Indicator, pair, err)
		}
		v, err := latestValue(req.Indicator, payload)
		if err != nil {
			return domain.Readings{}, err
		}
		values[req.Indicator] = v
	}

	price := values[domain.IndicatorPriceSeries]
	upper, lower := signal.BollingerBands(price)
	return domain.Readings{
		RSI:            values[domain.IndicatorRSI],
		SMA:            values[domain.IndicatorSMA],
		EMA:            values[domain.IndicatorEMA],
		ATR:            values[domain.IndicatorATR],
		Price:          price,
		BollingerUpper: upper,
		BollingerLower: lower,
	}, nil
}

func (s *AnalysisService) ListAnalyses(ctx context.Context, filter domain.AnalysisFilter) ([]domain.Analysis, error) {
	ctx, span := s.tracer.Start(ctx, "analysis-service.list-analyses")
	defer span.End()

	if s.repo == nil {
		return nil, ErrHistoryDisabled
	}

	filter.Pair = strings.ToUpper(strings.TrimSpace(filter.Pair))
	if filter.Horizon != "" && !filter.Horizon.IsValid() {
		return nil, domain.ErrUnknownHorizon
	}
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = defaultHistoryLimit
	}
	return s.repo.ListAnalyses(ctx, filter)
}

func failureKind(err error) string {
	var (
		unavailable domain.ProviderUnavailableError
		rejected    domain.ProviderRejectedError
		malformed   domain.MalformedPayloadError
	)
	switch {
	case errors.As(err, &unavailable):
		return "provider_unavailable"
	case errors.As(err, &rejected):
		return "provider_rejected"
	case errors.As(err, &malformed):
		return "malformed_payload"
	}
	return "other"
}
