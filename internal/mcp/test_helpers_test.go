package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/shopspring/decimal"

	"forex-signal-bot/internal/domain"
)

type stubAnalysisService struct {
	analysis *domain.Analysis
	listed   []domain.Analysis
	err      error

	lastPair    string
	lastHorizon domain.Horizon
	lastFilter  domain.AnalysisFilter
}

func (s *stubAnalysisService) Analyze(ctx context.Context, pair string, horizon domain.Horizon) (*domain.Analysis, error) {
	s.lastPair = pair
	s.lastHorizon = horizon
	if s.err != nil {
		return nil, s.err
	}
	out := *s.analysis
	out.Pair = pair
	out.Horizon = horizon
	return &out, nil
}

func (s *stubAnalysisService) ListAnalyses(ctx context.Context, filter domain.AnalysisFilter) ([]domain.Analysis, error) {
	s.lastFilter = filter
	if s.err != nil {
		return nil, s.err
	}
	return append([]domain.Analysis(nil), s.listed...), nil
}

func sampleAnalysis() domain.Analysis {
	return domain.Analysis{
		ID:      uuid.MustParse("7f1b1a8e-6d64-4c5e-9a55-3b8c2a3b9d10"),
		Pair:    "USDTRY",
		Horizon: domain.HorizonMedium,
		Readings: domain.Readings{
			RSI: 28, SMA: 32, EMA: 32.1, ATR: 0.3, Price: 32.4,
			BollingerUpper: 34.02, BollingerLower: 30.78,
		},
		Result: domain.SignalResult{
			Direction:  domain.DirectionLong,
			Score:      6,
			Scores:     map[string]int{domain.ScoreRSI: 2, domain.ScoreSMA: 1, domain.ScoreEMA: 1, domain.ScoreBollinger: 1, domain.ScoreATR: 1},
			TakeProfit: decimal.RequireFromString("33.00"),
			StopLoss:   decimal.RequireFromString("31.80"),
		},
		CreatedAt: time.Unix(0, 0).UTC(),
	}
}

func testServer() (*sdkmcp.Server, *stubAnalysisService) {
	a := sampleAnalysis()
	svc := &stubAnalysisService{
		analysis: &a,
		listed:   []domain.Analysis{a},
	}
	srv := NewServer(nil, svc, ServerConfig{RequestTimeout: time.Second})
	return srv, svc
}

func connectInMemory(ctx context.Context, srv *sdkmcp.Server) (*sdkmcp.ClientSession, context.CancelFunc, error) {
	clientTransport, serverTransport := sdkmcp.NewInMemoryTransports()
	runCtx, cancel := context.WithCancel(ctx)
	go func() { _ = srv.Run(runCtx, serverTransport) }()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "mcp-test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	return session, cancel, nil
}

type authRoundTripper struct {
	token string
	base  http.RoundTripper
}

func (t *authRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	if t.token != "" {
		clone.Header.Set("Authorization", "Bearer "+t.token)
	}
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(clone)
}

func decodeResourceJSON(result *sdkmcp.ReadResourceResult, out any) error {
	if len(result.Contents) == 0 {
		return nil
	}
	return json.Unmarshal([]byte(result.Contents[0].Text), out)
}
