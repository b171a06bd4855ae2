package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace/noop"

	"forex-signal-bot/internal/domain"
	"forex-signal-bot/internal/metrics"
	"forex-signal-bot/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(api AnalysisAPI, reg *prometheus.Registry) *gin.Engine {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	h := New(noop.NewTracerProvider().Tracer("handler-test"), api, reg, zerolog.Nop())
	r := gin.New()
	h.RegisterRoutes(r)
	return r
}

func serve(r *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestHealth(t *testing.T) {
	w := serve(newTestRouter(&stubAnalysisAPI{}, nil), "/health")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok"`) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestGetHorizons(t *testing.T) {
	w := serve(newTestRouter(&stubAnalysisAPI{}, nil), "/api/horizons")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Horizons []horizonView `json:"horizons"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(resp.Horizons) != 3 {
		t.Fatalf("expected 3 horizons, got %d", len(resp.Horizons))
	}
	medium := resp.Horizons[1]
	if medium.Horizon != domain.HorizonMedium || medium.Interval != domain.IntervalDaily || medium.RSIPeriod != 14 || medium.SMAPeriod != 20 {
		t.Fatalf("unexpected medium row: %+v", medium)
	}
}

func TestGetAnalysisDefaultsToMedium(t *testing.T) {
	api := &stubAnalysisAPI{analysis: &domain.Analysis{
		Pair:    "USDTRY",
		Horizon: domain.HorizonMedium,
		Result: domain.SignalResult{
			Direction:  domain.DirectionLong,
			Score:      3,
			TakeProfit: decimal.RequireFromString("33.00"),
			StopLoss:   decimal.RequireFromString("31.80"),
		},
	}}
	w := serve(newTestRouter(api, nil), "/api/analysis/usdtry")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if api.lastPair != "USDTRY" || api.lastHorizon != domain.HorizonMedium {
		t.Fatalf("unexpected call: pair=%s horizon=%s", api.lastPair, api.lastHorizon)
	}

	var got domain.Analysis
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if got.Result.Direction != domain.DirectionLong || !got.Result.TakeProfit.Equal(decimal.RequireFromString("33")) {
		t.Fatalf("unexpected analysis: %+v", got)
	}
}

func TestGetAnalysisInvalidHorizon(t *testing.T) {
	api := &stubAnalysisAPI{}
	w := serve(newTestRouter(api, nil), "/api/analysis/USDTRY?horizon=weekly")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if api.calls != 0 {
		t.Fatal("expected no analysis for a bad horizon")
	}
}

func TestGetAnalysisErrorStatuses(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"unavailable", fmt.Errorf("fetch RSI: %w", domain.ProviderUnavailableError{Status: 503}), http.StatusBadGateway},
		{"rejected", domain.ProviderRejectedError{Reason: "Invalid API call"}, http.StatusBadGateway},
		{"malformed", domain.MalformedPayloadError{Indicator: domain.IndicatorRSI, Reason: "empty series"}, http.StatusBadGateway},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := serve(newTestRouter(&stubAnalysisAPI{err: tc.err}, nil), "/api/analysis/USDTRY?horizon=short")
			if w.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, w.Code)
			}
		})
	}
}

func TestGetAnalysesFilter(t *testing.T) {
	api := &stubAnalysisAPI{list: []domain.Analysis{{Pair: "EURUSD", Horizon: domain.HorizonLong}}}
	w := serve(newTestRouter(api, nil), "/api/analyses?pair=eurusd&horizon=long&limit=5")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if api.lastFilter.Pair != "EURUSD" || api.lastFilter.Horizon != domain.HorizonLong || api.lastFilter.Limit != 5 {
		t.Fatalf("unexpected filter: %+v", api.lastFilter)
	}

	var resp struct {
		Analyses []domain.Analysis `json:"analyses"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(resp.Analyses) != 1 || resp.Analyses[0].Pair != "EURUSD" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestGetAnalysesInvalidLimit(t *testing.T) {
	w := serve(newTestRouter(&stubAnalysisAPI{}, nil), "/api/analyses?limit=501")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGetAnalysesHistoryDisabled(t *testing.T) {
	w := serve(newTestRouter(&stubAnalysisAPI{err: service.ErrHistoryDisabled}, nil), "/api/analyses")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestNilAnalysisService(t *testing.T) {
	w := serve(newTestRouter(nil, nil), "/api/analysis/USDTRY")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.CacheLookup("hit")

	w := serve(newTestRouter(&stubAnalysisAPI{}, reg), "/metrics")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `forexbot_cache_lookups_total{result="hit"} 1`) {
		t.Fatalf("expected cache metric in output, got:\n%s", w.Body.String())
	}
}

func TestCORSHeaders(t *testing.T) {
	r := newTestRouter(&stubAnalysisAPI{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://dashboard.local")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected wildcard CORS origin, got %q", got)
	}
}

type stubAnalysisAPI struct {
	analysis    *domain.Analysis
	list        []domain.Analysis
	err         error
	calls       int
	lastPair    string
	lastHorizon domain.Horizon
	lastFilter  domain.AnalysisFilter
}

func (s *stubAnalysisAPI) Analyze(ctx context.Context, pair string, horizon domain.Horizon) (*domain.Analysis, error) {
	s.calls++
	s.lastPair = pair
	s.lastHorizon = horizon
	if s.err != nil {
		return nil, s.err
	}
	return s.analysis, nil
}

func (s *stubAnalysisAPI) ListAnalyses(ctx context.Context, filter domain.AnalysisFilter) ([]domain.Analysis, error) {
	s.lastFilter = filter
	if s.err != nil {
		return nil, s.err
	}
	return s.list, nil
}
