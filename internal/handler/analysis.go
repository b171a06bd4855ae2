package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"forex-signal-bot/internal/domain"
	"forex-signal-bot/internal/service"
)

type horizonView struct {
	Horizon   domain.Horizon  `json:"horizon"`
	Interval  domain.Interval `json:"interval"`
	RSIPeriod int             `json:"rsi_period"`
	SMAPeriod int             `json:"sma_period"`
	EMAPeriod int             `json:"ema_period"`
	ATRPeriod int             `json:"atr_period"`
}

// GetHorizons godoc
// @Summary      List analysis horizons
// @Description  Returns the indicator interval and periods used for each horizon
// @Tags         analysis
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/horizons [get]
func (h *Handler) GetHorizons(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"horizons": horizonTable()})
}

func horizonTable() []horizonView {
	out := make([]horizonView, 0, len(domain.SupportedHorizons))
	for _, hz := range domain.SupportedHorizons {
		p, _ := hz.Params()
		out = append(out, horizonView{
			Horizon:   hz,
			Interval:  p.Interval,
			RSIPeriod: p.RSIPeriod,
			SMAPeriod: p.SMAPeriod,
			EMAPeriod: p.EMAPeriod,
			ATRPeriod: p.ATRPeriod,
		})
	}
	return out
}

// GetAnalysis godoc
// @Summary      Analyze a currency pair
// @Description  Fetches the latest indicators for the pair and returns the scored signal
// @Tags         analysis
// @Produce      json
// @Param        pair     path   string  true   "Currency pair (e.g., USDTRY)"
// @Param        horizon  query  string  false  "short, medium or long"  default(medium)
// @Success      200  {object}  domain.Analysis
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/analysis/{pair} [get]
func (h *Handler) GetAnalysis(c *gin.Context) {
	if h.analysis == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analysis service unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-analysis")
	defer span.End()

	pair := strings.ToUpper(strings.TrimSpace(c.Param("pair")))
	horizon := domain.HorizonMedium
	if raw := strings.TrimSpace(c.Query("horizon")); raw != "" {
		hz, err := domain.ParseHorizon(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":              err.Error(),
				"supported_horizons": domain.SupportedHorizons,
			})
			return
		}
		horizon = hz
	}
	span.SetAttributes(attribute.String("pair", pair), attribute.String("horizon", string(horizon)))

	analysis, err := h.analysis.Analyze(ctx, pair, horizon)
	if err != nil {
		c.JSON(analysisStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, analysis)
}

// GetAnalyses godoc
// @Summary      List recorded analyses
// @Description  Returns recent analyses, newest first, optionally filtered by pair and horizon
// @Tags         analysis
// @Produce      json
// @Param        pair     query  string  false  "Currency pair"
// @Param        horizon  query  string  false  "short, medium or long"
// @Param        limit    query  int     false  "Number of analyses (default 50, max 500)"  default(50)
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/analyses [get]
func (h *Handler) GetAnalyses(c *gin.Context) {
	if h.analysis == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analysis service unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-analyses")
	defer span.End()

	filter := domain.AnalysisFilter{
		Pair: strings.ToUpper(strings.TrimSpace(c.Query("pair"))),
	}
	if raw := strings.TrimSpace(c.Query("horizon")); raw != "" {
		hz, err := domain.ParseHorizon(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		filter.Horizon = hz
	}

	filter.Limit = 50
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 500 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 500"})
			return
		}
		filter.Limit = n
	}

	analyses, err := h.analysis.ListAnalyses(ctx, filter)
	if err != nil {
		c.JSON(analysisStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"analyses": analyses})
}

func analysisStatus(err error) int {
	var (
		unavailable domain.ProviderUnavailableError
		rejected    domain.ProviderRejectedError
		malformed   domain.MalformedPayloadError
	)
	switch {
	case errors.Is(err, service.ErrHistoryDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrUnknownHorizon), errors.Is(err, domain.ErrSessionDataMissing):
		return http.StatusBadRequest
	case errors.As(err, &unavailable), errors.As(err, &rejected), errors.As(err, &malformed):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
