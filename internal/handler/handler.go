package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"forex-signal-bot/internal/domain"
)

// AnalysisAPI is the subset of the analysis service the HTTP API exposes.
type AnalysisAPI interface {
	Analyze(ctx context.Context, pair string, horizon domain.Horizon) (*domain.Analysis, error)
	ListAnalyses(ctx context.Context, filter domain.AnalysisFilter) ([]domain.Analysis, error)
}

type Handler struct {
	tracer   trace.Tracer
	analysis AnalysisAPI
	gatherer prometheus.Gatherer
	log      zerolog.Logger
}

func New(tracer trace.Tracer, analysis AnalysisAPI, gatherer prometheus.Gatherer, log zerolog.Logger) *Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Handler{
		tracer:   tracer,
		analysis: analysis,
		gatherer: gatherer,
		log:      log.With().Str("component", "http").Logger(),
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodOptions},
		AllowHeaders:    []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:          5 * time.Minute,
	}))
	r.Use(h.requestLogger())

	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	api.GET("/horizons", h.GetHorizons)
	api.GET("/analysis/:pair", h.GetAnalysis)
	api.GET("/analyses", h.GetAnalyses)
}

// Health godoc
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	}
}
