package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"forex-signal-bot/internal/bot"
	"forex-signal-bot/internal/config"
	"forex-signal-bot/internal/di"
	"forex-signal-bot/internal/handler"
	"forex-signal-bot/internal/i18n"
	"forex-signal-bot/internal/session"
	"forex-signal-bot/pkg/logger"
	"forex-signal-bot/pkg/tracing"

	_ "forex-signal-bot/docs"
)

var (
	loadEnvFunc            = godotenv.Load
	loadConfigFunc         = config.Load
	initTracerFunc         = tracing.InitTracer
	wireFunc               = di.Wire
	registerer             = prometheus.DefaultRegisterer
	gatherer               = prometheus.DefaultGatherer
	loadCatalogFunc        = i18n.Default
	startTelegramBotFunc   = bot.StartTelegramBot
	newRouterFunc          = gin.New
	setupSignalNotify      = ossignal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
	exitFunc               = os.Exit
)

// @title           Forex Signal Bot API
// @version         1.0
// @description     Indicator-based forex signals for Telegram, with OpenTelemetry tracing.

// @host      localhost:8080
// @BasePath  /
func main() {
	if err := loadEnvFunc(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	cfg := loadConfigFunc()
	l := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	logger.SetGlobalLogger(l)

	if err := run(cfg); err != nil {
		l.Error().Err(err).Msg("server failed")
		exitFunc(1)
	}
}

func run(cfg *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, tracer, err := initTracerFunc(ctx, cfg.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("initialize tracer: %w", err)
	}
	defer func() {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("error shutting down tracer provider")
		}
	}()

	components := wireFunc(ctx, cfg, tracer, log.Logger, registerer)
	defer components.Close()
	components.StartJobs(ctx)

	catalog, err := loadCatalogFunc(cfg.DefaultLanguage)
	if err != nil {
		return fmt.Errorf("load message catalog: %w", err)
	}
	conv := bot.NewConversation(
		session.NewStore(),
		components.Analysis,
		bot.NewAllowList(cfg.AuthorizedUsers),
		catalog,
		cfg.SupportContact,
		log.Logger,
	)
	if _, err := startTelegramBotFunc(ctx, cfg.TelegramBotToken, conv, log.Logger); err != nil {
		// the HTTP API stays useful without the bot
		log.Error().Err(err).Msg("telegram bot failed to start")
	}

	h := handler.New(tracer, components.Analysis, gatherer, log.Logger)
	r := newRouterFunc()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(tracing.ServiceName))
	h.RegisterRoutes(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:              httpAddr(cfg.HTTPPort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Info().Msg("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	select {
	case err := <-serveErr:
		return fmt.Errorf("listen: %w", err)
	default:
	}

	log.Info().Msg("Server exiting")
	return nil
}

func httpAddr(port int) string {
	if port <= 0 {
		port = 8080
	}
	return fmt.Sprintf(":%d", port)
}
