package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/resellkit/listing-scout/internal/api/handlers"
	"github.com/resellkit/listing-scout/internal/api/middleware"
	"github.com/resellkit/listing-scout/internal/config"
	"github.com/resellkit/listing-scout/internal/demand"
	"github.com/resellkit/listing-scout/internal/engine"
	"github.com/resellkit/listing-scout/internal/market"
	"github.com/resellkit/listing-scout/internal/notify"
	"github.com/resellkit/listing-scout/internal/store"
	"github.com/resellkit/listing-scout/internal/telemetry"
	"github.com/resellkit/listing-scout/internal/titles"
	"github.com/resellkit/listing-scout/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server and watchlist scheduler",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx := context.Background()

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:     cfg.Telemetry.Enabled,
		Endpoint:    cfg.Telemetry.Endpoint,
		Insecure:    cfg.Telemetry.Insecure,
		ServiceName: "listing-scout",
		Version:     Version,
	})
	if err != nil {
		return fmt.Errorf("setting up telemetry: %w", err)
	}

	st, err := store.NewPostgresStore(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer st.Close()

	limiter := market.NewRateLimiter(
		cfg.Market.RateLimit.PerSecond,
		cfg.Market.RateLimit.Burst,
		cfg.Market.RateLimit.DailyLimit,
	)
	marketOpts := []market.HTTPOption{market.WithRateLimiter(limiter)}
	if cfg.Market.BaseURL != "" {
		marketOpts = append(marketOpts, market.WithBaseURL(cfg.Market.BaseURL))
	}
	provider := market.NewHTTPProvider(cfg.Market.APIKey, marketOpts...)

	var estimator demand.Estimator = demand.NewRankEstimator()
	if cfg.Demand.ModelEndpoint != "" {
		estimator = demand.NewModelEstimator(
			cfg.Demand.ModelEndpoint,
			demand.WithModelHTTPClient(&http.Client{Timeout: cfg.Demand.Timeout}),
		)
	}

	analyzer := engine.NewBatchAnalyzer(
		st,
		provider,
		estimator,
		titles.NewRegexParser(),
		&cfg.Fees,
		cfg.Scoring.ScoreConfig(),
		engine.WithLogger(log),
		engine.WithWorkers(cfg.Engine.Workers),
		engine.WithStockLocation(cfg.Engine.StockLocation),
	)

	var notifier notify.Notifier = notify.NewNoOpNotifier(log)
	if cfg.Notifications.Webhook.Enabled {
		notifier = notify.NewWebhookNotifier(
			cfg.Notifications.Webhook.URL,
			notify.WithWebhookHeaders(cfg.Notifications.Webhook.Headers),
		)
	}

	scheduler, err := engine.NewScheduler(analyzer, notifier, cfg.Schedule.WatchlistInterval, log)
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}
	scheduler.Start()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	e.Use(middleware.Recovery(log))
	e.Use(middleware.RequestLog(log))
	e.Use(middleware.Metrics())

	health := handlers.NewHealthHandler(st)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	watchlist := handlers.NewWatchlistHandler(st, scheduler)
	e.GET("/api/v1/watchlist", watchlist.List)
	e.POST("/api/v1/watchlist", watchlist.Add)
	e.DELETE("/api/v1/watchlist/:asin", watchlist.Remove)
	e.POST("/api/v1/watchlist/run", watchlist.Run)

	api := humaecho.New(e, huma.DefaultConfig("Listing Scout API", Version))
	handlers.RegisterAnalyzeRoutes(api, handlers.NewAnalyzeHandler(analyzer))
	handlers.RegisterComponentRoutes(api, handlers.NewComponentsHandler(st))
	handlers.RegisterBomRoutes(api, handlers.NewBomsHandler(st))
	handlers.RegisterMappingRoutes(api, handlers.NewMappingsHandler(st))
	handlers.RegisterStockRoutes(api, handlers.NewStockHandler(st))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server", "addr", addr)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("telemetry shutdown failed", "error", err)
	}

	log.Info("server stopped")
	return nil
}
