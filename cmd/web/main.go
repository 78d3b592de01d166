package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/AdeyaOduor/chart-js/internal/config"
	"github.com/AdeyaOduor/chart-js/internal/middleware"
	"github.com/AdeyaOduor/chart-js/internal/observability"
	"github.com/AdeyaOduor/chart-js/internal/server"
	"github.com/AdeyaOduor/chart-js/internal/services"
	"github.com/AdeyaOduor/chart-js/internal/ui/templates"
)

const (
	renderTimeout = 10 * time.Second
	cacheMaxAge   = "public, max-age=300"
)

func handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	w.Header().Set("Cache-Control", cacheMaxAge)
	if err := templates.Dashboard().Render(ctx, w); err != nil {
		http.Error(w, "render error", http.StatusInternalServerError)
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"config", cfg,
	)

	analytics := services.NewAnalyticsWithOptions(services.Options{
		TopProducts:         cfg.Analytics.TopProducts,
		MovingAverageWindow: cfg.Analytics.MovingAverageWindow,
	})

	// Optional startup dataset; without it the dashboard starts empty and
	// waits for the first upload.
	if cfg.Data.File != "" {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Data.LoadTimeout)

		start := time.Now()
		if err := analytics.LoadFromFile(ctx, cfg.Data.File); err != nil {
			cancel()
			logger.Error("failed to load startup data", "file", cfg.Data.File, "error", err)
			os.Exit(1)
		}
		cancel()
		logger.Info("startup data loaded", "file", cfg.Data.File, "duration", time.Since(start))
	}

	templateHandlers := &server.TemplateHandlers{
		Dashboard: handleDashboard,
	}

	srv := server.NewServer(analytics, logger, templateHandlers, cfg.Upload)

	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)

	handler := middlewareChain(srv)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)

	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		logger.Info("shutting down analytics service")
		return nil
	})

	logger.Info("starting graceful server")
	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
