package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/hdwatch/internal/adapters/cache"
	"github.com/okian/hdwatch/internal/adapters/http/ops"
	"github.com/okian/hdwatch/internal/adapters/notify"
	"github.com/okian/hdwatch/internal/adapters/scrape"
	"github.com/okian/hdwatch/internal/app"
	"github.com/okian/hdwatch/internal/config"
	"github.com/okian/hdwatch/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	httpClient := &http.Client{Timeout: time.Duration(cfg.RequestTimeoutSecs) * time.Second}

	scraper := scrape.NewScraper(
		scrape.WithURL(cfg.LeaderboardURL),
		scrape.WithHTTPClient(httpClient),
	)
	store := cache.NewStore(cache.WithPath(cfg.CachePath))
	webhook := notify.NewWebhook(cfg.WebhookURL, notify.WithHTTPClient(httpClient))

	// Create and start the watcher with configuration options
	svc := app.New(scraper, store, webhook,
		app.WithLogger(loggerInstance),
		app.WithInterval(time.Duration(cfg.PollIntervalSecs)*time.Second),
		app.WithQueueSize(cfg.NotifyQueueSize),
		app.WithWorkerCount(cfg.NotifyWorkerCount),
		app.WithGuardSize(cfg.NotifiedCacheSize),
	)
	if err := svc.Start(ctx); err != nil {
		loggerInstance.Error(ctx, "failed to start watcher", logger.Error(err))
		return
	}
	defer svc.Stop()

	// HTTP mux with health and metrics endpoints.
	mux := http.NewServeMux()
	ops.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	// Poll until a shutdown signal arrives.
	if err := svc.Run(ctx); err != nil {
		loggerInstance.Error(ctx, "watcher stopped with error", logger.Error(err))
	}

	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}
