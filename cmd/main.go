package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/maulas/quiniela/internal/adapters/http/api"
	"github.com/maulas/quiniela/internal/adapters/http/site"
	"github.com/maulas/quiniela/internal/adapters/http/swagger"
	"github.com/maulas/quiniela/internal/adapters/repository"
	service "github.com/maulas/quiniela/internal/app"
	"github.com/maulas/quiniela/internal/config"
	"github.com/maulas/quiniela/internal/domain/model"
	"github.com/maulas/quiniela/internal/reminder"
	"github.com/maulas/quiniela/pkg/logger"
	"github.com/maulas/quiniela/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 10 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize logging
	if err := logger.Init(); err != nil {
		// Logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Open the document store.
	store, err := repository.New(cfg.StoreDriver, cfg.SQLitePath, cfg.PostgresDSN)
	if err != nil {
		log.Error(ctx, "failed to open document store", logger.String("driver", cfg.StoreDriver), logger.Error(err))
		return
	}

	// Create and start the service with configuration options
	svc := service.New(
		service.WithLogger(log),
		service.WithStore(store),
		service.WithMaxStandingsLimit(cfg.MaxStandingsLimit),
		service.WithMinHitsToWin(cfg.MinHitsToWin),
		service.WithLedgerConfig(model.LedgerConfig{
			ColumnCost:  cfg.ColumnCost,
			DoublesCost: cfg.DoublesCost,
			WeeklyDue:   cfg.WeeklyDue,
			InitialFund: cfg.InitialFund,
		}),
	)
	if err := svc.Start(ctx); err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		return
	}
	defer svc.Stop()

	// Start the submission-deadline reminder.
	rem := reminder.New(svc, reminder.WithLogger(log.Named("reminder")))
	if err := rem.Start(ctx, cfg.ReminderCron); err != nil {
		log.Error(ctx, "failed to start reminder", logger.String("cron", cfg.ReminderCron), logger.Error(err))
		return
	}
	defer rem.Stop()

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	// Register business API routes with the service dependency.
	router := api.NewServer(svc, svc).Router()

	// API docs and the landing page. The site catches the root prefix,
	// so it registers after everything else.
	swagger.Register(ctx, router)
	site.Register(ctx, router)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}
