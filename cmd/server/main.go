package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/waghrental/rentledger/internal/featureflags"
	"github.com/waghrental/rentledger/internal/finance"
	"github.com/waghrental/rentledger/internal/handler"
	"github.com/waghrental/rentledger/internal/infrastructure/logger"
	"github.com/waghrental/rentledger/internal/infrastructure/redis"
	"github.com/waghrental/rentledger/internal/observability/metrics"
	"github.com/waghrental/rentledger/internal/observability/tracing"
	"github.com/waghrental/rentledger/internal/reliability/circuitbreaker"
	"github.com/waghrental/rentledger/internal/repository"
	"github.com/waghrental/rentledger/internal/repository/memory"
	"github.com/waghrental/rentledger/internal/router"
	"github.com/waghrental/rentledger/internal/security/audit"
	"github.com/waghrental/rentledger/internal/security/ratelimit"
	"github.com/waghrental/rentledger/internal/service"
	"github.com/waghrental/rentledger/internal/worker"
	"github.com/waghrental/rentledger/pkg/config"
	"github.com/waghrental/rentledger/pkg/database"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize structured logger
	log := logger.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)
	log.Info("starting rentledger server", slog.String("environment", cfg.Environment))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Tracing (no-op without an OTLP endpoint)
	shutdownTracing, err := tracing.Init(ctx, log, cfg.OTLPEndpoint, "rentledger", cfg.Environment)
	if err != nil {
		log.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Record store
	var (
		repos  service.Repositories
		loader service.SnapshotLoader
		checks = map[string]handler.Pinger{}
	)
	if cfg.UsesMemoryStore() {
		store := memory.NewStore()
		repos = service.Repositories{
			Properties: store.Properties(),
			Tenants:    store.Tenants(),
			Payments:   store.Payments(),
			Expenses:   store.Expenses(),
		}
		loader = store
		log.Warn("using in-memory record store; data is lost on restart")
	} else {
		pool, err := database.NewConnectionPool(ctx, &database.Config{
			URL:          cfg.DatabaseURL,
			MaxOpenConns: cfg.DBMaxOpenConns,
		}, log)
		if err != nil {
			log.Error("failed to connect to database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer pool.Close()

		if err := repository.RunMigrations(pool.GetDB(), repository.Up); err != nil {
			log.Error("failed to run migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}

		db := pool.GetDB()
		repos = service.Repositories{
			Properties: repository.NewPostgresPropertyRepository(db, log),
			Tenants:    repository.NewPostgresTenantRepository(db, log),
			Payments:   repository.NewPostgresPaymentRepository(db, log),
			Expenses:   repository.NewPostgresExpenseRepository(db, log),
		}
		loader = repository.NewPostgresSnapshotRepository(db, log)
		checks["database"] = handler.PingFunc(pool.Health)
	}

	// 5. Report cache: Redis when configured, in-process otherwise
	var reportCache service.ReportCache
	if cfg.RedisURL != "" {
		redisClient, err := redis.NewClient(ctx, cfg.RedisURL, log)
		if err != nil {
			log.Error("failed to connect to Redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer redisClient.Close()

		breaker := circuitbreaker.New("redis", 5, 2, 30*time.Second)
		breaker.OnStateChange(func(name string, from, to circuitbreaker.State) {
			metrics.SetCircuitState(name, int(to))
			log.Warn("circuit breaker state changed",
				slog.String("name", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		})
		reportCache = repository.NewRedisReportCache(redisClient, breaker, log)
	} else {
		reportCache = repository.NewMemoryReportCache()
	}
	checks["cache"] = reportCache

	// 6. Services
	auditLog := audit.NewLogger(log)
	ledger := service.NewLedgerService(repos, reportCache, auditLog, log)
	policy := finance.StatusPolicy{GraceDays: cfg.GracePeriodDays}
	reports := service.NewReportService(loader, reportCache, cfg.ReportCacheTTL, policy, log)

	// 7. HTTP routes and middleware
	limiter := ratelimit.NewLimiter(cfg.RateLimitPerMinute, time.Minute)
	defer limiter.Stop()

	rootHandler := router.New(router.Deps{
		Ledger:      ledger,
		Reports:     reports,
		Checks:      checks,
		Limiter:     limiter,
		Flags:       featureflags.Enabled,
		Audit:       auditLog,
		CORSOrigins: cfg.CORSAllowedOrigins,
		Logger:      log,
	})

	// 8. Start sweep worker in background
	sweep := worker.NewSweepWorker(reports, log, cfg.SweepInterval)
	go sweep.Start(ctx)

	// 9. Start HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      rootHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("server starting",
		slog.Int("port", cfg.ServerPort),
		slog.Int("grace_period_days", cfg.GracePeriodDays),
		slog.Int("rate_limit", cfg.RateLimitPerMinute),
		slog.Bool("redis_cache", cfg.RedisURL != ""),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", slog.String("error", err.Error()))
			sigChan <- syscall.SIGTERM
		}
	}()

	<-sigChan
	log.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.String("error", err.Error()))
	}
	cancel() // Stop sweep worker
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("tracing shutdown error", slog.String("error", err.Error()))
	}
	log.Info("server stopped")
}
