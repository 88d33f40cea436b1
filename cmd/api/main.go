package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rodrigocamellini/conectaxe-sub001/internal/app"
	"github.com/rodrigocamellini/conectaxe-sub001/internal/clock"
	"github.com/rodrigocamellini/conectaxe-sub001/internal/config"
	"github.com/rodrigocamellini/conectaxe-sub001/internal/metrics"
	"github.com/rodrigocamellini/conectaxe-sub001/internal/storage/postgres"
	"github.com/rodrigocamellini/conectaxe-sub001/internal/storage/redisstore"
	transporthttp "github.com/rodrigocamellini/conectaxe-sub001/internal/transport/http"
	"github.com/rodrigocamellini/conectaxe-sub001/migrations"
)

const shutdownTimeout = 10 * time.Second

func main() {
	boot := zap.Must(zap.NewProduction())
	cfg, err := config.Load(boot)
	if err != nil {
		boot.Fatal("load config", zap.Error(err))
	}

	logger, err := newLogger(cfg)
	if err != nil {
		boot.Fatal("build logger", zap.Error(err))
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("api stopped", zap.Error(err))
	}
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", cfg.LogLevel, err)
	}
	zcfg := zap.NewProductionConfig()
	if cfg.Development() {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}

func run(cfg config.Config, logger *zap.Logger) error {
	mode, err := app.ParseAdmissionMode(cfg.AdmissionMode)
	if err != nil {
		return err
	}
	loc, err := clock.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("timezone: %w", err)
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect to db: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		return fmt.Errorf("db ping: %w", err)
	}
	applied, err := migrations.Apply(startupCtx, pool)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	if len(applied) > 0 {
		logger.Info("migrations applied", zap.Strings("names", applied))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	clk := clock.NewSystem()
	store := postgres.NewStore(pool)

	reconciler := app.NewReconciler(store, clk,
		app.WithAutoCloseGrace(cfg.AutoCloseGrace()),
		app.WithLocation(loc),
		app.WithReconcilerLogger(logger.Named("reconciler")),
		app.WithReconcilerMetrics(m),
	)
	eventSvc := app.NewEventService(store, reconciler, clk, logger.Named("events"))

	regOpts := []app.RegistrationOption{
		app.WithAdmissionMode(mode),
		app.WithRegistrationLogger(logger.Named("registrations")),
		app.WithRegistrationMetrics(m),
	}
	if cfg.PromoteWaitlist {
		regOpts = append(regOpts, app.WithWaitlistPromotion())
	}
	registrationSvc := app.NewRegistrationService(store, clk, regOpts...)
	checkInSvc := app.NewCheckInService(store, logger.Named("checkin"), m)

	readiness := map[string]transporthttp.Pinger{"postgres": pool.Ping}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", transporthttp.HealthHandler)
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	mux.Handle("/events", transporthttp.HandleEvents(eventSvc))
	mux.Handle("/events/", transporthttp.EventRoutes(eventSvc, registrationSvc, checkInSvc))

	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer func() { _ = rdb.Close() }()

		notificationSvc := app.NewNotificationService(redisstore.NewReadMarkers(rdb))
		mux.Handle("/notifications/", transporthttp.HandleNotifications(notificationSvc))
		readiness["redis"] = func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) }
	} else {
		logger.Warn("REDIS_URL not set, notification read markers disabled")
	}
	mux.Handle("/ready", transporthttp.ReadinessHandler(readiness))
	mux.Handle("/", transporthttp.NotFoundHandler())

	handler := transporthttp.RequestLogger(transporthttp.CORS(cfg.CORSOrigins, mux), logger.Named("http"))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.ReconcileInterval > 0 {
		go reconciler.Run(stopCtx, cfg.ReconcileInterval)
		logger.Info("background reconciliation enabled", zap.Duration("interval", cfg.ReconcileInterval))
	}

	logger.Info("api listening",
		zap.String("port", cfg.Port),
		zap.String("admission_mode", string(mode)),
		zap.String("timezone", loc.String()),
	)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-stopCtx.Done():
		logger.Info("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Warn("server shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
	return nil
}
