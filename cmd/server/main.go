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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	accounthandler "netra/internal/account/handler"
	accountmetrics "netra/internal/account/metrics"
	accountservice "netra/internal/account/service"
	accountstore "netra/internal/account/store"
	audithandler "netra/internal/audit/handler"
	clinichandler "netra/internal/clinic/handler"
	clinicmetrics "netra/internal/clinic/metrics"
	"netra/internal/clinic/registry"
	clinicservice "netra/internal/clinic/service"
	patienthandler "netra/internal/patient/handler"
	patientservice "netra/internal/patient/service"
	patientstore "netra/internal/patient/store"
	"netra/internal/platform/config"
	"netra/internal/platform/httpserver"
	"netra/internal/platform/logger"
	"netra/internal/platform/metrics"
	"netra/internal/platform/middleware"
	"netra/internal/platform/postgres"
	redisclient "netra/internal/platform/redis"
	ratelimitmetrics "netra/internal/ratelimit/metrics"
	lockoutsvc "netra/internal/ratelimit/service/lockout"
	lockoutstore "netra/internal/ratelimit/store/lockout"
	reporthandler "netra/internal/report/handler"
	reportservice "netra/internal/report/service"
	reportstore "netra/internal/report/store"
	httptransport "netra/internal/transport/http"
	"netra/pkg/platform/audit"
	auditmemory "netra/pkg/platform/audit/store/memory"
)

const (
	sweepInterval  = time.Minute
	auditRetention = 10000
)

// main wires high-level dependencies, exposes the HTTP router and owns the
// server lifecycle. Business logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("netra exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	trustedProxies, err := middleware.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return fmt.Errorf("NETRA_TRUSTED_PROXIES: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	clinics, err := loadRegistry(cfg.RegistryFile)
	if err != nil {
		return err
	}
	clinicMetrics := clinicmetrics.New(reg)
	clinicMetrics.SetRegistrySize(clinics.Len())
	log.Info("clinic registry loaded", "clinics", clinics.Len(), "source", registrySource(cfg.RegistryFile))

	auditEvents := auditmemory.NewInMemoryStore(auditmemory.WithRetention(auditRetention))
	auditor := audit.NewPublisher(auditEvents, audit.WithLogger(log))
	audit.RegisterMetrics(reg, auditor)

	healthChecks := map[string]httptransport.HealthCheck{}

	redis, err := redisclient.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redis != nil {
		defer redis.Close()
		healthChecks["redis"] = redis.Health
	}

	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		healthChecks["postgres"] = db.PingContext
	}

	// Lockout records live in Redis when configured so every instance shares them.
	var (
		lockoutStore   lockoutsvc.Store
		memoryLockouts *lockoutstore.InMemoryStore
	)
	if redis != nil {
		lockoutStore = lockoutstore.NewRedis(redis.Client)
	} else {
		memoryLockouts = lockoutstore.New()
		lockoutStore = memoryLockouts
	}
	lockoutMetrics := ratelimitmetrics.New(reg)

	clinicOpts := []clinicservice.Option{
		clinicservice.WithLogger(log),
		clinicservice.WithMetrics(clinicMetrics),
	}
	if cfg.Lockout.Enabled {
		lockout, err := lockoutsvc.New(lockoutStore,
			lockoutsvc.WithLogger(log),
			lockoutsvc.WithMetrics(lockoutMetrics),
			lockoutsvc.WithAuditor(auditor),
			lockoutsvc.WithConfig(cfg.Lockout),
		)
		if err != nil {
			return fmt.Errorf("configure verification lockout: %w", err)
		}
		clinicOpts = append(clinicOpts, clinicservice.WithLockout(lockout))
	}
	clinicSvc := clinicservice.New(clinics, clinicOpts...)

	var accounts accountservice.Store
	if db != nil {
		pg := accountstore.NewPostgres(db)
		if err := pg.Migrate(ctx); err != nil {
			return err
		}
		accounts = pg
	} else {
		accounts = accountstore.NewInMemory()
	}
	accountSvc := accountservice.New(accounts, clinicSvc,
		accountservice.WithLogger(log),
		accountservice.WithMetrics(accountmetrics.New(reg)),
		accountservice.WithAuditor(auditor),
	)

	reportSvc := reportservice.New(reportstore.NewInMemory(reportstore.SeedReports()))
	patientSvc := patientservice.New(patientstore.NewInMemory(patientstore.SeedPatients()),
		patientservice.WithLogger(log),
		patientservice.WithAuditor(auditor),
	)

	var (
		clinicHandlerOpts []clinichandler.Option
		throttle          *middleware.Throttle
	)
	if cfg.VerifyRatePerSecond > 0 {
		throttle = middleware.NewThrottle(cfg.VerifyRatePerSecond, cfg.VerifyBurst, log)
		clinicHandlerOpts = append(clinicHandlerOpts, clinichandler.WithThrottle(throttle.Middleware))
	}

	router := httptransport.NewRouter(httptransport.Config{
		Logger:         log,
		Metrics:        metrics.New(reg),
		Gatherer:       reg,
		RequestTimeout: cfg.RequestTimeout,
		HealthChecks:   healthChecks,
		TrustedProxies: trustedProxies,
	},
		clinichandler.New(clinicSvc, log, clinicHandlerOpts...),
		accounthandler.New(accountSvc, log),
		reporthandler.New(reportSvc, log),
		patienthandler.New(patientSvc, log),
		audithandler.New(auditEvents, log),
	)
	srv := httpserver.New(cfg.Addr, router, httpserver.WithHandlerTimeout(cfg.RequestTimeout))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting netra",
			"addr", cfg.Addr,
			"lockout_enabled", cfg.Lockout.Enabled,
			"redis", redis != nil,
			"postgres", db != nil,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down netra")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return auditor.Run(gctx)
	})
	g.Go(func() error {
		sweep(gctx, log, throttle, memoryLockouts, cfg.Lockout.Window, lockoutMetrics)
		return nil
	})
	return g.Wait()
}

func loadRegistry(path string) (*registry.Registry, error) {
	if path == "" {
		return registry.Default(), nil
	}
	r, err := registry.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load clinic registry: %w", err)
	}
	return r, nil
}

func registrySource(path string) string {
	if path == "" {
		return "builtin"
	}
	return path
}

// sweep evicts idle throttle buckets and stale in-memory lockout records
// until ctx ends.
func sweep(ctx context.Context, log *slog.Logger, throttle *middleware.Throttle, lockouts *lockoutstore.InMemoryStore, window time.Duration, m *ratelimitmetrics.Metrics) {
	if throttle == nil && lockouts == nil {
		return
	}
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			var buckets, records int
			if throttle != nil {
				buckets = throttle.Sweep()
			}
			if lockouts != nil {
				records = lockouts.Prune(now, window)
				m.SetLockedClients(lockouts.CountLocked(now))
			}
			if buckets > 0 || records > 0 {
				log.Debug("swept idle rate limit state", "throttle_buckets", buckets, "lockout_records", records)
			}
		}
	}
}
