package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/apinexus/backend/internal/application/analytics"
	"github.com/apinexus/backend/internal/infrastructure/cache"
	"github.com/apinexus/backend/internal/infrastructure/config"
	"github.com/apinexus/backend/internal/infrastructure/logger"
	"github.com/apinexus/backend/internal/infrastructure/persistence"
	"github.com/apinexus/backend/internal/infrastructure/printing"
	"github.com/apinexus/backend/internal/infrastructure/scheduler"
	"github.com/apinexus/backend/internal/infrastructure/storage"
	"github.com/apinexus/backend/internal/infrastructure/telemetry"
	"github.com/apinexus/backend/internal/interfaces/http/handler"
	"github.com/apinexus/backend/internal/interfaces/http/middleware"
	"github.com/apinexus/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting sales analytics service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Telemetry
	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	meter := mp.Meter(cfg.Telemetry.ServiceName)

	lp, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	log = lp.Bridge(log, logger.ParseLevel(cfg.Log.Level))

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.ProfilingServer,
		ApplicationName: cfg.Telemetry.ServiceName,
		ProfileTypes:    cfg.Telemetry.ProfileTypes,
		Tags:            map[string]string{"env": cfg.App.Env, "version": version},
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() {
		tp.EnableSpanProfiles()
	}

	// Database with a zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:    cfg.Telemetry.DBTraceEnabled,
		LogFullSQL: cfg.Telemetry.DBLogFullSQL,
		DBName:     cfg.Database.DBName,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Repositories
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	stockRepo := persistence.NewGormStockRepository(db.DB)

	// Business metrics, including the periodic low-stock gauge
	metrics, err := telemetry.NewAnalyticsMetrics(telemetry.AnalyticsMetricsConfig{
		Meter:  meter,
		Logger: log,
		Stock:  stockRepo,
	})
	if err != nil {
		log.Fatal("Failed to initialize analytics metrics", zap.Error(err))
	}
	metrics.StartPeriodicCollection(ctx, cfg.Telemetry.MetricsInterval)
	defer metrics.Stop()

	opts := []analytics.Option{
		analytics.WithLogger(log),
		analytics.WithMetrics(metrics),
		analytics.WithDefaultTopLimit(cfg.Analytics.DefaultTopLimit),
		analytics.WithBillNumberPrefix(cfg.Analytics.BillNumberPrefix),
	}

	// Suggestion cache; nil when caching is disabled
	cacheFactory := cache.NewSuggestionCacheFactory(cfg.Cache, cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	)
	store, err := cacheFactory.CreateStore(ctx)
	if err != nil {
		log.Fatal("Failed to initialize suggestion cache", zap.Error(err))
	}
	if store != nil {
		defer func() {
			_ = store.Close()
		}()
		opts = append(opts, analytics.WithSuggestionCache(store))
	}

	// Export archive in object storage
	exportOpts := []analytics.ExportOption{analytics.WithExportLogger(log)}
	if cfg.Storage.Enabled {
		archive, err := storage.NewS3Archive(ctx, &cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize export archive", zap.Error(err))
		}
		if err := archive.EnsureBucket(ctx); err != nil {
			log.Fatal("Failed to prepare export bucket", zap.Error(err))
		}
		exportOpts = append(exportOpts, analytics.WithArchive(archive))
		log.Info("Export archive enabled", zap.String("bucket", archive.Bucket()))
	}

	// Services and handlers
	exporter := analytics.NewExportService(exportOpts...)
	salesService := analytics.NewSalesService(saleRepo, opts...)
	billService := analytics.NewBillService(saleRepo, opts...)
	suggestionService := analytics.NewSuggestionService(saleRepo, stockRepo, opts...)

	// Background suggestion cache refresh
	var (
		jobs    *scheduler.Scheduler
		trigger *scheduler.IntervalTrigger
	)
	if cfg.Scheduler.Enabled {
		registry := scheduler.NewRegistry()
		registry.Register(scheduler.SuggestionRefreshJob, scheduler.RefreshSuggestionsTask(suggestionService, log))

		schedCfg := scheduler.DefaultConfig()
		schedCfg.Workers = cfg.Scheduler.Workers
		schedCfg.JobTimeout = cfg.Scheduler.JobTimeout
		schedCfg.RetryAttempts = cfg.Scheduler.RetryAttempts
		schedCfg.RetryDelay = cfg.Scheduler.RetryDelay
		jobs, err = scheduler.NewScheduler(schedCfg, registry, log)
		if err != nil {
			log.Fatal("Failed to create scheduler", zap.Error(err))
		}
		trigger, err = scheduler.NewIntervalTrigger(scheduler.IntervalTriggerConfig{
			Interval:   cfg.Scheduler.RefreshInterval,
			RunOnStart: true,
		}, jobs, log, scheduler.SuggestionRefreshJob)
		if err != nil {
			log.Fatal("Failed to create refresh trigger", zap.Error(err))
		}
		if err := jobs.Start(ctx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		if err := trigger.Start(ctx); err != nil {
			log.Fatal("Failed to start refresh trigger", zap.Error(err))
		}
	}

	var billOpts []handler.BillHandlerOption
	if cfg.Printing.Enabled {
		renderer := printing.NewChromedpRenderer(printing.ChromedpConfig{
			Timeout:   cfg.Printing.Timeout,
			RemoteURL: cfg.Printing.ChromeRemoteURL,
			NoSandbox: cfg.Printing.NoSandbox,
			Logger:    log,
		})
		defer func() {
			_ = renderer.Close()
		}()
		billOpts = append(billOpts, handler.WithBillPrinter(printing.NewBillPrinter(renderer)))
		log.Info("PDF bill printing enabled")
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	var limiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer limiter.Stop()
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	engine, err := router.NewEngine(router.EngineConfig{
		Logger: log,
		CORS:   corsCfg,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		},
		Meter:          meter,
		RateLimiter:    limiter,
		TrustedProxies: cfg.HTTP.TrustedProxies,
	}, router.Handlers{
		Sales:       handler.NewSalesHandler(salesService),
		Bills:       handler.NewBillHandler(billService, exporter, billOpts...),
		Suggestions: handler.NewSuggestionHandler(suggestionService, exporter),
		Health:      handler.NewHealthHandler(db, version),
	})
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server stopped unexpectedly", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if trigger != nil {
		if err := trigger.Stop(shutdownCtx); err != nil {
			log.Warn("Refresh trigger stop failed", zap.Error(err))
		}
	}
	if jobs != nil {
		if err := jobs.Stop(shutdownCtx); err != nil {
			log.Warn("Scheduler stop failed", zap.Error(err))
		}
	}
	if err := mp.Shutdown(shutdownCtx); err != nil {
		log.Warn("Meter provider shutdown failed", zap.Error(err))
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Warn("Tracer provider shutdown failed", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Warn("Profiler stop failed", zap.Error(err))
	}
	if err := lp.Shutdown(shutdownCtx); err != nil {
		log.Warn("Logger provider shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
