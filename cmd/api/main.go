package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/muzammal-12/CarApp/api/routes"
	"github.com/muzammal-12/CarApp/internal/assessment"
	"github.com/muzammal-12/CarApp/internal/catalog"
	"github.com/muzammal-12/CarApp/internal/compare"
	"github.com/muzammal-12/CarApp/internal/learning"
	"github.com/muzammal-12/CarApp/internal/rates"
	"github.com/muzammal-12/CarApp/pkg/config"
	"github.com/muzammal-12/CarApp/pkg/db"
	"github.com/muzammal-12/CarApp/pkg/enums"
	"github.com/muzammal-12/CarApp/pkg/logger"
	"github.com/muzammal-12/CarApp/pkg/metrics"
	"github.com/muzammal-12/CarApp/pkg/migrate"
	"github.com/muzammal-12/CarApp/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Info(context.Background(), "redis not configured, rate cache disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	pricingMetrics := metrics.NewPricingMetrics(registry)

	currency, err := enums.ParseCurrency(cfg.Rates.DefaultCurrency)
	if err != nil {
		logg.Warn(context.Background(), "unsupported default currency, falling back to USD")
		currency = enums.CurrencyUSD
	}

	catalogRepo := catalog.NewRepository(dbClient)

	resolverOpts := []rates.Option{rates.WithLogger(logg)}
	if redisClient != nil {
		resolverOpts = append(resolverOpts, rates.WithCache(redisClient, cfg.Rates.CacheTTL))
	}
	resolver := rates.NewResolver(catalogRepo, currency, resolverOpts...)

	assessClient := assessment.NewClient(cfg.Gemini, assessment.WithMetrics(pricingMetrics))
	if !assessClient.Configured() {
		logg.Warn(context.Background(), "assessment provider not configured, compare/assess will answer AI_NOT_CONFIGURED")
	}

	learnSvc, err := learning.NewService(catalogRepo, cfg.Learning.DefaultRegion, currency, logg, pricingMetrics,
		learning.WithInvalidator(resolver))
	if err != nil {
		logg.Error(context.Background(), "failed to create learning service", err)
		os.Exit(1)
	}

	compareSvc, err := compare.NewService(assessClient, resolver, learnSvc, currency, logg, pricingMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create comparison service", err)
		os.Exit(1)
	}

	deps := routes.Deps{
		DB:          dbClient,
		Registry:    registry,
		CatalogRepo: catalogRepo,
		Resolver:    resolver,
		Compare:     compareSvc,
		Learning:    learnSvc,
	}
	if redisClient != nil {
		deps.Redis = redisClient
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, deps),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
