package main

import (
	"context"
	"fmt"
	"maps"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	cache "github.com/kibblescan/sitecache"
	"github.com/kibblescan/sitecache/catalog"
	"github.com/kibblescan/sitecache/config"
	"github.com/kibblescan/sitecache/logger"
	"github.com/kibblescan/sitecache/metrics"
	"github.com/kibblescan/sitecache/server"
	"github.com/kibblescan/sitecache/types"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	profiles := cache.DefaultConfigs()
	if cfg.CacheProfilesPath != "" {
		overrides, err := config.LoadProfiles(cfg.CacheProfilesPath)
		if err != nil {
			return err
		}
		profiles = config.MergeProfiles(profiles, overrides)
	}

	var (
		cacheMetrics types.Metrics = types.NoopMetrics{}
		promReg      *prometheus.Registry
	)
	if cfg.MetricsEnabled {
		promReg = prometheus.NewRegistry()
		promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		p, err := metrics.NewPrometheus(promReg)
		if err != nil {
			return err
		}
		cacheMetrics = p
	}

	registry := cache.NewRegistry(cache.WithMetrics(cacheMetrics))
	for _, name := range slices.Sorted(maps.Keys(profiles)) {
		pc := profiles[name]
		if err := registry.RegisterConfig(name, pc); err != nil {
			return err
		}
		log.Info("cache registered",
			zap.String("cache", name),
			zap.Duration("max_age", pc.MaxAge),
			zap.Int("max_size", pc.MaxSize),
			zap.String("policy", string(pc.Policy)),
		)
	}

	products, err := loadProducts(cfg.CatalogPath)
	if err != nil {
		return err
	}
	log.Info("catalog loaded", zap.Int("products", len(products)), zap.String("path", cfg.CatalogPath))

	opts := []server.Option{
		server.WithLogger(log),
		server.WithCleanupSchedule(cfg.CleanupSchedule),
	}
	if promReg != nil {
		promReg.MustRegister(metrics.NewStatsCollector(registry))
		opts = append(opts, server.WithMetricsHandler(promhttp.HandlerFor(promReg, promhttp.HandlerOpts{})))
	}

	srv := server.New(cfg.HTTP, registry, catalog.New(products, registry), opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		log.Error("server stopped", zap.Error(err))
		return err
	}
	log.Info("server stopped")
	return nil
}

func loadProducts(path string) ([]catalog.Product, error) {
	if path == "" {
		return catalog.Bundled()
	}
	return catalog.LoadFile(path)
}

