package main

import (
	"log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"Inventory/internal/config"
	"Inventory/internal/inventory"
	"Inventory/pkg/kit"
)

func main() {
	service := "inventory"

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := kit.NewLogger(service, cfg.Log.Level)
	defer func() { _ = logger.Sync() }()
	logger.Info("config loaded", zap.Stringer("config", cfg))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := &inventory.Server{
		Store: inventory.NewMemStore(),
		Log:   logger,
	}

	h := inventory.NewHandler(s, inventory.HTTPDeps{
		Log:               logger,
		Service:           service,
		Registry:          reg,
		MetricsEnabled:    cfg.Metrics.Enabled,
		MetricsToken:      cfg.Metrics.Token,
		CORSOrigins:       cfg.Origins(),
		WritesPerMinute:   cfg.RateLimit.WritesPerMinute,
		TrustForwardedFor: cfg.RateLimit.TrustForwarded,
	})

	opts := kit.ServerOptions{
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		ShutdownTimeout:   cfg.HTTP.ShutdownTimeout,
	}
	if err := kit.RunHTTPServer(cfg.Addr(), h, logger, opts); err != nil {
		logger.Fatal("http server stopped", zap.Error(err))
	}
}
