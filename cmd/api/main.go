package main

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"windstruck-api/internal/config"
	"windstruck-api/internal/docstore"
	"windstruck-api/internal/httpserver"
	"windstruck-api/internal/logger"
	"windstruck-api/internal/migrate"
	orderrepo "windstruck-api/internal/repository/order"
	productrepo "windstruck-api/internal/repository/product"
	"windstruck-api/internal/seed"
	ordersvc "windstruck-api/internal/service/order"
	productsvc "windstruck-api/internal/service/product"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info", "text").Fatalf("load config: %v", err)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	if isPostgres(cfg.DatabaseURL) {
		if err := migrate.Apply(ctx, cfg.DatabaseURL); err != nil {
			log.Fatalf("apply migrations: %v", err)
		}
	}

	backend, err := docstore.Open(ctx, cfg.DatabaseURL, cfg.DatabaseName, log)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	store := docstore.New(backend, log)

	productRepo := productrepo.NewDocStore(store, log)
	productService := productsvc.New(productRepo)
	orderRepo := orderrepo.NewDocStore(store, log)
	orderService := ordersvc.New(orderRepo, log)
	seeder := seed.New(productRepo, log)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srv, err := httpserver.New(cfg.HTTPAddr, log, httpserver.Deps{
		ProductSvc:  productService,
		OrderSvc:    orderService,
		Seeder:      seeder,
		Store:       store,
		Registry:    reg,
		CORSOrigins: cfg.CORSOrigins,
	})
	if err != nil {
		log.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infof("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		log.Infof("received signal %s, shutting down", sig)
	case err := <-serverErr:
		log.Errorf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("graceful shutdown failed: %v", err)
	} else {
		log.Info("server stopped")
	}
	if err := backend.Close(shutdownCtx); err != nil {
		log.Errorf("close store: %v", err)
	}
}

func isPostgres(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Scheme == "postgres" || u.Scheme == "postgresql"
}
