package main

import (
	"context"

	"windstruck-api/internal/config"
	"windstruck-api/internal/docstore"
	"windstruck-api/internal/logger"
	productrepo "windstruck-api/internal/repository/product"
	"windstruck-api/internal/seed"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()
	backend, err := docstore.Open(ctx, cfg.DatabaseURL, cfg.DatabaseName, log)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer backend.Close(ctx)

	products := productrepo.NewDocStore(docstore.New(backend, log), log)
	res, err := seed.New(products, log).Apply(ctx)
	if err != nil {
		log.Fatalf("seed apply: %v", err)
	}

	log.WithField("created", res.Created).Info(res.Message)
}
