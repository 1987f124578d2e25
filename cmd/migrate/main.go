package main

import (
	"context"
	"net/url"

	"windstruck-api/internal/config"
	"windstruck-api/internal/logger"
	"windstruck-api/internal/migrate"
)

// Migrations only exist for the postgres backend; MongoDB needs none.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	u, err := url.Parse(cfg.DatabaseURL)
	if err != nil || (u.Scheme != "postgres" && u.Scheme != "postgresql") {
		log.Fatalf("DATABASE_URL must be a postgres url to migrate")
	}

	if err := migrate.Apply(context.Background(), cfg.DatabaseURL); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	log.Info("migrations applied")
}
