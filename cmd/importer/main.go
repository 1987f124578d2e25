package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"windstruck-api/internal/config"
	"windstruck-api/internal/docstore"
	"windstruck-api/internal/importer"
	"windstruck-api/internal/logger"
	productrepo "windstruck-api/internal/repository/product"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to product CSV file")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	ctx := context.Background()

	backend, err := docstore.Open(ctx, cfg.DatabaseURL, cfg.DatabaseName, log)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer backend.Close(ctx)

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatalf("open file: %v", err)
	}
	defer f.Close()

	products := productrepo.NewDocStore(docstore.New(backend, log), log)
	imp := importer.NewCSVImporter(f, products, log)

	start := time.Now()
	sum, err := imp.Run(ctx)
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}

	log.WithFields(logrus.Fields{
		"imported": sum.Imported,
		"skipped":  sum.Skipped,
		"elapsed":  time.Since(start).Truncate(time.Millisecond).String(),
	}).Info("import finished")
}
