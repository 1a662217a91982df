package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"quickbite/internal/config"
	"quickbite/internal/db"
	"quickbite/internal/importer"
	promorepo "quickbite/internal/repository/promo"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to promo catalog JSON export")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[importer] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	if cfg.DBConnString == "" {
		logger.Fatal("DB_DSN is required for importing")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatalf("open file: %v", err)
	}
	defer f.Close()

	imp := importer.NewJSONImporter(f, promorepo.NewPostgres(pool, logger))

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		logger.Fatalf("import failed: %v", err)
	}

	fmt.Printf("Imported %d promo codes in %s\n", count, time.Since(start).Truncate(time.Millisecond))
}
