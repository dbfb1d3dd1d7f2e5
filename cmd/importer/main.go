package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"motoshop-directory/internal/config"
	"motoshop-directory/internal/importer"
	"motoshop-directory/internal/logger"
	"motoshop-directory/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	// Load config
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	file := flag.String("file", cfg.ImportFile, "Path to the CSV file to import")
	flag.Parse()

	if _, err := os.Stat(*file); err != nil {
		fmt.Printf("Error reading file: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Connect to DB
	pool, err := pgxpool.New(ctx, cfg.DBSource)
	if err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	repo := repository.NewRepository(pool, cfg.ShopsTable)

	// Ensure table exists
	if err := repo.EnsureSchema(ctx); err != nil {
		fmt.Printf("Error creating table: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting import from file: %s\n", *file)

	im := importer.New(repo, importer.Options{
		BatchSize:      cfg.ImportBatchSize,
		Concurrency:    cfg.ImportConcurrency,
		RequestTimeout: cfg.RequestTimeout,
	}, logger.Named("importer"))

	summary, err := im.Run(ctx, *file)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	summary.Print(os.Stdout)
}
