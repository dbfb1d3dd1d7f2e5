package main

import (
	"context"
	"fmt"
	"os"

	"motoshop-directory/internal/config"
	"motoshop-directory/internal/logger"
	"motoshop-directory/internal/report"
	"motoshop-directory/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.DBSource)
	if err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	repo := repository.NewRepository(pool, cfg.ShopsTable)

	report.New(repo, os.Stdout, cfg.SampleSize, cfg.RequestTimeout, logger.Named("verify")).Run(ctx)
}
