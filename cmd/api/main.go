package main

import (
	"context"

	"motoshop-directory/internal/config"
	"motoshop-directory/internal/handler"
	"motoshop-directory/internal/logger"
	"motoshop-directory/internal/repository"
	"motoshop-directory/internal/service"

	_ "motoshop-directory/docs"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Motorcycle Shop Directory API
//	@version		1.0
//	@description	Searchable directory of EU motorcycle repair shops.
//	@BasePath		/

func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	logger.Init(config.LogLevel, config.LogFormat)

	// Database connection
	conn, err := pgxpool.New(context.Background(), config.DBSource)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to db")
	}
	defer conn.Close()

	// Initialize layers
	repo := repository.NewRepository(conn, config.ShopsTable)
	if err := repo.EnsureSchema(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("cannot create schema")
	}

	directoryService := service.NewDirectoryService(repo, config.FetchLimit)
	nearestService := service.NewNearestShopService(repo)

	shopHandler := handler.NewShopHandler(directoryService)
	nearestHandler := handler.NewNearestShopHandler(nearestService)

	r := gin.New()
	r.Use(gin.Recovery(), handler.RequestLogger(logger.Named("api")))

	handler.Register(r, shopHandler, nearestHandler)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	log.Info().Str("addr", config.ServerAddress).Msg("starting server")
	if err := r.Run(config.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
