package main

import (
	"fmt"
	"os"

	"nemde-constraints/internal/api/handlers"
	"nemde-constraints/internal/api/middleware"
	"nemde-constraints/internal/config"
	"nemde-constraints/internal/mms"
	"nemde-constraints/internal/nemde"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.API.Env)
	defer logger.Sync()

	client := mms.NewClient(cfg.Archive.BaseURL, cfg.Archive.Timeout(), logger)
	svc := nemde.New(client, logger)

	if cfg.API.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.CORS())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.ErrorHandler(logger))

	constraintHandler := handlers.NewConstraintHandler(svc)
	functionHandler := handlers.NewFunctionHandler(svc)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.GET("/constraints", constraintHandler.List)
		api.GET("/constraints/search", constraintHandler.Search)
		api.GET("/constraints/:id", constraintHandler.Details)
		api.GET("/constraints/:id/lhs", constraintHandler.LHS)
		api.GET("/constraints/:id/rhs", constraintHandler.RHS)

		api.GET("/functions", functionHandler.List)
		api.GET("/functions/:id", functionHandler.Terms)
	}

	addr := fmt.Sprintf(":%s", cfg.API.Port)
	logger.Info("starting api server",
		zap.String("addr", addr),
		zap.String("archive", cfg.Archive.BaseURL))
	if err := router.Run(addr); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func newLogger(env string) *zap.Logger {
	if env == "production" {
		logger, err := zap.NewProduction()
		if err != nil {
			panic(err)
		}
		return logger
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	return logger
}
