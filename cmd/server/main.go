package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/havenrealty/agentdesk/internal/api"
	"github.com/havenrealty/agentdesk/internal/config"
	"github.com/havenrealty/agentdesk/internal/repository"
	"github.com/havenrealty/agentdesk/internal/service"
	"github.com/havenrealty/agentdesk/internal/session"
	"github.com/havenrealty/agentdesk/internal/utils"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	logger := utils.InitLogger(utils.LoggerOptions{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
	})

	// Set up database connection and run migrations
	db, err := config.SetupDatabase(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to set up database")
	}
	defer db.Close()

	// Redis backs the one-time flash messages
	redisClient, err := config.SetupRedis(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()

	// Wire the application
	repo := repository.NewPostgresRepository(db)
	svc := service.NewDefaultService(repo)
	sessions := session.NewManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
	flash := session.NewRedisFlashStore(redisClient, cfg.Auth.SessionTTL)

	handler := api.NewHandler(svc, repo, repo, sessions, flash, db.PingContext, logger)

	// Set up Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	handler.SetupRoutes(router)

	// Start server
	serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info().Str("addr", serverAddr).Msg("starting server")
	if err := http.ListenAndServe(serverAddr, router); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
