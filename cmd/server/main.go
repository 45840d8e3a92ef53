package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/LeartBytyqi1/my-fit-companion/internal/api"
	"github.com/LeartBytyqi1/my-fit-companion/internal/auth"
	"github.com/LeartBytyqi1/my-fit-companion/internal/chat"
	"github.com/LeartBytyqi1/my-fit-companion/internal/config"
	"github.com/LeartBytyqi1/my-fit-companion/internal/store"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	var logger zerolog.Logger
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	} else {
		logger = zerolog.New(os.Stdout).
			With().
			Timestamp().
			Logger()
	}

	ctx := context.Background()

	// Initialize relational store (SQLite in dev, PostgreSQL in prod)
	db, err := store.NewGormStore(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()
	logger.Info().Msg("connected to relational store")

	// Initialize Redis store (chat messages, rate limiting)
	var redisStore *store.RedisStore
	if cfg.RedisURL != "" {
		redisStore, err = store.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis connection failed")
		}
		defer redisStore.Close()
		logger.Info().Msg("connected to Redis")
	} else {
		logger.Warn().Msg("no REDIS_URL provided; chat history persistence disabled")
	}

	// Token manager for REST auth
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTDuration)

	// Chat server (WebSocket chat + WebRTC signaling)
	var messageStore chat.MessageStore
	if redisStore != nil {
		messageStore = redisStore
	}
	chatServer := chat.NewServer(messageStore, logger, cfg.AllowedOrigins)

	// Create router
	router := api.NewRouter(cfg, logger, db, redisStore, chatServer, tokens)

	// Create server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Msg("starting fitness API server")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")

	// Graceful shutdown with 30 second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server stopped")
}
