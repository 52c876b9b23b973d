package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isdelr/user-crud-be/internal/api"
	"github.com/isdelr/user-crud-be/internal/config"
	"github.com/isdelr/user-crud-be/internal/database"
	"github.com/isdelr/user-crud-be/internal/logger"
	"github.com/isdelr/user-crud-be/internal/services"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Init(cfg.LogLevel)

	// Set up database
	client, err := database.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			log.Error().Err(err).Msg("Failed to disconnect from database")
		}
	}()

	users := client.Database(cfg.DatabaseName).Collection(cfg.CollectionName)
	if err := database.EnsureIndexes(context.Background(), users); err != nil {
		// Lookups still work without the index, only slower.
		log.Warn().Err(err).Msg("Failed to ensure database indexes")
	}

	userService := services.NewUserService(users)

	router := api.NewRouter(log.Logger, cfg.AllowedOrigins, userService)

	srv := &http.Server{
		Addr:    cfg.HostURL,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Str("addr", cfg.HostURL).Msg("Server running")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("ListenAndServe failed")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
