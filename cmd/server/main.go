package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/recipefinder/backend/config"
	httpDelivery "github.com/recipefinder/backend/internal/delivery/http"
	"github.com/recipefinder/backend/internal/domain"
	"github.com/recipefinder/backend/internal/infrastructure/kvstore"
	"github.com/recipefinder/backend/internal/infrastructure/mealdb"
	"github.com/recipefinder/backend/internal/logging"
	"github.com/recipefinder/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Str("storage", cfg.Storage.Type).
		Msg("Starting RecipeFinder Backend v1.0.0")

	ctx := context.Background()

	// Initialize infrastructure dependencies
	// Storage failures never stop the server; favorites and history start empty
	store := kvstore.OpenWithFallback(ctx, kvstore.Options{
		Type:     cfg.Storage.Type,
		Path:     cfg.Storage.Path,
		RedisURL: cfg.Storage.RedisURL,
	})
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Failed to close session storage")
		}
	}()

	catalog := mealdb.NewClient(mealdb.Config{
		BaseURL:           cfg.Catalog.BaseURL,
		FilterPath:        cfg.Catalog.FilterPath,
		LookupPath:        cfg.Catalog.LookupPath,
		FilterTimeout:     cfg.Catalog.FilterTimeout,
		LookupTimeout:     cfg.Catalog.LookupTimeout,
		MaxAttempts:       cfg.Catalog.MaxAttempts,
		RequestsPerSecond: cfg.RateLimit.Catalog,
	})

	// Enable debug mode in development environment
	if cfg.Catalog.Debug || cfg.Server.Environment == "development" {
		catalog.SetDebug(true)
		logging.Debug().Msg("Catalog client debug mode enabled")
	}

	logging.Info().
		Str("base_url", cfg.Catalog.BaseURL).
		Int("max_candidates", cfg.Catalog.MaxCandidates).
		Int("detail_concurrency", cfg.Catalog.DetailConcurrency).
		Msg("Catalog configured")

	// Initialize usecase layer
	search := usecase.NewSearchService(catalog, usecase.SearchServiceConfig{
		MaxCandidates:     cfg.Catalog.MaxCandidates,
		DetailConcurrency: cfg.Catalog.DetailConcurrency,
	})

	session := usecase.NewSessionStore(store, cfg.Session.HistoryCapacity)
	session.Load(ctx)

	controller := usecase.NewController(search, session, domain.FilterConfig{
		MaxMinutes: cfg.Filters.DefaultMaxMinutes,
	})

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(controller)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", srv.Addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		logging.Error().Err(err).Msg("Server failed")
	case sig := <-quit:
		logging.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Server shutdown error")
	}
}
