// main is the entry point of the Presenz application.
// It initializes the configuration, logger, GeoIP provider, registry service,
// and starts the HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/verran/presenz/internal/config"
	"github.com/verran/presenz/internal/geoip"
	"github.com/verran/presenz/internal/logger"
	"github.com/verran/presenz/internal/registry"
	"github.com/verran/presenz/internal/server"
)

func main() {
	cfg := config.Parse()

	logger.Setup(cfg.Logger)
	log.Info().Msg("Starting presenz service...")

	// GeoIP is optional, country detection is disabled without it
	var geoProvider *geoip.Provider
	if cfg.GeoIP.Path != "" {
		var err error
		geoProvider, err = geoip.Open(cfg.GeoIP.Path)
		if err != nil {
			log.Error().Err(err).Msg("Failed to open GeoIP database, country detection disabled")
			geoProvider = nil
		} else {
			defer func() {
				if err := geoProvider.Close(); err != nil {
					log.Error().Err(err).Msg("Error closing GeoIP provider")
				}
			}()
		}
	}

	// Ingestion core
	svc := registry.New(registry.Config{
		MaxRequests:   cfg.Limits.MaxRequests,
		Window:        cfg.Limits.Window,
		RecordTTL:     cfg.Limits.RecordTTL,
		SweepInterval: cfg.Limits.SweepInterval,
	})

	// Background eviction
	svc.StartSweeper()

	srvHandler := server.New(svc, geoProvider, cfg)

	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      srvHandler.Run(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("address", cfg.Server.Address).Msg("Server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	svc.StopSweeper()

	log.Info().Msg("Server exited")
}
