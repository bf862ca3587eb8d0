package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/risk-map-client/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/risk-map-client/internal/adapter/kafka"
	"github.com/couchcryptid/risk-map-client/internal/adapter/mapbox"
	"github.com/couchcryptid/risk-map-client/internal/adapter/predictor"
	"github.com/couchcryptid/risk-map-client/internal/client"
	"github.com/couchcryptid/risk-map-client/internal/config"
	"github.com/couchcryptid/risk-map-client/internal/domain"
	"github.com/couchcryptid/risk-map-client/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	predict := predictor.NewClient(cfg.PredictorURL, cfg.PredictTimeout, metrics, logger)
	logger.Info("prediction service", "url", cfg.PredictorURL, "timeout", cfg.PredictTimeout)

	// Initialize geocoder (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		mb := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		geocoder = mapbox.NewCachedGeocoder(mb, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	// Optional submission outcome stream.
	var (
		observers []client.Observer
		writer    *kafkaadapter.Writer
	)
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, metrics, logger)
		observers = append(observers, writer)
		logger.Info("kafka outcome stream enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	store := client.NewStore(cfg.SessionCacheSize, client.SessionDeps{
		Viewport: client.Viewport{
			Center: domain.NewCoordinate(cfg.MapCenterLat, cfg.MapCenterLon),
			Zoom:   cfg.MapZoom,
		},
		Predictor: predict,
		Geocoder:  geocoder,
		Logger:    logger,
		Metrics:   metrics,
		Observers: observers,
	})

	srv := httpadapter.NewServer(cfg.HTTPAddr, store, predict, httpadapter.PageConfig{TileURL: cfg.MapTileURL}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
