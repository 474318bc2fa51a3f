package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/metro-proximity/internal/api"
	"github.com/sells-group/metro-proximity/internal/proximity"
	"github.com/sells-group/metro-proximity/internal/region"
	"github.com/sells-group/metro-proximity/pkg/geocode"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the proximity HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		manager := region.NewManager(cfg.Data.ShapefilePath, cfg.Data.TargetListPath)

		// Eager load at startup. A failed load is non-fatal: the server still
		// starts and queries report data-unavailable until restart.
		if store, err := manager.EnsureLoaded(); err != nil {
			zap.L().Warn("boundary data not loaded, serving anyway", zap.Error(err))
		} else {
			zap.L().Info("boundary data loaded", zap.Int("metros", store.Count()))
		}

		geocoder, closeGeocoder, err := buildGeocoder()
		if err != nil {
			zap.L().Warn("geocoder unavailable, /search disabled", zap.Error(err))
		}
		if closeGeocoder != nil {
			defer closeGeocoder()
		}

		engine := proximity.NewEngine(manager)
		srvHandlers := api.NewServer(engine, manager, geocoder, cfg.Proximity.DefaultRadiusMiles)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           srvHandlers.Router(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// buildGeocoder constructs the address geocoder with its SQLite cache.
func buildGeocoder() (geocode.Client, func(), error) {
	opts := []geocode.Option{
		geocode.WithNominatimBaseURL(cfg.Geocode.NominatimBaseURL),
		geocode.WithRateLimit(cfg.Geocode.RateRPS),
	}
	if cfg.Geocode.GoogleAPIKey != "" {
		opts = append(opts, geocode.WithGoogleAPIKey(cfg.Geocode.GoogleAPIKey))
	}

	var closeFn func()
	if cfg.Geocode.CacheDSN != "" {
		cache, err := geocode.OpenCache(cfg.Geocode.CacheDSN)
		if err != nil {
			return nil, nil, err
		}
		closeFn = func() { _ = cache.Close() }
		opts = append(opts, geocode.WithCache(cache))
	}

	return geocode.NewClient(opts...), closeFn, nil
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
