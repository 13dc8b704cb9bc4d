// Package app wires the process together: config, logging, the hub with
// its simulation loop, and the HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"glade/server/internal/config"
	"glade/server/internal/game"
	"glade/server/internal/game/objects"
	"glade/server/internal/hub"
	"glade/server/internal/logging"
	servernet "glade/server/internal/net"
	"glade/server/internal/telemetry"
)

const shutdownTimeout = 5 * time.Second

// Run starts the server and blocks until ctx is cancelled or the listener
// fails.
func Run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := logging.New(cfg.LogFile)
	defer log.Sync()

	metrics := &telemetry.Metrics{}

	registry := game.NewRegistry()
	objects.RegisterAll(registry)

	h := hub.NewHub(cfg, registry, log, metrics)
	stop := make(chan struct{})
	go h.RunSimulation(stop)
	defer close(stop)

	handler := servernet.NewHTTPHandler(h, servernet.HTTPHandlerConfig{
		Config:  cfg,
		Log:     log,
		Metrics: metrics,
	})

	srv := &http.Server{Addr: cfg.Addr, Handler: handler}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Infow("server listening", "addr", cfg.Addr, "tickRate", cfg.TickRate)

	select {
	case <-ctx.Done():
		log.Infow("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	}
}
