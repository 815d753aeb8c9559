package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/propdash/propdash/pkg/logging"
	"github.com/propdash/propdash/server/internal/api"
	"github.com/propdash/propdash/server/internal/auth"
	"github.com/propdash/propdash/server/internal/compute"
	"github.com/propdash/propdash/server/internal/config"
	"github.com/propdash/propdash/server/internal/store"
	"github.com/propdash/propdash/server/internal/telemetry"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, path, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, path)
		},
	}
}

func serve(parent context.Context, cfg *config.Config, path string) error {
	closer, err := logging.Setup(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()

	slog.Info("propdash-server starting",
		"config", path,
		"http_port", cfg.Server.HTTPPort,
		"auth_mode", cfg.Server.Auth.Mode,
		"snapshot_ttl", cfg.Server.Snapshot.TTL,
	)

	eng, err := compute.NewEngine(cfg.EngineConfig())
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	metrics := telemetry.New()

	st := store.New(cfg.Server.Snapshot.TTL)
	handler := api.New(st, eng, metrics)
	handler.LimitIngest(cfg.Server.Ingest.RatePerMinute, cfg.Server.Ingest.Burst)

	// Background TTL eviction.
	go st.Run(ctx, func(evicted []string) {
		metrics.ForgetTenants(evicted)
		handler.ForgetTenants(evicted)
	})

	// Engine hot reload. Server, auth and log settings need a restart.
	if path != "" {
		go func() {
			err := config.Watch(ctx, path, func(next *config.Config) {
				e, err := compute.NewEngine(next.EngineConfig())
				if err != nil {
					slog.Error("config: engine rejected, keeping previous", "err", err)
					return
				}
				handler.SetEngine(e)
				slog.Info("config: engine reloaded")
			})
			if err != nil {
				slog.Error("config: watch stopped", "err", err)
			}
		}()
	}

	authn := auth.APIKeyMiddleware(
		cfg.Server.Auth.Mode,
		cfg.Server.Auth.EffectiveHeader(),
		cfg.Server.Auth.Key(),
		"/api/v1/health", "/metrics",
	)

	mux := http.NewServeMux()
	mux.Handle("/api/", handler)
	mux.Handle("/metrics", metrics.Handler())

	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:           authn(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	slog.Info("propdash-server shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	return httpSrv.Shutdown(shutdownCtx)
}
