package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/propdash/propdash/agent/internal/collector"
	"github.com/propdash/propdash/agent/internal/config"
	"github.com/propdash/propdash/agent/internal/shipper"
	"github.com/propdash/propdash/pkg/logging"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// Source and server credentials may live in a local .env file.
	_ = godotenv.Load()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "propdash-agent:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	closer, err := logging.Setup(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()

	slog.Info("propdash-agent starting",
		"config", configPath,
		"server_url", cfg.Agent.ServerURL,
		"tenant", cfg.Agent.TenantID,
		"collect_interval", cfg.Agent.CollectInterval,
	)

	col, err := collector.New(cfg.Agent)
	if err != nil {
		return err
	}
	if len(col.Sources()) == 0 {
		slog.Warn("no sources configured, agent will ship empty snapshots")
	}
	slog.Info("registered sources", "sources", col.Sources())

	ship, err := shipper.New(cfg.Agent)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var current atomic.Pointer[collector.Collector]
	current.Store(col)

	// Hot reload rebuilds the collector. Server, tenant and interval
	// changes need a restart.
	go func() {
		err := config.Watch(ctx, configPath, func(updated *config.Config) {
			next, err := collector.New(updated.Agent)
			if err != nil {
				slog.Error("config: collector rejected, keeping previous", "err", err)
				return
			}
			current.Store(next)
			slog.Info("config hot-reloaded", "sources", next.Sources())
		})
		if err != nil {
			slog.Error("config watcher stopped", "err", err)
		}
	}()

	go ship.Run(ctx)

	loop(ctx, cfg.Agent.CollectInterval, current.Load, ship)

	slog.Info("propdash-agent shutting down", "unsent", ship.Pending())
	return nil
}

// loop collects once immediately and then on every tick, shipping each
// snapshot. It returns when ctx is cancelled.
func loop(ctx context.Context, interval time.Duration, col func() *collector.Collector, ship *shipper.Shipper) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		collectOnce(ctx, col(), ship)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// collectOnce runs one collection cycle and hands the snapshot to ship.
func collectOnce(ctx context.Context, col *collector.Collector, ship *shipper.Shipper) bool {
	start := time.Now()
	snap, err := col.Collect(ctx)
	if err != nil {
		if ctx.Err() == nil {
			slog.Warn("collect error", "err", err)
		}
		return false
	}
	ship.Ship(snap)
	slog.Debug("queued snapshot",
		"took", time.Since(start),
		"has_stats", snap.Stats != nil,
		"has_health", snap.Health != nil,
		"pending", ship.Pending(),
	)
	return true
}
