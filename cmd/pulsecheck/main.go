package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pulsecheck/pulsecheck/internal/api"
	"github.com/pulsecheck/pulsecheck/internal/config"
	"github.com/pulsecheck/pulsecheck/internal/dataset"
	"github.com/pulsecheck/pulsecheck/internal/telemetry"
	"github.com/pulsecheck/pulsecheck/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// The level var is shared with the config watcher so log verbosity can be
	// changed without a restart.
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	slog.Info("pulsecheck starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	level.Set(cfg.Server.Level())

	slog.Info("config loaded",
		"http_port", cfg.Server.HTTPPort,
		"dataset", cfg.Dataset.Path,
		"stream_interval", cfg.Stream.Interval,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Dataset is loaded once. A failed load is not fatal: the service starts
	// and reports the retained error on every query until restart.
	src := dataset.Open(cfg.Dataset.Path)
	metrics := telemetry.New()
	if tbl, err := src.Table(); err != nil {
		slog.Error("telemetry dataset failed to load — queries will be rejected",
			"path", cfg.Dataset.Path, "err", err)
	} else {
		metrics.SetDatasetRows(tbl.NumRows())
		slog.Info("telemetry dataset loaded",
			"path", cfg.Dataset.Path,
			"rows", tbl.NumRows(),
			"columns", len(tbl.Columns()),
		)
	}

	// Config watcher — only the log level is applied at runtime.
	go func() {
		cur := *cfg
		err := config.Watch(ctx, *configPath, func(next *config.Config) {
			if next.Server.LogLevel != cur.Server.LogLevel {
				slog.Info("log level changed", "from", cur.Server.LogLevel, "to", next.Server.LogLevel)
				level.Set(next.Server.Level())
			}
			if next.Server.HTTPPort != cur.Server.HTTPPort || next.Dataset.Path != cur.Dataset.Path {
				slog.Warn("http_port and dataset.path changes require a restart")
			}
			cur = *next
		})
		if err != nil {
			slog.Error("config watcher stopped", "err", err)
		}
	}()

	h := api.New(src, metrics, cfg.Server.AllowedOrigins)

	// WebSocket hub — broadcasts service stats to dashboard clients.
	hub := ws.New(h.Stats, cfg.Stream.Interval)
	go hub.Run(ctx)

	httpMux := http.NewServeMux()
	httpMux.Handle("/api/", h)
	httpMux.Handle("/metrics", metrics.Handler())
	httpMux.Handle("/ws/stats", hub)

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: httpMux,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("pulsecheck shutting down")
	httpSrv.Shutdown(context.Background()) //nolint:errcheck
}
