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

	"github.com/cellserve/cellserve/internal/config"
	"github.com/cellserve/cellserve/internal/loader"
	"github.com/cellserve/cellserve/pkg/dataset"
	"github.com/cellserve/cellserve/pkg/route"
	"github.com/cellserve/cellserve/pkg/serve"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("cellserve starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"datasets", len(cfg.Datasets),
		"watch", cfg.Server.Watch,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := serve.New()
	go srv.Hub().Run(ctx)

	sess, err := buildSession(cfg)
	if err != nil {
		slog.Error("failed to build serving session", "err", err)
		os.Exit(1)
	}
	srv.Swap(sess)
	slog.Info("serving session built",
		"datasets", len(sess.Manifest.Datasets),
		"routes", sess.Table.Len(),
	)

	// Optional: rebuild the session whenever a dataset source changes.
	if cfg.Server.Watch {
		go func() {
			err := config.Watch(ctx, cfg.SourcePaths(), func(path string) {
				slog.Info("dataset source changed", "path", path)
				next, err := buildSession(cfg)
				if err != nil {
					slog.Error("rebuild failed, keeping previous session", "err", err)
					return
				}
				srv.Swap(next)
				slog.Info("serving session rebuilt", "routes", next.Table.Len())
			})
			if err != nil {
				slog.Error("dataset watcher stopped", "err", err)
			}
		}()
	}

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf("localhost:%d", cfg.Server.Port),
		Handler: srv,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.Port)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("cellserve shutting down")
	httpSrv.Shutdown(context.Background()) //nolint:errcheck
}

// buildSession loads every configured dataset from its sources and builds a
// fresh serving session.
func buildSession(cfg *config.Config) (*serve.Session, error) {
	datasets, err := loader.Datasets(cfg.Datasets)
	if err != nil {
		return nil, err
	}

	table := route.NewTable()
	manifest, err := dataset.Build(cfg.Server.Port, table, datasets...)
	if err != nil {
		return nil, err
	}
	return &serve.Session{Table: table, Manifest: manifest}, nil
}
