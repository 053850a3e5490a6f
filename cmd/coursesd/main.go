package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os/signal"
	"syscall"

	"courses/internal/config"
	"courses/internal/daemon"
	"courses/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "path to the configuration file")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, path, exists, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	if !exists {
		logger.Info("no configuration file found, using defaults", slog.String("path", path))
	}

	d, err := daemon.New(cfg, logger)
	if err != nil {
		logger.Error("start daemon", slog.Any("error", err))
		return
	}
	defer d.Close()

	if err := d.Run(ctx); err != nil {
		logger.Error("server stopped", slog.Any("error", err))
		return
	}
	logger.Info("coursesd shut down")
}
