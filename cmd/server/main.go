package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ignite/pokedex/internal/cli"
	"github.com/ignite/pokedex/internal/config"
	"github.com/ignite/pokedex/internal/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

// run returns instead of exiting so the deferred logger flush always happens.
func run(configPath string) error {
	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := logger.Setup(cfg.Log.Level, cfg.Log.Development); err != nil {
		return fmt.Errorf("setting up logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("Configuration loaded",
		"storage", cfg.Storage.Type,
		"database_url", cfg.Storage.DatabaseURL,
		"redis_url", cfg.Storage.RedisURL,
	)

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Serve(ctx, cfg); err != nil {
		logger.Error("Server error", "error", err)
		return err
	}
	return nil
}
