package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ignite/pokedex/internal/cli"
	"github.com/ignite/pokedex/internal/config"
	"github.com/ignite/pokedex/internal/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	status := flag.Bool("status", false, "List migrations instead of applying them")
	flag.Parse()

	if err := run(*configPath, *status); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, status bool) error {
	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := logger.Setup(cfg.Log.Level, cfg.Log.Development); err != nil {
		return fmt.Errorf("setting up logger: %w", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	return cli.Migrate(ctx, cfg.Storage, status, os.Stdout)
}
