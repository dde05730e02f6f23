// Package cli is the pokedex command line: it serves the HTTP API or runs the
// use-cases directly against the configured storage.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ignite/pokedex/internal/config"
	"github.com/ignite/pokedex/internal/pkg/logger"
	"github.com/ignite/pokedex/internal/service/pokemon"
	"github.com/ignite/pokedex/internal/storage"
)

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app is the state shared by every subcommand.
type app struct {
	configPath  string
	storageType string
	sqlitePath  string
	debug       bool

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "pokedex",
		Short:         "Pokedex catalog service and command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load()
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "config.yaml", "Path to the YAML config file (optional)")
	cmd.PersistentFlags().StringVar(&a.storageType, "storage", "", "Override storage.type (memory, postgres, sqlite, dynamodb, redis)")
	cmd.PersistentFlags().StringVar(&a.sqlitePath, "sqlite-path", "", "Override storage.sqlite_path")
	cmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")

	cmd.AddCommand(
		serveCmd(a),
		createCmd(a),
		fetchCmd(a),
		listCmd(a),
		deleteCmd(a),
		migrateCmd(a),
	)
	return cmd
}

func (a *app) load() error {
	cfg, err := config.LoadFromEnv(a.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if a.storageType != "" {
		cfg.Storage.Type = a.storageType
	}
	if a.sqlitePath != "" {
		cfg.Storage.SQLitePath = a.sqlitePath
	}
	if a.debug {
		cfg.Log.Level = "debug"
	}
	if err := logger.Setup(cfg.Log.Level, cfg.Log.Development); err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

// withService opens the configured storage for the duration of fn.
func (a *app) withService(ctx context.Context, fn func(svc *pokemon.Service) error) error {
	backend, err := storage.New(ctx, a.cfg.Storage)
	if err != nil {
		return err
	}
	defer backend.Close()
	return fn(pokemon.NewService(backend.Repo))
}

// useCaseError prefixes a service error with its kind ("not_found: ...").
func useCaseError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", pokemon.KindOf(err), err)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
