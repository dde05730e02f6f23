package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ignite/pokedex/internal/config"
	"github.com/ignite/pokedex/internal/pkg/logger"
	"github.com/ignite/pokedex/internal/repository/postgres"
	"github.com/ignite/pokedex/internal/repository/sqlite"
	"github.com/ignite/pokedex/internal/storage"
)

func migrateCmd(a *app) *cobra.Command {
	var status bool

	c := &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations for the postgres or sqlite backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Migrate(cmd.Context(), a.cfg.Storage, status, cmd.OutOrStdout())
		},
	}
	c.Flags().BoolVar(&status, "status", false, "List migrations and their state instead of applying them")
	return c
}

// Migrate applies the embedded migrations of the configured SQL backend, or
// with status set prints one line per migration.
func Migrate(ctx context.Context, cfg config.StorageConfig, status bool, out io.Writer) error {
	var (
		apply  func(context.Context) error
		report func(context.Context) ([]string, error)
	)

	cfg.AutoMigrate = false
	backend, err := storage.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	switch backend.Type {
	case config.StoragePostgres:
		apply = func(ctx context.Context) error { return postgres.Migrate(ctx, backend.DB) }
		report = func(ctx context.Context) ([]string, error) { return postgres.MigrationStatus(ctx, backend.DB) }
	case config.StorageSQLite:
		apply = func(ctx context.Context) error { return sqlite.Migrate(ctx, backend.DB) }
		report = func(ctx context.Context) ([]string, error) { return sqlite.MigrationStatus(ctx, backend.DB) }
	default:
		return fmt.Errorf("storage %q has no schema migrations", backend.Type)
	}

	if !status {
		if err := apply(ctx); err != nil {
			return err
		}
		logger.Info("Migrations applied", "storage", backend.Type)
	}

	lines, err := report(ctx)
	if err != nil {
		return err
	}
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
	return nil
}
