package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quizm/users-service/internal/infrastructure/config"
	"github.com/quizm/users-service/internal/infrastructure/db/postgres"
)

func newMigrateCommand() *cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Run Postgres schema migrations",
	}
	migrate.AddCommand(
		migrationCommand("up", "Apply all pending migrations", postgres.MigrateUp),
		migrationCommand("down", "Roll back the most recent migration", postgres.MigrateDown),
		migrationCommand("status", "Print the state of every migration", postgres.MigrateStatus),
	)
	return migrate
}

func migrationCommand(use, short string, run func(context.Context, *sql.DB) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, log, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			if cfg.Store.Driver != config.DriverPostgres {
				return fmt.Errorf("migrations apply to the postgres store only, STORE_DRIVER is %q", cfg.Store.Driver)
			}

			db, err := postgres.Open(ctx, cfg.Postgres.DSN())
			if err != nil {
				return err
			}
			defer db.Close()

			if err := run(ctx, db); err != nil {
				return err
			}
			log.Info().Str("command", use).Msg("migration finished")
			return nil
		},
	}
}
