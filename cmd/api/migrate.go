package main

import (
	"fmt"

	pgStorage "alumni-platform/internal/adapter/storage/postgres"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
			if err != nil {
				return fmt.Errorf("connect postgres: %w", err)
			}
			defer pool.Close()

			applied, err := pgStorage.Migrate(ctx, pool, log)
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			log.Info().Int("applied", applied).Msg("migrations complete")
			return nil
		},
	}
}
