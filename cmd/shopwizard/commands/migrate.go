package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Kerhoff/ShopWizard/internal/config"
)

func migrateCmd(rt *app) *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back database migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := "up"
			if len(args) == 1 {
				direction = args[0]
			}

			cfg := rt.cfg
			db, err := config.NewDatabase(cmd.Context(), cfg.DatabaseURL, rt.log)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()

			if direction == "down" {
				return db.Rollback(cfg.MigrationsPath, steps)
			}
			return db.Migrate(cfg.MigrationsPath)
		},
	}

	cmd.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")
	return cmd
}
