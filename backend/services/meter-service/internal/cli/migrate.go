package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"solarmon/backend/services/meter-service/internal/app"
	"solarmon/backend/services/meter-service/internal/db"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.loadConfig()
			if err != nil {
				return err
			}
			sqlDB, err := app.OpenDatabase(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			if err := db.Migrate(cmd.Context(), sqlDB); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema applied")
			return nil
		},
	}
}
