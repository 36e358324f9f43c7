package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"solarmon/backend/services/meter-service/internal/app"
	"solarmon/backend/services/meter-service/internal/energy"
	"solarmon/backend/services/meter-service/internal/repository"
)

// BaselineOptions holds flags for baseline set.
type BaselineOptions struct {
	*RootOptions
	Counters energy.Counters
}

// NewBaselineCommand creates the baseline command group.
func NewBaselineCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Manage the baseline reading",
		Long: `Manage the counters recorded when monitoring began. The first stored day
is measured against the baseline.`,
	}
	cmd.AddCommand(newBaselineSetCommand(rootOpts))
	cmd.AddCommand(newBaselineShowCommand(rootOpts))
	return cmd
}

func newBaselineSetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BaselineOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Record the baseline counters",
		Long: `Record the baseline counters, replacing any previous baseline.

Example:
  solarmon baseline set --solar-inverter 100 --solar-meter 29600 --export 40 --import 4000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.Counters.Validate(); err != nil {
				return err
			}
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			sqlDB, err := app.OpenDatabase(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			baseline, err := repository.NewBaselineRepository(sqlDB).SetBaseline(cmd.Context(), opts.Counters)
			if err != nil {
				return fmt.Errorf("set baseline: %w", err)
			}
			return writeJSON(cmd.OutOrStdout(), baseline)
		},
	}

	cmd.Flags().Float64Var(&opts.Counters.SolarInverter, "solar-inverter", 0, "solar inverter reading (kWh)")
	cmd.Flags().Float64Var(&opts.Counters.SolarMeter, "solar-meter", 0, "solar meter reading (kWh)")
	cmd.Flags().Float64Var(&opts.Counters.Export, "export", 0, "smart meter export reading (kWh)")
	cmd.Flags().Float64Var(&opts.Counters.Import, "import", 0, "smart meter import reading (kWh)")
	for _, name := range []string{"solar-inverter", "solar-meter", "export", "import"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func newBaselineShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the baseline counters",
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

			baseline, err := repository.NewBaselineRepository(sqlDB).GetBaseline(cmd.Context())
			if errors.Is(err, repository.ErrBaselineNotFound) {
				fmt.Fprintln(cmd.OutOrStdout(), "no baseline recorded")
				return nil
			}
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), baseline)
		},
	}
}
