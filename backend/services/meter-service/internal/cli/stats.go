package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"solarmon/backend/services/meter-service/internal/app"
	"solarmon/backend/services/meter-service/internal/models"
	"solarmon/backend/services/meter-service/internal/repository"
	"solarmon/backend/services/meter-service/internal/service"
)

// StatsOptions holds flags for the stats command.
type StatsOptions struct {
	*RootOptions
	Start string
	End   string
	Month string
}

// statsQuery is a validated stats request.
type statsQuery struct {
	monthly    bool
	year       int
	month      time.Month
	start, end time.Time
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print energy statistics as JSON",
		Long: `Print range statistics (--start/--end) or monthly totals (--month).

Examples:
  solarmon stats --start 2024-01-01 --end 2024-01-31
  solarmon stats --month 2024-01`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			query, err := opts.query(models.DateOf(time.Now(), cfg.Location()))
			if err != nil {
				return err
			}

			sqlDB, err := app.OpenDatabase(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			stats := service.NewStatsService(
				repository.NewReadingRepository(sqlDB),
				repository.NewBaselineRepository(sqlDB),
				nil, nil, zap.NewNop(),
			)
			if query.monthly {
				report, err := stats.Month(cmd.Context(), query.year, query.month)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), report)
			}
			report, err := stats.Range(cmd.Context(), query.start, query.end)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().StringVar(&opts.Start, "start", "", "range start (YYYY-MM-DD), default first day of this month")
	cmd.Flags().StringVar(&opts.End, "end", "", "range end (YYYY-MM-DD), default today")
	cmd.Flags().StringVar(&opts.Month, "month", "", "month (YYYY-MM) for monthly totals")
	cmd.MarkFlagsMutuallyExclusive("month", "start")
	cmd.MarkFlagsMutuallyExclusive("month", "end")

	return cmd
}

func (o *StatsOptions) query(today time.Time) (statsQuery, error) {
	if o.Month != "" {
		year, month, err := models.ParseMonth(o.Month)
		if err != nil {
			return statsQuery{}, err
		}
		return statsQuery{monthly: true, year: year, month: month}, nil
	}

	q := statsQuery{
		start: time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC),
		end:   today,
	}
	var err error
	if o.Start != "" {
		if q.start, err = models.ParseDate(o.Start); err != nil {
			return statsQuery{}, err
		}
	}
	if o.End != "" {
		if q.end, err = models.ParseDate(o.End); err != nil {
			return statsQuery{}, err
		}
	}
	if q.start.After(q.end) {
		return statsQuery{}, errors.New("--start must not be after --end")
	}
	return q, nil
}
