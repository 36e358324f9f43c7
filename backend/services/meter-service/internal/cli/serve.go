package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"solarmon/backend/libs/logging"
	"solarmon/backend/services/meter-service/internal/app"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Migrate bool
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		Long: `Run the HTTP service until SIGINT or SIGTERM.

Example:
  solarmon serve --config ./solarmon.yaml --migrate`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Migrate, "migrate", false, "apply the database schema before serving")

	return cmd
}

func runServe(parent context.Context, opts *ServeOptions) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger("meter-service")
	if err != nil {
		return err
	}
	defer logger.Sync() // best-effort flush

	application, err := app.New(ctx, cfg, logger, app.Options{Migrate: opts.Migrate})
	if err != nil {
		logger.Error("failed to initialize application", zap.Error(err))
		return err
	}
	defer application.Close()

	if err := application.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("application stopped with error", zap.Error(err))
		return err
	}
	return nil
}
