// Package cli implements the solarmon command line.
package cli

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"solarmon/backend/libs/logging"
	"solarmon/backend/services/meter-service/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigFile string

	// LoggerFactory overrides logger construction (for testing).
	LoggerFactory func() (*zap.Logger, error)
}

// NewRootCommand creates the root command for the solarmon CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "solarmon",
		Short: "Solar and utility meter tracking service",
		Long: `solarmon records daily cumulative meter readings, sent through a Telegram
bot or the HTTP API, and serves energy statistics derived from them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "path to YAML config (overrides CONFIG_FILE)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewBaselineCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewChatIDCommand(opts))
	cmd.AddCommand(NewHashPasswordCommand())

	return cmd
}

func (o *RootOptions) loadConfig() (*config.Config, error) {
	return config.LoadFrom(o.ConfigFile)
}

func (o *RootOptions) consoleLogger() (*zap.Logger, error) {
	if o.LoggerFactory != nil {
		return o.LoggerFactory()
	}
	return logging.NewConsoleLogger("solarmon")
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
