// Package commands implements the soeinspect CLI: decoding raw SOE and
// Gateway datagrams and exercising the spatial grid from the command
// line.
package commands

import (
	"github.com/soeframe/soeframe/internal/config"
	"github.com/soeframe/soeframe/internal/logger"
	"github.com/soeframe/soeframe/pkg/metrics"
	"github.com/spf13/cobra"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"

	cfgFile        string
	metricsEnabled bool
	cfg            *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "soeinspect",
	Short: "Decode SOE/Gateway packets and probe the spatial grid",
	Long: `soeinspect is a diagnostic CLI for the SOE base protocol codec, the
gateway protocol codec, and the 2D spatial hash grid. It takes raw hex
bytes on the command line and prints the decoded packet, or runs ad-hoc
insert/query operations against an in-memory grid.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded

		if metricsEnabled || cfg.Metrics.Enabled {
			metrics.InitRegistry()
		}

		return logger.Init(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/soeframe/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&metricsEnabled, "metrics", false, "collect Prometheus metrics for this invocation's codec/grid calls")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(gridCmd)
	rootCmd.AddCommand(metricsCmd)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
