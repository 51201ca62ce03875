package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/linebalance/config"
)

var (
	cfgPath string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "linebalance",
	Short:         "Line-of-balance baseline scheduling for housing developments",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		// The default file is optional; an explicit --config must exist.
		if cmd.Flags().Changed("config") {
			cfg, err = config.Load(cfgPath)
		} else {
			cfg, err = config.LoadOptional(cfgPath)
		}
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		return cfg.Logging.Apply()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "linebalance.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }
