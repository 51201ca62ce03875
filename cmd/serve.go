package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/linebalance/app"
	"github.com/kilianp07/linebalance/infra/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Address = addr
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		svc, err := app.New(cfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := svc.Close(); err != nil {
				logger.New("main").Errorf("service close: %v", err)
			}
		}()
		return svc.Serve(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides server.address)")
	rootCmd.AddCommand(serveCmd)
}
