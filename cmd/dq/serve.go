package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"dataquality/adapters/httpserve"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve persisted reports over HTTP",
	Long: `Starts the HTTP report browser: JSON listing of persisted runs,
rendered report documents, on-demand analysis of local files, health, and
Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		service, closeService, err := buildService(true)
		if err != nil {
			return err
		}
		defer closeService()

		serverCfg := cfg.Server
		if serveAddr != "" {
			serverCfg.Addr = serveAddr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		server := httpserve.New(serverCfg, service, analysisOptions(), logger)
		return server.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (defaults to the configured address)")
}
