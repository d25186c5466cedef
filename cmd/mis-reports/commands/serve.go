package commands

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"mis-reports/internal/logging"
	"mis-reports/internal/server"

	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the report API over HTTP",
	RunE: func(cmd *cobra.Command, _ []string) error {
		addr := serveAddr
		if addr == "" {
			addr = cfg.ServerAddr
		}
		a := newApp(cfg, "")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		api := server.NewWebAPI(logging.Component("http"), server.Config{
			Addr:            addr,
			ShutdownTimeout: 10 * time.Second,
			Dependencies: server.Dependencies{
				Registry:  a.registry,
				Generator: a.generator,
				Exporter:  a.exporter,
				CanExport: cfg.CanExport,
				OrgName:   cfg.OrgName,
			},
		})
		return api.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (defaults to SERVER_ADDR)")
	rootCmd.AddCommand(serveCmd)
}
