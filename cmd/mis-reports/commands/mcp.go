package commands

import (
	"os"
	"os/signal"
	"syscall"

	"mis-reports/internal/export"
	"mis-reports/internal/mcp"
	"mis-reports/internal/report"

	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the report tools over the MCP stdio transport",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runMCP(cmd)
	},
}

func runMCP(cmd *cobra.Command) error {
	a := newApp(cfg, "")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := mcp.NewServer(mcp.Dependencies{
		Registry:  a.registry,
		Session:   report.NewSession(a.generator),
		Exporter:  a.exporter,
		Print:     a.html,
		Viewer:    export.BrowserViewer{},
		CanExport: cfg.CanExport,
		OrgName:   cfg.OrgName,
		Version:   Version,
	})
	return server.Serve(ctx)
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
