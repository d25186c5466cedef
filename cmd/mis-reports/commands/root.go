package commands

import (
	"mis-reports/internal/config"
	"mis-reports/internal/logging"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "mis-reports",
	Short: "Report generation and export for the Education, Health and Social Justice modules",
	Long: `Generates category reports from the MIS backend (summary figures, monthly trend, normalized records)
and exports them as PDF, CSV or print-ready HTML. Without a subcommand it serves the MCP tools on stdio.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(logging.Options{Verbose: verbose})

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		log.Debug().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Str("backend", cfg.Backend.BaseURL).
			Msg("mis-reports starting")
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMCP(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
