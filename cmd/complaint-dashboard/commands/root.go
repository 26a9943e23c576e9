package commands

import (
	"complaint-dashboard/internal/config"
	"complaint-dashboard/internal/logging"

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
	Use:   "complaint-dashboard",
	Short: "Monthly complaint intake dashboard",
	Long: `Aggregates the complaints recorded by the intake form into monthly summaries:
counts by status, handling staff and unit category, plus average response times.
Serves them over HTTP, as MCP tools, or prints them on the command line.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		if _, err := logging.AttachFile(cfg.LogDir); err != nil {
			log.Fatal().Err(err).Msg("Failed to open log file")
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Str("command", cmd.Name()).
			Msg("Complaint dashboard starting")
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.Flags().BoolVar(&openBrowser, "open", false, "open the dashboard summary in a browser")
	rootCmd.AddCommand(serveCmd, reportCmd, datesCmd, mcpCmd, importCmd)
}
