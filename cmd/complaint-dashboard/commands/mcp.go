package commands

import (
	"os/signal"
	"syscall"

	"complaint-dashboard/internal/mcp"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the dashboard as MCP tools over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := mcp.NewServer(a.service, Version).Run(ctx); err != nil && ctx.Err() == nil {
			return err
		}
		log.Info().Msg("MCP session ended")
		return nil
	},
}
