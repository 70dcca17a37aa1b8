package main

import (
	"os"
	"os/signal"

	"github.com/sandevgo/geodrop/internal/transport/mcp"
	"github.com/sandevgo/geodrop/pkg/log"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:          "mcp",
	Short:        "Serve geodrop tools over MCP stdio",
	Long:         `Runs a Model Context Protocol server on stdin/stdout. Logs go to stderr.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupStderrLogger(ctx)
		defer flushLog()

		app := NewApp(ctx)
		defer app.Close(ctx)

		server := mcp.NewServer(app.Store, app.Feed, app.Tracker, os.Stdin, os.Stdout)
		log.FromCtx(ctx).Info().Msg("serving MCP over stdio")
		return server.Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
