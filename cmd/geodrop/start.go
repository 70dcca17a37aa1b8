package main

import (
	"os"
	"os/signal"

	"github.com/sandevgo/geodrop/pkg/log"
	"github.com/sandevgo/geodrop/pkg/srv"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start geodrop with the configured transports",
	Long:  `Loads stored AR content, subscribes to position updates and starts every enabled transport (CLI, HTTP, Telegram).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting geodrop")

		app := NewApp(ctx)
		services := app.Services(ctx)

		srv.StartServices(ctx, services)

		srv.ShutdownServices(ctx, services)
		logger.Info().Msg("geodrop has been shut down gracefully")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
