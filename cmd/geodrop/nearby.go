package main

import (
	"fmt"

	"github.com/sandevgo/geodrop/internal/core"
	"github.com/sandevgo/geodrop/internal/service/command"
	"github.com/sandevgo/geodrop/pkg/conv"
	"github.com/spf13/cobra"
)

var (
	nearbyLat float64
	nearbyLng float64
)

var nearbyCmd = &cobra.Command{
	Use:          "nearby",
	Short:        "Show AR content and landmarks around a position",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		app := NewApp(ctx)
		defer app.Close(ctx)

		if err := app.Feed.Push(core.LocationSample{Latitude: nearbyLat, Longitude: nearbyLng}); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), conv.MarkdownToText([]byte(command.NewResponseFormatter().Scene(app.Store.Snapshot()))))
		return nil
	},
}

func init() {
	nearbyCmd.Flags().Float64Var(&nearbyLat, "lat", 0, "latitude in decimal degrees")
	nearbyCmd.Flags().Float64Var(&nearbyLng, "lng", 0, "longitude in decimal degrees")
	_ = nearbyCmd.MarkFlagRequired("lat")
	_ = nearbyCmd.MarkFlagRequired("lng")
	rootCmd.AddCommand(nearbyCmd)
}
