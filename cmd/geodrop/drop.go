package main

import (
	"fmt"

	"github.com/sandevgo/geodrop/internal/core"
	"github.com/sandevgo/geodrop/internal/service/command"
	"github.com/sandevgo/geodrop/pkg/conv"
	"github.com/spf13/cobra"
)

var (
	dropLat      float64
	dropLng      float64
	dropAccuracy float64
	dropText     string
	dropColor    string
	dropAuthor   string
)

var dropCmd = &cobra.Command{
	Use:          "drop",
	Short:        "Drop AR content at the given position",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		app := NewApp(ctx)
		defer app.Close(ctx)

		sample := core.LocationSample{Latitude: dropLat, Longitude: dropLng, Accuracy: dropAccuracy}
		if err := app.Feed.Push(sample); err != nil {
			return err
		}

		rec, err := app.Store.Drop(ctx, core.DropRequest{Text: dropText, Color: dropColor, Author: dropAuthor})
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), conv.MarkdownToText([]byte(command.NewResponseFormatter().Record(rec, &sample))))
		return nil
	},
}

func init() {
	dropCmd.Flags().Float64Var(&dropLat, "lat", 0, "latitude in decimal degrees")
	dropCmd.Flags().Float64Var(&dropLng, "lng", 0, "longitude in decimal degrees")
	dropCmd.Flags().Float64Var(&dropAccuracy, "accuracy", 10, "horizontal accuracy in meters")
	dropCmd.Flags().StringVar(&dropText, "text", "", "note text")
	dropCmd.Flags().StringVar(&dropColor, "color", "", "hex color, e.g. #ff8800")
	dropCmd.Flags().StringVar(&dropAuthor, "author", "", "author name")
	_ = dropCmd.MarkFlagRequired("lat")
	_ = dropCmd.MarkFlagRequired("lng")
	rootCmd.AddCommand(dropCmd)
}
