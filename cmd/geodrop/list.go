package main

import (
	"fmt"

	"github.com/sandevgo/geodrop/internal/service/command"
	"github.com/sandevgo/geodrop/pkg/conv"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:          "list",
	Short:        "List every stored AR drop",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		app := NewApp(ctx)
		defer app.Close(ctx)

		f := command.NewResponseFormatter()
		records := app.Store.All()
		if len(records) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no AR content stored yet")
			return nil
		}

		items := make([]string, 0, len(records))
		for _, rec := range records {
			items = append(items, f.Record(rec, nil))
		}
		fmt.Fprintln(cmd.OutOrStdout(), conv.MarkdownToText([]byte(f.List(items))))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
