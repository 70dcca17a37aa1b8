package main

import (
	"fmt"

	"github.com/sandevgo/geodrop/internal/config"
	"github.com/sandevgo/geodrop/pkg/env"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:          "config",
	Short:        "Print the effective configuration as .env lines",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
			return err
		}

		appCfg := config.NewAppConfig(ctx)
		sections := []any{appCfg, config.NewPositionConfig(ctx)}
		if appCfg.EnableHTTP {
			sections = append(sections, config.NewHTTPConfig(ctx))
		}
		if appCfg.EnableTelegram {
			sections = append(sections, config.NewTelegramConfig(ctx))
		}

		for _, section := range sections {
			out, err := env.MarshalEnv(section, env.WithRedacted("GEODROP_TELEGRAM_TOKEN"))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
