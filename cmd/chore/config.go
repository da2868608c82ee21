// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"

	"chore-cli/internal/config"

	"github.com/spf13/cobra"
)

// configCmd groups the configuration subcommands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the global configuration",
	Long: `Inspect and manage the global chore configuration.

The configuration lives in the platform config directory (XDG config on
Linux, Library/Application Support on macOS, APPDATA on Windows) as a
CUE file. Missing file means builtin defaults.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			return renderError(err)
		}

		out := cmd.OutOrStdout()
		if path == "" {
			fmt.Fprintln(out, SubtitleStyle.Render("No config file found; showing builtin defaults."))
		} else {
			fmt.Fprintln(out, SubtitleStyle.Render("Loaded from "+path))
		}
		fmt.Fprintln(out)
		fmt.Fprint(out, config.GenerateCUE(cfg))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.CreateDefaultConfig()
		if err != nil {
			return renderError(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("✓")+" Created "+TaskStyle.Render(path))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.Path()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}
