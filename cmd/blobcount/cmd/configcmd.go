package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/blobcount/internal/config"
)

// configCmd groups configuration helpers.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and generate configuration",
}

// configInitCmd writes a default configuration file.
var configInitCmd = &cobra.Command{
	Use:   "init [file]",
	Short: "Write a default configuration file",
	Long: `Write the default configuration as YAML so it can be edited.

Without an argument the file is written as blobcount.yaml in the current
directory.

Examples:
  blobcount config init
  blobcount config init ~/.config/blobcount/blobcount.yaml`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := ""
		if len(args) == 1 {
			filename = args[0]
		}
		if filename == "" {
			filename = "blobcount.yaml"
		}

		if err := config.GenerateDefaultConfigFile(filename); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Default configuration written to %s\n", filename)
		return nil
	},
}

// configPathsCmd prints the configuration search paths.
var configPathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Print configuration file search paths",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, p := range config.GetConfigSearchPaths() {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathsCmd)
}
