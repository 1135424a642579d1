package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"malscraper/pkg/config"
	"malscraper/pkg/ui"
)

// configCmd groups configuration subcommands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create configuration",
}

// configShowCmd prints the effective configuration after all layers apply
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile, nil)
		if err != nil {
			ui.PrintError("Failed to load configuration", err.Error())
			os.Exit(1)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		fmt.Print(string(data))
		return nil
	},
}

// configInitCmd writes the default configuration to a file
var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ".malscraper.yaml"
		if len(args) == 1 {
			path = args[0]
		}

		if _, err := os.Stat(path); err == nil {
			ui.PrintError("Config file already exists", path)
			os.Exit(1)
		}

		if err := config.DefaultConfig().Save(path); err != nil {
			ui.PrintError("Failed to write config file", err.Error())
			os.Exit(1)
		}

		ui.PrintSuccess("Wrote " + path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
