package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sybrew/the-seo-framework/config"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}
	cmd.AddCommand(configInitCmd(), configShowCmd())
	return cmd
}

func configInitCmd() *cobra.Command {
	var user bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Long: `Init writes a tsf.yaml with defaults into the current directory.
With --user it instead creates the user-level config under
~/.config/tsf/ when missing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := config.NewLoader(slog.Default())
			if user {
				if err := loader.EnsureUserConfig(); err != nil {
					return fmt.Errorf("create user config: %w", err)
				}
				fmt.Println("User config ready")
				return nil
			}
			if _, err := os.Stat(config.ProjectConfigFile); err == nil {
				return fmt.Errorf("%s already exists", config.ProjectConfigFile)
			}
			if err := config.DefaultConfig().SaveToFile(config.ProjectConfigFile); err != nil {
				return fmt.Errorf("write %s: %w", config.ProjectConfigFile, err)
			}
			fmt.Printf("Wrote %s\n", config.ProjectConfigFile)
			return nil
		},
	}

	cmd.Flags().BoolVar(&user, "user", false, "Create the user-level config instead")

	return cmd
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long:  `Show loads the layered configuration (defaults, user, project) and prints the merged result.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewLoader(slog.Default()).Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}
			os.Stdout.Write(out)
			return nil
		},
	}
}
