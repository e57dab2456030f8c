package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fileferry/fileferry/pkg/config"
	"github.com/fileferry/fileferry/pkg/output"
)

// NewConfigCommand creates the config command
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  `View or modify fileferry configuration.`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigInitCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			token := "(not set)"
			if cfg.API.Token != "" {
				token = "(set)"
			}

			fmt.Printf("API Origin: %s\n", cfg.API.Origin)
			fmt.Printf("Session Token: %s\n", token)
			fmt.Printf("Default Service: %s\n", cfg.API.DefaultService)
			fmt.Printf("Max Upload Size: %s\n", output.FormatBytes(cfg.Transfer.MaxUploadSize))
			if cfg.Transfer.BandwidthLimit > 0 {
				fmt.Printf("Bandwidth Limit: %s/s\n", output.FormatBytes(cfg.Transfer.BandwidthLimit))
			} else {
				fmt.Printf("Bandwidth Limit: unlimited\n")
			}
			fmt.Printf("Output Format: %s\n", cfg.Output.Format)
			fmt.Printf("Log Format: %s\n", cfg.Logging.Format)
			fmt.Printf("Log Level: %s\n", cfg.Logging.Level)
			fmt.Printf("History Enabled: %t\n", cfg.History.Enabled)

			return nil
		},
	}
}

func newConfigInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.DefaultConfigPath()
			if err != nil {
				return err
			}

			cfg := config.Default()
			if err := config.SaveToFile(cfg, path); err != nil {
				return err
			}

			fmt.Printf("Configuration file created at: %s\n", path)
			return nil
		},
	}
}
