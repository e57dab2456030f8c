package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewServicesCommand creates the services command
func NewServicesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "services",
		Short: "List available storage services",
		Long: `Discover the storage backends exposed by the API. When discovery
is not possible a hardcoded default is shown so there is always at
least one selectable target.`,
		RunE: runServices,
	}
}

func runServices(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	client, err := newFilesClient(cfg, logger)
	if err != nil {
		return err
	}

	services := client.Services(ctx)

	if cfg.Output.Format == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(services)
	}

	fmt.Printf("%-20s %-25s %-12s %s\n", "NAME", "LABEL", "TYPE", "ACTIVE")
	for _, service := range services {
		active := "no"
		if service.IsActive {
			active = "yes"
		}
		fmt.Printf("%-20s %-25s %-12s %s\n", service.Name, service.Label, service.Type, active)
	}
	return nil
}
