package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// RmFlags holds rm command flags
type RmFlags struct {
	Service string
}

var rmFlags RmFlags

// NewRmCommand creates the rm command
func NewRmCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <remote-path>...",
		Short: "Delete files or folders on a storage service",
		Long: `Delete one or more remote paths. Each path is attempted
independently and reported on its own; partial success is possible.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runRm,
	}

	cmd.Flags().StringVarP(&rmFlags.Service, "service", "s", "", "storage service name (default from config)")

	return cmd
}

func runRm(cmd *cobra.Command, args []string) error {
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

	service := serviceOrDefault(cfg, rmFlags.Service)
	results := client.DeleteBatch(ctx, service, args)

	failed := 0
	for _, result := range results {
		if result.Success {
			if !GetGlobalFlags().Quiet {
				fmt.Printf("✓ %s\n", result.Path)
			}
			continue
		}
		failed++
		fmt.Fprintf(os.Stderr, "✗ %s: %s\n", result.Path, result.Error)
	}

	if failed == len(results) && failed > 0 {
		return fmt.Errorf("all %d deletes failed", failed)
	}
	return nil
}
