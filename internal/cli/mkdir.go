package cli

import (
	"context"
	"fmt"
	"path"

	"github.com/spf13/cobra"

	"github.com/fileferry/fileferry/internal/platform"
)

// MkdirFlags holds mkdir command flags
type MkdirFlags struct {
	Service string
}

var mkdirFlags MkdirFlags

// NewMkdirCommand creates the mkdir command
func NewMkdirCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mkdir <remote-path>",
		Short: "Create a folder on a storage service",
		Args:  cobra.ExactArgs(1),
		RunE:  runMkdir,
	}

	cmd.Flags().StringVarP(&mkdirFlags.Service, "service", "s", "", "storage service name (default from config)")

	return cmd
}

func runMkdir(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	remotePath := platform.CleanRemote(args[0])
	if remotePath == "" {
		return fmt.Errorf("folder name is required")
	}
	parent, name := path.Split(remotePath)

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

	service := serviceOrDefault(cfg, mkdirFlags.Service)
	result := client.CreateDirectory(ctx, service, parent, name)
	if !result.Success {
		return fmt.Errorf("failed to create %s: %s", remotePath, result.Error)
	}

	if !GetGlobalFlags().Quiet {
		fmt.Printf("Created %s on %s\n", remotePath, service)
	}
	return nil
}
