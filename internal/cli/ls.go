package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fileferry/fileferry/pkg/files"
	"github.com/fileferry/fileferry/pkg/output"
)

// LsFlags holds ls command flags
type LsFlags struct {
	Service     string
	FoldersOnly bool
}

var lsFlags LsFlags

// NewLsCommand creates the ls command
func NewLsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ls [remote-path]",
		Short: "List a directory on a storage service",
		Long: `List files and folders under a remote directory. Listing is
best-effort: an unreachable path prints a warning and an empty listing
instead of failing.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runLs,
	}

	cmd.Flags().StringVarP(&lsFlags.Service, "service", "s", "", "storage service name (default from config)")
	cmd.Flags().BoolVar(&lsFlags.FoldersOnly, "folders", false, "list folders only")

	return cmd
}

func runLs(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	dirPath := ""
	if len(args) == 1 {
		dirPath = args[0]
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

	service := serviceOrDefault(cfg, lsFlags.Service)
	result := client.List(ctx, service, dirPath, &files.ListOptions{
		FoldersOnly: lsFlags.FoldersOnly,
	})

	if cfg.Output.Format == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}

	if result.Error != "" {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", result.Error)
	}

	for _, item := range result.Items {
		marker := " "
		if item.Type == files.TypeFolder {
			marker = "d"
		}
		modified := "-"
		if !item.LastModified.IsZero() {
			modified = item.LastModified.Format(time.RFC3339)
		}
		fmt.Printf("%s %10s  %-25s  %s\n", marker, output.FormatBytes(item.Size), modified, item.Name)
	}

	if !GetGlobalFlags().Quiet {
		fmt.Printf("%d items\n", result.TotalCount)
	}
	return nil
}
