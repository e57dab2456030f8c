package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fileferry/fileferry/internal/platform"
	"github.com/fileferry/fileferry/pkg/files"
	"github.com/fileferry/fileferry/pkg/history"
	"github.com/fileferry/fileferry/pkg/output"
)

// DownloadFlags holds download command flags
type DownloadFlags struct {
	Service   string
	Output    string
	Bandwidth string
}

var downloadFlags DownloadFlags

// NewDownloadCommand creates the download command
func NewDownloadCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download <remote-path>",
		Short: "Download a file from a storage service",
		Args:  cobra.ExactArgs(1),
		RunE:  runDownload,
	}

	cmd.Flags().StringVarP(&downloadFlags.Service, "service", "s", "", "storage service name (default from config)")
	cmd.Flags().StringVarP(&downloadFlags.Output, "output", "O", "", "local destination (default: remote base name)")
	cmd.Flags().StringVarP(&downloadFlags.Bandwidth, "bandwidth", "b", "", "bandwidth limit (e.g., \"512K\", \"10M\")")

	return cmd
}

func runDownload(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	remotePath := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if downloadFlags.Bandwidth != "" {
		limit, err := output.ParseSize(downloadFlags.Bandwidth)
		if err != nil {
			return fmt.Errorf("invalid bandwidth limit: %w", err)
		}
		cfg.Transfer.BandwidthLimit = limit
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

	journal, err := openHistory(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: transfer journal unavailable: %v\n", err)
	}
	if journal != nil {
		defer journal.Close()
	}

	localPath := downloadFlags.Output
	if localPath == "" {
		localPath = platform.RemoteBase(remotePath)
	}

	file, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", localPath, err)
	}
	defer file.Close()

	service := serviceOrDefault(cfg, downloadFlags.Service)

	opts := &files.TransferOptions{}
	var bar *output.TransferBar
	if cfg.Output.Progress && !GetGlobalFlags().Quiet && cfg.Output.Format == "human" {
		bar = output.NewTransferBar(os.Stderr, platform.RemoteBase(remotePath), 0)
		opts.OnProgress = bar.Update
	}

	started := time.Now().UTC()
	written, err := client.Download(ctx, service, remotePath, file, opts)
	if bar != nil {
		bar.Finish()
	}

	entry := history.Entry{
		Direction:  history.DirectionDownload,
		Service:    service,
		RemotePath: remotePath,
		LocalPath:  localPath,
		Size:       written,
		Status:     string(files.StatusSucceeded),
		StartedAt:  started,
	}
	if err != nil {
		entry.Status = string(files.StatusFailed)
		entry.Error = err.Error()
	}
	recordTransfer(ctx, journal, entry)

	if err != nil {
		os.Remove(localPath)
		return err
	}

	if !GetGlobalFlags().Quiet {
		fmt.Printf("✓ %s (%s) -> %s\n", remotePath, output.FormatBytes(written), localPath)
	}
	return nil
}
