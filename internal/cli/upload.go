package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/fileferry/fileferry/pkg/files"
	"github.com/fileferry/fileferry/pkg/history"
	"github.com/fileferry/fileferry/pkg/output"
)

// UploadFlags holds upload command flags
type UploadFlags struct {
	Service   string
	Dir       string
	Bandwidth string
}

var uploadFlags UploadFlags

// NewUploadCommand creates the upload command
func NewUploadCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <file>...",
		Short: "Upload files to a storage service",
		Long: `Upload one or more local files to a directory on a storage service.
Each file in a batch is attempted independently; one failure does not
abort the rest.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runUpload,
	}

	cmd.Flags().StringVarP(&uploadFlags.Service, "service", "s", "", "storage service name (default from config)")
	cmd.Flags().StringVarP(&uploadFlags.Dir, "dir", "d", "", "remote directory to upload into")
	cmd.Flags().StringVarP(&uploadFlags.Bandwidth, "bandwidth", "b", "", "bandwidth limit (e.g., \"512K\", \"10M\")")

	return cmd
}

func runUpload(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if uploadFlags.Bandwidth != "" {
		limit, err := output.ParseSize(uploadFlags.Bandwidth)
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

	service := serviceOrDefault(cfg, uploadFlags.Service)
	showProgress := cfg.Output.Progress && !GetGlobalFlags().Quiet && cfg.Output.Format == "human"

	batch := &files.BatchResult{}
	for _, localPath := range args {
		result, err := uploadOne(ctx, client, service, localPath, showProgress)

		entry := history.Entry{
			Direction:  history.DirectionUpload,
			Service:    service,
			LocalPath:  localPath,
			RemotePath: uploadFlags.Dir + "/" + filepath.Base(localPath),
			StartedAt:  time.Now().UTC(),
		}
		if err != nil {
			entry.Status = string(files.StatusFailed)
			if _, ok := err.(*files.ValidationError); ok {
				entry.Status = string(files.StatusRejected)
			}
			entry.Error = err.Error()
			batch.Errors = append(batch.Errors, files.BatchError{
				Name: filepath.Base(localPath),
				Err:  err,
			})
		} else {
			entry.Status = string(files.StatusSucceeded)
			entry.RemotePath = result.Path
			entry.Size = result.Size
			batch.Results = append(batch.Results, *result)
		}
		recordTransfer(ctx, journal, entry)
	}

	if err := printUploadReport(cfg.Output.Format, batch); err != nil {
		return err
	}

	if len(batch.Errors) == len(args) {
		return fmt.Errorf("all %d uploads failed", len(args))
	}
	return nil
}

func uploadOne(ctx context.Context, client *files.Client, service, localPath string, showProgress bool) (*files.UploadResult, error) {
	opts := &files.TransferOptions{}

	var bar *output.TransferBar
	if showProgress {
		info, err := os.Stat(localPath)
		if err == nil {
			bar = output.NewTransferBar(os.Stderr, filepath.Base(localPath), info.Size())
			opts.OnProgress = bar.Update
		}
	}
	if bar != nil {
		defer bar.Finish()
	}

	return client.UploadPath(ctx, service, uploadFlags.Dir, localPath, opts)
}

func printUploadReport(format string, batch *files.BatchResult) error {
	if format == "json" {
		type jsonError struct {
			Name  string `json:"name"`
			Error string `json:"error"`
		}
		report := struct {
			Results []files.UploadResult `json:"results"`
			Errors  []jsonError          `json:"errors,omitempty"`
		}{Results: batch.Results}
		for _, batchErr := range batch.Errors {
			report.Errors = append(report.Errors, jsonError{Name: batchErr.Name, Error: batchErr.Err.Error()})
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	}

	if !GetGlobalFlags().Quiet {
		for _, result := range batch.Results {
			fmt.Printf("✓ %s (%s) -> %s\n", result.Name, output.FormatBytes(result.Size), result.Path)
		}
	}
	for _, batchErr := range batch.Errors {
		fmt.Fprintf(os.Stderr, "✗ %s: %v\n", batchErr.Name, batchErr.Err)
	}
	return nil
}
