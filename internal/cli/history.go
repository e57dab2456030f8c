package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fileferry/fileferry/pkg/output"
)

// NewHistoryCommand creates the history command
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the local transfer journal",
	}

	cmd.AddCommand(newHistoryListCommand())
	cmd.AddCommand(newHistoryPruneCommand())

	return cmd
}

func newHistoryListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show recent transfers",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			journal, err := openHistory(cfg)
			if err != nil {
				return err
			}
			if journal == nil {
				return fmt.Errorf("transfer journal is disabled in configuration")
			}
			defer journal.Close()

			entries, err := journal.Recent(ctx, limit)
			if err != nil {
				return err
			}

			for _, entry := range entries {
				fmt.Printf("%s  %-8s  %-9s  %s:%s (%s)\n",
					entry.StartedAt.Format("2006-01-02 15:04:05"),
					entry.Direction,
					entry.Status,
					entry.Service,
					entry.RemotePath,
					output.FormatBytes(entry.Size),
				)
				if entry.Error != "" {
					fmt.Printf("    %s\n", entry.Error)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of entries to show")

	return cmd
}

func newHistoryPruneCommand() *cobra.Command {
	var olderThan int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete old journal entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			journal, err := openHistory(cfg)
			if err != nil {
				return err
			}
			if journal == nil {
				return fmt.Errorf("transfer journal is disabled in configuration")
			}
			defer journal.Close()

			cutoff := time.Now().UTC().AddDate(0, 0, -olderThan)
			removed, err := journal.Prune(ctx, cutoff)
			if err != nil {
				return err
			}

			fmt.Printf("Removed %d entries older than %d days\n", removed, olderThan)
			return nil
		},
	}

	cmd.Flags().IntVar(&olderThan, "older-than", 30, "remove entries older than this many days")

	return cmd
}
