package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fileferry/fileferry/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "fileferry",
		Short: "File operations client for storage APIs",
		Long: `fileferry is a client for file-storage HTTP APIs. It uploads and
downloads files with validation and progress reporting, browses and
manages remote directories, and discovers the storage services an API
exposes.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add global flags
	cli.AddGlobalFlags(rootCmd)

	// Add commands
	rootCmd.AddCommand(cli.NewUploadCommand())
	rootCmd.AddCommand(cli.NewDownloadCommand())
	rootCmd.AddCommand(cli.NewLsCommand())
	rootCmd.AddCommand(cli.NewMkdirCommand())
	rootCmd.AddCommand(cli.NewRmCommand())
	rootCmd.AddCommand(cli.NewServicesCommand())
	rootCmd.AddCommand(cli.NewHistoryCommand())
	rootCmd.AddCommand(cli.NewConfigCommand())
	rootCmd.AddCommand(cli.NewVersionCommand())

	return rootCmd.Execute()
}
