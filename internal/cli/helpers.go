package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fileferry/fileferry/internal/platform"
	"github.com/fileferry/fileferry/pkg/api"
	"github.com/fileferry/fileferry/pkg/config"
	"github.com/fileferry/fileferry/pkg/files"
	"github.com/fileferry/fileferry/pkg/history"
	"github.com/fileferry/fileferry/pkg/logging"
	"github.com/fileferry/fileferry/pkg/ratelimit"
	"github.com/fileferry/fileferry/pkg/session"
)

// loadConfig loads configuration honoring the --config flag, .env and
// environment overrides.
func loadConfig() (*config.Config, error) {
	config.LoadEnv()

	flags := GetGlobalFlags()
	if flags.ConfigFile != "" {
		cfg, err := config.LoadFromFile(flags.ConfigFile)
		if err != nil {
			return nil, err
		}
		config.ApplyEnv(cfg)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	return config.LoadDefault()
}

// newLogger builds the logger configured for this run.
func newLogger(cfg *config.Config) (logging.Logger, error) {
	if !cfg.Logging.Enabled {
		return logging.NewNullLogger(), nil
	}

	level := logging.ParseLevel(cfg.Logging.Level)
	if GetGlobalFlags().Verbose {
		level = logging.DebugLevel
	}

	return logging.NewFileLogger(logging.FileLoggerConfig{
		Path:   cfg.Logging.File,
		Format: logging.Format(cfg.Logging.Format),
		Level:  level,
	})
}

// newFilesClient builds the file operations client from configuration.
// An expired session token gets a warning up front; the server still
// decides validity.
func newFilesClient(cfg *config.Config, logger logging.Logger) (*files.Client, error) {
	sess := session.New(cfg.API.Token)
	if sess.Expired(time.Now()) {
		fmt.Fprintln(os.Stderr, "Warning: session token appears to be expired")
	}

	apiClient, err := api.NewClient(cfg.API.Origin, api.WithToken(cfg.API.Token))
	if err != nil {
		return nil, err
	}

	return files.New(apiClient,
		files.WithValidator(files.Validator{MaxSize: cfg.Transfer.MaxUploadSize}),
		files.WithLimiter(ratelimit.NewLimiter(cfg.Transfer.BandwidthLimit)),
		files.WithLogger(logger),
	), nil
}

// openHistory opens the transfer journal, or returns nil when
// journaling is disabled.
func openHistory(cfg *config.Config) (*history.Store, error) {
	if !cfg.History.Enabled {
		return nil, nil
	}

	path := cfg.History.Path
	if path == "" {
		var err error
		path, err = platform.HistoryPath()
		if err != nil {
			return nil, err
		}
	}

	return history.Open(path)
}

// recordTransfer writes a journal entry, best-effort. A broken
// journal must never fail the transfer it describes.
func recordTransfer(ctx context.Context, store *history.Store, entry history.Entry) {
	if store == nil {
		return
	}
	if _, err := store.Record(ctx, entry); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to record transfer: %v\n", err)
	}
}

// serviceOrDefault resolves the service name from a flag, falling back
// to the configured default.
func serviceOrDefault(cfg *config.Config, flag string) string {
	if flag != "" {
		return flag
	}
	if cfg.API.DefaultService != "" {
		return cfg.API.DefaultService
	}
	return files.DefaultServices()[0].Name
}
