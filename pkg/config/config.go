package config

// Config represents the application configuration
type Config struct {
	API      APIConfig      `yaml:"api"`
	Transfer TransferConfig `yaml:"transfer"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
	History  HistoryConfig  `yaml:"history"`
}

// APIConfig holds connection settings for the storage API
type APIConfig struct {
	// Origin is the absolute base URL of the API (scheme + host)
	Origin string `yaml:"origin"`
	// Token is the session token attached to requests
	Token string `yaml:"token"`
	// DefaultService is the storage service used when none is given
	DefaultService string `yaml:"default_service"`
}

// TransferConfig holds transfer-related settings
type TransferConfig struct {
	// MaxUploadSize is the hard upload limit in bytes
	MaxUploadSize int64 `yaml:"max_upload_size"`
	// BandwidthLimit caps transfer speed in bytes per second (0 = unlimited)
	BandwidthLimit int64 `yaml:"bandwidth_limit"`
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format"`   // "human" or "json"
	Progress bool   `yaml:"progress"` // Show progress bars
	Quiet    bool   `yaml:"quiet"`    // Suppress non-error output
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Format  string `yaml:"format"` // "json" or "text"
	Level   string `yaml:"level"`  // "debug", "info", "warn", "error"
	File    string `yaml:"file"`   // Log file path (empty = stderr)
}

// HistoryConfig holds transfer journal settings
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // Journal path (empty = default location)
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		API: APIConfig{
			DefaultService: "files",
		},
		Transfer: TransferConfig{
			MaxUploadSize:  100 * 1024 * 1024,
			BandwidthLimit: 0,
		},
		Output: OutputConfig{
			Format:   "human",
			Progress: true,
			Quiet:    false,
		},
		Logging: LoggingConfig{
			Enabled: true,
			Format:  "text",
			Level:   "info",
			File:    "",
		},
		History: HistoryConfig{
			Enabled: true,
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Transfer.MaxUploadSize < 1 {
		return &ValidationError{
			Field:   "transfer.max_upload_size",
			Message: "must be at least 1 byte",
		}
	}

	if c.Transfer.BandwidthLimit < 0 {
		return &ValidationError{
			Field:   "transfer.bandwidth_limit",
			Message: "must not be negative",
		}
	}

	validFormats := map[string]bool{"human": true, "json": true}
	if !validFormats[c.Output.Format] {
		return &ValidationError{
			Field:   "output.format",
			Message: "must be 'human' or 'json'",
		}
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	return nil
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
