package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variable names recognized by ApplyEnv.
const (
	EnvOrigin         = "FILEFERRY_ORIGIN"
	EnvToken          = "FILEFERRY_TOKEN"
	EnvService        = "FILEFERRY_SERVICE"
	EnvMaxUploadSize  = "FILEFERRY_MAX_UPLOAD_SIZE"
	EnvBandwidthLimit = "FILEFERRY_BANDWIDTH_LIMIT"
)

// LoadEnv loads a .env file from the working directory when present.
// Missing files are not an error; exported environment variables win
// either way.
func LoadEnv() {
	_ = godotenv.Load()
}

// ApplyEnv overrides configuration values from the environment.
// Environment takes precedence over the config file so tokens never
// have to be written to disk.
func ApplyEnv(cfg *Config) {
	cfg.API.Origin = getEnv(EnvOrigin, cfg.API.Origin)
	cfg.API.Token = getEnv(EnvToken, cfg.API.Token)
	cfg.API.DefaultService = getEnv(EnvService, cfg.API.DefaultService)
	cfg.Transfer.MaxUploadSize = getEnvInt64(EnvMaxUploadSize, cfg.Transfer.MaxUploadSize)
	cfg.Transfer.BandwidthLimit = getEnvInt64(EnvBandwidthLimit, cfg.Transfer.BandwidthLimit)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
