package platform

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// appDir is the directory name used under the user config directory.
const appDir = "fileferry"

// ConfigPath returns the default configuration file location.
func ConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", appDir, "config.yaml"), nil
}

// HistoryPath returns the default transfer journal location.
func HistoryPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", appDir, "history.db"), nil
}

// CleanRemote normalizes a remote path to a slash-separated relative
// form without leading or trailing slashes. Remote paths always use
// forward slashes regardless of the local platform.
func CleanRemote(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = path.Clean("/" + p)
	return strings.Trim(p, "/")
}

// JoinRemote joins remote path segments with forward slashes and
// normalizes the result.
func JoinRemote(elem ...string) string {
	return CleanRemote(path.Join(elem...))
}

// RemoteBase returns the last element of a remote path.
func RemoteBase(p string) string {
	return path.Base(CleanRemote(p))
}

// ValidateRemote rejects remote paths that escape the service root or
// contain characters the API cannot address.
func ValidateRemote(p string) error {
	cleaned := strings.ReplaceAll(p, "\\", "/")
	for _, segment := range strings.Split(cleaned, "/") {
		if segment == ".." {
			return &PathError{Path: p, Message: "path must not contain '..'"}
		}
	}
	if strings.ContainsRune(p, 0) {
		return &PathError{Path: p, Message: "path contains a NUL byte"}
	}
	return nil
}

// PathError represents a remote path validation error.
type PathError struct {
	Path    string
	Message string
}

func (e *PathError) Error() string {
	return "invalid path '" + e.Path + "': " + e.Message
}
