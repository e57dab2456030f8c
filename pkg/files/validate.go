package files

import (
	"fmt"
	"strings"
)

// DefaultMaxSize is the upload size limit applied when none is
// configured (100 MiB).
const DefaultMaxSize = 100 * 1024 * 1024

// privateKeyPrefixes are filename prefixes typical of SSH private keys.
var privateKeyPrefixes = []string{"id_rsa", "id_dsa", "id_ecdsa", "id_ed25519"}

// privateKeySuffixes are extensions typical of key or certificate
// material.
var privateKeySuffixes = []string{".pem", ".key", ".p12", ".pfx", ".ppk"}

// executableSuffixes are extensions that commonly carry executable
// payloads.
var executableSuffixes = []string{".exe", ".bat", ".cmd", ".com", ".scr", ".msi", ".dll", ".sh"}

// Validator runs pre-flight checks on a candidate upload.
type Validator struct {
	// MaxSize is the hard upload limit in bytes. Zero means
	// DefaultMaxSize.
	MaxSize int64
}

// ValidationError is returned when an upload is rejected before any
// network call is made.
type ValidationError struct {
	Name   string
	Result ValidationResult
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Name, strings.Join(e.Result.Errors, "; "))
}

// Validate inspects a file's name and size before upload. Checks run
// in order: size limit (hard error), private-key-like names (warning),
// executable extensions (warning). The upload may proceed only when
// Errors is empty; warnings must not block legitimate administrative
// transfers such as uploading a .pem to a certs folder.
func (v *Validator) Validate(name string, size int64) ValidationResult {
	result := ValidationResult{
		IsValid: true,
		Size:    size,
	}

	maxSize := v.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	if size > maxSize {
		result.IsValid = false
		result.Errors = append(result.Errors,
			fmt.Sprintf("file size %d exceeds limit of %d bytes", size, maxSize))
	}

	lower := strings.ToLower(name)

	if isPrivateKeyName(lower) {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%s looks like private key material", name))
	}

	for _, suffix := range executableSuffixes {
		if strings.HasSuffix(lower, suffix) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s has a suspicious executable extension", name))
			break
		}
	}

	return result
}

func isPrivateKeyName(lower string) bool {
	for _, prefix := range privateKeyPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	for _, suffix := range privateKeySuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return strings.Contains(lower, "private") && strings.Contains(lower, "key")
}
