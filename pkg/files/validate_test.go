package files

import (
	"strings"
	"testing"
)

// TestValidateSize tests the hard size limit
func TestValidateSize(t *testing.T) {
	v := &Validator{MaxSize: 1024}

	t.Run("UnderLimit", func(t *testing.T) {
		result := v.Validate("report.pdf", 512)
		if !result.IsValid {
			t.Errorf("Validate() IsValid = false, want true: %v", result.Errors)
		}
		if len(result.Errors) != 0 {
			t.Errorf("Validate() errors = %v, want none", result.Errors)
		}
	})

	t.Run("AtLimit", func(t *testing.T) {
		result := v.Validate("report.pdf", 1024)
		if !result.IsValid {
			t.Errorf("Validate() should accept a file exactly at the limit")
		}
	})

	t.Run("OverLimit", func(t *testing.T) {
		result := v.Validate("report.pdf", 2048)
		if result.IsValid {
			t.Error("Validate() IsValid = true for oversized file, want false")
		}
		if len(result.Errors) == 0 {
			t.Error("Validate() should report a non-empty errors list")
		}
	})

	t.Run("DefaultLimit", func(t *testing.T) {
		def := &Validator{}
		if result := def.Validate("big.iso", DefaultMaxSize+1); result.IsValid {
			t.Error("Validate() should apply the default limit when none is configured")
		}
		if result := def.Validate("ok.iso", DefaultMaxSize); !result.IsValid {
			t.Error("Validate() should accept files at the default limit")
		}
	})
}

// TestValidatePrivateKeyNames tests that key-like names warn but never block
func TestValidatePrivateKeyNames(t *testing.T) {
	v := &Validator{MaxSize: 1024}

	names := []string{
		"id_rsa.pem",
		"id_rsa",
		"id_ed25519",
		"server.key",
		"bundle.p12",
		"my-private-key.txt",
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			result := v.Validate(name, 100)
			if !result.IsValid {
				t.Errorf("Validate(%q) IsValid = false, warnings must not block", name)
			}
			if len(result.Warnings) == 0 {
				t.Errorf("Validate(%q) expected a warning", name)
			}
			if len(result.Errors) != 0 {
				t.Errorf("Validate(%q) errors = %v, want none", name, result.Errors)
			}
		})
	}
}

// TestValidateExecutableExtensions tests the suspicious-extension warning
func TestValidateExecutableExtensions(t *testing.T) {
	v := &Validator{MaxSize: 1024}

	t.Run("Executable", func(t *testing.T) {
		result := v.Validate("installer.exe", 100)
		if !result.IsValid {
			t.Error("Validate() executable should warn, not block")
		}
		if len(result.Warnings) == 0 {
			t.Error("Validate() expected an executable warning")
		}
	})

	t.Run("CaseInsensitive", func(t *testing.T) {
		result := v.Validate("INSTALLER.EXE", 100)
		if len(result.Warnings) == 0 {
			t.Error("Validate() extension check should be case-insensitive")
		}
	})

	t.Run("PlainFile", func(t *testing.T) {
		result := v.Validate("notes.txt", 100)
		if len(result.Warnings) != 0 {
			t.Errorf("Validate() warnings = %v, want none", result.Warnings)
		}
	})
}

// TestValidateCheckOrder tests that an oversized key file reports both
func TestValidateCheckOrder(t *testing.T) {
	v := &Validator{MaxSize: 10}

	result := v.Validate("id_rsa.pem", 100)
	if result.IsValid {
		t.Error("Validate() oversized file must be invalid regardless of warnings")
	}
	if len(result.Errors) == 0 || len(result.Warnings) == 0 {
		t.Errorf("Validate() want both errors and warnings, got errors=%v warnings=%v",
			result.Errors, result.Warnings)
	}
	if !strings.Contains(result.Errors[0], "exceeds limit") {
		t.Errorf("Validate() size error = %q, want limit message", result.Errors[0])
	}
}
