package ratelimit

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

// TestNewLimiter tests limiter construction
func TestNewLimiter(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		if NewLimiter(0) != nil {
			t.Error("NewLimiter(0) should return nil")
		}
		if NewLimiter(-5) != nil {
			t.Error("NewLimiter(-5) should return nil")
		}
	})

	t.Run("MinimumBucket", func(t *testing.T) {
		limiter := NewLimiter(1024)
		if limiter.bucketSize != minBucket {
			t.Errorf("bucketSize = %d, want %d for small limits", limiter.bucketSize, minBucket)
		}
	})

	t.Run("LargeBucket", func(t *testing.T) {
		limiter := NewLimiter(10 * 1024 * 1024)
		if limiter.bucketSize != 10*1024*1024 {
			t.Errorf("bucketSize = %d, want one second of data", limiter.bucketSize)
		}
	})
}

// TestReaderPassthrough tests that a nil limiter adds no wrapper
func TestReaderPassthrough(t *testing.T) {
	source := strings.NewReader("data")
	reader := NewReader(context.Background(), source, nil)
	if reader != io.Reader(source) {
		t.Error("NewReader() with nil limiter should return the source unchanged")
	}
}

// TestReaderDeliversAllData tests that limiting preserves content
func TestReaderDeliversAllData(t *testing.T) {
	payload := bytes.Repeat([]byte("abcd"), 8192) // 32 KiB

	// Generous limit so the test completes quickly.
	limiter := NewLimiter(64 * 1024 * 1024)
	reader := NewReader(context.Background(), bytes.NewReader(payload), limiter)

	got, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("ReadAll() = %d bytes, want %d identical bytes", len(got), len(payload))
	}
}

// TestReaderCancellation tests that a cancelled context stops reads
func TestReaderCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	// Tiny limit so the second read must wait for tokens.
	limiter := NewLimiter(1)
	limiter.tokens = 0

	reader := NewReader(ctx, strings.NewReader("some data"), limiter)

	done := make(chan error, 1)
	go func() {
		buf := make([]byte, 4)
		_, err := reader.Read(buf)
		done <- err
	}()

	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Read() error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Read() did not observe cancellation")
	}
}

// TestReadCloser tests the closing wrapper
func TestReadCloser(t *testing.T) {
	t.Run("NilLimiterPassthrough", func(t *testing.T) {
		rc := io.NopCloser(strings.NewReader("data"))
		if NewReadCloser(context.Background(), rc, nil) != rc {
			t.Error("NewReadCloser() with nil limiter should return the source unchanged")
		}
	})

	t.Run("CloseForwarded", func(t *testing.T) {
		closed := false
		rc := &trackingCloser{Reader: strings.NewReader("data"), closed: &closed}

		wrapped := NewReadCloser(context.Background(), rc, NewLimiter(1024*1024))
		if err := wrapped.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
		if !closed {
			t.Error("Close() was not forwarded to the wrapped closer")
		}
	})
}

type trackingCloser struct {
	io.Reader
	closed *bool
}

func (c *trackingCloser) Close() error {
	*c.closed = true
	return nil
}
