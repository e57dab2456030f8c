package files

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/fileferry/fileferry/internal/platform"
	"github.com/fileferry/fileferry/pkg/api"
	"github.com/fileferry/fileferry/pkg/logging"
	"github.com/fileferry/fileferry/pkg/ratelimit"
)

// Client performs file operations against a storage API. Each
// transfer is independent; concurrent uploads to the same path are
// not deduplicated or serialized client-side.
type Client struct {
	api       *api.Client
	validator Validator
	limiter   *ratelimit.Limiter
	logger    logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithValidator overrides the default upload validator.
func WithValidator(v Validator) Option {
	return func(c *Client) {
		c.validator = v
	}
}

// WithLimiter applies a bandwidth limit to transfers. The limiter is
// shared across uploads and downloads on this client.
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// WithLogger sets the logger used for operation logging.
func WithLogger(logger logging.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a file operations client on top of an API client.
func New(apiClient *api.Client, opts ...Option) *Client {
	c := &Client{
		api:    apiClient,
		logger: logging.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TransferOptions control a single upload or download.
type TransferOptions struct {
	// OnProgress, when set, selects a progress-capable transport and
	// receives byte-level snapshots during the transfer.
	OnProgress ProgressFunc
}

// uploadEnvelope is the resource envelope returned on upload.
type uploadEnvelope struct {
	Resource []struct {
		Name string `json:"name"`
		Path string `json:"path"`
		Type string `json:"type"`
	} `json:"resource"`
}

// Upload validates and transfers a single file into dir on the given
// service. Validation failures are returned as *ValidationError
// before any network call. Success is reported only after the server
// acknowledged the write; a malformed acknowledgement surfaces as
// *api.ParseError. Failed transfers are never retried automatically.
func (c *Client) Upload(ctx context.Context, service, dir, name string, r io.Reader, size int64, opts *TransferOptions) (*UploadResult, error) {
	if err := platform.ValidateRemote(dir); err != nil {
		return nil, err
	}

	result := c.validator.Validate(name, size)
	for _, warning := range result.Warnings {
		c.logger.Warn(ctx, "upload validation warning", logging.Fields{
			"service": service,
			"name":    name,
			"warning": warning,
		})
	}
	if !result.IsValid {
		c.logger.Warn(ctx, "upload rejected", logging.Fields{
			"service": service,
			"name":    name,
			"errors":  result.Errors,
		})
		return nil, &ValidationError{Name: name, Result: result}
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("files", name)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}

	digest := md5.New()
	written, err := io.Copy(io.MultiWriter(part, digest), r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize upload form: %w", err)
	}

	header := make(http.Header)
	header.Set("Content-Type", writer.FormDataContentType())
	header.Set("X-File-MD5", hex.EncodeToString(digest.Sum(nil)))

	// When a progress callback is supplied the request body goes
	// through a reader that emits byte-level events; a plain buffered
	// body cannot report incremental progress.
	total := int64(body.Len())
	var reader io.Reader = bytes.NewReader(body.Bytes())
	reader = ratelimit.NewReader(ctx, reader, c.limiter)
	var progressOpts ProgressFunc
	if opts != nil {
		progressOpts = opts.OnProgress
	}
	reader = newProgressReader(reader, total, progressOpts)

	remote := platform.JoinRemote(service, dir)
	resp, err := c.api.Do(ctx, http.MethodPost, "/"+remote, nil, reader, header)
	if err != nil {
		c.logger.Error(ctx, "upload failed", err, logging.Fields{
			"service": service,
			"name":    name,
			"size":    written,
		})
		return nil, err
	}
	defer resp.Body.Close()

	var envelope uploadEnvelope
	if err := decodeJSON(resp.Body, &envelope); err != nil {
		return nil, &api.ParseError{Err: err}
	}

	upload := &UploadResult{
		Success: true,
		Name:    name,
		Size:    written,
		Type:    string(TypeFile),
		Path:    platform.JoinRemote(dir, name),
	}
	if len(envelope.Resource) > 0 {
		ack := envelope.Resource[0]
		if ack.Name != "" {
			upload.Name = ack.Name
		}
		if ack.Path != "" {
			upload.Path = ack.Path
		}
		if ack.Type != "" {
			upload.Type = ack.Type
		}
	}

	c.logger.Info(ctx, "upload complete", logging.Fields{
		"service": service,
		"name":    upload.Name,
		"path":    upload.Path,
		"size":    upload.Size,
	})

	return upload, nil
}

// UploadPath uploads a local file, using its base name as the remote
// name.
func (c *Client) UploadPath(ctx context.Context, service, dir, localPath string, opts *TransferOptions) (*UploadResult, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", localPath, err)
	}

	return c.Upload(ctx, service, dir, filepath.Base(localPath), file, info.Size(), opts)
}

// UploadBatch uploads each local file independently; one failure does
// not abort the batch. When every item fails the batch itself fails
// with an aggregated error. On partial success callers must inspect
// both Results and Errors.
func (c *Client) UploadBatch(ctx context.Context, service, dir string, localPaths []string, opts *TransferOptions) (*BatchResult, error) {
	batch := &BatchResult{}

	for _, localPath := range localPaths {
		upload, err := c.UploadPath(ctx, service, dir, localPath, opts)
		if err != nil {
			batch.Errors = append(batch.Errors, BatchError{
				Name: filepath.Base(localPath),
				Err:  err,
			})
			continue
		}
		batch.Results = append(batch.Results, *upload)
	}

	if len(localPaths) > 0 && len(batch.Errors) == len(localPaths) {
		return batch, fmt.Errorf("all %d uploads failed: %v", len(localPaths), batch.Errors[0].Err)
	}

	return batch, nil
}

// Download streams a remote file into w, returning the number of
// bytes written. Progress snapshots are emitted when the options
// carry a callback.
func (c *Client) Download(ctx context.Context, service, remotePath string, w io.Writer, opts *TransferOptions) (int64, error) {
	if err := platform.ValidateRemote(remotePath); err != nil {
		return 0, err
	}

	query := url.Values{}
	query.Set("download", "true")

	remote := platform.JoinRemote(service, remotePath)
	resp, err := c.api.Do(ctx, http.MethodGet, "/"+remote, query, nil, nil)
	if err != nil {
		c.logger.Error(ctx, "download failed", err, logging.Fields{
			"service": service,
			"path":    remotePath,
		})
		return 0, err
	}
	defer resp.Body.Close()

	var reader io.Reader = ratelimit.NewReadCloser(ctx, resp.Body, c.limiter)
	var progressOpts ProgressFunc
	if opts != nil {
		progressOpts = opts.OnProgress
	}
	reader = newProgressReader(reader, resp.ContentLength, progressOpts)

	written, err := io.Copy(w, reader)
	if err != nil {
		return written, fmt.Errorf("download of %s interrupted: %w", remotePath, err)
	}

	c.logger.Info(ctx, "download complete", logging.Fields{
		"service": service,
		"path":    remotePath,
		"size":    written,
	})

	return written, nil
}
