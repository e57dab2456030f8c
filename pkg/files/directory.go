package files

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/fileferry/fileferry/internal/platform"
	"github.com/fileferry/fileferry/pkg/api"
	"github.com/fileferry/fileferry/pkg/logging"
)

// ListOptions control a directory listing.
type ListOptions struct {
	// FoldersOnly restricts the listing to directory entries.
	FoldersOnly bool
}

// listEnvelope is the resource envelope returned on listing.
type listEnvelope struct {
	Resource []struct {
		Name          string `json:"name"`
		Path          string `json:"path"`
		Type          string `json:"type"`
		ContentLength int64  `json:"content_length"`
		LastModified  string `json:"last_modified"`
	} `json:"resource"`
}

// resourceRequest is the envelope used for creation and batch deletes.
type resourceRequest struct {
	Resource []resourceEntry `json:"resource"`
}

type resourceEntry struct {
	Name string `json:"name,omitempty"`
	Path string `json:"path,omitempty"`
	Type string `json:"type,omitempty"`
}

// List enumerates a directory on the given service. Listing is a
// best-effort UI affordance: any failure returns an empty result
// carrying a diagnostic message instead of an error, so one bad path
// cannot break an entire page of output.
func (c *Client) List(ctx context.Context, service, dirPath string, opts *ListOptions) ListResult {
	if err := platform.ValidateRemote(dirPath); err != nil {
		return ListResult{Items: []Item{}, Error: err.Error()}
	}

	query := url.Values{}
	query.Set("include_folders", "true")
	if opts != nil && opts.FoldersOnly {
		query.Set("include_files", "false")
	} else {
		query.Set("include_files", "true")
	}

	remote := platform.JoinRemote(service, dirPath)
	resp, err := c.api.Do(ctx, http.MethodGet, "/"+remote+"/", query, nil, nil)
	if err != nil {
		c.logger.Warn(ctx, "directory listing failed", logging.Fields{
			"service": service,
			"path":    dirPath,
			"error":   err.Error(),
		})
		return ListResult{Items: []Item{}, Error: operationMessage(err)}
	}
	defer resp.Body.Close()

	var envelope listEnvelope
	if err := decodeJSON(resp.Body, &envelope); err != nil {
		return ListResult{Items: []Item{}, Error: "unexpected listing response: " + err.Error()}
	}

	items := make([]Item, 0, len(envelope.Resource))
	for _, entry := range envelope.Resource {
		item := Item{
			Name: entry.Name,
			Type: ItemType(entry.Type),
			Size: entry.ContentLength,
			Path: entry.Path,
		}
		if item.Type != TypeFolder {
			item.Type = TypeFile
		}
		item.LastModified = parseModified(entry.LastModified)
		items = append(items, item)
	}

	return ListResult{Items: items, TotalCount: len(items)}
}

// CreateDirectory creates a folder named name inside dirPath. A
// duplicate-name conflict is surfaced as a failure carrying the
// server-provided message, not interpreted specially.
func (c *Client) CreateDirectory(ctx context.Context, service, dirPath, name string) OpResult {
	if err := platform.ValidateRemote(dirPath); err != nil {
		return OpResult{Error: err.Error()}
	}
	if name == "" {
		return OpResult{Error: "folder name is required"}
	}

	payload := resourceRequest{
		Resource: []resourceEntry{{Name: name, Type: string(TypeFolder)}},
	}

	remote := platform.JoinRemote(service, dirPath)
	err := c.apiJSON(ctx, http.MethodPost, "/"+remote+"/", payload)
	if err != nil {
		c.logger.Warn(ctx, "folder creation failed", logging.Fields{
			"service": service,
			"path":    dirPath,
			"name":    name,
			"error":   err.Error(),
		})
		return OpResult{Error: operationMessage(err)}
	}

	c.logger.Info(ctx, "folder created", logging.Fields{
		"service": service,
		"path":    platform.JoinRemote(dirPath, name),
	})
	return OpResult{Success: true}
}

// Delete removes a single file or folder.
func (c *Client) Delete(ctx context.Context, service, remotePath string) OpResult {
	if err := platform.ValidateRemote(remotePath); err != nil {
		return OpResult{Error: err.Error()}
	}

	remote := platform.JoinRemote(service, remotePath)
	err := c.apiJSON(ctx, http.MethodDelete, "/"+remote, nil)
	if err != nil {
		c.logger.Warn(ctx, "delete failed", logging.Fields{
			"service": service,
			"path":    remotePath,
			"error":   err.Error(),
		})
		return OpResult{Error: operationMessage(err)}
	}

	c.logger.Info(ctx, "deleted", logging.Fields{
		"service": service,
		"path":    remotePath,
	})
	return OpResult{Success: true}
}

// DeleteBatch removes each path independently and reports a per-item
// result. Partial success is representable; callers inspect every
// entry.
func (c *Client) DeleteBatch(ctx context.Context, service string, remotePaths []string) []DeleteResult {
	results := make([]DeleteResult, 0, len(remotePaths))
	for _, remotePath := range remotePaths {
		op := c.Delete(ctx, service, remotePath)
		results = append(results, DeleteResult{
			Path:    remotePath,
			Success: op.Success,
			Error:   op.Error,
		})
	}
	return results
}

// apiJSON issues a JSON request and discards any success body.
func (c *Client) apiJSON(ctx context.Context, method, path string, payload any) error {
	return c.api.DoJSON(ctx, method, path, nil, payload, nil)
}

// operationMessage extracts the message shown to callers for a failed
// operation: the server message verbatim when one exists, the plain
// error otherwise.
func operationMessage(err error) string {
	if httpErr, ok := api.AsHTTPError(err); ok && httpErr.Message != "" {
		return httpErr.Message
	}
	return err.Error()
}

// decodeJSON decodes a JSON body into out.
func decodeJSON(r io.Reader, out any) error {
	return json.NewDecoder(r).Decode(out)
}

// parseModified parses the listing timestamp, accepting the formats
// servers actually emit.
func parseModified(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, time.RFC1123, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
