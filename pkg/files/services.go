package files

import (
	"context"
	"net/http"
	"net/url"

	"github.com/fileferry/fileferry/pkg/logging"
)

// fileServiceTypes are the service types that represent file storage
// backends.
var fileServiceTypes = []string{"local_file", "aws_s3", "azure_blob", "gcs", "ftp", "sftp"}

// DefaultServices returns the hardcoded storage backend substituted
// when discovery cannot run or yields nothing. An admin console with
// no selectable storage target is a worse outcome than a possibly
// stale default.
func DefaultServices() []Service {
	return []Service{
		{
			Name:     "files",
			Label:    "Files",
			Type:     "local_file",
			IsActive: true,
		},
	}
}

// serviceEnvelope is the resource envelope returned by discovery.
type serviceEnvelope struct {
	Resource []Service `json:"resource"`
}

// Services discovers the storage backends available on the API. With
// no session token configured the hardcoded default is returned
// immediately, without a network call. Any discovery failure, a
// malformed body, or an empty result after filtering also degrades to
// the default.
func (c *Client) Services(ctx context.Context) []Service {
	if c.api.Token() == "" {
		c.logger.Debug(ctx, "no session token, using default service list", nil)
		return DefaultServices()
	}

	query := url.Values{}
	query.Set("filter", serviceFilter())
	query.Set("fields", "id,name,label,type,is_active")

	resp, err := c.api.Do(ctx, http.MethodGet, "/system/service", query, nil, nil)
	if err != nil {
		c.logger.Warn(ctx, "service discovery failed, using default service list", logging.Fields{
			"error": err.Error(),
		})
		return DefaultServices()
	}
	defer resp.Body.Close()

	var envelope serviceEnvelope
	if err := decodeJSON(resp.Body, &envelope); err != nil {
		c.logger.Warn(ctx, "malformed service discovery response, using default service list", logging.Fields{
			"error": err.Error(),
		})
		return DefaultServices()
	}

	services := make([]Service, 0, len(envelope.Resource))
	for _, service := range envelope.Resource {
		if service.IsActive && isFileServiceType(service.Type) {
			services = append(services, service)
		}
	}

	if len(services) == 0 {
		c.logger.Warn(ctx, "no active file services discovered, using default service list", nil)
		return DefaultServices()
	}

	return services
}

func serviceFilter() string {
	filter := "type in ("
	for i, t := range fileServiceTypes {
		if i > 0 {
			filter += ","
		}
		filter += "\"" + t + "\""
	}
	return filter + ")"
}

func isFileServiceType(serviceType string) bool {
	for _, t := range fileServiceTypes {
		if t == serviceType {
			return true
		}
	}
	return false
}
