package files_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/fileferry/fileferry/pkg/api"
	"github.com/fileferry/fileferry/pkg/files"
)

// TestServicesNoToken tests that discovery without a token returns the
// default without touching the network
func TestServicesNoToken(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	apiClient, err := api.NewClient(server.URL)
	if err != nil {
		t.Fatalf("api.NewClient() error = %v", err)
	}
	client := files.New(apiClient)

	services := client.Services(context.Background())

	if hits.Load() != 0 {
		t.Errorf("server saw %d requests, want 0 without a token", hits.Load())
	}
	defaults := files.DefaultServices()
	if len(services) != len(defaults) {
		t.Fatalf("Services() = %d entries, want %d", len(services), len(defaults))
	}
	if services[0].Name != "files" {
		t.Errorf("default service name = %q, want files", services[0].Name)
	}
}

// TestServicesDiscovery tests discovery filtering and fallback
func TestServicesDiscovery(t *testing.T) {
	t.Run("FiltersActiveFileServices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/v2/system/service" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if r.Header.Get(api.SessionHeader) != "test-token" {
				t.Error("discovery should carry the session header")
			}
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"resource":[
				{"id":1,"name":"files","label":"Local Files","type":"local_file","is_active":true},
				{"id":2,"name":"s3","label":"S3 Bucket","type":"aws_s3","is_active":true},
				{"id":3,"name":"old","label":"Retired","type":"local_file","is_active":false},
				{"id":4,"name":"db","label":"Database","type":"mysql","is_active":true}
			]}`)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		services := client.Services(context.Background())

		if len(services) != 2 {
			t.Fatalf("Services() = %d entries, want 2: %+v", len(services), services)
		}
		if services[0].Name != "files" || services[1].Name != "s3" {
			t.Errorf("Services() = %+v", services)
		}
	})

	t.Run("ServerErrorFallsBack", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		services := client.Services(context.Background())
		if len(services) != 1 || services[0].Name != "files" {
			t.Errorf("Services() = %+v, want hardcoded default", services)
		}
	})

	t.Run("MalformedBodyFallsBack", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `<html>definitely not json</html>`)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		services := client.Services(context.Background())
		if len(services) != 1 || services[0].Name != "files" {
			t.Errorf("Services() = %+v, want hardcoded default", services)
		}
	})

	t.Run("EmptyAfterFilteringFallsBack", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"resource":[{"id":4,"name":"db","label":"Database","type":"mysql","is_active":true}]}`)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		services := client.Services(context.Background())
		if len(services) != 1 || services[0].Name != "files" {
			t.Errorf("Services() = %+v, want hardcoded default", services)
		}
	})

	t.Run("UnreachableFallsBack", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		serverURL := server.URL
		server.Close()

		client := newTestClient(t, serverURL)
		services := client.Services(context.Background())
		if len(services) != 1 || services[0].Name != "files" {
			t.Errorf("Services() = %+v, want hardcoded default", services)
		}
	})
}
