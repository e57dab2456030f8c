package files_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fileferry/fileferry/pkg/files"
)

// TestList tests directory listing mapping and best-effort failure
func TestList(t *testing.T) {
	t.Run("MapsResources", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/v2/files/reports/" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if r.URL.Query().Get("include_folders") != "true" {
				t.Error("listing should request folders")
			}
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"resource":[
				{"name":"q1","path":"reports/q1","type":"folder"},
				{"name":"q1.pdf","path":"reports/q1.pdf","type":"file","content_length":2048,"last_modified":"2026-01-15T10:30:00Z"}
			]}`)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		result := client.List(context.Background(), "files", "reports", nil)

		if result.Error != "" {
			t.Fatalf("List() error = %q", result.Error)
		}
		if result.TotalCount != 2 || len(result.Items) != 2 {
			t.Fatalf("List() count = %d items = %d, want 2", result.TotalCount, len(result.Items))
		}
		if result.Items[0].Type != files.TypeFolder {
			t.Errorf("Items[0].Type = %q, want folder", result.Items[0].Type)
		}
		if result.Items[1].Size != 2048 {
			t.Errorf("Items[1].Size = %d, want 2048", result.Items[1].Size)
		}
		want := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
		if !result.Items[1].LastModified.Equal(want) {
			t.Errorf("Items[1].LastModified = %v, want %v", result.Items[1].LastModified, want)
		}
	})

	t.Run("UnreachableServiceNeverThrows", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		serverURL := server.URL
		server.Close()

		client := newTestClient(t, serverURL)
		result := client.List(context.Background(), "files", "anywhere", nil)

		if len(result.Items) != 0 {
			t.Errorf("Items = %v, want empty", result.Items)
		}
		if result.TotalCount != 0 {
			t.Errorf("TotalCount = %d, want 0", result.TotalCount)
		}
		if result.Error == "" {
			t.Error("Error should carry a non-empty diagnostic")
		}
	})

	t.Run("ServerErrorAbsorbed", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"error":{"code":403,"message":"Access denied to this folder"}}`)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		result := client.List(context.Background(), "files", "secret", nil)

		if result.Error != "Access denied to this folder" {
			t.Errorf("Error = %q, want server message verbatim", result.Error)
		}
	})

	t.Run("MalformedBodyAbsorbed", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `not json at all`)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		result := client.List(context.Background(), "files", "reports", nil)

		if result.Error == "" {
			t.Error("malformed listing body should surface a diagnostic")
		}
		if len(result.Items) != 0 {
			t.Error("malformed listing body should yield no items")
		}
	})
}

// TestCreateDirectory tests folder creation including the conflict case
func TestCreateDirectory(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("method = %s, want POST", r.Method)
			}
			var payload struct {
				Resource []struct {
					Name string `json:"name"`
					Type string `json:"type"`
				} `json:"resource"`
			}
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Errorf("failed to decode body: %v", err)
			}
			if len(payload.Resource) != 1 || payload.Resource[0].Name != "q1" || payload.Resource[0].Type != "folder" {
				t.Errorf("unexpected payload %+v", payload.Resource)
			}
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"resource":[{"name":"q1","path":"reports/q1","type":"folder"}]}`)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		result := client.CreateDirectory(context.Background(), "files", "reports", "q1")
		if !result.Success {
			t.Errorf("CreateDirectory() = %+v, want success", result)
		}
	})

	t.Run("ConflictMessageVerbatim", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusConflict)
			fmt.Fprint(w, `{"error":{"code":409,"message":"Folder already exists"}}`)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		result := client.CreateDirectory(context.Background(), "files", "reports", "q1")
		if result.Success {
			t.Error("CreateDirectory() Success = true on conflict")
		}
		if result.Error != "Folder already exists" {
			t.Errorf("Error = %q, want server message verbatim", result.Error)
		}
	})

	t.Run("EmptyName", func(t *testing.T) {
		client := newTestClient(t, "http://localhost:0")
		result := client.CreateDirectory(context.Background(), "files", "reports", "")
		if result.Success || result.Error == "" {
			t.Errorf("CreateDirectory() with empty name = %+v, want failure", result)
		}
	})
}

// TestDeleteBatch tests per-item delete results
func TestDeleteBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s, want DELETE", r.Method)
		}
		if strings.HasSuffix(r.URL.Path, "locked.txt") {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"error":{"code":403,"message":"File is locked"}}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"resource":[]}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	results := client.DeleteBatch(context.Background(), "files",
		[]string{"reports/a.txt", "reports/locked.txt", "reports/b.txt"})

	if len(results) != 3 {
		t.Fatalf("DeleteBatch() results = %d, want 3", len(results))
	}
	if !results[0].Success || !results[2].Success {
		t.Error("expected first and third deletes to succeed")
	}
	if results[1].Success {
		t.Error("expected second delete to fail")
	}
	if results[1].Error != "File is locked" {
		t.Errorf("Error = %q, want server message verbatim", results[1].Error)
	}
}
