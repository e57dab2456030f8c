package files

import (
	"time"
)

// ItemType distinguishes files from folders in a listing.
type ItemType string

const (
	// TypeFile is a regular file entry
	TypeFile ItemType = "file"
	// TypeFolder is a directory entry
	TypeFolder ItemType = "folder"
)

// Status tracks a transfer through its lifecycle
type Status string

const (
	// StatusIdle means no transfer has started yet
	StatusIdle Status = "idle"
	// StatusValidating means pre-flight checks are running
	StatusValidating Status = "validating"
	// StatusRejected means validation failed, no request was made
	StatusRejected Status = "rejected"
	// StatusUploading means bytes are moving to the server
	StatusUploading Status = "uploading"
	// StatusSucceeded means the server acknowledged the write
	StatusSucceeded Status = "succeeded"
	// StatusFailed means the transfer failed after validation
	StatusFailed Status = "failed"
)

// Service represents a storage backend exposed by the API.
// Created by discovery; immutable for the session.
type Service struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Label    string `json:"label"`
	Type     string `json:"type"`
	IsActive bool   `json:"is_active"`
}

// Item is a single entry in a directory listing.
type Item struct {
	Name         string
	Type         ItemType
	Size         int64
	LastModified time.Time
	Path         string
}

// ListResult is the outcome of a directory listing. Listing is
// best-effort: failures produce an empty result with a diagnostic
// message in Error rather than an error return.
type ListResult struct {
	Items      []Item
	TotalCount int
	Error      string
}

// UploadResult describes one completed upload attempt. Success is
// only set after the server acknowledged the write.
type UploadResult struct {
	Success bool
	Name    string
	Size    int64
	Type    string
	Path    string
}

// ValidationResult holds the outcome of pre-upload checks. Errors
// block the upload; warnings never do.
type ValidationResult struct {
	IsValid  bool
	Warnings []string
	Errors   []string
	Size     int64
}

// Progress is a point-in-time snapshot of a running transfer. A new
// snapshot replaces the previous one on every transport event; no
// history is kept.
type Progress struct {
	Loaded        int64
	Total         int64
	Percentage    float64
	Rate          int64 // bytes per second
	TimeRemaining time.Duration
}

// ProgressFunc receives progress snapshots during a transfer.
type ProgressFunc func(Progress)

// OpResult is the outcome of a single directory or delete operation.
type OpResult struct {
	Success bool
	Error   string
}

// BatchError captures the failure of one item within a batch.
type BatchError struct {
	Name string
	Err  error
}

func (e BatchError) Error() string {
	return e.Name + ": " + e.Err.Error()
}

// BatchResult collects the outcome of a batch upload. Partial success
// is representable: callers must inspect both Results and Errors.
type BatchResult struct {
	Results []UploadResult
	Errors  []BatchError
}

// DeleteResult is the per-item outcome of a batch delete.
type DeleteResult struct {
	Path    string
	Success bool
	Error   string
}
