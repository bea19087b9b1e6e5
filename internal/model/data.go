package model

import "time"

// ExportResult represents the result of a single persistence write
type ExportResult struct {
	Name        string    `json:"name"` // logical output name, e.g. "raw-data.json"
	Path        string    `json:"path"`
	RecordCount int       `json:"record_count"`
	Size        int64     `json:"size"`
	Success     bool      `json:"success"`
	Error       string    `json:"error,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
