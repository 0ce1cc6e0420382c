// Package domain defines the types and interfaces for the scans service
package domain

import (
	"time"

	"licorice/internal/core/classify"
	"licorice/internal/core/corpus"
)

// FileRow is one classified file inside a persisted scan run
type FileRow struct {
	Path       string            `json:"path"`
	Decision   classify.Decision `json:"decision"`
	Category   corpus.Category   `json:"category"`
	License    string            `json:"license,omitempty"`
	Confidence float64           `json:"confidence"`
	Err        string            `json:"error,omitempty"`
}

// Run is a persisted scan run with its file rows
type Run struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
	Total     int       `json:"total"`
	Flagged   int       `json:"flagged"`
	Files     []FileRow `json:"files,omitempty"`
}

// Head is the list view of a run, files omitted
type Head struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
	Total     int       `json:"total"`
	Flagged   int       `json:"flagged"`
}

// AfterKey is the keyset cursor for listing runs newest first
type AfterKey struct {
	CreatedAt time.Time
	ID        string // uuid
}
