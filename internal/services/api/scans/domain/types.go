// Package domain defines the transport types for the scans API
package domain

import (
	auditdom "licorice/internal/services/audit/domain"
	scansdom "licorice/internal/services/scans/domain"
)

// ScanFile is one file submitted for classification
type ScanFile struct {
	Path string `json:"path" validate:"required,max=500"`
	Text string `json:"text" validate:"required,max=1048576"`
}

// ScanInput submits a batch of license files as one scan run
type ScanInput struct {
	Source string     `json:"source" validate:"required,max=300" example:"repo:acme/widget"`
	Files  []ScanFile `json:"files" validate:"required,min=1,max=500,dive"`
}

// ScanOutput is the persisted outcome of a submitted scan
type ScanOutput struct {
	ID      string             `json:"id"`
	Source  string             `json:"source"`
	Summary auditdom.Summary   `json:"summary"`
	Files   []scansdom.FileRow `json:"files"`
}

// ScanPage is one page of persisted scan runs, newest first
type ScanPage struct {
	Items []scansdom.Head `json:"items"`

	// Next is the opaque cursor for the following page, empty when drained
	Next string `json:"next,omitempty"`
}
