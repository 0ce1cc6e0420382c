// Package domain defines the types and interfaces for the audit service
package domain

import (
	"licorice/internal/core/classify"
	"licorice/internal/core/corpus"
)

// Input is one text to classify, usually a discovered license file
type Input struct {
	// Path identifies the input in the report (file path, URL, ...)
	Path string `json:"path"`

	// Text is the raw license text
	Text string `json:"text"`
}

// FileResult is the classification outcome for one input
type FileResult struct {
	Path   string          `json:"path"`
	Result classify.Result `json:"result"`

	// Err is set when the input could not be classified (read failure
	// recorded upstream); it never aborts the batch
	Err string `json:"error,omitempty"`
}

// Flagged reports whether this file needs human review: anything that is
// not a clean name match, plus proprietary terms even when matched
func (f FileResult) Flagged() bool {
	if f.Err != "" {
		return true
	}
	if f.Result.Decision != classify.DecisionMatched {
		return true
	}
	return f.Result.Category == corpus.CategoryProprietary
}

// Summary aggregates a batch
type Summary struct {
	Total      int            `json:"total"`
	ByCategory map[string]int `json:"by_category"`
	ByDecision map[string]int `json:"by_decision"`
	Flagged    []string       `json:"flagged,omitempty"`
}

// Report is the full outcome of one audit run, files in input order
type Report struct {
	Files   []FileResult `json:"files"`
	Summary Summary      `json:"summary"`
}
