// Package domain defines the types and interfaces for the catalog service
package domain

import (
	"licorice/internal/core/corpus"
)

// LicenseInfo is the list view of one reference license
type LicenseInfo struct {
	Name     string          `json:"name"`
	Category corpus.Category `json:"category"`
	Aliases  []string        `json:"aliases,omitempty"`

	// TokenCount is the normalized token length of the canonical text
	TokenCount int `json:"token_count"`
}

// LicenseDetail adds the canonical normalized text to the list view
type LicenseDetail struct {
	LicenseInfo
	Normalized string `json:"normalized"`
}

// LookupVia tells how a lookup query resolved
type LookupVia string

// Lookup resolution paths, tried in this order
const (
	ViaExact LookupVia = "exact"
	ViaAlias LookupVia = "alias"
	ViaFuzzy LookupVia = "fuzzy"
)

// LookupHit is one lookup result
type LookupHit struct {
	Name     string          `json:"name"`
	Category corpus.Category `json:"category"`
	Score    float64         `json:"score"`
	Via      LookupVia       `json:"via"`
}
