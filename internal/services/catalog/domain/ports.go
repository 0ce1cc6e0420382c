package domain

import (
	"context"

	"licorice/internal/core/classify"
)

// ClassifierPort answers classification queries against the live engine
type ClassifierPort interface {
	Classify(ctx context.Context, text string) (classify.Result, error)
	Info() classify.Info
}

// CatalogPort exposes the reference corpus for introspection
type CatalogPort interface {
	List(ctx context.Context) ([]LicenseInfo, error)
	Get(ctx context.Context, name string) (LicenseDetail, error)
	Lookup(ctx context.Context, q string) ([]LookupHit, error)
}

// AdminPort rebuilds the engine from its corpus source.
// A failed rebuild leaves the previous engine serving
type AdminPort interface {
	Rebuild(ctx context.Context) error
}
