// Package module implements the catalog service module
package module

import (
	"licorice/internal/modkit"
	"licorice/internal/modkit/httpkit"
	"licorice/internal/services/catalog/domain"
	"licorice/internal/services/catalog/service"
)

// Ports exposed by the catalog module
type Ports struct {
	Classifier domain.ClassifierPort
	Catalog    domain.CatalogPort
	Admin      domain.AdminPort
}

// Module implements the catalog service module
type Module struct {
	deps  modkit.Deps
	svc   *service.Service
	ports Ports
	watch bool
}

// New constructs a catalog module, building the engine eagerly so a bad
// corpus fails startup rather than the first request
func New(deps modkit.Deps) (*Module, error) {
	opts := FromConfig(deps.Cfg)

	svc, err := service.New(opts.Config())
	if err != nil {
		return nil, err
	}

	m := &Module{deps: deps, svc: svc, watch: opts.Watch && opts.CorpusDir != ""}
	m.ports = Ports{
		Classifier: svc,
		Catalog:    svc,
		Admin:      svc,
	}
	return m, nil
}

// Service exposes the concrete service for watch wiring in main
func (m *Module) Service() *service.Service { return m.svc }

// WatchEnabled reports whether the corpus watcher should run
func (m *Module) WatchEnabled() bool { return m.watch }

// Name satisfies modkit.Module
func (m *Module) Name() string { return "catalog" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "" }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
