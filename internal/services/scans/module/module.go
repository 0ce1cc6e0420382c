// Package module implements the scans service module
package module

import (
	"licorice/internal/modkit"
	"licorice/internal/modkit/httpkit"
	"licorice/internal/modkit/repokit"
	"licorice/internal/services/scans/domain"
	"licorice/internal/services/scans/repo"
	"licorice/internal/services/scans/service"
)

// Ports exposed by the scans module
type Ports struct {
	Writer domain.WriterPort
	Query  domain.QueryPort
}

// Module implements the scans service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new scans module
func New(deps modkit.Deps) *Module {
	opts := FromConfig(deps.Cfg)

	binder := repo.NewPG()
	svc := service.New(repokit.TxRunner(deps.PG), binder, service.Config{
		HardLimit: opts.HardLimit,
	})

	m := &Module{deps: deps}
	m.ports = Ports{
		Writer: svc,
		Query:  svc,
	}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "scans" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "" }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
