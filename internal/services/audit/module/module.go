// Package module implements the audit service module
package module

import (
	"licorice/internal/modkit"
	"licorice/internal/modkit/httpkit"
	"licorice/internal/services/audit/domain"
	"licorice/internal/services/audit/service"
	catalogdom "licorice/internal/services/catalog/domain"
)

// Ports exposed by the audit module
type Ports struct {
	Runner domain.RunnerPort
}

// Module implements the audit service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs an audit module over the injected classifier port
func New(deps modkit.Deps, cls catalogdom.ClassifierPort) *Module {
	opts := FromConfig(deps.Cfg)
	svc := service.New(cls, service.Config{Workers: opts.Workers})

	m := &Module{deps: deps}
	m.ports = Ports{Runner: svc}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "audit" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "" }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
