// Package module wires scans into the API using modkit
package module

import (
	"net/http"

	modkit "licorice/internal/modkit"
	"licorice/internal/modkit/httpkit"
	str "licorice/internal/platform/strings"
	scanshttp "licorice/internal/services/api/scans/http"
	auditdom "licorice/internal/services/audit/domain"
	scansdom "licorice/internal/services/scans/domain"
)

// Ports declares the injected worker and storage ports for this API module
type Ports struct {
	Runner auditdom.RunnerPort
	Writer scansdom.WriterPort
	Query  scansdom.QueryPort
}

// Module implements the modkit.Module interface
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)
}

// New constructs a scans API module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("scans"),
		modkit.WithPrefix("/scans"),
	}, opts...)...)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	if injected.Runner == nil || injected.Writer == nil || injected.Query == nil {
		panic("scans API module requires Runner, Writer and Query ports")
	}

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		scanshttp.Register(r, scanshttp.Ports{
			Runner: injected.Runner,
			Writer: injected.Writer,
			Query:  injected.Query,
		})
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
