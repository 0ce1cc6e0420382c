// Package api provides the HTTP API for the application
package api

import (
	"licorice/internal/core/corpus"
	"licorice/internal/platform/config"
	"licorice/internal/platform/logger"
	phttp "licorice/internal/platform/net/http"
	"licorice/internal/platform/net/http/bind"
	"licorice/internal/platform/store"

	"licorice/internal/modkit"
	"licorice/internal/modkit/httpkit"
	"licorice/internal/modkit/module"
	"licorice/internal/modkit/swaggerkit"

	classifymod "licorice/internal/services/api/classify/module"
	licensesmod "licorice/internal/services/api/licenses/module"
	metamod "licorice/internal/services/api/meta/module"
	scansapimod "licorice/internal/services/api/scans/module"

	auditdom "licorice/internal/services/audit/domain"
	auditmod "licorice/internal/services/audit/module"
	catalogdom "licorice/internal/services/catalog/domain"
	catalogmod "licorice/internal/services/catalog/module"
	scansdom "licorice/internal/services/scans/domain"
	scansmod "licorice/internal/services/scans/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mounted exposes the long-lived modules main needs after mounting,
// currently just the catalog for corpus watch wiring
type Mounted struct {
	Catalog *catalogmod.Module
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) (*Mounted, error) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	// custom payload validation tags used by the DTOs
	if err := bind.RegisterValidation("category", func(fl bind.FieldLevel) bool {
		_, err := corpus.ParseCategory(fl.Field().String())
		return err == nil
	}); err != nil {
		return nil, err
	}

	// Construct the worker modules first and extract their ports.
	// The catalog builds the matching engine eagerly so a broken corpus
	// fails startup rather than the first request
	catalog, err := catalogmod.New(deps)
	if err != nil {
		return nil, err
	}
	cls := module.MustPortsOf[catalogdom.ClassifierPort](catalog)

	audit := auditmod.New(deps, cls)
	scans := scansmod.New(deps)

	mods := []module.Module{
		catalog,
		audit,
		scans,
		metamod.New(deps, modkit.WithPorts(metamod.Ports{
			Classifier: cls,
		})),
		classifymod.New(deps, modkit.WithPorts(classifymod.Ports{
			Classifier: cls,
		})),
		licensesmod.New(deps, modkit.WithPorts(licensesmod.Ports{
			Catalog: module.MustPortsOf[catalogdom.CatalogPort](catalog),
		})),
		scansapimod.New(deps, modkit.WithPorts(scansapimod.Ports{
			Runner: module.MustPortsOf[auditdom.RunnerPort](audit),
			Writer: module.MustPortsOf[scansdom.WriterPort](scans),
			Query:  module.MustPortsOf[scansdom.QueryPort](scans),
		})),
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			// transport-only modules return nil and stay out of the registry
			if p := m.Ports(); p != nil {
				module.Register(m.Name(), p)
			}

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})

	return &Mounted{Catalog: catalog}, nil
}
