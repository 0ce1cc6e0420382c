// @title         Licorice API
// @version       0.1.0
// @description   License classification, catalog lookup and scan persistence

package main

import (
	"context"

	"licorice/internal/platform/config"
	"licorice/internal/platform/logger"
	phttp "licorice/internal/platform/net/http"
	"licorice/internal/platform/store"

	"licorice/internal/services/api"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	pgCfg := root.Prefix("SERVICE_PGSQL_") // pgCfg lives under SERVICE_PGSQL_*

	// bring up logging early
	l := logger.Get()

	// open the platform store (postgres)
	st, err := store.Open(
		context.Background(),
		store.Config{
			PG: store.PGConfig{
				Enabled:     true,
				URL:         pgCfg.MustString("DBURL"),
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", true),
			},
		},
		store.WithLogger(*logger.Get()),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// http server (reads CORE_API_PORT / CORE_API_ADDR)
	srv := phttp.NewServer(apiCfg)

	// mount our API; this builds the matching engine from the corpus
	mounted, err := api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Store:          st,
			Logger:         l,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", true),
		},
	)
	if err != nil {
		l.Panic().Err(err).Msg("api.Mount failed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// hot-reload the corpus dir when watch mode is on
	if mounted.Catalog.WatchEnabled() {
		go func() {
			if err := mounted.Catalog.Service().Watch(ctx); err != nil {
				l.Error().Err(err).Msg("corpus watcher stopped")
			}
		}()
	}

	// run
	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
