package module

import (
	"licorice/internal/core/classify"
	"licorice/internal/platform/config"
	"licorice/internal/services/catalog/service"
)

// Options holds configuration settings for the catalog module
type Options struct {
	CorpusDir  string
	Watch      bool
	DebounceMs int
	Classify   classify.Options
}

// FromConfig reads CORE_CORPUS_* and CORE_CLASSIFY_* settings
func FromConfig(cfg config.Conf) Options {
	cc := cfg.Prefix("CORE_CORPUS_")
	cl := cfg.Prefix("CORE_CLASSIFY_")
	return Options{
		CorpusDir:  cc.MayString("DIR", ""),
		Watch:      cc.MayBool("WATCH", false),
		DebounceMs: cc.MayInt("DEBOUNCE_MS", 0),
		Classify: classify.Options{
			K:               cl.MayInt("K", 0),
			Threshold:       cl.MayFloat64("THRESHOLD", 0),
			MinMargin:       cl.MayFloat64("MARGIN", 0),
			TieEpsilon:      cl.MayFloat64("EPSILON", 0),
			Workers:         cl.MayInt("WORKERS", 0),
			DisableStemming: !cl.MayBool("STEMMING", true),
		},
	}
}

// Config converts module options into the service config
func (o Options) Config() service.Config {
	return service.Config{
		CorpusDir:  o.CorpusDir,
		Watch:      o.Watch,
		DebounceMs: o.DebounceMs,
		Classify:   o.Classify,
	}
}
