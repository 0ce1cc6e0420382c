package module

import "licorice/internal/platform/config"

// Options holds configuration settings for the audit module
type Options struct {
	Workers int
}

// FromConfig reads CORE_AUDIT_* settings
func FromConfig(cfg config.Conf) Options {
	af := cfg.Prefix("CORE_AUDIT_")
	return Options{
		Workers: af.MayInt("WORKERS", 0),
	}
}
