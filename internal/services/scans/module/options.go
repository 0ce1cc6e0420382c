package module

import "licorice/internal/platform/config"

// Options holds configuration settings for the scans module
type Options struct {
	HardLimit int
}

// FromConfig reads CORE_SCANS_* settings
func FromConfig(cfg config.Conf) Options {
	sf := cfg.Prefix("CORE_SCANS_")
	return Options{
		HardLimit: sf.MayInt("HARD_LIMIT", 100),
	}
}
