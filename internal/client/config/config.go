// Package config handles configuration for the uploader CLI, including
// defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the shopmedia uploader.
//
// Fields:
//   - AuthorityBaseURL: base URL of the metadata authority's REST API.
//   - RequestTimeout: per-request timeout for authority calls. Direct
//     object-store transfers deliberately carry no extra timeout beyond
//     the transport's default.
type Config struct {
	AuthorityBaseURL string
	RequestTimeout   time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.AuthorityBaseURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 30 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
