package types

import "time"

// HTTPConfig holds shared HTTP settings for components that make network
// requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "crossref-reconcile/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// CatalogConfig holds settings for the external catalog client.
type CatalogConfig struct {
	HTTPConfig `yaml:",inline"`

	// Mailto is an optional contact address sent with catalog requests
	// for polite pool access.
	Mailto string `json:"mailto,omitempty" yaml:"mailto,omitempty"`
}

// MatchConfig holds the matching engine's tuning surface.
type MatchConfig struct {
	// Threshold is the score a candidate must strictly exceed to be
	// returned (default 40).
	Threshold int `json:"threshold" yaml:"threshold"`

	// MaxCandidates caps how many ranked results are requested from the
	// catalog per query (default 3). A cost/quality tradeoff, not a
	// correctness requirement.
	MaxCandidates int `json:"max_candidates" yaml:"max_candidates"`
}

// ServerConfig holds settings for the reconciliation HTTP service.
type ServerConfig struct {
	// Port is the TCP port the service listens on (default 8000).
	Port int `json:"port" yaml:"port"`

	// Domain is the public base URL of this service, used to build the
	// preview and suggest URLs in the manifest.
	Domain string `json:"domain" yaml:"domain"`
}

// Defaults for the matching engine and server.
const (
	DefaultThreshold     = 40
	DefaultMaxCandidates = 3
	DefaultPort          = 8000
)

// Config groups all component configurations.
type Config struct {
	Server  ServerConfig  `json:"server" yaml:"server"`
	Catalog CatalogConfig `json:"catalog" yaml:"catalog"`
	Match   MatchConfig   `json:"match" yaml:"match"`
}
