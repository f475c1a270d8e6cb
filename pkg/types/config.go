// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Zero means no timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "bibcomplete/0.1 (mailto:...)").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// LookupConfig holds settings for the source query stage.
type LookupConfig struct {
	HTTPConfig `yaml:",inline"`

	// QueryDelay is the minimum delay between queries to one source.
	QueryDelay time.Duration `json:"query_delay" yaml:"query_delay"`

	// NoSkip disables the straggler cutoff: every source is waited on
	// for every entry, however far behind it falls.
	NoSkip bool `json:"no_skip" yaml:"no_skip"`

	// CachePath is the SQLite response cache location. Empty disables
	// caching.
	CachePath string `json:"cache_path" yaml:"cache_path"`

	// CacheTTL is how long cached responses stay fresh (default 3 weeks).
	CacheTTL time.Duration `json:"cache_ttl" yaml:"cache_ttl"`
}

// OutputConfig holds settings for writing completed records back.
type OutputConfig struct {
	// Inplace overwrites the input files instead of writing suffixed
	// copies.
	Inplace bool `json:"inplace" yaml:"inplace"`

	// Diff writes only the entries that gained fields.
	Diff bool `json:"diff" yaml:"diff"`

	// DumpPath, when set, receives a JSON dump of every source response.
	DumpPath string `json:"dump_path,omitempty" yaml:"dump_path,omitempty"`
}
