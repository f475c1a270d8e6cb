// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package lookup fans entry queries out to metadata sources, verifies
// identifier resolution, caches responses, and delivers per-entry
// result sets to the reconciliation driver in input order.
package lookup

import (
	"context"

	"github.com/pdiddy/bibcomplete/pkg/types"
)

// Backend queries one metadata source for candidate data about one
// entry. Implementations must return a NoMatch result (Found false)
// rather than an error for "the source does not know this work";
// errors are reserved for transport-level failures, and the scheduler
// downgrades even those to absent evidence.
type Backend interface {
	Name() string
	Lookup(ctx context.Context, entry types.Entry, cfg types.LookupConfig) (types.SourceResult, error)
}

// NoMatch builds the result recorded when a source has nothing for an
// entry.
func NoMatch(source string, query types.QueryInfo) types.SourceResult {
	return types.SourceResult{Source: source, Found: false, Query: query}
}
