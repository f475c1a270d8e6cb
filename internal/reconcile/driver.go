// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reconcile

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/bibcomplete/internal/bib"
	"github.com/pdiddy/bibcomplete/pkg/types"
)

// MarkedField is added to entries when Options.Mark is set; its
// presence (not its value) marks an entry as already queried.
const MarkedField = "btacqueried"

// resolverPrefix builds a URL from a DOI for the copy-doi-to-url
// option.
const resolverPrefix = "https://doi.org/"

// Options configures the reconciliation driver. The zero value
// completes every known field, overwrites nothing, and logs nowhere.
type Options struct {
	// Complete restricts which fields may be completed. Nil means all
	// known fields.
	Complete map[string]bool

	// Overwrite lists fields that may replace an existing value.
	Overwrite map[string]bool

	// ForceOverwrite allows every completed field to replace existing
	// values.
	ForceOverwrite bool

	// FilterLevel restricts completed fields to the entry type's
	// required/optional/all sets.
	FilterLevel bib.FilterLevel

	// SourcePriority is the tie-break ordering between equally-voted
	// equivalence classes, best first. Sources not listed rank last.
	SourcePriority []string

	// Prefix is prepended to written field names, leaving the original
	// field untouched for manual review.
	Prefix string

	// Mark adds the MarkedField to every processed entry.
	Mark bool

	// CopyDOIToURL fills an empty url field from the entry's DOI.
	CopyDOIToURL bool

	// EscapeUnicode rewrites accented characters in stored values as
	// TeX escapes.
	EscapeUnicode bool

	// ProtectUppercase selects fields whose capitalized words are
	// brace-protected; ProtectAllUppercase applies it to every field.
	ProtectUppercase    map[string]bool
	ProtectAllUppercase bool

	// Logger receives per-entry diagnostics. Explicit rather than
	// ambient so concurrent drivers stay independent.
	Logger zerolog.Logger
}

// priorityRanks builds the source → rank map used by voting.
func (o Options) priorityRanks() map[string]int {
	ranks := make(map[string]int, len(o.SourcePriority))
	for i, src := range o.SourcePriority {
		if _, ok := ranks[src]; !ok {
			ranks[src] = i
		}
	}
	return ranks
}

// Reconcile merges the matching candidates from results into entry and
// reports what changed. The entry's field map is updated in place; the
// citation key and entry type are never touched. Pure with respect to
// results, safe to call concurrently across entries.
func (o Options) Reconcile(entry types.Entry, results []types.SourceResult) (types.Entry, Provenance) {
	prov := Provenance{Key: entry.Key, Matches: make(map[string]MatchDecision)}

	var matching []types.SourceResult
	for _, res := range results {
		cand, found := res.Candidate()
		if !found {
			continue
		}
		decision := Match(entry, cand)
		prov.Matches[res.Source] = decision
		if decision.Match {
			matching = append(matching, res)
		} else {
			o.Logger.Debug().
				Str("entry", entry.Key).
				Str("source", res.Source).
				Str("reason", string(decision.Reason)).
				Msg("candidate rejected")
		}
	}

	ranks := o.priorityRanks()
	accepted := bib.FieldsForType(entry.Type, o.FilterLevel)

	for _, field := range candidateFields(matching) {
		if o.Complete != nil && !o.Complete[field] {
			continue
		}
		if accepted != nil && !accepted[field] {
			continue
		}
		had := entry.Has(field)
		if had && !o.ForceOverwrite && !o.Overwrite[field] {
			continue
		}

		winner, skip := o.completeField(field, matching, ranks)
		if skip != "" {
			prov.Skips = append(prov.Skips, FieldSkip{Field: field, Reason: skip})
			continue
		}
		if winner.Value == "" {
			continue
		}

		// Provenance tracks the field actually written: with a prefix
		// the bare field stays intact, so nothing was overwritten.
		value := o.formatValue(field, winner.Value)
		name := o.Prefix + field
		hadWritten := entry.Has(name)
		overwrote := hadWritten && types.Plain(value) != entry.Get(name)
		entry.Set(name, value)
		prov.Changes = append(prov.Changes, FieldChange{
			Field:     name,
			Value:     value,
			Sources:   winner.Sources,
			Overwrote: overwrote,
		})
		if overwrote {
			prov.Overwritten++
		} else if !hadWritten {
			prov.Added++
		}
	}

	if o.CopyDOIToURL && !entry.Has("url") {
		if doi, ok := bib.NormalizeDOI(entry.Get(o.Prefix + "doi")); ok {
			entry.Set(o.Prefix+"url", resolverPrefix+doi)
			prov.Changes = append(prov.Changes, FieldChange{
				Field:   o.Prefix + "url",
				Value:   resolverPrefix + doi,
				Sources: []string{"doi"},
			})
			prov.Added++
		}
	}

	if o.Mark {
		entry.Set(MarkedField, time.Now().Format("2006-01-02"))
	}

	return entry, prov
}

// completeField votes on one field across the matching candidates. A
// panic anywhere in normalization or comparison is contained here and
// reported as a skip, so one bad field cannot abort the rest of the
// entry.
func (o Options) completeField(field string, matching []types.SourceResult, ranks map[string]int) (winner Winner, skip string) {
	defer func() {
		if r := recover(); r != nil {
			winner = Winner{}
			skip = fmt.Sprintf("internal error: %v", r)
		}
	}()

	spec := bib.Lookup(field)
	var votes []Vote
	sawUnverified := false
	for _, res := range matching {
		raw := types.Plain(res.Fields[field])
		if raw == "" {
			continue
		}
		norm, valid := bib.Normalize(field, raw)
		if spec.Verify {
			// Only values the lookup layer confirmed to resolve may
			// enter the vote.
			if !valid || !res.Verified[field] {
				sawUnverified = true
				continue
			}
		}
		votes = append(votes, Vote{
			Source:   res.Source,
			Raw:      raw,
			Norm:     norm,
			Valid:    valid,
			Verified: res.Verified[field],
		})
	}

	w, ok := pickWinner(field, votes, ranks)
	if !ok {
		if sawUnverified {
			return Winner{}, "no verified value"
		}
		return Winner{}, ""
	}
	// An empty skip with an empty winner means no candidate data at
	// all; callers treat that as nothing to do.
	if w.Value == "" {
		return Winner{}, ""
	}
	return w, ""
}

// formatValue applies the output transforms. Formatting never
// participates in voting.
func (o Options) formatValue(field, value string) string {
	if o.ProtectAllUppercase || o.ProtectUppercase[field] {
		value = ProtectUppercase(value)
	}
	if o.EscapeUnicode {
		value = EscapeUnicode(value)
	}
	return value
}

// candidateFields collects the union of field names present in the
// matching candidates, sorted for deterministic processing.
func candidateFields(matching []types.SourceResult) []string {
	seen := make(map[string]bool)
	for _, res := range matching {
		for field, value := range res.Fields {
			if types.Plain(value) != "" {
				seen[strings.ToLower(field)] = true
			}
		}
	}
	fields := make([]string, 0, len(seen))
	for f := range seen {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}
