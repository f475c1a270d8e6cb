// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reconcile

import (
	"testing"

	"github.com/pdiddy/bibcomplete/pkg/types"
)

func entryWith(fields map[string]string) types.Entry {
	e := types.NewEntry("key", "article")
	for k, v := range fields {
		e.Set(k, v)
	}
	return e
}

func TestMatchDOIShortCircuits(t *testing.T) {
	entry := entryWith(map[string]string{
		"doi":   "10.1145/3368089.3409746",
		"title": "Some Completely Different Title",
	})
	candidate := entryWith(map[string]string{
		"doi":   "https://doi.org/10.1145/3368089.3409746",
		"title": "The Actual Title",
	})

	d := Match(entry, candidate)
	if !d.Match || d.Reason != ReasonDOI {
		t.Errorf("decision = %+v, want DOI match", d)
	}
}

func TestMatchInvalidDOIFallsThrough(t *testing.T) {
	// Two invalid DOI strings must not short-circuit a match.
	entry := entryWith(map[string]string{"doi": "not-a-doi", "title": "A"})
	candidate := entryWith(map[string]string{"doi": "not-a-doi", "title": "B"})

	d := Match(entry, candidate)
	if d.Match || d.Reason != ReasonTitleMismatch {
		t.Errorf("decision = %+v, want title mismatch", d)
	}
}

func TestMatchTitleAndGates(t *testing.T) {
	tests := []struct {
		name      string
		entry     map[string]string
		candidate map[string]string
		match     bool
		reason    MatchReason
	}{
		{
			name:      "title agrees, no gates available",
			entry:     map[string]string{"title": "Literate Programming"},
			candidate: map[string]string{"title": "Literate  programming"},
			match:     true,
			reason:    ReasonTitleFields,
		},
		{
			name:      "title with author and year gates passing",
			entry:     map[string]string{"title": "Literate Programming", "author": "Knuth, D.", "year": "1984"},
			candidate: map[string]string{"title": "Literate Programming", "author": "Donald E. Knuth", "year": "1984"},
			match:     true,
			reason:    ReasonTitleFields,
		},
		{
			name:      "missing word in title is a different work",
			entry:     map[string]string{"title": "Literate Programming"},
			candidate: map[string]string{"title": "Literate"},
			reason:    ReasonTitleMismatch,
		},
		{
			name:      "entry without title never matches",
			entry:     map[string]string{"author": "Knuth, D."},
			candidate: map[string]string{"title": "Literate Programming"},
			reason:    ReasonNoTitle,
		},
		{
			name:      "candidate without title never matches",
			entry:     map[string]string{"title": "Literate Programming"},
			candidate: map[string]string{"year": "1984"},
			reason:    ReasonNoTitle,
		},
		{
			name:      "author gate fails on disjoint name lists",
			entry:     map[string]string{"title": "Literate Programming", "author": "Lamport, Leslie"},
			candidate: map[string]string{"title": "Literate Programming", "author": "Knuth, Donald E."},
			reason:    ReasonAuthorMismatch,
		},
		{
			name:      "author gate fails when candidate has no authors",
			entry:     map[string]string{"title": "Literate Programming", "author": "Knuth, D."},
			candidate: map[string]string{"title": "Literate Programming"},
			reason:    ReasonAuthorMismatch,
		},
		{
			name:      "year gate fails on different year",
			entry:     map[string]string{"title": "Literate Programming", "year": "1984"},
			candidate: map[string]string{"title": "Literate Programming", "year": "1985"},
			reason:    ReasonYearMismatch,
		},
		{
			name:      "gates skipped when entry lacks the fields",
			entry:     map[string]string{"title": "Literate Programming"},
			candidate: map[string]string{"title": "Literate Programming", "author": "Someone Else", "year": "2001"},
			match:     true,
			reason:    ReasonTitleFields,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Match(entryWith(tt.entry), entryWith(tt.candidate))
			if d.Match != tt.match || d.Reason != tt.reason {
				t.Errorf("decision = %+v, want match=%v reason=%q", d, tt.match, tt.reason)
			}
		})
	}
}

func TestMatchIsSymmetricOnDOI(t *testing.T) {
	a := entryWith(map[string]string{"doi": "10.1145/3368089.3409746", "title": "X"})
	b := entryWith(map[string]string{"doi": "10.1145/3368089.3409746", "title": "Y"})
	if !Match(a, b).Match || !Match(b, a).Match {
		t.Error("DOI match should hold in both directions")
	}
}
