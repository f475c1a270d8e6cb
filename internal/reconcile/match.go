// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reconcile decides whether source candidates describe the same
// work as an entry and merges matching candidates' fields into the
// entry by majority vote.
package reconcile

import (
	"github.com/pdiddy/bibcomplete/internal/bib"
	"github.com/pdiddy/bibcomplete/pkg/types"
)

// MatchReason explains why a candidate was accepted or rejected.
type MatchReason string

const (
	// ReasonDOI: both sides carry the same valid DOI. Strong enough to
	// ignore title and author noise.
	ReasonDOI MatchReason = "doi"
	// ReasonTitleFields: title agrees and every available corroborating
	// gate (author, year) passed.
	ReasonTitleFields MatchReason = "title+gates"

	ReasonNoTitle        MatchReason = "no title to compare"
	ReasonTitleMismatch  MatchReason = "title mismatch"
	ReasonAuthorMismatch MatchReason = "author mismatch"
	ReasonYearMismatch   MatchReason = "year mismatch"
)

// MatchDecision is the verdict for one (entry, candidate) pair.
type MatchDecision struct {
	Match  bool        `json:"match"`
	Reason MatchReason `json:"reason"`
}

// Match decides whether candidate describes the same bibliographic work
// as entry. A shared valid DOI decides immediately; otherwise the title
// must agree word for word, and the author and year gates apply
// whenever the entry has local data to compare against.
func Match(entry, candidate types.Entry) MatchDecision {
	entryDOI, entryOK := bib.NormalizeDOI(entry.Get("doi"))
	candDOI, candOK := bib.NormalizeDOI(candidate.Get("doi"))
	if entryOK && candOK && entryDOI == candDOI {
		return MatchDecision{Match: true, Reason: ReasonDOI}
	}

	entryTitle := entry.Get("title")
	candTitle := candidate.Get("title")
	if entryTitle == "" || candTitle == "" {
		return MatchDecision{Reason: ReasonNoTitle}
	}
	// Titles must agree word for word after folding; abbreviation
	// matching is deliberately not used here since a missing word means
	// a different work.
	if bib.Fold(entryTitle) != bib.Fold(candTitle) {
		return MatchDecision{Reason: ReasonTitleMismatch}
	}

	if entry.Has("author") {
		if !bib.NamesIntersect(bib.ParseNames(entry.Get("author")), bib.ParseNames(candidate.Get("author"))) {
			return MatchDecision{Reason: ReasonAuthorMismatch}
		}
	}

	if entry.Has("year") {
		if !bib.Equivalent("year", entry.Get("year"), candidate.Get("year")) {
			return MatchDecision{Reason: ReasonYearMismatch}
		}
	}

	return MatchDecision{Match: true, Reason: ReasonTitleFields}
}
