// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bib

import "strings"

// FieldSets lists which fields are required, optional, or accepted but
// non-standard for one entry type.
type FieldSets struct {
	Required    []string
	Optional    []string
	NonStandard []string
}

// FilterLevel controls entry-type-based field filtering during
// completion.
type FilterLevel string

const (
	FilterNone     FilterLevel = "no"
	FilterRequired FilterLevel = "required"
	FilterOptional FilterLevel = "optional"
	FilterAll      FilterLevel = "all"
)

// EntryTypes maps entry type tags to their field sets. Unknown types
// are treated as misc.
var EntryTypes = map[string]FieldSets{
	"article": {
		Required:    []string{"author", "title", "journal", "year"},
		Optional:    []string{"volume", "number", "pages", "month", "note"},
		NonStandard: []string{"doi", "issn"},
	},
	"book": {
		Required:    []string{"author", "editor", "title", "publisher", "year"},
		Optional:    []string{"volume", "number", "series", "address", "edition", "month", "note"},
		NonStandard: []string{"doi", "isbn", "issn"},
	},
	"booklet": {
		Required:    []string{"title"},
		Optional:    []string{"author", "howpublished", "address", "month", "year", "note"},
		NonStandard: []string{"doi"},
	},
	"conference": {
		Required:    []string{"author", "title", "booktitle", "year"},
		Optional:    []string{"editor", "volume", "number", "series", "pages", "address", "month", "organization", "publisher", "note"},
		NonStandard: []string{"doi", "isbn", "issn"},
	},
	"inbook": {
		Required:    []string{"author", "editor", "title", "chapter", "pages", "publisher", "year"},
		Optional:    []string{"volume", "number", "series", "type", "address", "edition", "month", "note"},
		NonStandard: []string{"doi", "isbn"},
	},
	"incollection": {
		Required:    []string{"author", "title", "booktitle", "publisher", "year"},
		Optional:    []string{"editor", "volume", "number", "series", "type", "chapter", "pages", "address", "edition", "month", "note"},
		NonStandard: []string{"doi", "isbn"},
	},
	"manual": {
		Required:    []string{"title"},
		Optional:    []string{"author", "organization", "address", "edition", "month", "year", "note"},
		NonStandard: []string{"doi", "isbn"},
	},
	"mastersthesis": {
		Required:    []string{"author", "title", "school", "year"},
		Optional:    []string{"type", "address", "month", "note"},
		NonStandard: []string{"doi"},
	},
	"misc": {
		Optional:    []string{"author", "title", "howpublished", "month", "year", "note"},
		NonStandard: []string{"doi"},
	},
	"techreport": {
		Required:    []string{"author", "title", "institution", "year"},
		Optional:    []string{"type", "number", "address", "month", "note"},
		NonStandard: []string{"doi", "isbn"},
	},
	"unpublished": {
		Required:    []string{"author", "title", "note"},
		Optional:    []string{"month", "year"},
		NonStandard: []string{"doi"},
	},
}

func init() {
	EntryTypes["inproceedings"] = EntryTypes["conference"]
	EntryTypes["phdthesis"] = EntryTypes["mastersthesis"]
}

// FieldsForType returns the set of field names an entry of the given
// type accepts at the given filter level. FilterNone returns nil,
// meaning no restriction.
func FieldsForType(entryType string, level FilterLevel) map[string]bool {
	if level == FilterNone || level == "" {
		return nil
	}
	sets, ok := EntryTypes[strings.ToLower(entryType)]
	if !ok {
		sets = EntryTypes["misc"]
	}
	accepted := make(map[string]bool)
	for _, f := range sets.Required {
		accepted[f] = true
	}
	if level == FilterOptional || level == FilterAll {
		for _, f := range sets.Optional {
			accepted[f] = true
		}
	}
	if level == FilterAll {
		for _, f := range sets.NonStandard {
			accepted[f] = true
		}
	}
	return accepted
}
