// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bib implements the bibliographic field model: a static
// registry describing how each known field is normalized and compared,
// the normalizers themselves, author-name parsing, and the per-field
// equivalence predicates used for matching and voting.
package bib

import (
	"sort"
	"strings"
)

// NormalizerKind selects the normalization applied to a field value.
type NormalizerKind uint8

const (
	NormText NormalizerKind = iota
	NormNames
	NormPages
	NormISSN
	NormISBN
	NormDOI
	NormURL
	NormMonth
	NormYear
)

// ComparatorKind selects the equivalence predicate for a field.
type ComparatorKind uint8

const (
	// CmpExact is normalized-string equality.
	CmpExact ComparatorKind = iota
	// CmpAbbrev additionally accepts word-initial abbreviations
	// (journal names, institutions, ...).
	CmpAbbrev
	// CmpNames is person-list intersection (author, editor).
	CmpNames
	// CmpIdentifier is canonical equality of validated identifiers;
	// invalid values only ever equal themselves literally.
	CmpIdentifier
	// CmpYear is numeric equality.
	CmpYear
)

// Spec describes one known field. The registry is fixed at startup and
// never mutated, so lookups are safe from concurrent goroutines.
type Spec struct {
	Normalizer NormalizerKind
	Comparator ComparatorKind

	// Identifier marks fields with a checkable syntax (doi, issn,
	// isbn, url).
	Identifier bool

	// Verify marks identifier fields whose values must additionally be
	// confirmed to resolve online before they may win a vote.
	Verify bool
}

// Registry maps every known field name to its spec. Unknown fields fall
// back to plain text handling via Lookup.
var Registry = map[string]Spec{
	"address":      {Normalizer: NormText, Comparator: CmpExact},
	"annote":       {Normalizer: NormText, Comparator: CmpExact},
	"author":       {Normalizer: NormNames, Comparator: CmpNames},
	"booktitle":    {Normalizer: NormText, Comparator: CmpAbbrev},
	"chapter":      {Normalizer: NormText, Comparator: CmpExact},
	"doi":          {Normalizer: NormDOI, Comparator: CmpIdentifier, Identifier: true, Verify: true},
	"edition":      {Normalizer: NormText, Comparator: CmpExact},
	"editor":       {Normalizer: NormNames, Comparator: CmpNames},
	"howpublished": {Normalizer: NormText, Comparator: CmpExact},
	"institution":  {Normalizer: NormText, Comparator: CmpAbbrev},
	"issn":         {Normalizer: NormISSN, Comparator: CmpIdentifier, Identifier: true},
	"isbn":         {Normalizer: NormISBN, Comparator: CmpIdentifier, Identifier: true},
	"journal":      {Normalizer: NormText, Comparator: CmpAbbrev},
	"month":        {Normalizer: NormMonth, Comparator: CmpExact},
	"note":         {Normalizer: NormText, Comparator: CmpExact},
	"number":       {Normalizer: NormText, Comparator: CmpExact},
	"organization": {Normalizer: NormText, Comparator: CmpAbbrev},
	"pages":        {Normalizer: NormPages, Comparator: CmpExact},
	"publisher":    {Normalizer: NormText, Comparator: CmpAbbrev},
	"school":       {Normalizer: NormText, Comparator: CmpAbbrev},
	"series":       {Normalizer: NormText, Comparator: CmpAbbrev},
	"title":        {Normalizer: NormText, Comparator: CmpExact},
	"type":         {Normalizer: NormText, Comparator: CmpExact},
	"url":          {Normalizer: NormURL, Comparator: CmpIdentifier, Identifier: true, Verify: true},
	"volume":       {Normalizer: NormText, Comparator: CmpExact},
	"year":         {Normalizer: NormYear, Comparator: CmpYear},
}

// Lookup returns the spec for a field name, falling back to plain text
// for fields outside the registry.
func Lookup(field string) Spec {
	if spec, ok := Registry[strings.ToLower(field)]; ok {
		return spec
	}
	return Spec{Normalizer: NormText, Comparator: CmpExact}
}

// FieldNames returns the known field names in sorted order.
func FieldNames() []string {
	names := make([]string, 0, len(Registry))
	for name := range Registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Normalize applies the field's normalizer to a raw value. It is total:
// any input yields a comparison form. The second return value is false
// when an identifier field's value fails syntax or check-digit
// validation; such values keep their literal text and are excluded from
// identifier-grade matching and online verification.
func Normalize(field, raw string) (string, bool) {
	switch Lookup(field).Normalizer {
	case NormNames:
		return FormatNames(ParseNames(raw)), true
	case NormPages:
		return NormalizePages(raw), true
	case NormISSN:
		return NormalizeISSNList(raw)
	case NormISBN:
		return NormalizeISBN(raw)
	case NormDOI:
		return NormalizeDOI(raw)
	case NormURL:
		return NormalizeURL(raw)
	case NormMonth:
		return NormalizeMonth(raw), true
	case NormYear:
		return NormalizeYear(raw), true
	default:
		return strings.TrimSpace(raw), true
	}
}
