// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the data model and configuration structs shared
// across the bibcomplete stages.
package types

import (
	"strings"
	"time"
)

// Entry is one bibliographic record being completed. Fields maps
// lowercase field names (title, author, doi, ...) to their raw values.
// The citation key is immutable once the entry is created.
type Entry struct {
	// Key is the citation key identifying the entry in its file.
	Key string `json:"key" yaml:"key"`

	// Type is the entry type tag (article, book, inproceedings, ...).
	Type string `json:"type" yaml:"type"`

	// Fields maps field names to raw field values.
	Fields map[string]string `json:"fields" yaml:"fields"`
}

// NewEntry creates an empty entry with the given key and type.
func NewEntry(key, entryType string) Entry {
	return Entry{Key: key, Type: entryType, Fields: make(map[string]string)}
}

// Get returns the plain value of a field: braces removed and whitespace
// trimmed. It returns "" when the field is absent or holds no data.
func (e Entry) Get(field string) string {
	return Plain(e.Fields[strings.ToLower(field)])
}

// Has reports whether the entry holds a non-empty value for field.
func (e Entry) Has(field string) bool {
	return e.Get(field) != ""
}

// Set stores a field value under the canonical lowercase name.
func (e Entry) Set(field, value string) {
	e.Fields[strings.ToLower(field)] = value
}

// Clone returns a deep copy of the entry.
func (e Entry) Clone() Entry {
	fields := make(map[string]string, len(e.Fields))
	for k, v := range e.Fields {
		fields[k] = v
	}
	return Entry{Key: e.Key, Type: e.Type, Fields: fields}
}

// Plain strips grouping braces and surrounding whitespace from a raw
// field value. A value that holds no data (empty or blank) becomes "".
func Plain(value string) string {
	value = strings.ReplaceAll(value, "{", "")
	value = strings.ReplaceAll(value, "}", "")
	return strings.TrimSpace(value)
}

// SourceResult holds what one source returned for one entry: either no
// match, or a candidate field mapping plus query metadata. It is created
// by the lookup layer and read-only afterwards.
type SourceResult struct {
	// Source is the name of the source that produced this result.
	Source string `json:"source"`

	// Found is false when the source returned no usable candidate.
	Found bool `json:"found"`

	// Fields holds the candidate's field values. Nil when Found is false.
	Fields map[string]string `json:"fields,omitempty"`

	// Verified marks identifier fields (doi, url) whose values were
	// confirmed to resolve online. Unverified identifier values are not
	// eligible to win a vote.
	Verified map[string]bool `json:"verified,omitempty"`

	// Query records how the result was obtained, for data dumps.
	Query QueryInfo `json:"query"`
}

// Candidate returns the candidate as an Entry (empty key) for matching
// and field comparison. Returns false when the source found nothing.
func (r SourceResult) Candidate() (Entry, bool) {
	if !r.Found {
		return Entry{}, false
	}
	return Entry{Fields: r.Fields}, true
}

// QueryInfo records metadata about a single source query.
type QueryInfo struct {
	// URL is the query URL, if a network request was made.
	URL string `json:"url,omitempty"`

	// StatusCode is the HTTP response status, 0 if no request completed.
	StatusCode int `json:"status,omitempty"`

	// Elapsed is the response time.
	Elapsed time.Duration `json:"response_time,omitempty"`

	// FromCache reports whether the result was served from the local
	// response cache instead of the network.
	FromCache bool `json:"from_cache,omitempty"`
}
