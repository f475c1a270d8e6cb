// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reconcile

// FieldChange records one field written to an entry.
type FieldChange struct {
	// Field is the stored field name (including any prefix).
	Field string `json:"field"`

	// Value is the stored text, after formatting transforms.
	Value string `json:"value"`

	// Sources lists the sources whose votes backed the value, best
	// priority first.
	Sources []string `json:"sources"`

	// Overwrote is set when the entry previously held a different
	// value for the field.
	Overwrote bool `json:"overwrote,omitempty"`
}

// FieldSkip records a field that could not be completed, with the
// diagnostic reason (no verified value, normalization failure, ...).
type FieldSkip struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Provenance describes everything the reconciler did to one entry. It
// feeds verbose reporting, diffing, and the JSON data dump.
type Provenance struct {
	// Key is the entry's citation key.
	Key string `json:"entry"`

	// Matches holds the per-source match decision, including sources
	// whose candidate was rejected.
	Matches map[string]MatchDecision `json:"matches,omitempty"`

	// Changes lists the fields written, in field-name order.
	Changes []FieldChange `json:"changes,omitempty"`

	// Skips lists fields that had candidate data but produced no value.
	Skips []FieldSkip `json:"skips,omitempty"`

	// Added counts newly filled fields; Overwritten counts replaced
	// ones.
	Added       int `json:"added"`
	Overwritten int `json:"overwritten"`
}

// Changed reports whether the entry gained or changed any field.
func (p Provenance) Changed() bool {
	return len(p.Changes) > 0
}
