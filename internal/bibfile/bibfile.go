// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bibfile reads and writes bibliography record files. Records
// live in YAML: a list of entries, each with a citation key, an entry
// type and a field map.
package bibfile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/bibcomplete/pkg/types"
)

// DefaultSuffix is inserted before the extension of output files when
// the input is not rewritten in place.
const DefaultSuffix = ".btac"

// Read loads the entries of a record file, preserving their order.
// Duplicate citation keys are an error; downstream stages key results
// and provenance by citation key.
func Read(path string) ([]types.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var entries []types.Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	seen := make(map[string]bool, len(entries))
	for i, e := range entries {
		if e.Key == "" {
			return nil, fmt.Errorf("%s: entry %d has no citation key", path, i)
		}
		if seen[e.Key] {
			return nil, fmt.Errorf("%s: duplicate citation key %q", path, e.Key)
		}
		seen[e.Key] = true
		if entries[i].Fields == nil {
			entries[i].Fields = make(map[string]string)
		}
		if entries[i].Type == "" {
			entries[i].Type = "misc"
		}
	}
	return entries, nil
}

// Write saves entries to a record file, in order.
func Write(path string, entries []types.Entry) error {
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling records: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// OutputPath derives the output file name for an input file. With
// inplace set the input path is returned unchanged; otherwise the
// suffix goes before the extension ("refs.yaml" -> "refs.btac.yaml").
// An explicit output path wins over both.
func OutputPath(input, explicit string, inplace bool) string {
	if explicit != "" {
		return explicit
	}
	if inplace {
		return input
	}
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + DefaultSuffix + ext
}

// FilterChanged keeps only the entries whose keys appear in changed.
// Used by diff mode, which writes just the entries that gained fields.
func FilterChanged(entries []types.Entry, changed map[string]bool) []types.Entry {
	var out []types.Entry
	for _, e := range entries {
		if changed[e.Key] {
			out = append(out, e)
		}
	}
	return out
}

// SliceFrom drops the entries before the given citation key. An empty
// key keeps everything; an unknown key is an error.
func SliceFrom(entries []types.Entry, key string) ([]types.Entry, error) {
	if key == "" {
		return entries, nil
	}
	for i, e := range entries {
		if e.Key == key {
			return entries[i:], nil
		}
	}
	return nil, fmt.Errorf("citation key %q not found", key)
}

// SelectEntries filters entries by citation key. An empty only list
// keeps everything; the except list always removes.
func SelectEntries(entries []types.Entry, only, except []string) []types.Entry {
	onlySet := make(map[string]bool, len(only))
	for _, k := range only {
		onlySet[k] = true
	}
	exceptSet := make(map[string]bool, len(except))
	for _, k := range except {
		exceptSet[k] = true
	}

	var out []types.Entry
	for _, e := range entries {
		if len(only) > 0 && !onlySet[e.Key] {
			continue
		}
		if exceptSet[e.Key] {
			continue
		}
		out = append(out, e)
	}
	return out
}

// SortedKeys returns the citation keys of entries in sorted order.
func SortedKeys(entries []types.Entry) []string {
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	sort.Strings(keys)
	return keys
}
