// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bibfile

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pdiddy/bibcomplete/pkg/types"
)

// DumpSource records what one source returned for one entry.
type DumpSource struct {
	Source       string            `json:"source"`
	Found        bool              `json:"found"`
	Fields       map[string]string `json:"fields,omitempty"`
	QueryURL     string            `json:"query_url,omitempty"`
	StatusCode   int               `json:"status_code,omitempty"`
	ResponseTime float64           `json:"response_time_ms,omitempty"`
	FromCache    bool              `json:"from_cache,omitempty"`
}

// DumpEntry records everything gathered for one entry during a run.
type DumpEntry struct {
	Key       string       `json:"key"`
	Sources   []DumpSource `json:"sources"`
	NewFields int          `json:"new_fields"`
}

// NewDumpEntry flattens a result set into its dump form.
func NewDumpEntry(key string, results []types.SourceResult, newFields int) DumpEntry {
	d := DumpEntry{Key: key, NewFields: newFields}
	for _, r := range results {
		d.Sources = append(d.Sources, DumpSource{
			Source:       r.Source,
			Found:        r.Found,
			Fields:       r.Fields,
			QueryURL:     r.Query.URL,
			StatusCode:   r.Query.StatusCode,
			ResponseTime: float64(r.Query.Elapsed.Microseconds()) / 1000,
			FromCache:    r.Query.FromCache,
		})
	}
	return d
}

// WriteDump saves the raw per-source data gathered during a run as
// indented JSON, for inspection and bug reports.
func WriteDump(path string, entries []DumpEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling dump: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
