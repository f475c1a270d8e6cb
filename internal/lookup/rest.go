// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/bibcomplete/internal/httputil"
	"github.com/pdiddy/bibcomplete/pkg/types"
)

// RESTSource describes one configurable JSON-over-HTTP source. No
// provider's wire format is built in; the config file maps a query URL
// template and a set of JSON paths onto bibliographic fields.
type RESTSource struct {
	// Name identifies the source in results and priority lists.
	Name string `yaml:"name"`

	// URL is the query template. Placeholders {doi}, {title}, {author}
	// and {key} are replaced with the URL-escaped entry values; the
	// query is skipped when a referenced value is empty.
	URL string `yaml:"url"`

	// Fields maps bibliographic field names to dot-separated JSON paths
	// into the response body ("message.title.0", "items.0.DOI").
	Fields map[string]string `yaml:"fields"`

	// Header holds extra request headers (API keys, mailto contacts).
	Header map[string]string `yaml:"header,omitempty"`
}

// RESTBackend executes a RESTSource definition.
type RESTBackend struct {
	Source RESTSource
	Client *http.Client
}

// Name returns the configured source name.
func (b *RESTBackend) Name() string { return b.Source.Name }

// Lookup builds the query URL from the entry, fetches it with rate
// limit retries, and extracts the mapped fields. An unexpandable
// template (entry lacks the referenced field) is a NoMatch, not an
// error.
func (b *RESTBackend) Lookup(ctx context.Context, entry types.Entry, cfg types.LookupConfig) (types.SourceResult, error) {
	reqURL, ok := expandTemplate(b.Source.URL, entry)
	if !ok {
		return NoMatch(b.Source.Name, types.QueryInfo{}), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return types.SourceResult{}, fmt.Errorf("creating request for %s: %w", b.Source.Name, err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	for k, v := range b.Source.Header {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := httputil.DoWithRetry(ctx, b.Client, req, 0)
	if err != nil {
		return types.SourceResult{}, fmt.Errorf("querying %s: %w", b.Source.Name, err)
	}
	defer resp.Body.Close()

	info := types.QueryInfo{
		URL:        reqURL,
		StatusCode: resp.StatusCode,
		Elapsed:    time.Since(start),
	}
	if resp.StatusCode == http.StatusNotFound {
		return NoMatch(b.Source.Name, info), nil
	}
	if resp.StatusCode != http.StatusOK {
		return types.SourceResult{}, fmt.Errorf("%s returned HTTP %d", b.Source.Name, resp.StatusCode)
	}

	var body any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return types.SourceResult{}, fmt.Errorf("parsing %s response: %w", b.Source.Name, err)
	}

	fields := make(map[string]string)
	for field, path := range b.Source.Fields {
		if v := extractPath(body, path); v != "" {
			fields[strings.ToLower(field)] = v
		}
	}
	if len(fields) == 0 {
		return NoMatch(b.Source.Name, info), nil
	}

	return types.SourceResult{
		Source: b.Source.Name,
		Found:  true,
		Fields: fields,
		Query:  info,
	}, nil
}

// expandTemplate substitutes entry values into the URL template. ok is
// false when a referenced entry field is empty.
func expandTemplate(template string, entry types.Entry) (string, bool) {
	out := template
	for _, field := range []string{"doi", "title", "author", "key"} {
		placeholder := "{" + field + "}"
		if !strings.Contains(out, placeholder) {
			continue
		}
		var value string
		if field == "key" {
			value = entry.Key
		} else {
			value = entry.Get(field)
		}
		if value == "" {
			return "", false
		}
		out = strings.ReplaceAll(out, placeholder, url.QueryEscape(value))
	}
	return out, true
}

// extractPath walks a decoded JSON value along a dot-separated path.
// Numeric segments index arrays. Scalars render to their string form;
// anything else is "".
func extractPath(v any, path string) string {
	for _, seg := range strings.Split(path, ".") {
		switch node := v.(type) {
		case map[string]any:
			v = node[seg]
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node) {
				return ""
			}
			v = node[idx]
		default:
			return ""
		}
	}
	switch val := v.(type) {
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}
