// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lookup

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"go.yaml.in/yaml/v3"
)

// LoadSources reads a YAML list of source definitions.
func LoadSources(r io.Reader) ([]RESTSource, error) {
	var sources []RESTSource
	if err := yaml.NewDecoder(r).Decode(&sources); err != nil {
		return nil, fmt.Errorf("parsing sources: %w", err)
	}
	for i, s := range sources {
		if s.Name == "" || s.URL == "" || len(s.Fields) == 0 {
			return nil, fmt.Errorf("source %d: name, url and fields are required", i)
		}
	}
	return sources, nil
}

// LoadSourcesFile reads source definitions from a YAML file.
func LoadSourcesFile(path string) ([]RESTSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening sources file: %w", err)
	}
	defer f.Close()
	return LoadSources(f)
}

// DefaultSources returns the built-in source definitions used when no
// sources file is configured. They are plain data; a sources file with
// the same shape can replace or extend them.
func DefaultSources() []RESTSource {
	return []RESTSource{
		{
			Name: "crossref",
			URL:  "https://api.crossref.org/works?rows=3&query.bibliographic={title}",
			Fields: map[string]string{
				"title":   "message.items.0.title.0",
				"doi":     "message.items.0.DOI",
				"volume":  "message.items.0.volume",
				"pages":   "message.items.0.page",
				"issn":    "message.items.0.ISSN.0",
				"url":     "message.items.0.URL",
				"journal": "message.items.0.container-title.0",
			},
		},
		{
			Name: "openalex",
			URL:  "https://api.openalex.org/works?per-page=3&filter=title.search:{title}",
			Fields: map[string]string{
				"title": "results.0.title",
				"doi":   "results.0.doi",
				"year":  "results.0.publication_year",
				"url":   "results.0.primary_location.landing_page_url",
			},
		},
		{
			Name: "semanticscholar",
			URL:  "https://api.semanticscholar.org/graph/v1/paper/search?limit=3&fields=title,externalIds,year,venue&query={title}",
			Fields: map[string]string{
				"title":   "data.0.title",
				"doi":     "data.0.externalIds.DOI",
				"year":    "data.0.year",
				"journal": "data.0.venue",
			},
		},
	}
}

// Select filters sources by name. An empty only list keeps everything;
// the except list always removes.
func Select(sources []RESTSource, only, except []string) []RESTSource {
	keep := func(name string) bool {
		if len(only) > 0 {
			found := false
			for _, n := range only {
				if n == name {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		for _, n := range except {
			if n == name {
				return false
			}
		}
		return true
	}

	var out []RESTSource
	for _, s := range sources {
		if keep(s.Name) {
			out = append(out, s)
		}
	}
	return out
}

// BuildBackends instantiates one backend per source definition,
// sharing a single HTTP client.
func BuildBackends(sources []RESTSource, client *http.Client) []Backend {
	backends := make([]Backend, 0, len(sources))
	for _, s := range sources {
		backends = append(backends, &RESTBackend{Source: s, Client: client})
	}
	return backends
}
