// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lookup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bibcomplete/pkg/types"
)

func testEntry() types.Entry {
	e := types.NewEntry("knuth1984", "article")
	e.Set("title", "Literate Programming")
	e.Set("author", "Knuth, Donald E.")
	return e
}

func TestRESTBackendExtractsFields(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Literate+Programming", r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"message": {
				"title": ["Literate programming"],
				"DOI": "10.1093/comjnl/27.2.97",
				"volume": 27
			}
		}`))
	}))
	defer ts.Close()

	b := &RESTBackend{
		Source: RESTSource{
			Name: "crossref",
			URL:  ts.URL + "?{title}",
			Fields: map[string]string{
				"title":  "message.title.0",
				"DOI":    "message.DOI",
				"volume": "message.volume",
			},
		},
		Client: ts.Client(),
	}

	res, err := b.Lookup(context.Background(), testEntry(), types.LookupConfig{})
	require.NoError(t, err)

	assert.True(t, res.Found)
	assert.Equal(t, "crossref", res.Source)
	assert.Equal(t, "Literate programming", res.Fields["title"])
	assert.Equal(t, "10.1093/comjnl/27.2.97", res.Fields["doi"])
	assert.Equal(t, "27", res.Fields["volume"])
	assert.Equal(t, http.StatusOK, res.Query.StatusCode)
}

func TestRESTBackendNotFoundIsNoMatch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	b := &RESTBackend{
		Source: RESTSource{Name: "s", URL: ts.URL + "?{title}", Fields: map[string]string{"title": "title"}},
		Client: ts.Client(),
	}

	res, err := b.Lookup(context.Background(), testEntry(), types.LookupConfig{})
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Equal(t, http.StatusNotFound, res.Query.StatusCode)
}

func TestRESTBackendMissingTemplateFieldIsNoMatch(t *testing.T) {
	b := &RESTBackend{
		Source: RESTSource{Name: "s", URL: "https://example.com/{doi}", Fields: map[string]string{"title": "title"}},
		Client: http.DefaultClient,
	}

	// Entry has no DOI, so the query cannot be built.
	res, err := b.Lookup(context.Background(), testEntry(), types.LookupConfig{})
	require.NoError(t, err)
	assert.False(t, res.Found)
}

func TestRESTBackendServerErrorIsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	b := &RESTBackend{
		Source: RESTSource{Name: "s", URL: ts.URL + "?{title}", Fields: map[string]string{"title": "title"}},
		Client: ts.Client(),
	}

	_, err := b.Lookup(context.Background(), testEntry(), types.LookupConfig{})
	assert.Error(t, err)
}

func TestRESTBackendNoExtractedFieldsIsNoMatch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"message": {}}`))
	}))
	defer ts.Close()

	b := &RESTBackend{
		Source: RESTSource{Name: "s", URL: ts.URL + "?{title}", Fields: map[string]string{"title": "message.title.0"}},
		Client: ts.Client(),
	}

	res, err := b.Lookup(context.Background(), testEntry(), types.LookupConfig{})
	require.NoError(t, err)
	assert.False(t, res.Found)
}

func TestRESTBackendSendsHeaders(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bibcomplete/test", r.Header.Get("User-Agent"))
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		w.Write([]byte(`{"title": "x"}`))
	}))
	defer ts.Close()

	b := &RESTBackend{
		Source: RESTSource{
			Name:   "s",
			URL:    ts.URL + "?{title}",
			Fields: map[string]string{"title": "title"},
			Header: map[string]string{"X-Api-Key": "secret"},
		},
		Client: ts.Client(),
	}

	cfg := types.LookupConfig{HTTPConfig: types.HTTPConfig{UserAgent: "bibcomplete/test"}}
	res, err := b.Lookup(context.Background(), testEntry(), cfg)
	require.NoError(t, err)
	assert.True(t, res.Found)
}

func TestExtractPath(t *testing.T) {
	body := map[string]any{
		"items": []any{
			map[string]any{"DOI": "10.1/abc", "year": float64(1984), "score": 0.5, "open": true},
		},
	}

	tests := []struct {
		path string
		want string
	}{
		{"items.0.DOI", "10.1/abc"},
		{"items.0.year", "1984"},
		{"items.0.score", "0.5"},
		{"items.0.open", "true"},
		{"items.1.DOI", ""},
		{"items.x.DOI", ""},
		{"missing", ""},
		{"items.0.DOI.deeper", ""},
	}
	for _, tt := range tests {
		if got := extractPath(body, tt.path); got != tt.want {
			t.Errorf("extractPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestExpandTemplateEscapesValues(t *testing.T) {
	e := types.NewEntry("k", "article")
	e.Set("title", "a & b")

	got, ok := expandTemplate("https://example.com/search?q={title}", e)
	require.True(t, ok)
	assert.Equal(t, "https://example.com/search?q=a+%26+b", got)
}
