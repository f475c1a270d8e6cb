// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lookup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/bibcomplete/pkg/types"
)

func TestVerifierMarksResolvingURL(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	v := &Verifier{Client: ts.Client(), UserAgent: "bibcomplete/test"}
	res := types.SourceResult{
		Source: "src",
		Found:  true,
		Fields: map[string]string{"url": ts.URL + "/paper", "title": "Some Title"},
	}

	v.Apply(context.Background(), &res)

	assert.True(t, res.Verified["url"])
	// Non-verifiable fields stay unmarked.
	assert.False(t, res.Verified["title"])
}

func TestVerifierSkipsDeadURL(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusGone)
	}))
	defer ts.Close()

	v := &Verifier{Client: ts.Client()}
	res := types.SourceResult{
		Source: "src",
		Found:  true,
		Fields: map[string]string{"url": ts.URL + "/paper"},
	}

	v.Apply(context.Background(), &res)

	assert.False(t, res.Verified["url"])
}

func TestVerifierSkipsMalformedURL(t *testing.T) {
	v := &Verifier{}
	res := types.SourceResult{
		Source: "src",
		Found:  true,
		Fields: map[string]string{"url": "not a url"},
	}

	v.Apply(context.Background(), &res)

	assert.False(t, res.Verified["url"])
}
