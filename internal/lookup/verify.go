// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lookup

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/bibcomplete/internal/bib"
	"github.com/pdiddy/bibcomplete/internal/httputil"
	"github.com/pdiddy/bibcomplete/pkg/types"
)

const doiResolver = "https://doi.org/"

// Verifier checks that identifier fields marked for verification
// actually resolve online. A DOI is checked through the doi.org
// resolver; a URL is fetched directly.
type Verifier struct {
	Client    *http.Client
	UserAgent string
	Logger    zerolog.Logger
}

// Apply marks the verifiable fields of a result that were confirmed to
// resolve. Fields that fail syntax normalization are left unmarked;
// the reconciliation driver then refuses to use them.
func (v *Verifier) Apply(ctx context.Context, res *types.SourceResult) {
	for field, raw := range res.Fields {
		spec := bib.Lookup(field)
		if !spec.Verify {
			continue
		}
		plain := types.Plain(raw)
		norm, ok := bib.Normalize(field, plain)
		if !ok || norm == "" {
			continue
		}

		// URLs are fetched as the source gave them; only the DOI goes
		// through the resolver in canonical form.
		target := plain
		if strings.EqualFold(field, "doi") {
			target = doiResolver + norm
		}
		if !v.resolves(ctx, target) {
			v.Logger.Debug().
				Str("source", res.Source).
				Str("field", field).
				Str("url", target).
				Msg("identifier did not resolve")
			continue
		}
		if res.Verified == nil {
			res.Verified = make(map[string]bool)
		}
		res.Verified[field] = true
	}
}

// resolves reports whether fetching the URL yields a non-error status.
// Redirects are followed by the client, so a DOI landing page counts.
func (v *Verifier) resolves(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	if v.UserAgent != "" {
		req.Header.Set("User-Agent", v.UserAgent)
	}

	client := v.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	return resp.StatusCode < 400
}
