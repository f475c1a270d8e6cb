// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bibcomplete/internal/bibfile"
	"github.com/pdiddy/bibcomplete/internal/lookup"
	"github.com/pdiddy/bibcomplete/internal/reconcile"
	"github.com/pdiddy/bibcomplete/pkg/types"
)

const interruptSample = `
- key: alpha
  type: article
  fields:
    title: Literate Programming
- key: beta
  type: article
  fields:
    title: The Art of Computer Programming
- key: gamma
  type: article
  fields:
    title: Surreal Numbers
`

// stallingBackend answers the first entry, then cancels the run and
// blocks, standing in for a user interrupt mid-file.
type stallingBackend struct {
	cancel context.CancelFunc
	fields map[string]string
}

func (s *stallingBackend) Name() string { return "stalling" }

func (s *stallingBackend) Lookup(ctx context.Context, entry types.Entry, _ types.LookupConfig) (types.SourceResult, error) {
	if entry.Key != "alpha" {
		time.Sleep(50 * time.Millisecond)
		s.cancel()
		<-ctx.Done()
		return types.SourceResult{}, ctx.Err()
	}
	return types.SourceResult{Source: "stalling", Found: true, Fields: s.fields}, nil
}

func TestCompleteFileKeepsPartialProgressOnInterrupt(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "refs.yaml")
	require.NoError(t, os.WriteFile(inPath, []byte(interruptSample), 0o644))
	outPath := filepath.Join(dir, "refs.btac.yaml")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scheduler := &lookup.Scheduler{
		Backends: []lookup.Backend{&stallingBackend{
			cancel: cancel,
			fields: map[string]string{"title": "Literate Programming", "year": "1984"},
		}},
		Logger: zerolog.Nop(),
	}

	dump, err := completeFile(ctx, completeCmd, scheduler, reconcile.Options{}, inPath, outPath, zerolog.Nop())
	assert.ErrorIs(t, err, context.Canceled)

	// The entries completed before the interrupt are written out, the
	// rest pass through untouched.
	out, readErr := bibfile.Read(outPath)
	require.NoError(t, readErr)
	require.Len(t, out, 3)
	assert.Equal(t, "1984", out[0].Get("year"))
	assert.False(t, out[1].Has("year"))
	assert.False(t, out[2].Has("year"))

	require.NotEmpty(t, dump)
	assert.Equal(t, "alpha", dump[0].Key)
}
