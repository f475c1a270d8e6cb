// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/bibcomplete/internal/bib"
	"github.com/pdiddy/bibcomplete/internal/bibfile"
	"github.com/pdiddy/bibcomplete/internal/lookup"
	"github.com/pdiddy/bibcomplete/internal/reconcile"
	"github.com/pdiddy/bibcomplete/internal/secrets"
	"github.com/pdiddy/bibcomplete/pkg/types"
)

var completeCmd = &cobra.Command{
	Use:   "complete <file>...",
	Short: "Fill missing fields of record files from online sources",
	Long: `Complete queries every configured source for each entry of the given
record files, keeps the candidates that match the entry, reconciles their
fields by majority vote across sources, and writes the completed records
to a new file next to the input (or in place with --inplace).

Existing field values are never overwritten unless --overwrite or
--force-overwrite says so.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runComplete,
}

func init() {
	f := completeCmd.Flags()

	// Source selection.
	f.StringSlice("only-query", nil, "query only these sources")
	f.StringSlice("dont-query", nil, "do not query these sources")
	f.String("sources", "", "YAML file defining the sources to query")

	// Field selection.
	f.StringSliceP("only-complete", "c", nil, "complete only these fields")
	f.StringSlice("dont-complete", nil, "do not complete these fields")
	f.String("filter-fields-by-entrytype", "no", "restrict fields to the entry type's sets: no, required, optional or all")

	// Overwriting.
	f.StringSliceP("overwrite", "w", nil, "allow overwriting these fields")
	f.StringSlice("dont-overwrite", nil, "allow overwriting all fields except these")
	f.BoolP("force-overwrite", "f", false, "overwrite any field a source can improve")

	// Entry selection.
	f.StringSlice("only-entry", nil, "process only entries with these citation keys")
	f.StringSlice("exclude-entry", nil, "skip entries with these citation keys")
	f.String("start-from", "", "skip entries before this citation key")
	f.Bool("ignore-mark", false, "query entries already marked as queried")
	f.Bool("mark", false, "mark processed entries with a "+reconcile.MarkedField+" field")

	// Output shaping.
	f.Bool("escape-unicode", false, "replace accented characters with TeX escapes")
	f.StringSlice("protect-uppercase", nil, "brace words with uppercase letters in these fields")
	f.Bool("protect-all-uppercase", false, "brace words with uppercase letters in every field")
	f.String("prefix", "", "write new fields under this name prefix")
	f.Bool("copy-doi-to-url", false, "fill an empty url field from the DOI")

	// Output destination.
	f.BoolP("inplace", "i", false, "overwrite the input files")
	f.StringSliceP("output", "O", nil, "output file names, one per input")
	f.Bool("diff", false, "write only the entries that gained fields")
	f.String("dump-data", "", "write the raw per-source data to this JSON file")

	// Network behavior.
	f.Duration("timeout", 20*time.Second, "HTTP request timeout")
	f.Duration("query-delay", 50*time.Millisecond, "minimum delay between queries to one source")
	f.Bool("no-skip", false, "never skip a slow source")
	f.Bool("no-verify", false, "skip online verification of DOIs and URLs")
	f.Bool("no-cache", false, "do not cache source responses")

	rootCmd.AddCommand(completeCmd)
}

func runComplete(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sources, err := configuredSources(cmd)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return fmt.Errorf("no sources left to query")
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	queryDelay, _ := cmd.Flags().GetDuration("query-delay")
	noSkip, _ := cmd.Flags().GetBool("no-skip")
	cfg := types.LookupConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: userAgent(),
		},
		QueryDelay: queryDelay,
		NoSkip:     noSkip,
	}

	client := &http.Client{Timeout: timeout}
	scheduler := &lookup.Scheduler{
		Backends: lookup.BuildBackends(sources, client),
		Config:   cfg,
		Logger:   logger,
	}

	if noCache, _ := cmd.Flags().GetBool("no-cache"); !noCache {
		cache, err := lookup.OpenCache(cachePath(), viper.GetDuration("cache_ttl"))
		if err != nil {
			logger.Warn().Err(err).Msg("continuing without response cache")
		} else {
			defer cache.Close()
			scheduler.Cache = cache
		}
	}
	if noVerify, _ := cmd.Flags().GetBool("no-verify"); !noVerify {
		scheduler.Verifier = &lookup.Verifier{Client: client, UserAgent: cfg.UserAgent, Logger: logger}
	}

	opts, err := reconcileOptions(cmd, sources)
	if err != nil {
		return err
	}
	opts.Logger = logger

	outputs, _ := cmd.Flags().GetStringSlice("output")
	if len(outputs) > 0 && len(outputs) != len(args) {
		return fmt.Errorf("got %d --output names for %d input files", len(outputs), len(args))
	}

	var dump []bibfile.DumpEntry
	var runErr error
	for i, path := range args {
		explicit := ""
		if len(outputs) > 0 {
			explicit = outputs[i]
		}
		fileDump, err := completeFile(ctx, cmd, scheduler, opts, path, explicit, logger)
		dump = append(dump, fileDump...)
		if err != nil {
			runErr = err
			break
		}
	}

	// The dump covers whatever was collected, interrupted or not.
	if dumpPath, _ := cmd.Flags().GetString("dump-data"); dumpPath != "" {
		if err := bibfile.WriteDump(dumpPath, dump); err != nil && runErr == nil {
			runErr = err
		}
	}
	return runErr
}

func completeFile(ctx context.Context, cmd *cobra.Command, scheduler *lookup.Scheduler, opts reconcile.Options, path, explicitOut string, logger zerolog.Logger) ([]bibfile.DumpEntry, error) {
	entries, err := bibfile.Read(path)
	if err != nil {
		return nil, err
	}

	startFrom, _ := cmd.Flags().GetString("start-from")
	selected, err := bibfile.SliceFrom(entries, startFrom)
	if err != nil {
		return nil, err
	}
	only, _ := cmd.Flags().GetStringSlice("only-entry")
	exclude, _ := cmd.Flags().GetStringSlice("exclude-entry")
	selected = bibfile.SelectEntries(selected, only, exclude)

	ignoreMark, _ := cmd.Flags().GetBool("ignore-mark")
	if !ignoreMark {
		selected = skipMarked(selected)
	}
	if len(selected) == 0 {
		logger.Info().Str("file", path).Msg("nothing to complete")
		return nil, nil
	}

	completed := make(map[string]types.Entry, len(selected))
	changed := make(map[string]bool)
	var dump []bibfile.DumpEntry

	runErr := scheduler.Run(ctx, selected, func(i int, results []types.SourceResult) {
		entry, prov := opts.Reconcile(selected[i].Clone(), results)
		completed[entry.Key] = entry
		if prov.Changed() {
			changed[entry.Key] = true
		}
		dump = append(dump, bibfile.NewDumpEntry(entry.Key, results, len(prov.Changes)))
		logger.Info().
			Str("entry", entry.Key).
			Int("new_fields", len(prov.Changes)).
			Msg("entry completed")
	})
	// An interrupt leaves the entries completed so far as valid output;
	// only a run that completed nothing has nothing to write.
	if runErr != nil && len(completed) == 0 {
		return dump, runErr
	}

	// Splice the completed entries back into the full file order.
	out := make([]types.Entry, len(entries))
	for i, e := range entries {
		if c, ok := completed[e.Key]; ok {
			out[i] = c
		} else {
			out[i] = e
		}
	}

	if diff, _ := cmd.Flags().GetBool("diff"); diff {
		out = bibfile.FilterChanged(out, changed)
	}

	inplace, _ := cmd.Flags().GetBool("inplace")
	outPath := bibfile.OutputPath(path, explicitOut, inplace)
	if err := bibfile.Write(outPath, out); err != nil {
		return dump, err
	}
	logger.Info().
		Str("file", outPath).
		Int("entries", len(out)).
		Int("changed", len(changed)).
		Msg("records written")
	if runErr != nil {
		for _, e := range selected {
			if _, ok := completed[e.Key]; !ok {
				logger.Warn().
					Str("file", outPath).
					Str("resume", e.Key).
					Msg("interrupted; resume with --start-from")
				break
			}
		}
	}
	return dump, runErr
}

// configuredSources resolves the source list: an explicit --sources
// file, then the sources file from the config, then the built-ins.
// Secrets may be referenced from source headers as ${name}.
func configuredSources(cmd *cobra.Command) ([]lookup.RESTSource, error) {
	var sources []lookup.RESTSource
	var err error

	path, _ := cmd.Flags().GetString("sources")
	if path == "" {
		path = viper.GetString("sources_file")
	}
	if path != "" {
		sources, err = lookup.LoadSourcesFile(path)
		if err != nil {
			return nil, err
		}
	} else {
		sources = lookup.DefaultSources()
	}

	for i := range sources {
		for k, v := range sources[i].Header {
			sources[i].Header[k] = secrets.Expand(v, loadedSecrets)
		}
	}

	onlyQuery, _ := cmd.Flags().GetStringSlice("only-query")
	dontQuery, _ := cmd.Flags().GetStringSlice("dont-query")
	return lookup.Select(sources, onlyQuery, dontQuery), nil
}

func reconcileOptions(cmd *cobra.Command, sources []lookup.RESTSource) (reconcile.Options, error) {
	level, _ := cmd.Flags().GetString("filter-fields-by-entrytype")
	switch bib.FilterLevel(level) {
	case bib.FilterNone, bib.FilterRequired, bib.FilterOptional, bib.FilterAll:
	default:
		return reconcile.Options{}, fmt.Errorf("invalid --filter-fields-by-entrytype %q", level)
	}

	onlyComplete, _ := cmd.Flags().GetStringSlice("only-complete")
	dontComplete, _ := cmd.Flags().GetStringSlice("dont-complete")
	overwrite, _ := cmd.Flags().GetStringSlice("overwrite")
	dontOverwrite, _ := cmd.Flags().GetStringSlice("dont-overwrite")
	protect, _ := cmd.Flags().GetStringSlice("protect-uppercase")

	priority := make([]string, len(sources))
	for i, s := range sources {
		priority[i] = s.Name
	}

	opts := reconcile.Options{
		Complete:       fieldSelection(onlyComplete, dontComplete),
		Overwrite:      fieldSelection(overwrite, dontOverwrite),
		FilterLevel:    bib.FilterLevel(level),
		SourcePriority: priority,
	}
	opts.ForceOverwrite, _ = cmd.Flags().GetBool("force-overwrite")
	opts.Prefix, _ = cmd.Flags().GetString("prefix")
	opts.Mark, _ = cmd.Flags().GetBool("mark")
	opts.CopyDOIToURL, _ = cmd.Flags().GetBool("copy-doi-to-url")
	opts.EscapeUnicode, _ = cmd.Flags().GetBool("escape-unicode")
	opts.ProtectAllUppercase, _ = cmd.Flags().GetBool("protect-all-uppercase")
	if len(protect) > 0 {
		opts.ProtectUppercase = fieldSelection(protect, nil)
	}
	return opts, nil
}

// fieldSelection resolves an only/except flag pair into a field set.
// No flags yields nil, whose meaning the option defines (all fields
// for Complete, none for Overwrite). An except list alone subtracts
// from all known fields.
func fieldSelection(only, except []string) map[string]bool {
	if len(only) == 0 && len(except) == 0 {
		return nil
	}

	set := make(map[string]bool)
	if len(only) > 0 {
		for _, f := range only {
			set[strings.ToLower(f)] = true
		}
	} else {
		for _, f := range bib.FieldNames() {
			set[f] = true
		}
	}
	for _, f := range except {
		delete(set, strings.ToLower(f))
	}
	return set
}

func skipMarked(entries []types.Entry) []types.Entry {
	var out []types.Entry
	for _, e := range entries {
		if _, marked := e.Fields[reconcile.MarkedField]; !marked {
			out = append(out, e)
		}
	}
	return out
}

// userAgent identifies the tool to the sources, with a contact address
// when one is configured.
func userAgent() string {
	ua := "bibcomplete/" + version
	if contact := viper.GetString("contact"); contact != "" {
		ua += " (mailto:" + contact + ")"
	}
	return ua
}

// cachePath puts the response cache in the user cache directory unless
// the config overrides it.
func cachePath() string {
	if p := viper.GetString("cache_path"); p != "" {
		return p
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "bibcomplete", "cache.db")
}
