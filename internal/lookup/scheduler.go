// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lookup

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/bibcomplete/pkg/types"
)

// Straggler cutoff policy: once two thirds of the sources have finished
// every entry, a source this many entries behind for this long is
// skipped for its remaining entries. Its missing results are absent
// evidence, not errors. Tests override these to avoid real waits.
var (
	skipIfRemaining = 10
	skipIfDelay     = 60 * time.Second
)

// Handler consumes the results for one entry. Called in entry order,
// from the scheduler's goroutine.
type Handler func(index int, results []types.SourceResult)

// Scheduler runs one worker goroutine per source so each source sees a
// polite, serial query stream, while sources progress through the entry
// list independently of each other.
type Scheduler struct {
	Backends []Backend
	Config   types.LookupConfig
	Cache    *Cache    // optional response cache
	Verifier *Verifier // optional identifier resolution checks
	Logger   zerolog.Logger
}

// Run queries every source for every entry and hands each entry's
// collected results to handle as soon as all still-active sources have
// delivered it. On cancellation, entries already handed off stay
// handled and the rest are left untouched; the context error is
// returned.
func (s *Scheduler) Run(ctx context.Context, entries []types.Entry, handle Handler) error {
	n := len(entries)
	w := len(s.Backends)
	if n == 0 || w == 0 {
		return nil
	}

	var mu sync.Mutex
	cond := sync.NewCond(&mu)
	results := make([][]types.SourceResult, w)
	skipped := make([]bool, w)

	// Wake the consumer on cancellation so it can return promptly.
	wakeCtx, stopWake := context.WithCancel(ctx)
	defer stopWake()
	go func() {
		<-wakeCtx.Done()
		cond.Broadcast()
	}()

	for wi, b := range s.Backends {
		go func(wi int, b Backend) {
			for i := 0; i < n; i++ {
				mu.Lock()
				stop := skipped[wi]
				mu.Unlock()
				if stop || ctx.Err() != nil {
					return
				}

				res := s.query(ctx, b, entries[i])

				mu.Lock()
				results[wi] = append(results[wi], res)
				cond.Broadcast()
				mu.Unlock()

				if i < n-1 && s.Config.QueryDelay > 0 {
					select {
					case <-ctx.Done():
						return
					case <-time.After(s.Config.QueryDelay):
					}
				}
			}
		}(wi, b)
	}

	var leadersDone time.Time
	timerArmed := false

	mu.Lock()
	defer mu.Unlock()
	for i := 0; i < n; i++ {
		for {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			finished := 0
			for wi := 0; wi < w; wi++ {
				if len(results[wi]) == n {
					finished++
				}
			}

			if !s.Config.NoSkip && finished*3 >= w*2 && finished < w {
				if leadersDone.IsZero() {
					leadersDone = time.Now()
				}
				if !timerArmed {
					timerArmed = true
					time.AfterFunc(skipIfDelay+time.Second, cond.Broadcast)
				}
				if time.Since(leadersDone) >= skipIfDelay {
					for wi := 0; wi < w; wi++ {
						if skipped[wi] || len(results[wi]) == n {
							continue
						}
						if n-len(results[wi]) >= skipIfRemaining {
							skipped[wi] = true
							s.Logger.Warn().
								Str("source", s.Backends[wi].Name()).
								Int("remaining", n-len(results[wi])).
								Msg("skipping straggling source")
						}
					}
				}
			}

			ready := true
			for wi := 0; wi < w; wi++ {
				if !skipped[wi] && len(results[wi]) <= i {
					ready = false
					break
				}
			}
			if ready {
				break
			}
			cond.Wait()
		}

		collected := make([]types.SourceResult, 0, w)
		for wi := 0; wi < w; wi++ {
			if len(results[wi]) > i {
				collected = append(collected, results[wi][i])
			}
		}

		mu.Unlock()
		handle(i, collected)
		mu.Lock()
	}

	return nil
}

// query runs one source lookup for one entry, consulting the cache
// first and verifying identifier fields on fresh candidates. Transport
// errors degrade to absent evidence.
func (s *Scheduler) query(ctx context.Context, b Backend, entry types.Entry) types.SourceResult {
	if s.Cache != nil {
		if res, ok := s.Cache.Get(b.Name(), entry.Key); ok {
			return res
		}
	}

	res, err := b.Lookup(ctx, entry, s.Config)
	if err != nil {
		s.Logger.Warn().
			Str("source", b.Name()).
			Str("entry", entry.Key).
			Err(err).
			Msg("lookup failed")
		return NoMatch(b.Name(), res.Query)
	}

	if res.Found && s.Verifier != nil {
		s.Verifier.Apply(ctx, &res)
	}

	if s.Cache != nil {
		if err := s.Cache.Put(b.Name(), entry.Key, res); err != nil {
			s.Logger.Warn().Err(err).Msg("cache write failed")
		}
	}
	return res
}
