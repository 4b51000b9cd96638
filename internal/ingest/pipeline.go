// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest runs the translation pipeline: it aligns a scraped
// listing with upstream metadata, translates each entry through the
// configured backend, persists the results idempotently, and retries
// the failed subset across bounded passes with exponential backoff.
package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/cenxiv/translation-engine/internal/metadata"
	"github.com/cenxiv/translation-engine/internal/reconcile"
	"github.com/cenxiv/translation-engine/internal/store"
	"github.com/cenxiv/translation-engine/internal/translate"
	"github.com/cenxiv/translation-engine/pkg/types"
)

const (
	defaultWorkers   = 8
	defaultMaxPasses = 3
	defaultBaseDelay = 1 * time.Second
)

// ExhaustedRetriesError is the aggregate failure surfaced when items
// still fail after the final pass. It names the failing identifiers
// only; per-item errors are logged, not reported.
type ExhaustedRetriesError struct {
	Passes      int
	Identifiers []string
}

func (e *ExhaustedRetriesError) Error() string {
	return fmt.Sprintf("failed to translate %d articles after %d passes: %s",
		len(e.Identifiers), e.Passes, strings.Join(e.Identifiers, ", "))
}

// Pipeline wires the metadata fetcher, translation backend, and
// persistence store into the ingestion workflow.
type Pipeline struct {
	fetcher metadata.Fetcher
	backend translate.Backend
	store   store.Store
	log     zerolog.Logger

	workers   int
	maxPasses int
	baseDelay time.Duration
	language  string
}

// New constructs the pipeline. Zero config values take defaults.
func New(fetcher metadata.Fetcher, backend translate.Backend, st store.Store, log zerolog.Logger, cfg types.IngestConfig) *Pipeline {
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	maxPasses := cfg.MaxPasses
	if maxPasses <= 0 {
		maxPasses = defaultMaxPasses
	}
	baseDelay := cfg.BaseDelay
	if baseDelay <= 0 {
		baseDelay = defaultBaseDelay
	}
	language := cfg.Language
	if language == "" {
		language = types.LanguageChinese
	}
	return &Pipeline{
		fetcher:   fetcher,
		backend:   backend,
		store:     st,
		log:       log,
		workers:   workers,
		maxPasses: maxPasses,
		baseDelay: baseDelay,
		language:  language,
	}
}

// Ingest resolves a scraped listing into fully translated, persisted
// entries in the original display order. It fails as a whole when any
// entry still fails after the pass budget: partial listings are never
// returned.
func (p *Pipeline) Ingest(ctx context.Context, listing types.ScrapedListing) ([]types.Resolved, error) {
	log := p.log.With().Str("invocation", uuid.NewString()).Logger()

	// A count that disagrees with the scraped identifiers means the page
	// was truncated or misparsed; translating a partial day would persist
	// a listing that looks complete but is not.
	if listing.Count > 0 && listing.Count != len(listing.Identifiers) {
		return nil, fmt.Errorf("listing announces %d entries but %d identifiers were scraped",
			listing.Count, len(listing.Identifiers))
	}

	entries := reconcile.Align(listing)
	if len(entries) == 0 {
		return nil, nil
	}

	records, err := p.fetcher.Fetch(ctx, listing.Day, listing.Identifiers)
	if err != nil {
		return nil, fmt.Errorf("fetching metadata: %w", err)
	}

	items := make([]*workItem, len(entries))
	for i, entry := range entries {
		items[i] = &workItem{
			record:  records[i],
			section: entry.Section,
		}
	}

	if err := p.run(ctx, log, items); err != nil {
		return nil, err
	}

	resolved := make([]types.Resolved, len(items))
	for i, it := range items {
		resolved[i] = types.Resolved{
			Section:  it.section,
			Article:  it.article,
			Language: p.language,
		}
	}
	log.Info().Int("entries", len(resolved)).Msg("listing resolved")
	return resolved, nil
}

// run drives the retry controller: pass k processes exactly the items
// still failed after pass k-1, waiting baseDelay*2^(k-1) between
// passes. Exceeding the pass budget fails the whole invocation.
func (p *Pipeline) run(ctx context.Context, log zerolog.Logger, items []*workItem) error {
	pending := items

	for pass := 1; ; pass++ {
		failed, err := p.runPass(ctx, log, pending, pass)
		if err != nil {
			return err
		}
		if len(failed) == 0 {
			return nil
		}

		if pass >= p.maxPasses {
			idvs := make([]string, len(failed))
			for i, it := range failed {
				idvs[i] = it.idv()
				log.Error().
					Str("idv", it.idv()).
					Int("attempts", it.attempts).
					Err(it.lastErr).
					Msg("giving up on article")
			}
			return &ExhaustedRetriesError{Passes: p.maxPasses, Identifiers: idvs}
		}

		delay := p.baseDelay << (pass - 1)
		log.Info().
			Int("pass", pass).
			Int("failed", len(failed)).
			Dur("backoff", delay).
			Msg("retrying failed articles")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		pending = failed
	}
}

// runPass processes every pending item concurrently on the bounded pool
// and returns the subset that failed. Item failures never cancel the
// pass; only context cancellation does.
func (p *Pipeline) runPass(ctx context.Context, log zerolog.Logger, pending []*workItem, pass int) ([]*workItem, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for _, it := range pending {
		it := it
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			it.attempts++
			if err := p.processItem(gctx, it); err != nil {
				it.lastErr = err
				log.Warn().
					Str("idv", it.idv()).
					Int("pass", pass).
					Err(err).
					Msg("article failed, will retry")
				return nil
			}
			it.done = true
			it.lastErr = nil
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var failed []*workItem
	for _, it := range pending {
		if !it.done {
			failed = append(failed, it)
		}
	}
	return failed, nil
}
