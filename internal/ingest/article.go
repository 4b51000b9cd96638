// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cenxiv/translation-engine/internal/store"
	"github.com/cenxiv/translation-engine/pkg/types"
)

// Article resolves every version of a single paper: the latest version
// is fetched (or looked up) first, then earlier versions are
// backfilled. The returned slice is ordered latest first, then v1
// upward. A versioned identifier pins the lookup to that version's
// paper but still backfills the rest.
func (p *Pipeline) Article(ctx context.Context, identifier string) ([]types.Resolved, error) {
	log := p.log.With().Str("invocation", uuid.NewString()).Logger()

	records, err := p.fetcher.Fetch(ctx, time.Time{}, []string{identifier})
	if err != nil {
		return nil, fmt.Errorf("fetching metadata: %w", err)
	}
	latest := records[0]
	entryID, latestVersion, err := types.ParseIdv(latest.IDV)
	if err != nil {
		return nil, fmt.Errorf("parsing identifier: %w", err)
	}

	items := []*workItem{{record: latest, section: types.SectionNew}}

	// Earlier versions already persisted skip the metadata source
	// entirely; only the missing ones are fetched.
	var resolvedEarlier []*types.ArticleVersion
	var missing []string
	for v := 1; v < latestVersion; v++ {
		existing, err := p.store.FindByIdentity(ctx, types.DefaultArchive, entryID, v)
		if err == nil {
			resolvedEarlier = append(resolvedEarlier, existing)
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("looking up %s: %w", types.Idv(entryID, v), err)
		}
		missing = append(missing, types.Idv(entryID, v))
	}

	if len(missing) > 0 {
		earlier, err := p.fetcher.Fetch(ctx, time.Time{}, missing)
		if err != nil {
			return nil, fmt.Errorf("fetching earlier versions: %w", err)
		}
		for _, r := range earlier {
			items = append(items, &workItem{record: r, section: types.SectionNew})
		}
	}

	if err := p.run(ctx, log, items); err != nil {
		return nil, err
	}

	// Latest first, then earlier versions ascending.
	versions := make(map[int]*types.ArticleVersion, latestVersion)
	for _, it := range items {
		versions[it.article.EntryVersion] = it.article
	}
	for _, a := range resolvedEarlier {
		versions[a.EntryVersion] = a
	}

	out := []types.Resolved{{Section: types.SectionNew, Article: versions[latestVersion], Language: p.language}}
	for v := 1; v < latestVersion; v++ {
		if a, ok := versions[v]; ok {
			out = append(out, types.Resolved{Section: types.SectionNew, Article: a, Language: p.language})
		}
	}
	log.Info().Str("entry_id", entryID).Int("versions", len(out)).Msg("article resolved")
	return out, nil
}
