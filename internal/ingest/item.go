// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cenxiv/translation-engine/internal/store"
	"github.com/cenxiv/translation-engine/internal/translate"
	"github.com/cenxiv/translation-engine/pkg/types"
)

// workItem tracks one listing entry through the passes of a single
// pipeline invocation. It is owned by the invocation and discarded when
// the invocation completes.
type workItem struct {
	record   types.Record
	section  types.Section
	article  *types.ArticleVersion
	done     bool
	attempts int
	lastErr  error
}

// idv returns the item's canonical versioned identifier.
func (it *workItem) idv() string { return it.record.IDV }

// processItem performs one unit of work: look up the identity, translate
// the missing fields, and insert the new row. A nil return marks the
// item done; a non-nil return marks it failed for the next pass. The
// store's unique constraint is the only synchronization: losing the
// insert race is success.
func (p *Pipeline) processItem(ctx context.Context, it *workItem) error {
	entryID, version, err := types.ParseIdv(it.record.IDV)
	if err != nil {
		return fmt.Errorf("parsing identifier: %w", err)
	}

	existing, err := p.store.FindByIdentity(ctx, types.DefaultArchive, entryID, version)
	if err == nil {
		// Already translated; never redo the work.
		it.article = existing
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("looking up %s: %w", it.record.IDV, err)
	}

	titleCN, err := p.translateField(ctx, it.record.Title)
	if err != nil {
		return err
	}
	abstractCN, err := p.translateField(ctx, it.record.Abstract)
	if err != nil {
		return err
	}

	// Comment and journal reference are optional: absent fields are
	// never sent to the backend and persist as absent.
	var commentCN, journalRefCN string
	if it.record.Comment != "" {
		commentCN, err = p.translateField(ctx, flatten(it.record.Comment))
		if err != nil {
			return err
		}
	}
	if it.record.JournalRef != "" {
		journalRefCN, err = p.translateField(ctx, flatten(it.record.JournalRef))
		if err != nil {
			return err
		}
	}

	article := &types.ArticleVersion{
		SourceArchive:   types.DefaultArchive,
		EntryID:         entryID,
		EntryVersion:    version,
		TitleEN:         it.record.Title,
		TitleCN:         titleCN,
		AbstractEN:      it.record.Abstract,
		AbstractCN:      abstractCN,
		CommentEN:       it.record.Comment,
		CommentCN:       commentCN,
		JournalRefEN:    it.record.JournalRef,
		JournalRefCN:    journalRefCN,
		DOI:             it.record.DOI,
		PrimaryCategory: it.record.PrimaryCategory,
		PublishedDate:   it.record.Published,
		UpdatedDate:     it.record.Updated,
	}
	for _, name := range it.record.Authors {
		article.Authors = append(article.Authors, types.Author{Name: name})
	}
	for _, name := range it.record.Categories {
		article.Categories = append(article.Categories, types.Category{Name: name})
	}
	for _, url := range it.record.Links {
		article.Links = append(article.Links, types.Link{URL: url})
	}

	err = p.store.Insert(ctx, article)
	if errors.Is(err, store.ErrDuplicate) {
		// A concurrent worker won the race; serve its row.
		canonical, findErr := p.store.FindByIdentity(ctx, types.DefaultArchive, entryID, version)
		if findErr != nil {
			return fmt.Errorf("reading winning row for %s: %w", it.record.IDV, findErr)
		}
		it.article = canonical
		return nil
	}
	if err != nil {
		return fmt.Errorf("inserting %s: %w", it.record.IDV, err)
	}

	it.article = article
	return nil
}

// translateField sends one field through the backend. A permanent
// content rejection substitutes the placeholder sentinel instead of
// failing the item; anything else propagates for the retry controller.
func (p *Pipeline) translateField(ctx context.Context, text string) (string, error) {
	translated, err := p.backend.Translate(ctx, text)
	if err == nil {
		return translated, nil
	}
	if translate.IsRejected(err) {
		p.log.Warn().Err(err).Msg("backend rejected content, storing placeholder")
		return translate.PlaceholderPrefix + text, nil
	}
	return "", err
}

// flatten collapses newlines before translation; the optional metadata
// fields arrive hard-wrapped.
func flatten(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
