// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cenxiv/translation-engine/pkg/types"
)

func newTestStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := NewSQLite(types.StoreConfig{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleArticle() *types.ArticleVersion {
	return &types.ArticleVersion{
		SourceArchive:   "arxiv",
		EntryID:         "2401.00001",
		EntryVersion:    1,
		TitleEN:         "A Paper",
		TitleCN:         "一篇论文",
		AbstractEN:      "An abstract.",
		AbstractCN:      "一个摘要。",
		CommentEN:       "10 pages",
		CommentCN:       "10页",
		PrimaryCategory: "cs.LG",
		PublishedDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedDate:     time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Authors:         []types.Author{{Name: "A. Author"}, {Name: "B. Author"}},
		Categories:      []types.Category{{Name: "cs.LG"}, {Name: "stat.ML"}},
		Links:           []types.Link{{URL: "http://arxiv.org/abs/2401.00001v1"}},
	}
}

func TestSQLite_InsertAndFind(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, sampleArticle()))

	got, err := s.FindByIdentity(ctx, "arxiv", "2401.00001", 1)
	require.NoError(t, err)

	assert.Equal(t, "A Paper", got.TitleEN)
	assert.Equal(t, "一篇论文", got.TitleCN)
	assert.Equal(t, "10页", got.CommentCN)
	assert.False(t, got.TranslationValidated)
	assert.Equal(t, []types.Author{{Name: "A. Author"}, {Name: "B. Author"}}, got.Authors)
	assert.Equal(t, []types.Category{{Name: "cs.LG"}, {Name: "stat.ML"}}, got.Categories)
	assert.Equal(t, []types.Link{{URL: "http://arxiv.org/abs/2401.00001v1"}}, got.Links)
}

func TestSQLite_FindMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.FindByIdentity(context.Background(), "arxiv", "2401.99999", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLite_OptionalFieldsStoredAsAbsent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := sampleArticle()
	a.CommentEN, a.CommentCN = "", ""
	a.JournalRefEN, a.JournalRefCN = "", ""
	a.DOI = ""
	require.NoError(t, s.Insert(ctx, a))

	var comment, journalRef, doi any
	err := s.db.QueryRow(
		`SELECT comment_en, journal_ref_en, doi FROM article_versions WHERE entry_id = ?`,
		"2401.00001",
	).Scan(&comment, &journalRef, &doi)
	require.NoError(t, err)

	assert.Nil(t, comment, "absent comment must be NULL, not empty string")
	assert.Nil(t, journalRef)
	assert.Nil(t, doi)
}

func TestSQLite_DuplicateIdentity(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, sampleArticle()))

	dup := sampleArticle()
	dup.TitleCN = "另一个翻译"
	err := s.Insert(ctx, dup)
	assert.ErrorIs(t, err, ErrDuplicate)

	// The original row wins; the loser's transaction left no children.
	got, err := s.FindByIdentity(ctx, "arxiv", "2401.00001", 1)
	require.NoError(t, err)
	assert.Equal(t, "一篇论文", got.TitleCN)
	assert.Len(t, got.Authors, 2)
}

func TestSQLite_DistinctVersionsCoexist(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	v1 := sampleArticle()
	require.NoError(t, s.Insert(ctx, v1))

	v2 := sampleArticle()
	v2.EntryVersion = 2
	require.NoError(t, s.Insert(ctx, v2))

	_, err := s.FindByIdentity(ctx, "arxiv", "2401.00001", 1)
	assert.NoError(t, err)
	_, err = s.FindByIdentity(ctx, "arxiv", "2401.00001", 2)
	assert.NoError(t, err)
}

// TestSQLite_ConcurrentInsertRace drives concurrent writers at the same
// identity: exactly one row must exist afterwards and every writer must
// see either success or ErrDuplicate.
func TestSQLite_ConcurrentInsertRace(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// One connection keeps SQLite's single-writer lock out of the
	// picture; the unique constraint is what this test exercises.
	s.db.SetMaxOpenConns(1)

	const writers = 8
	var wg sync.WaitGroup
	errs := make([]error, writers)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.Insert(ctx, sampleArticle())
		}(i)
	}
	wg.Wait()

	var created int
	for _, err := range errs {
		if err == nil {
			created++
			continue
		}
		assert.ErrorIs(t, err, ErrDuplicate)
	}
	assert.Equal(t, 1, created)

	var count int
	require.NoError(t, s.db.QueryRow(
		`SELECT count(*) FROM article_versions WHERE entry_id = ?`, "2401.00001",
	).Scan(&count))
	assert.Equal(t, 1, count)
}
