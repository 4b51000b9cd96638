// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/cenxiv/translation-engine/pkg/types"
)

// articleColumns lists the article_versions columns in insert/select
// order, excluding the surrogate id.
var articleColumns = []string{
	"source_archive", "entry_id", "entry_version",
	"title_en", "title_cn", "abstract_en", "abstract_cn",
	"comment_en", "comment_cn", "journal_ref_en", "journal_ref_cn",
	"doi", "primary_category", "published_date", "updated_date",
	"translation_validated",
}

// nullable maps "" to NULL so absent optional fields are stored as
// absent, never as empty strings.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// articleValues returns the bind values matching articleColumns.
func articleValues(a *types.ArticleVersion) []any {
	archive := a.SourceArchive
	if archive == "" {
		archive = types.DefaultArchive
	}
	return []any{
		archive, a.EntryID, a.EntryVersion,
		a.TitleEN, a.TitleCN, a.AbstractEN, a.AbstractCN,
		nullable(a.CommentEN), nullable(a.CommentCN),
		nullable(a.JournalRefEN), nullable(a.JournalRefCN),
		nullable(a.DOI), a.PrimaryCategory, a.PublishedDate, a.UpdatedDate,
		a.TranslationValidated,
	}
}

// scanArticle reads one article_versions row (id first, then
// articleColumns order) into an ArticleVersion.
func scanArticle(row sq.RowScanner) (id int64, article *types.ArticleVersion, err error) {
	var a types.ArticleVersion
	var comEN, comCN, refEN, refCN, doi sql.NullString

	err = row.Scan(
		&id,
		&a.SourceArchive, &a.EntryID, &a.EntryVersion,
		&a.TitleEN, &a.TitleCN, &a.AbstractEN, &a.AbstractCN,
		&comEN, &comCN, &refEN, &refCN,
		&doi, &a.PrimaryCategory, &a.PublishedDate, &a.UpdatedDate,
		&a.TranslationValidated,
	)
	if err != nil {
		return 0, nil, err
	}

	a.CommentEN, a.CommentCN = comEN.String, comCN.String
	a.JournalRefEN, a.JournalRefCN = refEN.String, refCN.String
	a.DOI = doi.String
	return id, &a, nil
}

// findByIdentity implements the shared lookup over either driver's
// builder and connection.
func findByIdentity(ctx context.Context, db *sql.DB, builder sq.StatementBuilderType, archive, entryID string, version int) (*types.ArticleVersion, error) {
	cols := append([]string{"id"}, articleColumns...)
	row := builder.
		Select(cols...).
		From("article_versions").
		Where(sq.Eq{"source_archive": archive, "entry_id": entryID, "entry_version": version}).
		RunWith(db).
		QueryRowContext(ctx)

	id, article, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying article version: %w", err)
	}

	if err := loadChildren(ctx, db, builder, id, article); err != nil {
		return nil, err
	}
	return article, nil
}

// loadChildren fills the owned collections in insertion order.
func loadChildren(ctx context.Context, db *sql.DB, builder sq.StatementBuilderType, id int64, article *types.ArticleVersion) error {
	collect := func(table, column string, add func(string)) error {
		rows, err := builder.
			Select(column).
			From(table).
			Where(sq.Eq{"article_id": id}).
			OrderBy("id").
			RunWith(db).
			QueryContext(ctx)
		if err != nil {
			return fmt.Errorf("querying %s: %w", table, err)
		}
		defer rows.Close()

		for rows.Next() {
			var v string
			if err := rows.Scan(&v); err != nil {
				return fmt.Errorf("scanning %s: %w", table, err)
			}
			add(v)
		}
		return rows.Err()
	}

	if err := collect("article_authors", "name", func(v string) {
		article.Authors = append(article.Authors, types.Author{Name: v})
	}); err != nil {
		return err
	}
	if err := collect("article_categories", "name", func(v string) {
		article.Categories = append(article.Categories, types.Category{Name: v})
	}); err != nil {
		return err
	}
	return collect("article_links", "url", func(v string) {
		article.Links = append(article.Links, types.Link{URL: v})
	})
}

// insertChildren writes the owned collections inside the parent's
// transaction.
func insertChildren(ctx context.Context, tx *sql.Tx, builder sq.StatementBuilderType, id int64, article *types.ArticleVersion) error {
	insert := func(table, column string, values []string) error {
		if len(values) == 0 {
			return nil
		}
		q := builder.Insert(table).Columns("article_id", column)
		for _, v := range values {
			q = q.Values(id, v)
		}
		if _, err := q.RunWith(tx).ExecContext(ctx); err != nil {
			return fmt.Errorf("inserting %s: %w", table, err)
		}
		return nil
	}

	authors := make([]string, len(article.Authors))
	for i, a := range article.Authors {
		authors[i] = a.Name
	}
	categories := make([]string, len(article.Categories))
	for i, c := range article.Categories {
		categories[i] = c.Name
	}
	links := make([]string, len(article.Links))
	for i, l := range article.Links {
		links[i] = l.URL
	}

	if err := insert("article_authors", "name", authors); err != nil {
		return err
	}
	if err := insert("article_categories", "name", categories); err != nil {
		return err
	}
	return insert("article_links", "url", links)
}
