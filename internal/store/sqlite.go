// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/mattn/go-sqlite3"

	"github.com/cenxiv/translation-engine/pkg/types"
)

// SQLite stores article versions in a local SQLite database.
type SQLite struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

// NewSQLite opens or creates the database at cfg.Path and ensures the
// schema exists.
func NewSQLite(cfg types.StoreConfig) (*SQLite, error) {
	path := cfg.Path
	if path == "" {
		path = "translation-engine.db"
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLite{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS article_versions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source_archive TEXT NOT NULL DEFAULT 'arxiv',
			entry_id TEXT NOT NULL,
			entry_version INTEGER NOT NULL,
			title_en TEXT NOT NULL,
			title_cn TEXT NOT NULL,
			abstract_en TEXT NOT NULL,
			abstract_cn TEXT NOT NULL,
			comment_en TEXT,
			comment_cn TEXT,
			journal_ref_en TEXT,
			journal_ref_cn TEXT,
			doi TEXT,
			primary_category TEXT NOT NULL,
			published_date TIMESTAMP NOT NULL,
			updated_date TIMESTAMP NOT NULL,
			translation_validated BOOLEAN NOT NULL DEFAULT 0,
			UNIQUE (source_archive, entry_id, entry_version)
		)`,
		`CREATE TABLE IF NOT EXISTS article_authors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			article_id INTEGER NOT NULL REFERENCES article_versions(id) ON DELETE CASCADE,
			name TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS article_categories (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			article_id INTEGER NOT NULL REFERENCES article_versions(id) ON DELETE CASCADE,
			name TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS article_links (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			article_id INTEGER NOT NULL REFERENCES article_versions(id) ON DELETE CASCADE,
			url TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_article_authors_article ON article_authors(article_id)`,
		`CREATE INDEX IF NOT EXISTS idx_article_categories_article ON article_categories(article_id)`,
		`CREATE INDEX IF NOT EXISTS idx_article_links_article ON article_links(article_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// FindByIdentity returns the row for the identity, or ErrNotFound.
func (s *SQLite) FindByIdentity(ctx context.Context, archive, entryID string, version int) (*types.ArticleVersion, error) {
	return findByIdentity(ctx, s.db, s.builder, archive, entryID, version)
}

// Insert creates the article version and its children in one
// transaction. A unique-constraint violation maps to ErrDuplicate.
func (s *SQLite) Insert(ctx context.Context, article *types.ArticleVersion) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := s.builder.
		Insert("article_versions").
		Columns(articleColumns...).
		Values(articleValues(article)...).
		RunWith(tx).
		ExecContext(ctx)
	if err != nil {
		if isSQLiteUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("inserting article version: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading insert id: %w", err)
	}

	if err := insertChildren(ctx, tx, s.builder, id, article); err != nil {
		return err
	}
	return tx.Commit()
}

func isSQLiteUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}
