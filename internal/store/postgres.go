// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/lib/pq"

	"github.com/cenxiv/translation-engine/pkg/types"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// pgUniqueViolation is the Postgres error code for a unique-constraint
// violation.
const pgUniqueViolation = "23505"

// Postgres stores article versions in a PostgreSQL database.
type Postgres struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

// NewPostgres connects with the configured pool settings and applies
// the embedded migrations.
func NewPostgres(cfg types.StoreConfig) (*Postgres, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Postgres{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}, nil
}

func runMigrations(db *sql.DB) error {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("preparing migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("preparing migrations: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

// Close releases the database connection.
func (p *Postgres) Close() error {
	return p.db.Close()
}

// FindByIdentity returns the row for the identity, or ErrNotFound.
func (p *Postgres) FindByIdentity(ctx context.Context, archive, entryID string, version int) (*types.ArticleVersion, error) {
	return findByIdentity(ctx, p.db, p.builder, archive, entryID, version)
}

// Insert creates the article version and its children in one
// transaction. A unique-constraint violation maps to ErrDuplicate.
func (p *Postgres) Insert(ctx context.Context, article *types.ArticleVersion) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = p.builder.
		Insert("article_versions").
		Columns(articleColumns...).
		Values(articleValues(article)...).
		Suffix("RETURNING id").
		RunWith(tx).
		QueryRowContext(ctx).
		Scan(&id)
	if err != nil {
		if isPgUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("inserting article version: %w", err)
	}

	if err := insertChildren(ctx, tx, p.builder, id, article); err != nil {
		return err
	}
	return tx.Commit()
}

func isPgUniqueViolation(err error) bool {
	var pgErr *pq.Error
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
