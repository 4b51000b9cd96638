// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists ArticleVersion rows with their owned author,
// category, and link collections. The composite unique key on
// (source_archive, entry_id, entry_version) is the pipeline's only
// synchronization primitive: concurrent writers race on Insert and the
// loser observes ErrDuplicate.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/cenxiv/translation-engine/pkg/types"
)

// ErrNotFound is returned by FindByIdentity when no row exists for the
// identity.
var ErrNotFound = errors.New("article version not found")

// ErrDuplicate is returned by Insert when a row for the identity already
// exists. Callers treat it as success: another writer created the
// canonical row.
var ErrDuplicate = errors.New("article version already exists")

// Store is the persistence interface the pipeline depends on.
type Store interface {
	// FindByIdentity returns the row for (archive, entryID, version)
	// with its child collections, or ErrNotFound.
	FindByIdentity(ctx context.Context, archive, entryID string, version int) (*types.ArticleVersion, error)

	// Insert creates the row and its children in one transaction.
	// A unique-constraint violation on the identity maps to
	// ErrDuplicate. Insert never updates existing rows.
	Insert(ctx context.Context, article *types.ArticleVersion) error

	// Close releases the underlying connection.
	Close() error
}

// New opens the store selected by cfg.Driver.
func New(cfg types.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case types.StoreSQLite, "":
		return NewSQLite(cfg)
	case types.StorePostgres:
		return NewPostgres(cfg)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
