// Package repository holds the typed, per-entity repositories built on the
// document store.
package repository

import (
	"context"
	"errors"
	"fmt"

	"windstruck-api/internal/docstore"
	"windstruck-api/internal/domain"
)

// DocumentStore is the subset of *docstore.Store the repositories use.
type DocumentStore interface {
	Create(ctx context.Context, coll docstore.Collection, data docstore.Document) (docstore.Document, error)
	List(ctx context.Context, coll docstore.Collection, filter docstore.Filter, limit int) ([]docstore.Document, error)
	Get(ctx context.Context, coll docstore.Collection, id string) (docstore.Document, error)
}

// Translate maps document store errors onto domain errors. A failed store
// operation stays unavailable even when its cause is a miss, e.g. a record
// that cannot be read back after insert.
func Translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, docstore.ErrUnavailable):
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	case errors.Is(err, docstore.ErrNotFound):
		return domain.ErrNotFound
	default:
		return err
	}
}
