package repo

import (
	"context"
	"errors"

	"github.com/zenGate-Global/rastro-saas/domains/ogmeta/be/service"
	"github.com/zenGate-Global/rastro-saas/platform/go/persistence"
)

// PostgresFetcher reads tenant metadata directly from the database function.
type PostgresFetcher struct {
	store *persistence.OGMetaStore
}

// NewPostgresFetcher creates a fetcher.
func NewPostgresFetcher(store *persistence.OGMetaStore) *PostgresFetcher {
	if store == nil {
		panic("og meta store is required")
	}
	return &PostgresFetcher{store: store}
}

// FetchOGMeta implements service.Fetcher.
func (f *PostgresFetcher) FetchOGMeta(ctx context.Context, slug string) (service.TenantMeta, error) {
	rec, err := f.store.Get(ctx, slug)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return service.TenantMeta{}, service.ErrNotFound
		}
		return service.TenantMeta{}, err
	}
	return service.TenantMeta{Title: rec.Title, Description: rec.Description, Image: rec.Image}, nil
}

var _ service.Fetcher = (*PostgresFetcher)(nil)
