package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// OGMetaRecord is one row of get_tenant_og_meta.
type OGMetaRecord struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
}

// OGMetaStore calls the get_tenant_og_meta function.
type OGMetaStore struct {
	pool   *pgxpool.Pool
	schema string
}

// NewOGMetaStore creates a store.
func NewOGMetaStore(pool *pgxpool.Pool, schema string) (*OGMetaStore, error) {
	if pool == nil {
		return nil, errors.New("pool is required")
	}
	return &OGMetaStore{pool: pool, schema: schema}, nil
}

// Get returns social metadata for an active tenant or ErrNotFound.
func (s *OGMetaStore) Get(ctx context.Context, slug string) (OGMetaRecord, error) {
	query := fmt.Sprintf(`SELECT title, description, image FROM %s($1)`, qualified(s.schema, "get_tenant_og_meta"))
	var rec OGMetaRecord
	if err := s.pool.QueryRow(ctx, query, slug).Scan(&rec.Title, &rec.Description, &rec.Image); err != nil {
		return OGMetaRecord{}, mapNoRows(err)
	}
	return rec, nil
}
