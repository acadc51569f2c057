package repo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/zenGate-Global/rastro-saas/domains/ogmeta/be/service"
	"github.com/zenGate-Global/rastro-saas/platform/go/supabase"
)

const rpcGetTenantOGMeta = "get_tenant_og_meta"

// RPCFetcher loads tenant metadata through the hosted gateway's RPC endpoint.
type RPCFetcher struct {
	client *supabase.Client
}

// NewRPCFetcher creates a fetcher.
func NewRPCFetcher(client *supabase.Client) *RPCFetcher {
	if client == nil {
		panic("supabase client is required")
	}
	return &RPCFetcher{client: client}
}

// FetchOGMeta implements service.Fetcher. The function may answer with a single
// object or a set of rows; the first row wins.
func (f *RPCFetcher) FetchOGMeta(ctx context.Context, slug string) (service.TenantMeta, error) {
	var raw json.RawMessage
	if err := f.client.RPC(ctx, rpcGetTenantOGMeta, map[string]string{"p_slug": slug}, &raw); err != nil {
		return service.TenantMeta{}, err
	}
	return decodeMeta(raw)
}

func decodeMeta(raw json.RawMessage) (service.TenantMeta, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return service.TenantMeta{}, service.ErrNotFound
	}

	if raw[0] == '[' {
		var rows []service.TenantMeta
		if err := json.Unmarshal(raw, &rows); err != nil {
			return service.TenantMeta{}, fmt.Errorf("decode og meta rows: %w", err)
		}
		if len(rows) == 0 {
			return service.TenantMeta{}, service.ErrNotFound
		}
		return rows[0], nil
	}

	var meta service.TenantMeta
	if err := json.Unmarshal(raw, &meta); err != nil {
		return service.TenantMeta{}, fmt.Errorf("decode og meta: %w", err)
	}
	return meta, nil
}

var _ service.Fetcher = (*RPCFetcher)(nil)
