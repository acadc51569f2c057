package repo

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/zenGate-Global/rastro-saas/domains/tenants/be/service"
)

// MemoryRepository is a simple in-memory implementation suitable for tests and local development.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]service.Tenant
	bySlug  map[string]uuid.UUID
	modules map[uuid.UUID]map[string]service.Module
}

// NewMemoryRepository constructs a MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[uuid.UUID]service.Tenant),
		bySlug:  make(map[string]uuid.UUID),
		modules: make(map[uuid.UUID]map[string]service.Module),
	}
}

// Put stores or replaces a tenant.
func (r *MemoryRepository) Put(t service.Tenant) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.byID[t.ID]; ok {
		delete(r.bySlug, prev.Slug)
	}
	r.byID[t.ID] = t
	r.bySlug[t.Slug] = t.ID
}

// PutModule stores or replaces a module flag.
func (r *MemoryRepository) PutModule(m service.Module) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.modules[m.TenantID] == nil {
		r.modules[m.TenantID] = make(map[string]service.Module)
	}
	r.modules[m.TenantID][m.Key] = m
}

func (r *MemoryRepository) FindBySlug(_ context.Context, slug string) (service.Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.bySlug[slug]
	if !ok {
		return service.Tenant{}, service.ErrNotFound
	}
	return r.byID[id], nil
}

func (r *MemoryRepository) ListEnabledModules(_ context.Context, tenantID uuid.UUID) ([]service.Module, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []service.Module
	for _, m := range r.modules[tenantID] {
		if m.Enabled {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}
